package cli

import (
	"io"

	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/rileyhilliard/pimanager/internal/command"
	"github.com/rileyhilliard/pimanager/internal/config"
	"github.com/rileyhilliard/pimanager/internal/export"
	"github.com/rileyhilliard/pimanager/internal/logger"
	"github.com/rileyhilliard/pimanager/internal/poller"
	"github.com/rileyhilliard/pimanager/internal/prefs"
	"github.com/rileyhilliard/pimanager/internal/reports"
	"github.com/spf13/cobra"
)

// app is everything a command needs, built from the resolved config.
type app struct {
	cfg    *config.Config
	client *api.Client
	saver  export.Saver
	log    logger.Logger
	out    io.Writer
}

// loadApp resolves config and builds the API client and download saver.
func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(conf, configFlag)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	log := logger.NewEnvLogger("pimanager")
	log.Debug("using %s (poll %s, timeout %s)", cfg.BaseURL, cfg.PollInterval, cfg.RequestTimeout)

	client := api.New(cfg.BaseURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(log),
	)

	return &app{
		cfg:    cfg,
		client: client,
		saver:  export.NewDirSaver(cfg.DownloadDir),
		log:    log,
		out:    cmd.OutOrStdout(),
	}, nil
}

func (a *app) poller() *poller.Poller {
	return poller.New(a.client, a.cfg.PollInterval, a.log)
}

func (a *app) exporter() *export.Exporter {
	return export.NewExporter(a.saver, a.log)
}

func (a *app) bundler() *reports.Bundler {
	return reports.NewBundler(a.client, a.saver, a.log)
}

// runners returns one command runner per known diagnostic command.
func (a *app) runners() []*command.Runner {
	defs := command.Definitions()
	out := make([]*command.Runner, len(defs))
	for i, def := range defs {
		out[i] = command.NewRunner(def, a.client, a.log)
	}
	return out
}

func (a *app) prefs() (*prefs.Settings, error) {
	return prefs.Load(a.cfg.PrefsPath)
}
