package reports

import (
	"archive/zip"
	"bytes"
	"context"
	"sync/atomic"

	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/rileyhilliard/pimanager/internal/export"
	"github.com/rileyhilliard/pimanager/internal/logger"
)

// BundleFileName is the name the downloaded archive is saved under.
const BundleFileName = "PiReports.zip"

// Guard errors. Neither issues a request.
var (
	ErrEmptySelection = errors.New(errors.ErrBundle, "No reports selected", "Select at least one report to bundle.")
	ErrInFlight       = errors.New(errors.ErrBundle, "A bundle is already being prepared", "Wait for the current download to finish.")
)

// Source produces a bundle archive for a list of report names.
// *api.Client implements it.
type Source interface {
	Bundle(ctx context.Context, reports []string) ([]byte, error)
}

// Result describes a saved bundle.
type Result struct {
	Path    string
	Size    int
	Members []string
}

// Bundler requests report bundles and saves them. At most one request is in
// flight at a time.
type Bundler struct {
	src      Source
	saver    export.Saver
	log      logger.Logger
	inFlight atomic.Bool
}

// NewBundler creates a bundler.
func NewBundler(src Source, saver export.Saver, log logger.Logger) *Bundler {
	if log == nil {
		log = logger.Noop()
	}
	return &Bundler{src: src, saver: saver, log: log}
}

// InFlight reports whether a bundle request is running.
func (b *Bundler) InFlight() bool {
	return b.inFlight.Load()
}

// CanDownload reports whether Download would issue a request for sel.
func (b *Bundler) CanDownload(sel Selection) bool {
	return !sel.Empty() && !b.InFlight()
}

// Download requests a bundle of the selected reports and saves it as
// PiReports.zip. It returns ErrEmptySelection or ErrInFlight without
// contacting the Pi. The in-flight flag is cleared on every exit path.
func (b *Bundler) Download(ctx context.Context, sel Selection) (Result, error) {
	if sel.Empty() {
		return Result{}, ErrEmptySelection
	}
	if !b.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrInFlight
	}
	defer b.inFlight.Store(false)

	names := sel.Names()
	b.log.Debug("requesting bundle for %v", names)

	data, err := b.src.Bundle(ctx, names)
	if err != nil {
		return Result{}, errors.WrapWithCode(err, errors.ErrBundle,
			"Bundle request failed",
			"Check the Pi is reachable and try again.")
	}

	path, err := b.saver.Save(BundleFileName, data)
	if err != nil {
		return Result{}, errors.WrapWithCode(err, errors.ErrBundle,
			"Failed to save "+BundleFileName,
			"Check download_dir is writable")
	}

	res := Result{Path: path, Size: len(data)}
	members, err := ListMembers(data)
	if err != nil {
		b.log.Warn("saved %s but could not read it as a zip: %v", path, err)
	} else {
		res.Members = members
	}

	b.log.Info("saved bundle %s (%d bytes, %d files)", path, res.Size, len(res.Members))
	return res, nil
}

// ListMembers returns the file names inside a zip archive.
func ListMembers(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}
