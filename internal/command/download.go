package command

import (
	"strings"
	"time"
	"unicode"

	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/rileyhilliard/pimanager/internal/export"
)

// timestampLayout matches an ISO 8601 UTC instant with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// DownloadName builds the file name for saving a command's output:
// <title>_<timestamp>_output.txt. Leading symbols such as emoji are dropped
// from the title, whitespace runs become '_', and the timestamp has ':' and
// '.' replaced by '-'.
func DownloadName(title string, now time.Time) string {
	stamp := now.UTC().Format(timestampLayout)
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return fileTitle(title) + "_" + stamp + "_output.txt"
}

func fileTitle(title string) string {
	title = strings.TrimLeftFunc(title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return "command"
	}
	return strings.Join(fields, "_")
}

// Download saves raw under DownloadName(title, now). The raw text is saved,
// never the partially revealed prefix.
func Download(saver export.Saver, title, raw string, now time.Time) (string, error) {
	name := DownloadName(title, now)
	path, err := saver.Save(name, []byte(raw))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrExport,
			"Failed to save "+name,
			"Check download_dir is writable")
	}
	return path, nil
}
