// Package export turns dashboard series into CSV files and writes finished
// downloads (CSV, command output, report bundles) to disk.
package export

import (
	stderrors "errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/rileyhilliard/pimanager/internal/api"
	"github.com/rileyhilliard/pimanager/internal/errors"
	"github.com/rileyhilliard/pimanager/internal/logger"
)

// File names used by the dashboard's export actions.
const (
	QueriesFile      = "queries.csv"
	BlockedFile      = "blocked.csv"
	DevicesFile      = "devices.csv"
	SpeedHistoryFile = "speedtest_history.csv"
)

// json encodes cell values. HTML characters are written as-is so "&" and
// "<" survive into spreadsheets.
var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// ErrMisalignedColumns is returned when a record's keys differ from the
// header taken from the first record.
var ErrMisalignedColumns = stderrors.New("records do not share the same columns")

// Field is one key/value pair of a record.
type Field struct {
	Key   string
	Value interface{}
}

// Record is an ordered set of fields. Column order comes from the first
// record of an export.
type Record []Field

// Keys returns the field keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value for key and whether it was present.
func (r Record) Get(key string) (interface{}, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// EncodeCSV renders records as CSV text. The header row is the first
// record's keys; every value is JSON-encoded so strings come out quoted and
// escaped. Rows are joined with "\n" and there is no trailing newline.
// Empty input yields "".
func EncodeCSV(records []Record) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	headers := records[0].Keys()
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(headers, ","))

	for i, rec := range records {
		if err := checkColumns(headers, rec); err != nil {
			return "", fmt.Errorf("row %d: %w", i+1, err)
		}

		cells := make([]string, len(headers))
		for j, h := range headers {
			v, _ := rec.Get(h)
			if v == nil {
				v = ""
			}
			enc, err := json.Marshal(v)
			if err != nil {
				return "", fmt.Errorf("row %d column %s: %w", i+1, h, err)
			}
			cells[j] = string(enc)
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n"), nil
}

func checkColumns(headers []string, rec Record) error {
	if len(rec) != len(headers) {
		return fmt.Errorf("%w: want %d columns, got %d", ErrMisalignedColumns, len(headers), len(rec))
	}
	for _, h := range headers {
		if _, ok := rec.Get(h); !ok {
			return fmt.Errorf("%w: missing %q", ErrMisalignedColumns, h)
		}
	}
	return nil
}

// Exporter encodes records and hands them to a Saver.
type Exporter struct {
	saver Saver
	log   logger.Logger
}

// NewExporter creates an exporter writing through saver.
func NewExporter(saver Saver, log logger.Logger) *Exporter {
	if log == nil {
		log = logger.Noop()
	}
	return &Exporter{saver: saver, log: log}
}

// Export writes records as CSV under filename and returns the saved path.
// With no records nothing is written and the path is "".
func (e *Exporter) Export(records []Record, filename string) (string, error) {
	if len(records) == 0 {
		e.log.Debug("export %s skipped: no records", filename)
		return "", nil
	}

	text, err := EncodeCSV(records)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrExport,
			"Cannot export "+filename,
			"The series changed shape mid-export; refresh and try again")
	}

	path, err := e.saver.Save(filename, []byte(text))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrExport,
			"Failed to save "+filename,
			"Check download_dir is writable")
	}

	e.log.Info("exported %d rows to %s", len(records), path)
	return path, nil
}

// QueryRecords converts the query series.
func QueryRecords(points []api.QueryPoint) []Record {
	out := make([]Record, len(points))
	for i, p := range points {
		out[i] = Record{{Key: "time", Value: p.Time}, {Key: "queries", Value: p.Queries}}
	}
	return out
}

// BlockedRecords converts the blocked series.
func BlockedRecords(points []api.BlockedPoint) []Record {
	out := make([]Record, len(points))
	for i, p := range points {
		out[i] = Record{{Key: "time", Value: p.Time}, {Key: "blocked", Value: p.Blocked}}
	}
	return out
}

// DeviceRecords converts the device usage list.
func DeviceRecords(devices []api.DeviceUsage) []Record {
	out := make([]Record, len(devices))
	for i, d := range devices {
		out[i] = Record{{Key: "device", Value: d.Device}, {Key: "queries", Value: d.Queries}}
	}
	return out
}

// SpeedRecords converts the speed test history.
func SpeedRecords(samples []api.SpeedSample) []Record {
	out := make([]Record, len(samples))
	for i, s := range samples {
		out[i] = Record{
			{Key: "time", Value: s.Time},
			{Key: "download", Value: s.Download},
			{Key: "upload", Value: s.Upload},
		}
	}
	return out
}
