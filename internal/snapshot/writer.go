package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/civicdata/congress-roster/internal/models"
)

// ErrWrite marks any persistence failure. A failed write never leaves a
// "latest" file half-replaced; the previous content survives intact.
var ErrWrite = errors.New("snapshot: write failed")

const filePrefix = "congress_members"

// csvHeader fixes the CSV column order; it matches the JSON field order
// of MemberRecord so both formats stay diffable against each other.
var csvHeader = []string{
	"id", "name", "firstName", "lastName", "party", "state",
	"district", "chamber", "title", "url", "inOffice", "lastUpdated",
}

// Paths lists the four files produced by one snapshot write.
type Paths struct {
	JSON       string
	CSV        string
	JSONLatest string
	CSVLatest  string
}

// Writer persists snapshots to a directory as dated archive files plus
// always-overwritten "latest" files, in JSON and CSV.
type Writer struct {
	dir string
	log *slog.Logger
}

// NewWriter targets dir, which is created on first write if missing.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Writer{dir: dir, log: logger}
}

// Write serializes records to congress_members_<dateStamp>.{json,csv}
// and congress_members_latest.{json,csv}. Each file is written to a
// temporary file in the same directory and atomically renamed into
// place; the first failure aborts with ErrWrite and removes its
// temporary file. Writing the same records twice produces byte-identical
// output.
func (w *Writer) Write(records []models.MemberRecord, dateStamp string) (Paths, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("%w: create output dir %s: %v", ErrWrite, w.dir, err)
	}

	paths := Paths{
		JSON:       w.filePath(dateStamp, "json"),
		CSV:        w.filePath(dateStamp, "csv"),
		JSONLatest: w.filePath("latest", "json"),
		CSVLatest:  w.filePath("latest", "csv"),
	}

	outputs := []struct {
		path   string
		encode func(io.Writer) error
	}{
		{paths.JSON, func(dst io.Writer) error { return encodeJSON(dst, records) }},
		{paths.CSV, func(dst io.Writer) error { return encodeCSV(dst, records) }},
		{paths.JSONLatest, func(dst io.Writer) error { return encodeJSON(dst, records) }},
		{paths.CSVLatest, func(dst io.Writer) error { return encodeCSV(dst, records) }},
	}

	for _, out := range outputs {
		if err := writeAtomic(out.path, out.encode); err != nil {
			return Paths{}, fmt.Errorf("%w: %s: %v", ErrWrite, out.path, err)
		}
		w.log.Debug("snapshot file written", slog.String("path", out.path))
	}

	return paths, nil
}

func (w *Writer) filePath(stamp, ext string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_%s.%s", filePrefix, stamp, ext))
}

func encodeJSON(dst io.Writer, records []models.MemberRecord) error {
	enc := json.NewEncoder(dst)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func encodeCSV(dst io.Writer, records []models.MemberRecord) error {
	cw := csv.NewWriter(dst)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		district := ""
		if rec.District != nil {
			district = strconv.Itoa(*rec.District)
		}
		row := []string{
			rec.ID,
			rec.Name,
			rec.FirstName,
			rec.LastName,
			rec.Party,
			rec.State,
			district,
			string(rec.Chamber),
			rec.Title,
			rec.URL,
			strconv.FormatBool(rec.InOffice),
			rec.LastUpdated.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
