package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/civicdata/congress-roster/internal/models"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.MemberRecord {
	district := 11
	fetchedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []models.MemberRecord{
		{
			ID:          "P000197",
			Name:        "Pelosi, Nancy",
			FirstName:   "Nancy",
			LastName:    "Pelosi",
			Party:       "Democratic",
			State:       "CA",
			District:    &district,
			Chamber:     models.ChamberHouse,
			Title:       "Representative",
			URL:         "https://api.congress.gov/v3/member/P000197",
			InOffice:    true,
			LastUpdated: fetchedAt,
		},
		{
			ID:          "S000033",
			Name:        "Sanders, Bernard",
			FirstName:   "Bernard",
			LastName:    "Sanders",
			Party:       "Independent",
			State:       "VT",
			Chamber:     models.ChamberSenate,
			Title:       "Senator",
			URL:         "https://api.congress.gov/v3/member/S000033",
			InOffice:    true,
			LastUpdated: fetchedAt,
		},
	}
}

func TestWriteProducesAllFourFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	paths, err := w.Write(sampleRecords(), "2025-06-01")
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, "congress_members_2025-06-01.json"), paths.JSON)
	require.Equal(t, filepath.Join(dir, "congress_members_2025-06-01.csv"), paths.CSV)
	require.Equal(t, filepath.Join(dir, "congress_members_latest.json"), paths.JSONLatest)
	require.Equal(t, filepath.Join(dir, "congress_members_latest.csv"), paths.CSVLatest)

	for _, p := range []string{paths.JSON, paths.CSV, paths.JSONLatest, paths.CSVLatest} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		require.Positive(t, info.Size())
	}

	// Dated and latest files carry identical bytes.
	dated, err := os.ReadFile(paths.JSON)
	require.NoError(t, err)
	latest, err := os.ReadFile(paths.JSONLatest)
	require.NoError(t, err)
	require.Equal(t, dated, latest)

	datedCSV, err := os.ReadFile(paths.CSV)
	require.NoError(t, err)
	latestCSV, err := os.ReadFile(paths.CSVLatest)
	require.NoError(t, err)
	require.Equal(t, datedCSV, latestCSV)
}

func TestWriteCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	w := NewWriter(dir, nil)

	_, err := w.Write(sampleRecords(), "2025-06-01")
	require.NoError(t, err)
	require.DirExists(t, dir)
}

func TestWriteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)
	records := sampleRecords()

	paths, err := w.Write(records, "2025-06-01")
	require.NoError(t, err)
	firstJSON, err := os.ReadFile(paths.JSONLatest)
	require.NoError(t, err)
	firstCSV, err := os.ReadFile(paths.CSVLatest)
	require.NoError(t, err)

	_, err = w.Write(records, "2025-06-01")
	require.NoError(t, err)
	secondJSON, err := os.ReadFile(paths.JSONLatest)
	require.NoError(t, err)
	secondCSV, err := os.ReadFile(paths.CSVLatest)
	require.NoError(t, err)

	require.Equal(t, firstJSON, secondJSON)
	require.Equal(t, firstCSV, secondCSV)
}

func TestWriteJSONCSVRoundTripAgree(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)
	records := sampleRecords()

	paths, err := w.Write(records, "2025-06-01")
	require.NoError(t, err)

	data, err := os.ReadFile(paths.JSON)
	require.NoError(t, err)
	var parsed []models.MemberRecord
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Equal(t, records, parsed)

	f, err := os.Open(paths.CSV)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Equal(t, csvHeader, rows[0])
	require.Len(t, rows, len(records)+1)

	for i, rec := range records {
		row := rows[i+1]
		require.Equal(t, rec.ID, row[0])
		require.Equal(t, rec.Name, row[1])
		require.Equal(t, rec.FirstName, row[2])
		require.Equal(t, rec.LastName, row[3])
		require.Equal(t, rec.Party, row[4])
		require.Equal(t, rec.State, row[5])
		if rec.District != nil {
			require.Equal(t, strconv.Itoa(*rec.District), row[6])
		} else {
			require.Empty(t, row[6])
		}
		require.Equal(t, string(rec.Chamber), row[7])
		require.Equal(t, rec.Title, row[8])
		require.Equal(t, rec.URL, row[9])
		require.Equal(t, strconv.FormatBool(rec.InOffice), row[10])
		require.Equal(t, rec.LastUpdated.Format(time.RFC3339), row[11])
	}
}

func TestWriteQuotesFieldsWithCommas(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	paths, err := w.Write(sampleRecords(), "2025-06-01")
	require.NoError(t, err)

	f, err := os.Open(paths.CSV)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	// "Last, First" names survive the comma-delimited round trip.
	require.Equal(t, "Pelosi, Nancy", rows[1][1])
}

func TestWriteAtomicFailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "congress_members_latest.json")
	prior := []byte(`[{"id":"OLD"}]`)
	require.NoError(t, os.WriteFile(path, prior, 0o644))

	boom := errors.New("disk full")
	err := writeAtomic(path, func(dst io.Writer) error {
		_, _ = dst.Write([]byte(`[{"id":"NE`)) // partial new content
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Prior content untouched, no temp files left behind.
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, prior, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
