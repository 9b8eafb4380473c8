package collect

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/civicdata/congress-roster/internal/congress"
	"github.com/civicdata/congress-roster/internal/models"
)

// ErrMalformedRecord marks a raw member that cannot be normalized. The
// collector skips such records instead of aborting the run.
var ErrMalformedRecord = errors.New("collect: malformed member record")

// Normalize maps a raw API member into a MemberRecord. Missing optional
// fields (party, district) become empty values; a missing bioguideId is
// the only fatal condition. The district is kept for House members only
// and dropped for senators regardless of what the payload carries.
func Normalize(raw congress.RawMember, chamber models.Chamber, fetchedAt time.Time) (models.MemberRecord, error) {
	id := strings.TrimSpace(raw.BioguideID)
	if id == "" {
		return models.MemberRecord{}, fmt.Errorf("%w: missing bioguideId", ErrMalformedRecord)
	}

	name := strings.TrimSpace(raw.Name)
	first, last := splitName(name)

	rec := models.MemberRecord{
		ID:          id,
		Name:        name,
		FirstName:   first,
		LastName:    last,
		Party:       strings.TrimSpace(raw.PartyName),
		State:       strings.TrimSpace(raw.State),
		Chamber:     chamber,
		Title:       chamber.Title(),
		URL:         raw.URL,
		InOffice:    true,
		LastUpdated: fetchedAt,
	}

	if chamber == models.ChamberHouse {
		rec.District = parseDistrict(raw.District)
	}

	return rec, nil
}

// splitName breaks the API's "Last, First Middle" form apart.
func splitName(name string) (first, last string) {
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, ",", 2)
	last = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		first = strings.TrimSpace(parts[1])
	}
	return first, last
}

// parseDistrict coerces the raw district value, which arrives as a JSON
// number or a numeric string, into an int. Fractional parts are
// truncated; anything unparseable is treated as absent.
func parseDistrict(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		d := int(n)
		return &d
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			d := int(f)
			return &d
		}
	}

	return nil
}
