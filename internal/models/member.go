package models

import "time"

// Chamber identifies one of the two houses of Congress.
type Chamber string

const (
	ChamberHouse  Chamber = "House"
	ChamberSenate Chamber = "Senate"
)

// Title returns the display title used for members of the chamber.
func (c Chamber) Title() string {
	if c == ChamberSenate {
		return "Senator"
	}
	return "Representative"
}

// MemberRecord is the canonical snapshot row for one legislator.
// District is set only for House members; senators carry no district.
type MemberRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Party       string    `json:"party"`
	State       string    `json:"state"`
	District    *int      `json:"district,omitempty"`
	Chamber     Chamber   `json:"chamber"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	InOffice    bool      `json:"inOffice"`
	LastUpdated time.Time `json:"lastUpdated"`
}
