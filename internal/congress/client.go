package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/civicdata/congress-roster/internal/models"
)

// MaxPageLimit is the largest page size the Congress.gov API accepts.
const MaxPageLimit = 250

// RawMember carries one element of the /member list as the API returns
// it. The client does not interpret these fields; domain meaning is
// assigned by the normalizer.
type RawMember struct {
	BioguideID string          `json:"bioguideId"`
	Name       string          `json:"name"`
	PartyName  string          `json:"partyName"`
	State      string          `json:"state"`
	District   json.RawMessage `json:"district"` // number or numeric string, often absent
	URL        string          `json:"url"`
	Terms      struct {
		Item []RawTerm `json:"item"`
	} `json:"terms"`
}

// RawTerm is one entry of a member's term history.
type RawTerm struct {
	Chamber   string `json:"chamber"`
	StartYear int    `json:"startYear"`
}

// Page is one page of the paginated member listing.
type Page struct {
	Members []RawMember
	HasMore bool
}

type memberListResponse struct {
	Members    []RawMember `json:"members"`
	Pagination struct {
		Count int    `json:"count"`
		Next  string `json:"next"`
	} `json:"pagination"`
}

// Client talks to the Congress.gov v3 API.
type Client struct {
	http   *resty.Client
	apiKey string
	log    *slog.Logger
}

// NewClient builds a client for the given base URL (e.g.
// "https://api.congress.gov/v3"). The API key may be empty; in that
// case every FetchPage call fails with ErrAuth before touching the
// network.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	hc := resty.New()
	hc.SetBaseURL(baseURL)
	hc.SetTimeout(timeout)
	hc.SetHeader("accept", "application/json")

	return &Client{http: hc, apiKey: apiKey, log: logger}
}

// FetchPage retrieves one page of current members for a chamber. The
// limit is clamped to MaxPageLimit. HasMore is derived from the
// response's pagination block, with a fewer-than-limit fallback for
// responses that omit it.
func (c *Client) FetchPage(ctx context.Context, chamber models.Chamber, offset, limit int) (Page, error) {
	if c.apiKey == "" {
		return Page{}, fmt.Errorf("%w: CONGRESS_API_KEY is not set", ErrAuth)
	}
	if offset < 0 {
		return Page{}, fmt.Errorf("%w: negative offset %d", ErrBadRequest, offset)
	}
	if limit <= 0 || limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	var out memberListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"format":  "json",
			"limit":   strconv.Itoa(limit),
			"offset":  strconv.Itoa(offset),
			"chamber": string(chamber),
			"api_key": c.apiKey,
		}).
		SetResult(&out).
		Get("/member")
	if err != nil {
		return Page{}, fmt.Errorf("%w: fetch %s members at offset %d: %v", ErrTransient, chamber, offset, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return Page{}, fmt.Errorf("%w: %s members at offset %d: %s", ErrAuth, chamber, offset, resp.Status())
	case code >= http.StatusInternalServerError:
		return Page{}, fmt.Errorf("%w: %s members at offset %d: %s", ErrTransient, chamber, offset, resp.Status())
	case resp.IsError():
		return Page{}, fmt.Errorf("%w: %s members at offset %d: %s", ErrBadRequest, chamber, offset, resp.Status())
	}

	c.log.Debug("fetched member page",
		slog.String("chamber", string(chamber)),
		slog.Int("offset", offset),
		slog.Int("members", len(out.Members)),
		slog.Int("total", out.Pagination.Count),
	)

	hasMore := out.Pagination.Next != "" && len(out.Members) >= limit
	return Page{Members: out.Members, HasMore: hasMore}, nil
}
