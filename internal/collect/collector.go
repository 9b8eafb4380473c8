package collect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/civicdata/congress-roster/internal/congress"
	"github.com/civicdata/congress-roster/internal/dedupe"
	"github.com/civicdata/congress-roster/internal/models"
)

var (
	// ErrFetchFailed marks a page that stayed transiently broken through
	// every retry attempt.
	ErrFetchFailed = errors.New("collect: page fetch failed after retries")

	// ErrEmptySnapshot signals a run that collected zero members, which
	// points at an upstream outage rather than an empty Congress.
	ErrEmptySnapshot = errors.New("collect: no members collected")
)

// chamberOrder fixes the snapshot ordering: all House records first,
// then Senate, pages in API order. Keeping this stable keeps diffs
// between daily snapshots small.
var chamberOrder = []models.Chamber{models.ChamberHouse, models.ChamberSenate}

// PageFetcher is the slice of the API client the collector needs.
type PageFetcher interface {
	FetchPage(ctx context.Context, chamber models.Chamber, offset, limit int) (congress.Page, error)
}

// Options tune pagination and retry behavior.
type Options struct {
	PageLimit     int
	RetryAttempts int
	RetryDelay    time.Duration
	Now           func() time.Time
}

// Collector walks both chambers page by page, normalizing and
// deduplicating members into one ordered snapshot.
type Collector struct {
	client        PageFetcher
	log           *slog.Logger
	pageLimit     int
	retryAttempts int
	retryDelay    time.Duration
	now           func() time.Time
}

// New builds a collector. Zero option fields fall back to defaults
// (page limit 250, 3 attempts, 2s delay, wall clock).
func New(client PageFetcher, logger *slog.Logger, opts Options) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.PageLimit <= 0 || opts.PageLimit > congress.MaxPageLimit {
		opts.PageLimit = congress.MaxPageLimit
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 2 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Collector{
		client:        client,
		log:           logger,
		pageLimit:     opts.PageLimit,
		retryAttempts: opts.RetryAttempts,
		retryDelay:    opts.RetryDelay,
		now:           opts.Now,
	}
}

// CollectAll fetches every page of every chamber and returns the
// deduplicated snapshot. Every record in one run carries the same
// LastUpdated timestamp. Auth and bad-request failures abort
// immediately; transient failures are retried per page before the run
// is given up.
func (c *Collector) CollectAll(ctx context.Context) ([]models.MemberRecord, error) {
	fetchedAt := c.now().UTC().Truncate(time.Second)
	seen := dedupe.NewSet()
	var records []models.MemberRecord

	for _, chamber := range chamberOrder {
		offset := 0
		for {
			page, err := c.fetchWithRetry(ctx, chamber, offset)
			if err != nil {
				return nil, err
			}

			for _, raw := range page.Members {
				rec, err := Normalize(raw, chamber, fetchedAt)
				if err != nil {
					c.log.Warn("skipping malformed member record",
						slog.String("chamber", string(chamber)),
						slog.Int("offset", offset),
						slog.Any("err", err),
					)
					continue
				}
				if !seen.Add(rec.ID) {
					c.log.Debug("duplicate member id", slog.String("id", rec.ID))
					continue
				}
				records = append(records, rec)
			}

			if !page.HasMore {
				break
			}
			offset += c.pageLimit
		}

		c.log.Info("chamber collected",
			slog.String("chamber", string(chamber)),
			slog.Int("members_total", seen.Len()),
		)
	}

	if len(records) == 0 {
		return nil, ErrEmptySnapshot
	}
	return records, nil
}

func (c *Collector) fetchWithRetry(ctx context.Context, chamber models.Chamber, offset int) (congress.Page, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		page, err := c.client.FetchPage(ctx, chamber, offset, c.pageLimit)
		if err == nil {
			return page, nil
		}
		if !errors.Is(err, congress.ErrTransient) {
			return congress.Page{}, err
		}
		lastErr = err

		if attempt < c.retryAttempts {
			c.log.Warn("transient fetch failure, retrying",
				slog.String("chamber", string(chamber)),
				slog.Int("offset", offset),
				slog.Int("attempt", attempt),
				slog.Any("err", err),
			)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return congress.Page{}, ctx.Err()
			}
		}
	}

	return congress.Page{}, fmt.Errorf("%w: %s offset %d after %d attempts: %w",
		ErrFetchFailed, chamber, offset, c.retryAttempts, lastErr)
}
