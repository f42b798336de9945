// Package pipeline drives the scrape: fetch each page, locate product
// containers, extract and filter records, and pace requests in between.
package pipeline

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/use-agent/shelfscan/config"
	"github.com/use-agent/shelfscan/extractor"
	"github.com/use-agent/shelfscan/models"
)

// PageFetcher fetches the markup of one search-result page.
type PageFetcher interface {
	FetchPage(ctx context.Context, query string, page int) (string, error)
}

// RecordExtractor turns one product container into a record.
type RecordExtractor interface {
	ExtractRecord(item *goquery.Selection) (models.ProductRecord, error)
}

// Runner owns the page loop and the record accumulator. It is strictly
// sequential: one request in flight, one container probed at a time.
type Runner struct {
	fetcher   PageFetcher
	extractor RecordExtractor
	delayMin  time.Duration
	delayMax  time.Duration
}

// NewRunner wires a Runner from its collaborators and pacing configuration.
func NewRunner(f PageFetcher, e RecordExtractor, cfg config.PipelineConfig) *Runner {
	min, max := cfg.DelayMin, cfg.DelayMax
	if max < min {
		max = min
	}
	return &Runner{
		fetcher:   f,
		extractor: e,
		delayMin:  min,
		delayMax:  max,
	}
}

// Run scrapes pages 1..pages for the query and returns every valid record.
// A fetch failure or an unrecognizable page costs only that page; an
// extraction failure costs only that container. Only context cancellation
// aborts the run, in which case the partial accumulator is abandoned.
func (r *Runner) Run(ctx context.Context, query string, pages int) ([]models.ProductRecord, error) {
	log := slog.With("run", uuid.New().String(), "query", query, "pages", pages)

	var records []models.ProductRecord
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Info("scraping page", "page", page)

		n, err := r.scrapePage(ctx, log, query, page, &records)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("page skipped", "page", page, "error", err)
		} else if n == 0 {
			log.Warn("no recognizable products on page", "page", page)
		} else {
			log.Info("page processed", "page", page, "containers", n)
		}

		// Pause after every page, the last one included.
		if err := r.pause(ctx); err != nil {
			return nil, err
		}
	}

	log.Info("run complete", "records", len(records))
	return records, nil
}

// scrapePage fetches one page, locates its containers, and appends every
// valid record to acc. It returns the number of containers located.
func (r *Runner) scrapePage(ctx context.Context, log *slog.Logger, query string, page int, acc *[]models.ProductRecord) (int, error) {
	markup, err := r.fetcher.FetchPage(ctx, query, page)
	if err != nil {
		return 0, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return 0, models.NewScrapeError(models.ErrCodeExtraction, "parse page markup", err)
	}

	items := extractor.Locate(doc)
	if items.Length() == 0 {
		return 0, nil
	}

	failed := 0
	items.Each(func(_ int, item *goquery.Selection) {
		rec, err := r.extractor.ExtractRecord(item)
		if err != nil {
			failed++
			return
		}
		if rec.Valid() {
			*acc = append(*acc, rec)
		}
	})
	if failed > 0 {
		log.Warn("containers skipped", "page", page, "count", failed)
	}

	return items.Length(), nil
}

// pause blocks for a random delay uniformly chosen in [delayMin, delayMax],
// or returns early with the context's error on cancellation.
func (r *Runner) pause(ctx context.Context) error {
	d := r.delayMin
	if span := r.delayMax - r.delayMin; span > 0 {
		d += time.Duration(rand.Int63n(int64(span) + 1))
	}
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
