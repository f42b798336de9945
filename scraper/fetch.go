package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/use-agent/shelfscan/config"
	"github.com/use-agent/shelfscan/models"
)

// Fetcher retrieves search-result pages one GET at a time, presenting a
// fixed desktop-browser header set. It never retries; the caller decides
// how to treat each failure.
type Fetcher struct {
	origin         string
	userAgent      string
	acceptLanguage string
	client         *http.Client
	limiter        *rate.Limiter
}

// NewFetcher creates a Fetcher from an immutable configuration snapshot.
func NewFetcher(cfg config.FetcherConfig) *Fetcher {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Fetcher{
		origin:         strings.TrimRight(cfg.Origin, "/"),
		userAgent:      cfg.UserAgent,
		acceptLanguage: cfg.AcceptLanguage,
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Origin returns the configured base origin.
func (f *Fetcher) Origin() string {
	return f.origin
}

// FetchPage issues one GET for the given query and page number and returns
// the page markup. query must already be URL-embeddable (spaces collapsed
// by the caller). Non-200 statuses, transport failures, and anything else
// come back as ScrapeErrors with distinct codes.
func (f *Fetcher) FetchPage(ctx context.Context, query string, page int) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", models.NewScrapeError(models.ErrCodeNetwork, "rate limiter wait interrupted", err)
	}

	target := fmt.Sprintf("%s/s?k=%s&page=%d", f.origin, query, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeFetchInternal, "build request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", f.acceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", classifyTransportError(target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", models.NewScrapeError(
			models.ErrCodeHTTPStatus,
			fmt.Sprintf("status %d for %s", resp.StatusCode, target),
			nil,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeNetwork, "read body", err)
	}

	slog.Debug("page fetched", "page", page, "title", extractTitle(body), "bytes", len(body))
	return string(body), nil
}

// classifyTransportError separates connection and timeout failures from
// anything unexpected.
func classifyTransportError(target string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return models.NewScrapeError(
			models.ErrCodeNetwork,
			fmt.Sprintf("request failed for %s", target),
			err,
		)
	}
	return models.NewScrapeError(
		models.ErrCodeFetchInternal,
		fmt.Sprintf("request failed for %s", target),
		err,
	)
}
