package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/use-agent/shelfscan/config"
	"github.com/use-agent/shelfscan/extractor"
	"github.com/use-agent/shelfscan/models"
	"github.com/use-agent/shelfscan/pipeline"
	"github.com/use-agent/shelfscan/scraper"
	"github.com/use-agent/shelfscan/sink"
)

func main() {
	queryFlag := flag.String("query", "", "product search term; prompted for when omitted")
	pagesFlag := flag.String("pages", "", "number of pages to scrape; prompted for when omitted")
	flag.Parse()

	// ── 1. Load configuration and logging ───────────────────────────
	cfg := config.Load()
	initLogger(cfg.Log)

	// ── 2. Resolve and validate input before any network activity ───
	query, pages, err := readInput(*queryFlag, *pagesFlag, cfg.Pipeline.MaxPages)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	normalized := normalizeQuery(query)

	// ── 3. Wire the pipeline ────────────────────────────────────────
	fetcher := scraper.NewFetcher(cfg.Fetcher)
	ext := extractor.New(cfg.Fetcher.Origin)
	runner := pipeline.NewRunner(fetcher, ext, cfg.Pipeline)

	// ── 4. Run until done or interrupted ────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Scraping %d page(s) for %q...\n", pages, query)
	records, err := runner.Run(ctx, normalized, pages)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Accumulated records are discarded, nothing is flushed.
			fmt.Fprintln(os.Stderr, "Scraping interrupted; nothing written.")
		} else {
			fmt.Fprintf(os.Stderr, "Scraping failed: %v\n", err)
		}
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No products scraped. This might be due to:")
		fmt.Fprintln(os.Stderr, "  - the site blocking the request")
		fmt.Fprintln(os.Stderr, "  - no products matching the search term")
		fmt.Fprintln(os.Stderr, "  - a change in the site's page structure")
		fmt.Fprintln(os.Stderr, "  - network connectivity issues")
		os.Exit(1)
	}

	// ── 5. Write the output file ────────────────────────────────────
	path := filepath.Join(cfg.Output.Dir, outputFilename(normalized, cfg.Output.Suffix))
	n, err := sink.WriteCSV(records, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save results: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saved %d product(s) to %s\n", n, path)
}

// readInput resolves the query and page count from flags, prompting on
// stdin for whichever is missing, and validates both. Validation failures
// end the run before any network activity.
func readInput(query, pages string, maxPages int) (string, int, error) {
	reader := bufio.NewReader(os.Stdin)

	if query == "" {
		fmt.Print("Enter product to search for: ")
		line, _ := reader.ReadString('\n')
		query = line
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", 0, models.NewScrapeError(models.ErrCodeInvalidInput, "no search term provided", nil)
	}

	if pages == "" {
		fmt.Printf("Enter number of pages to scrape (1-%d): ", maxPages)
		line, _ := reader.ReadString('\n')
		pages = line
	}
	n, err := strconv.Atoi(strings.TrimSpace(pages))
	if err != nil {
		return "", 0, models.NewScrapeError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("page count must be a number between 1 and %d", maxPages),
			nil,
		)
	}
	if n < 1 || n > maxPages {
		return "", 0, models.NewScrapeError(
			models.ErrCodeInvalidInput,
			fmt.Sprintf("page count must be between 1 and %d", maxPages),
			nil,
		)
	}

	return query, n, nil
}

// normalizeQuery makes the search term URL-embeddable.
func normalizeQuery(query string) string {
	return strings.ReplaceAll(strings.TrimSpace(query), " ", "+")
}

// outputFilename derives the CSV filename from the normalized query.
func outputFilename(normalizedQuery, suffix string) string {
	return strings.ReplaceAll(normalizedQuery, "+", "_") + suffix
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
