// Package extractor locates product containers on a search-result page and
// turns each container into a ProductRecord via ordered per-field fallback
// chains with first-match-wins semantics.
package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/shelfscan/models"
)

// Extractor turns located product containers into records.
type Extractor struct {
	origin string
}

// New creates an Extractor. origin is prepended to relative product hrefs.
func New(origin string) *Extractor {
	return &Extractor{origin: strings.TrimRight(origin, "/")}
}

// ExtractRecord probes one product container for every field. It never
// returns a partial record: a panic while probing is recovered and reported
// as an extraction error, so the container contributes nothing.
func (e *Extractor) ExtractRecord(item *goquery.Selection) (rec models.ProductRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = models.ProductRecord{}
			err = models.NewScrapeError(
				models.ErrCodeExtraction,
				fmt.Sprintf("container probe panicked: %v", r),
				nil,
			)
		}
	}()

	rec = models.ProductRecord{
		Name:    extractName(item),
		Price:   extractPrice(item),
		Rating:  extractRating(item),
		Reviews: extractReviews(item),
		URL:     extractURL(item, e.origin),
	}
	return rec, nil
}
