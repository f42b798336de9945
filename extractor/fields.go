package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/shelfscan/models"
)

var (
	// reRating matches a single decimal digit, a period, and a single
	// decimal digit, e.g. the "4.5" in "4.5 out of 5 stars".
	reRating = regexp.MustCompile(`\d\.\d`)

	// reReviews matches a run of digits and grouping commas.
	reReviews = regexp.MustCompile(`[\d,]+`)
)

// fieldStrategy is one ranked way of locating a field's element inside a
// product container.
type fieldStrategy struct {
	name string
	find func(*goquery.Selection) *goquery.Selection
}

// bySelector compiles a CSS selector once and returns a finder over a
// container selection.
func bySelector(selector string) func(*goquery.Selection) *goquery.Selection {
	m := cascadia.MustCompile(selector)
	return func(s *goquery.Selection) *goquery.Selection {
		return s.FindMatcher(m)
	}
}

// nameStrategies, most specific heading first.
var nameStrategies = []fieldStrategy{
	{name: "mini heading", find: bySelector("h2.a-size-mini")},
	{name: "any heading", find: bySelector("h2")},
	{name: "medium text span", find: bySelector("span.a-size-medium")},
}

// reviewsStrategies resolve on element existence, not on digit content: a
// matching element whose text holds no digits still ends the chain.
var reviewsStrategies = []fieldStrategy{
	{name: "small-text span", find: bySelector("span.a-size-base")},
	{name: "normal link", find: bySelector("a.a-link-normal")},
	{name: "reviews-count testid", find: bySelector(`span[data-testid="reviews-count"]`)},
}

// Sub-element selectors for the price container.
var (
	priceContainer = cascadia.MustCompile("span.a-price")
	priceWhole     = cascadia.MustCompile("span.a-price-whole")
	priceFraction  = cascadia.MustCompile("span.a-price-fraction")
	priceRange     = cascadia.MustCompile("span.a-price-range")
	ratingAlt      = cascadia.MustCompile("span.a-icon-alt")
	normalLink     = cascadia.MustCompile("a.a-link-normal")
)

// firstMatch returns the first element located by any strategy, in order.
func firstMatch(item *goquery.Selection, strategies []fieldStrategy) (*goquery.Selection, bool) {
	for _, st := range strategies {
		if sel := st.find(item); sel.Length() > 0 {
			return sel.First(), true
		}
	}
	return nil, false
}

// extractName walks the heading fallback chain and returns the trimmed
// text of the first element found. An element with empty text still wins
// the chain; the validity filter drops the record later.
func extractName(item *goquery.Selection) string {
	sel, ok := firstMatch(item, nameStrategies)
	if !ok {
		return models.Unavailable
	}
	return strings.TrimSpace(sel.Text())
}

// extractPrice reads the price container. With both whole and fraction
// sub-elements present the price is "${whole}.{fraction}"; with a range
// sub-element it is the range's trimmed text. A container holding only a
// whole part resolves to the sentinel.
func extractPrice(item *goquery.Selection) string {
	container := item.FindMatcher(priceContainer).First()
	if container.Length() == 0 {
		return models.Unavailable
	}

	whole := container.FindMatcher(priceWhole).First()
	fraction := container.FindMatcher(priceFraction).First()
	if whole.Length() > 0 && fraction.Length() > 0 {
		return fmt.Sprintf("$%s.%s", strings.TrimSpace(whole.Text()), strings.TrimSpace(fraction.Text()))
	}

	if r := container.FindMatcher(priceRange).First(); r.Length() > 0 {
		return strings.TrimSpace(r.Text())
	}

	return models.Unavailable
}

// extractRating pulls the first d.d substring out of the icon alt text.
func extractRating(item *goquery.Selection) string {
	alt := item.FindMatcher(ratingAlt).First()
	if alt.Length() == 0 {
		return models.Unavailable
	}
	if m := reRating.FindString(alt.Text()); m != "" {
		return m
	}
	return models.Unavailable
}

// extractReviews walks the reviews fallback chain and normalizes the count
// by stripping grouping commas. Absent or digitless text defaults to "0",
// never the sentinel.
func extractReviews(item *goquery.Selection) string {
	sel, ok := firstMatch(item, reviewsStrategies)
	if !ok {
		return "0"
	}
	if m := reReviews.FindString(strings.TrimSpace(sel.Text())); m != "" {
		return strings.ReplaceAll(m, ",", "")
	}
	return "0"
}

// extractURL joins the origin with the first normal link's relative href.
// The href is not validated.
func extractURL(item *goquery.Selection, origin string) string {
	link := item.FindMatcher(normalLink).First()
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return models.Unavailable
	}
	return origin + href
}
