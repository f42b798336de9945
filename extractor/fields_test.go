package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/shelfscan/models"
)

const testOrigin = "https://www.example.com"

// itemFromHTML wraps a container fragment in a page and returns the
// div.item selection the extractors probe.
func itemFromHTML(t *testing.T, fragment string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + fragment + "</body></html>"))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	sel := doc.Find("div.item")
	if sel.Length() == 0 {
		t.Fatal("fixture holds no div.item container")
	}
	return sel.First()
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			"mini heading wins over medium span",
			`<div class="item"><span class="a-size-medium">Span Name</span><h2 class="a-size-mini">Mini Name</h2></div>`,
			"Mini Name",
		},
		{
			"plain heading fallback",
			`<div class="item"><h2>  Plain Name  </h2></div>`,
			"Plain Name",
		},
		{
			"medium span fallback",
			`<div class="item"><span class="a-size-medium">Span Name</span></div>`,
			"Span Name",
		},
		{
			"no name element yields sentinel",
			`<div class="item"><span class="a-size-base">123 ratings</span></div>`,
			models.Unavailable,
		},
		{
			"empty heading wins the chain with empty text",
			`<div class="item"><h2 class="a-size-mini"></h2><span class="a-size-medium">Span Name</span></div>`,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractName(itemFromHTML(t, tt.fragment))
			if got != tt.want {
				t.Errorf("extractName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			"whole and fraction",
			`<div class="item"><span class="a-price"><span class="a-price-whole">19</span><span class="a-price-fraction">99</span></span></div>`,
			"$19.99",
		},
		{
			"range text",
			`<div class="item"><span class="a-price"><span class="a-price-range"> $10.00 - $25.00 </span></span></div>`,
			"$10.00 - $25.00",
		},
		{
			"whole only yields sentinel",
			`<div class="item"><span class="a-price"><span class="a-price-whole">19</span></span></div>`,
			models.Unavailable,
		},
		{
			"fraction only yields sentinel",
			`<div class="item"><span class="a-price"><span class="a-price-fraction">99</span></span></div>`,
			models.Unavailable,
		},
		{
			"no price container",
			`<div class="item"><h2>Name</h2></div>`,
			models.Unavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractPrice(itemFromHTML(t, tt.fragment))
			if got != tt.want {
				t.Errorf("extractPrice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractRating(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			"stars alt text",
			`<div class="item"><span class="a-icon-alt">4.5 out of 5 stars</span></div>`,
			"4.5",
		},
		{
			"first decimal wins",
			`<div class="item"><span class="a-icon-alt">3.9 out of 5.0</span></div>`,
			"3.9",
		},
		{
			"no decimal in text",
			`<div class="item"><span class="a-icon-alt">five stars</span></div>`,
			models.Unavailable,
		},
		{
			"no alt element",
			`<div class="item"><h2>Name</h2></div>`,
			models.Unavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractRating(itemFromHTML(t, tt.fragment))
			if got != tt.want {
				t.Errorf("extractRating() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractReviews(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			"grouped count with commas stripped",
			`<div class="item"><span class="a-size-base">1,234 ratings</span></div>`,
			"1234",
		},
		{
			"link fallback when no base span",
			`<div class="item"><a class="a-link-normal" href="/p/1">567 reviews</a></div>`,
			"567",
		},
		{
			"testid span fallback",
			`<div class="item"><span data-testid="reviews-count">89</span></div>`,
			"89",
		},
		{
			"no reviews element defaults to zero",
			`<div class="item"><h2>Name</h2></div>`,
			"0",
		},
		{
			"digitless first element ends the chain at zero",
			`<div class="item"><span class="a-size-base">bestseller</span><a class="a-link-normal" href="/p/1">567 reviews</a></div>`,
			"0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractReviews(itemFromHTML(t, tt.fragment))
			if got != tt.want {
				t.Errorf("extractReviews() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractURL(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			"relative href joined with origin",
			`<div class="item"><a class="a-link-normal" href="/dp/B000?ref=sr">buy</a></div>`,
			testOrigin + "/dp/B000?ref=sr",
		},
		{
			"no link yields sentinel",
			`<div class="item"><h2>Name</h2></div>`,
			models.Unavailable,
		},
		{
			"empty href yields sentinel",
			`<div class="item"><a class="a-link-normal" href="">buy</a></div>`,
			models.Unavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractURL(itemFromHTML(t, tt.fragment), testOrigin)
			if got != tt.want {
				t.Errorf("extractURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractRecord_AllFields(t *testing.T) {
	fragment := `<div class="item">
		<h2 class="a-size-mini"> Wireless Headphones </h2>
		<span class="a-price"><span class="a-price-whole">19</span><span class="a-price-fraction">99</span></span>
		<span class="a-icon-alt">4.5 out of 5 stars</span>
		<span class="a-size-base">1,234 ratings</span>
		<a class="a-link-normal" href="/dp/B000">buy</a>
	</div>`

	rec, err := New(testOrigin).ExtractRecord(itemFromHTML(t, fragment))
	if err != nil {
		t.Fatalf("ExtractRecord() error = %v", err)
	}

	want := models.ProductRecord{
		Name:    "Wireless Headphones",
		Price:   "$19.99",
		Rating:  "4.5",
		Reviews: "1234",
		URL:     testOrigin + "/dp/B000",
	}
	if rec != want {
		t.Errorf("ExtractRecord() = %+v, want %+v", rec, want)
	}
}

func TestExtractRecord_BareContainer(t *testing.T) {
	rec, err := New(testOrigin).ExtractRecord(itemFromHTML(t, `<div class="item"></div>`))
	if err != nil {
		t.Fatalf("ExtractRecord() error = %v", err)
	}

	want := models.ProductRecord{
		Name:    models.Unavailable,
		Price:   models.Unavailable,
		Rating:  models.Unavailable,
		Reviews: "0",
		URL:     models.Unavailable,
	}
	if rec != want {
		t.Errorf("ExtractRecord() = %+v, want %+v", rec, want)
	}
	if rec.Valid() {
		t.Error("bare container record should not be valid")
	}
}

func TestExtractRecord_RecoversFromPanic(t *testing.T) {
	// A nil selection makes every field probe panic; the container must
	// contribute an error, not a partial record.
	rec, err := New(testOrigin).ExtractRecord(nil)
	if err == nil {
		t.Fatal("ExtractRecord(nil) expected an error")
	}
	if code := models.ErrorCode(err); code != models.ErrCodeExtraction {
		t.Errorf("error code = %q, want %q", code, models.ErrCodeExtraction)
	}
	if rec != (models.ProductRecord{}) {
		t.Errorf("expected zero record, got %+v", rec)
	}
}
