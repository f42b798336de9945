package extractor

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// ContainerStrategy is one way of finding the product containers on a
// search-result page. Strategies are tried in order; the first one that
// matches anything wins and later strategies are not evaluated.
type ContainerStrategy struct {
	Name   string
	Locate func(doc *goquery.Document) *goquery.Selection
}

// bySelectorDoc compiles a CSS selector once so every page reuses it.
func bySelectorDoc(selector string) func(*goquery.Document) *goquery.Selection {
	m := cascadia.MustCompile(selector)
	return func(doc *goquery.Document) *goquery.Selection {
		return doc.FindMatcher(m)
	}
}

// DefaultContainerStrategies mirrors the retail site's markup variants,
// most specific first: the search-result component tag, the generic
// result-item class, and finally anything carrying a product identifier.
var DefaultContainerStrategies = []ContainerStrategy{
	{Name: "search-result component", Locate: bySelectorDoc(`div[data-component-type="s-search-result"]`)},
	{Name: "result-item class", Locate: bySelectorDoc(`div.s-result-item`)},
	{Name: "product-id attribute", Locate: bySelectorDoc(`div[data-asin]`)},
}

// Locate returns the product containers found by the first default strategy
// that yields a non-empty set. An empty selection means the page holds no
// recognizable products; that is a legitimate outcome, not an error.
func Locate(doc *goquery.Document) *goquery.Selection {
	return LocateWith(doc, DefaultContainerStrategies)
}

// LocateWith is Locate with a caller-supplied strategy list.
func LocateWith(doc *goquery.Document, strategies []ContainerStrategy) *goquery.Selection {
	for _, st := range strategies {
		if sel := st.Locate(doc); sel.Length() > 0 {
			return sel
		}
	}
	return doc.Selection.Slice(0, 0)
}
