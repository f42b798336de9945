package models

import "strings"

// Unavailable marks a field whose value could not be extracted from the
// page markup. Fields are always populated; absence of data is represented
// by this sentinel, never by an empty record.
const Unavailable = "N/A"

// ProductRecord is one product extracted from a search-result page.
// Records are immutable after construction.
type ProductRecord struct {
	// Name is the product title. A record with an empty or unavailable
	// name never enters the output set.
	Name string

	// Price is currency-formatted ("$19.99"), a textual range, or the
	// sentinel.
	Price string

	// Rating is a decimal in [0.0, 5.0] with one fractional digit, or the
	// sentinel.
	Rating string

	// Reviews is a non-negative integer with grouping separators stripped.
	// It defaults to "0" and is never the sentinel.
	Reviews string

	// URL is the absolute product URL, or the sentinel.
	URL string
}

// Valid reports whether the record may enter the output set.
func (r ProductRecord) Valid() bool {
	name := strings.TrimSpace(r.Name)
	return name != "" && name != Unavailable
}
