// Package sink serializes accumulated product records to a delimited
// tabular file.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/use-agent/shelfscan/models"
)

// Header is the fixed column order of the output file.
var Header = []string{"name", "price", "rating", "reviews", "url"}

// WriteCSV creates path, writes the header row and one row per record, and
// releases the file on every exit path. It returns the number of records
// written.
func WriteCSV(records []models.ProductRecord, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, models.NewScrapeError(models.ErrCodeSink, fmt.Sprintf("create %s", path), err)
	}

	w := csv.NewWriter(f)
	writeErr := func() error {
		if err := w.Write(Header); err != nil {
			return err
		}
		for _, rec := range records {
			row := []string{rec.Name, rec.Price, rec.Rating, rec.Reviews, rec.URL}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}()

	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return 0, models.NewScrapeError(models.ErrCodeSink, fmt.Sprintf("write %s", path), writeErr)
	}

	return len(records), nil
}
