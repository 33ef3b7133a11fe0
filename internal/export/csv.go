package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spigell/job-scout/internal/listing"
)

var csvHeader = []string{"Title", "Company", "Location", "Match Score", "Description", "Requirements", "URL"}

// CSV writes listings as comma separated values with a header row. The score
// column is empty for unscored listings.
func CSV(w io.Writer, l *listing.Listings) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range l.Items {
		if err := cw.Write([]string{
			r.Title,
			r.Company,
			r.Location,
			formatScore(r.Score),
			r.Description,
			r.Requirements,
			r.Link,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVFile writes listings to a new file at path.
func CSVFile(path string, l *listing.Listings) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer file.Close()

	if err := CSV(file, l); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return file.Close()
}
