// Package export writes ranked listings as CSV or Markdown.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spigell/job-scout/internal/listing"
)

const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatBoth     = "both"

	CSVFileName      = "job_matches.csv"
	MarkdownFileName = "job_matches.md"
)

// ToDir writes listings in the requested format into dir and returns the
// paths of the files written.
func ToDir(dir, format string, l *listing.Listings) ([]string, error) {
	var writeCSV, writeMarkdown bool
	switch format {
	case FormatCSV:
		writeCSV = true
	case FormatMarkdown:
		writeMarkdown = true
	case FormatBoth, "":
		writeCSV, writeMarkdown = true, true
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	if writeCSV {
		path := filepath.Join(dir, CSVFileName)
		if err := CSVFile(path, l); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if writeMarkdown {
		path := filepath.Join(dir, MarkdownFileName)
		if err := os.WriteFile(path, []byte(Markdown(l)), 0o644); err != nil {
			return written, fmt.Errorf("write markdown: %w", err)
		}
		written = append(written, path)
	}

	return written, nil
}

func formatScore(s *listing.Score) string {
	if s == nil {
		return ""
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}
