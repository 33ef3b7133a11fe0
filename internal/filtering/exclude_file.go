package filtering

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-scout/internal/listing"
	"github.com/spigell/job-scout/internal/logger"
)

type excludeFileFilter struct {
	path   string
	logger *zap.Logger
}

// NewExcludeFile creates a filter that removes listings whose links are
// listed in the file at path, one per line. Lines starting with # are ignored.
func NewExcludeFile(path string, l *zap.Logger) Filter {
	return &excludeFileFilter{
		path:   strings.TrimSpace(path),
		logger: logger.OrNop(l),
	}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, l *listing.Listings) (*listing.Listings, Step, error) {
	initial := l.Len()
	if f.path == "" {
		return l, newStep(initial, l), nil
	}

	links, err := readExcludedLinks(f.path)
	if err != nil {
		return l, Step{}, fmt.Errorf("getting excluded links from file: %w", err)
	}

	removed := l.ExcludeLinks(links)
	if len(removed) > 0 {
		f.logger.Info("excluding listings based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_listings", removed),
			zap.Int("listings_left", l.Len()),
		)
	}

	return l, newStep(initial, l), nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

func readExcludedLinks(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var links []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		links = append(links, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return links, nil
}
