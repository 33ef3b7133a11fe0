package listing

import (
	"cmp"
	"encoding/json"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Listings is an ordered collection of records.
type Listings struct {
	Items []*Record `json:"items"`
}

// New wraps the provided records.
func New(items ...*Record) *Listings {
	return &Listings{Items: items}
}

func (l *Listings) Len() int {
	return len(l.Items)
}

// Append adds records to the end of the collection.
func (l *Listings) Append(items ...*Record) {
	l.Items = append(l.Items, items...)
}

// Dedupe keeps the first record for every Key and returns the keys of the
// removed duplicates. Order of the survivors is preserved.
func (l *Listings) Dedupe() []string {
	seen := make(map[string]struct{}, len(l.Items))
	return l.remove(func(r *Record) bool {
		key := r.Key()
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
		return false
	})
}

// Rank drops unscored records and records scoring below threshold, then sorts
// the rest by score, highest first. Equal scores keep their relative order.
// It returns the keys of the dropped records.
func (l *Listings) Rank(threshold float64) []string {
	dropped := l.remove(func(r *Record) bool {
		return r.Score == nil || r.Score.Value < threshold
	})

	slices.SortStableFunc(l.Items, func(a, b *Record) int {
		return cmp.Compare(b.Score.Value, a.Score.Value)
	})

	return dropped
}

// ExcludeDefaulted drops records whose score is a fallback value.
func (l *Listings) ExcludeDefaulted() []string {
	return l.remove(func(r *Record) bool {
		return r.Score != nil && r.Score.Defaulted
	})
}

// ExcludeCompanies drops records whose company matches one of names,
// ignoring case and surrounding whitespace.
func (l *Listings) ExcludeCompanies(names []string) []string {
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name = normalize(name); name != "" {
			targets[name] = struct{}{}
		}
	}

	return l.remove(func(r *Record) bool {
		_, ok := targets[normalize(r.Company)]
		return ok
	})
}

// ExcludeLinks drops records whose link is one of links.
func (l *Listings) ExcludeLinks(links []string) []string {
	targets := make(map[string]struct{}, len(links))
	for _, link := range links {
		if link = strings.TrimSpace(link); link != "" {
			targets[link] = struct{}{}
		}
	}

	return l.remove(func(r *Record) bool {
		_, ok := targets[strings.TrimSpace(r.Link)]
		return ok
	})
}

// ReportByCompany groups a short description of every record by company.
func (l *Listings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, r := range l.Items {
		entry := map[string]string{
			"title":    r.Title,
			"location": r.Location,
			"link":     r.Link,
			"source":   r.Source,
		}
		if r.Score != nil {
			entry["match_score"] = strconv.FormatFloat(r.Score.Value, 'f', -1, 64)
			if r.Score.Defaulted {
				entry["score_defaulted"] = "true"
				entry["score_reason"] = r.Score.Reason
			}
		}
		report[r.Company] = append(report[r.Company], entry)
	}
	return report
}

// DumpToTmpFile writes the listings as indented JSON to a new temporary file
// and returns its name.
func (l *Listings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "listings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// remove drops every record for which drop returns true, preserving the
// order of the rest, and returns the keys of the dropped records.
func (l *Listings) remove(drop func(*Record) bool) []string {
	var removed []string
	kept := l.Items[:0]
	for _, r := range l.Items {
		if drop(r) {
			removed = append(removed, r.Key())
			continue
		}
		kept = append(kept, r)
	}
	clear(l.Items[len(kept):])
	l.Items = kept
	return removed
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
