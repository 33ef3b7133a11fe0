package export

import (
	"strings"

	"github.com/spigell/job-scout/internal/listing"
)

const (
	unknownPosition = "Unknown Position"
	unknown         = "Unknown"
)

// Markdown renders listings as a Markdown document.
func Markdown(l *listing.Listings) string {
	var b strings.Builder
	b.WriteString("# Job Matches\n\n")

	for _, r := range l.Items {
		b.WriteString("## " + orDefault(r.Title, unknownPosition) + "\n\n")
		b.WriteString("**Company:** " + orDefault(r.Company, unknown) + "\n\n")
		b.WriteString("**Location:** " + orDefault(r.Location, unknown) + "\n\n")

		if r.Score != nil {
			b.WriteString("**Match Score:** " + formatScore(r.Score) + "%\n\n")
		}
		if r.Description != "" {
			b.WriteString("### Description\n\n" + r.Description + "\n\n")
		}
		if r.Requirements != "" {
			b.WriteString("### Requirements\n\n" + r.Requirements + "\n\n")
		}
		if r.Link != "" {
			b.WriteString("[Apply Here](" + r.Link + ")\n\n")
		}

		b.WriteString("---\n\n")
	}

	return b.String()
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
