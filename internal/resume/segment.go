package resume

import (
	"regexp"
	"strings"
)

// headings are evaluated in order; the first match wins.
var headings = []struct {
	section Section
	pattern *regexp.Regexp
}{
	{SectionSummary, regexp.MustCompile(`(?i)^(summary|objective|profile)`)},
	{SectionSkills, regexp.MustCompile(`(?i)^(skills|technologies|technical expertise)`)},
	{SectionExperience, regexp.MustCompile(`(?i)^(experience|employment|work history)`)},
	{SectionEducation, regexp.MustCompile(`(?i)^(education|academic|qualifications)`)},
}

// Segment splits resume text into sections. Lines before the first heading
// belong to the header section. Heading lines are not emitted, and a repeated
// heading starts its section over.
func Segment(text string) map[Section]string {
	buffers := make(map[Section]*strings.Builder, len(Sections))
	for _, s := range Sections {
		buffers[s] = &strings.Builder{}
	}

	current := SectionHeader
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if section, ok := matchHeading(line); ok {
			current = section
			buffers[current].Reset()
			continue
		}

		buffers[current].WriteString(line)
		buffers[current].WriteString("\n")
	}

	sections := make(map[Section]string, len(buffers))
	for s, b := range buffers {
		sections[s] = b.String()
	}

	return sections
}

func matchHeading(line string) (Section, bool) {
	for _, h := range headings {
		if h.pattern.MatchString(line) {
			return h.section, true
		}
	}
	return "", false
}
