package resume

import (
	"regexp"
	"slices"
	"strings"
)

// vocabulary is matched as a plain substring of the lowercased resume.
var vocabulary = []string{
	// languages
	"python", "java", "javascript", "c++", "ruby", "php",
	// web
	"html", "css", "react", "angular", "vue", "node.js",
	// frameworks
	"django", "flask", "spring", "express",
	// databases
	"sql", "mysql", "postgresql", "mongodb", "redis",
	// cloud and devops
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins",
	// other
	"git", "agile", "scrum", "jira", "machine learning",
}

var (
	skillDelimiters = regexp.MustCompile(`[,•|/\n]`)

	// dateToken matches "Jan", "Jan.", "Jan 2020", "January 2020" but not
	// words such as "Decided".
	dateToken = regexp.MustCompile(`\b(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\b\.?(?:\s*\d{4}\b)?`)

	graduationYear = regexp.MustCompile(`\b20\d{2}\b`)
)

const (
	titleCompanySeparator = " at "
	present               = "Present"
)

// ExtractSkills collects skills listed in the skills section together with
// vocabulary terms found anywhere in the text. The result is lowercased,
// deduplicated and sorted.
func ExtractSkills(text string, sections map[Section]string) []string {
	set := make(map[string]struct{})

	for _, candidate := range skillDelimiters.Split(sections[SectionSkills], -1) {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if candidate == "" {
			continue
		}
		set[candidate] = struct{}{}
	}

	lower := strings.ToLower(text)
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			set[term] = struct{}{}
		}
	}

	skills := make([]string, 0, len(set))
	for skill := range set {
		skills = append(skills, skill)
	}
	slices.Sort(skills)

	return skills
}

// ExtractExperience parses the experience section into positions.
func ExtractExperience(sections map[Section]string) []Experience {
	text := sections[SectionExperience]
	if strings.TrimSpace(text) == "" {
		return []Experience{}
	}

	lines := strings.Split(text, "\n")
	opens := func(i int) bool { return positionHeader(lines, i) }
	if !hasHeader(lines) {
		// Free-form section, fall back to every capitalized line.
		opens = func(i int) bool { return startsUpper(lines[i]) }
	}

	var entries []Experience
	for _, block := range splitBlocks(lines, opens) {
		first, rest := headAndTail(block)

		entry := Experience{Title: first}
		if parts := strings.Split(first, titleCompanySeparator); len(parts) >= 2 {
			entry.Title = strings.TrimSpace(parts[0])
			entry.Company = strings.TrimSpace(parts[1])
		}

		dates := dateToken.FindAllString(block, -1)
		switch {
		case len(dates) >= 2:
			entry.Duration = dates[0] + " - " + dates[1]
		case len(dates) == 1:
			entry.Duration = dates[0] + " - " + present
		}

		entry.Description = rest
		entries = append(entries, entry)
	}

	if entries == nil {
		return []Experience{}
	}
	return entries
}

// ExtractEducation parses the education section into entries.
func ExtractEducation(sections map[Section]string) []Education {
	text := sections[SectionEducation]
	if strings.TrimSpace(text) == "" {
		return []Education{}
	}

	lines := strings.Split(text, "\n")

	var entries []Education
	for _, block := range splitBlocks(lines, func(i int) bool { return startsUpper(lines[i]) }) {
		first, rest := headAndTail(block)

		entry := Education{Institution: first}
		if parts := strings.Split(first, ","); len(parts) >= 2 {
			entry.Degree = strings.TrimSpace(parts[0])
			entry.Institution = strings.TrimSpace(parts[1])
		}

		entry.Year = graduationYear.FindString(block)
		entry.Details = rest
		entries = append(entries, entry)
	}

	if entries == nil {
		return []Education{}
	}
	return entries
}

// positionHeader reports whether lines[i] opens a position: a capitalized
// line that is not itself a date and either reads "Title at Company" or is
// directly followed by a date line.
func positionHeader(lines []string, i int) bool {
	line := lines[i]
	if !startsUpper(line) || startsWithDate(line) {
		return false
	}
	if strings.Contains(line, titleCompanySeparator) {
		return true
	}
	for _, next := range lines[i+1:] {
		if strings.TrimSpace(next) == "" {
			continue
		}
		return startsWithDate(next)
	}
	return false
}

func startsWithDate(line string) bool {
	loc := dateToken.FindStringIndex(strings.TrimSpace(line))
	return loc != nil && loc[0] == 0
}

func hasHeader(lines []string) bool {
	for i := range lines {
		if positionHeader(lines, i) {
			return true
		}
	}
	return false
}

// splitBlocks groups lines into blocks. A new block starts at every line for
// which opens returns true, except the very first line which always starts one.
func splitBlocks(lines []string, opens func(int) bool) []string {
	var (
		blocks  []string
		current []string
	)

	flush := func() {
		block := strings.TrimSpace(strings.Join(current, "\n"))
		if block != "" {
			blocks = append(blocks, block)
		}
		current = current[:0]
	}

	for i, line := range lines {
		if len(current) > 0 && opens(i) {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

func headAndTail(block string) (string, string) {
	first, rest, _ := strings.Cut(block, "\n")
	return strings.TrimSpace(first), strings.TrimSpace(rest)
}

func startsUpper(line string) bool {
	return line != "" && line[0] >= 'A' && line[0] <= 'Z'
}
