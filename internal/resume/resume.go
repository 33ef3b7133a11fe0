// Package resume turns plain resume text into a structured Record.
package resume

// Section names a block of resume text identified by its heading.
type Section string

const (
	SectionHeader     Section = "header"
	SectionSummary    Section = "summary"
	SectionSkills     Section = "skills"
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
	SectionOther      Section = "other"
)

// Sections lists every section key a Record carries, in document order.
var Sections = []Section{
	SectionHeader,
	SectionSummary,
	SectionSkills,
	SectionExperience,
	SectionEducation,
	SectionOther,
}

// Record is the structured form of a resume. It is built once by Parse and
// treated as read-only afterwards.
type Record struct {
	RawText    string             `json:"raw_text"`
	Sections   map[Section]string `json:"sections"`
	Skills     []string           `json:"skills"`
	Experience []Experience       `json:"experience"`
	Education  []Education        `json:"education"`
}

// Experience is a single position from the experience section.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Education is a single entry from the education section.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Details     string `json:"details"`
}

// Parse segments text and extracts every field from it.
func Parse(text string) *Record {
	return Extract(text, Segment(text))
}

// Extract builds a Record from the raw text and its segmented sections.
func Extract(text string, sections map[Section]string) *Record {
	return &Record{
		RawText:    text,
		Sections:   sections,
		Skills:     ExtractSkills(text, sections),
		Experience: ExtractExperience(sections),
		Education:  ExtractEducation(sections),
	}
}

// Section returns the text of the named section or an empty string.
func (r *Record) Section(s Section) string {
	if r == nil {
		return ""
	}
	return r.Sections[s]
}
