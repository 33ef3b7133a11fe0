package resume

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane@example.com

Summary
Backend engineer with a taste for distributed systems.

Skills
Python, Java, SQL
Docker | Kubernetes • Go/Rust

Experience
Senior Dev at Acme
Jan 2020 - Mar 2023
Built the billing pipeline
Owned on-call rotation
Developer at Globex
Jun. 2017
Wrote internal tools

Education
BSc Computer Science, MIT
2016
magna cum laude
`

func TestSegmentAssignsLinesToSections(t *testing.T) {
	sections := Segment(sampleResume)

	require.Len(t, sections, len(Sections))
	require.Equal(t, "Jane Doe\njane@example.com\n", sections[SectionHeader])
	require.Equal(t, "Backend engineer with a taste for distributed systems.\n", sections[SectionSummary])
	require.Equal(t, "Python, Java, SQL\nDocker | Kubernetes • Go/Rust\n", sections[SectionSkills])
	require.Equal(t, "BSc Computer Science, MIT\n2016\nmagna cum laude\n", sections[SectionEducation])
	require.Empty(t, sections[SectionOther])
}

func TestSegmentHeadingMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		expect Section
		ok     bool
	}{
		{name: "case insensitive", line: "WORK HISTORY", expect: SectionExperience, ok: true},
		{name: "prefix match", line: "Technical Expertise & Tools", expect: SectionSkills, ok: true},
		{name: "summary aliases", line: "Objective", expect: SectionSummary, ok: true},
		{name: "education aliases", line: "Academic background", expect: SectionEducation, ok: true},
		{name: "anchored at start", line: "My skills", ok: false},
		{name: "first pattern wins", line: "Profile skills", expect: SectionSummary, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			section, ok := matchHeading(tt.line)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expect, section)
		})
	}
}

func TestSegmentRepeatedHeadingStartsOver(t *testing.T) {
	sections := Segment("Skills\nPython\nExperience\nDev at X\nSkills\nGo\n")

	require.Equal(t, "Go\n", sections[SectionSkills])
	require.Equal(t, "Dev at X\n", sections[SectionExperience])
}

func TestSegmentEmptyInput(t *testing.T) {
	sections := Segment("")

	for _, s := range Sections {
		value, ok := sections[s]
		require.True(t, ok, "missing section %s", s)
		require.Empty(t, value)
	}
}
