package resume

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Skills</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Py</w:t></w:r><w:r><w:t>thon, R&amp;D</w:t></w:r></w:p>` +
	`<w:p></w:p>` +
	`<w:p><w:r><w:t>Experience</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t xml:space="preserve">Senior Dev   at Acme</w:t></w:r></w:p>` +
	`</w:body></w:document>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDocx(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": documentRels,
	} {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestDecodeTXT(t *testing.T) {
	text, err := Decode(".TXT", []byte("\n  Skills\nGo, Rust \n"))

	require.NoError(t, err)
	require.Equal(t, "Skills\nGo, Rust", text)
}

func TestDecodeTXTInvalidUTF8(t *testing.T) {
	_, err := Decode("txt", []byte{0xff, 0xfe, 0xfd})

	require.ErrorIs(t, err, errInvalidTXT)
	require.ErrorContains(t, err, "reading resume file")
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode("odt", []byte("whatever"))

	require.ErrorContains(t, err, `reading resume file: unsupported file type "odt"`)
}

func TestDecodeMalformedPDF(t *testing.T) {
	_, err := Decode("pdf", []byte("definitely not a pdf"))

	require.ErrorContains(t, err, "reading resume file")
}

func TestDecodeDOCX(t *testing.T) {
	text, err := Decode("docx", buildDocx(t))

	require.NoError(t, err)
	require.Equal(t, "Jane Doe\nSkills\nPython, R&D\nExperience\nSenior Dev at Acme", text)

	record := Parse(text)
	require.Equal(t, "Acme", record.Experience[0].Company)
	require.Contains(t, record.Skills, "python")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Experience\nDev at Initech\n"), 0o600))

	text, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Experience\nDev at Initech", text)

	_, err = ReadFile(filepath.Join(dir, "missing.pdf"))
	require.ErrorContains(t, err, "reading resume file")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDocumentXMLToText(t *testing.T) {
	t.Parallel()

	got := documentXMLToText(`<w:p><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t><w:br/><w:t>C &lt;D&gt;</w:t></w:r></w:p>`)

	require.Equal(t, "A B\nC <D>", got)
}
