package resume

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported resume file extensions.
const (
	ExtPDF  = "pdf"
	ExtDOCX = "docx"
	ExtTXT  = "txt"
)

var (
	xmlTag        = regexp.MustCompile(`<[^>]+>`)
	inlineSpace   = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	errInvalidTXT = errors.New("text file is not valid UTF-8")
)

// ReadFile decodes the resume stored at path using its extension.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading resume file %q: %w", path, err)
	}

	text, err := decode(filepath.Ext(path), data)
	if err != nil {
		return "", fmt.Errorf("reading resume file %q: %w", path, err)
	}

	return text, nil
}

// Decode converts the file contents to plain text. The extension may be
// given with or without the leading dot.
func Decode(ext string, data []byte) (string, error) {
	text, err := decode(ext, data)
	if err != nil {
		return "", fmt.Errorf("reading resume file: %w", err)
	}

	return text, nil
}

func decode(ext string, data []byte) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")

	var (
		text string
		err  error
	)

	switch ext {
	case ExtPDF:
		text, err = pdfText(data)
	case ExtDOCX:
		text, err = docxText(data)
	case ExtTXT:
		if !utf8.Valid(data) {
			err = errInvalidTXT
		}
		text = string(data)
	default:
		err = fmt.Errorf("unsupported file type %q (expected %s, %s or %s)", ext, ExtPDF, ExtDOCX, ExtTXT)
	}

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

func pdfText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}

		b.WriteString(pageText)
		b.WriteString("\n")
	}

	return b.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	return documentXMLToText(doc.Editable().GetContent()), nil
}

// documentXMLToText flattens WordprocessingML into lines, one per paragraph.
func documentXMLToText(content string) string {
	replacer := strings.NewReplacer(
		"</w:p>", "\n",
		"<w:br/>", "\n",
		"<w:tab/>", "\t",
	)
	content = replacer.Replace(content)
	content = xmlTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}
