// Package extraction turns uploaded resume documents into plain text ready
// for analysis. PDF, DOCX and plain-text files are supported; extracted text
// is normalized to smooth over common PDF artifacts.
package extraction

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported document content types.
const (
	MimePDF  = "application/pdf"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// UnsupportedFormatError reports a document in a format the extractor cannot
// read.
type UnsupportedFormatError struct {
	Filename string
	Mime     string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type %q for %s", e.Mime, e.Filename)
}

// EmptyDocumentError reports a document that contained no usable text.
type EmptyDocumentError struct {
	Filename string
}

func (e *EmptyDocumentError) Error() string {
	return fmt.Sprintf("no text could be extracted from %s", e.Filename)
}

// ResumeText extracts and cleans the text of an uploaded resume. The
// declared content type decides the format; when it is missing or generic,
// the filename extension breaks the tie.
func ResumeText(data []byte, filename, mime string) (string, error) {
	raw, err := extract(data, filename, mime)
	if err != nil {
		return "", err
	}

	cleaned := CleanText(raw)
	if cleaned == "" {
		return "", &EmptyDocumentError{Filename: filename}
	}
	return cleaned, nil
}

func extract(data []byte, filename, mime string) (string, error) {
	switch resolveFormat(filename, mime) {
	case MimeText:
		return string(data), nil
	case MimePDF:
		return extractPDFText(data)
	case MimeDocx:
		return extractDocxText(data)
	default:
		return "", &UnsupportedFormatError{Filename: filename, Mime: mime}
	}
}

// resolveFormat maps a declared content type onto a supported format,
// tolerating parameters ("text/plain; charset=utf-8") and legacy aliases.
func resolveFormat(filename, mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}

	switch mime {
	case MimePDF, "application/x-pdf":
		return MimePDF
	case MimeDocx:
		return MimeDocx
	case MimeText:
		return MimeText
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDocx
	case ".txt":
		return MimeText
	}

	return mime
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(content)
		text.WriteString("\n")
	}
	return text.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	// The document body arrives as raw XML; drop the markup and keep
	// paragraph boundaries as line breaks.
	content := doc.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	return xmlTagPattern.ReplaceAllString(content, " "), nil
}
