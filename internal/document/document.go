// Package document pulls raw text out of uploaded portfolio documents.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the detected document type.
type Kind int

const (
	Unsupported Kind = iota
	PlainText
	PDF
	DOCX
	CSV
)

func (k Kind) String() string {
	switch k {
	case PlainText:
		return "text"
	case PDF:
		return "pdf"
	case DOCX:
		return "docx"
	case CSV:
		return "csv"
	default:
		return "unsupported"
	}
}

var (
	// ErrUnsupported is returned for document kinds that cannot be read.
	ErrUnsupported = errors.New("unsupported document type")
	// ErrNoText is returned when a document yields no text.
	ErrNoText = errors.New("could not extract text from document")
	// ErrNotText is returned by Extract for CSV documents, which are parsed
	// into rows rather than turned into text.
	ErrNotText = errors.New("csv documents carry rows, not text")
)

var mimeKinds = map[string]Kind{
	"text/plain":      PlainText,
	"text/markdown":   PlainText,
	"application/pdf": PDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": DOCX,
	"text/csv":                 CSV,
	"application/csv":          CSV,
	"application/vnd.ms-excel": CSV,
}

var extKinds = map[string]Kind{
	".txt":  PlainText,
	".md":   PlainText,
	".pdf":  PDF,
	".docx": DOCX,
	".csv":  CSV,
}

// DetectKind maps a MIME type, falling back to the file extension, to a Kind.
func DetectKind(mime, filename string) Kind {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if k, ok := mimeKinds[mime]; ok {
		return k
	}
	if k, ok := extKinds[strings.ToLower(filepath.Ext(filename))]; ok {
		return k
	}
	return Unsupported
}

// Extract returns the text of a document of the given kind.
func Extract(kind Kind, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch kind {
	case PlainText:
		text, err = ExtractPlainText(data)
	case PDF:
		text, err = ExtractPDF(data)
	case DOCX:
		text, err = ExtractDOCX(data)
	case CSV:
		return "", ErrNotText
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w (%s)", ErrNoText, kind)
	}
	return text, nil
}

// ExtractPlainText returns data as UTF-8 text.
func ExtractPlainText(data []byte) (string, error) {
	return strings.ToValidUTF8(string(data), ""), nil
}
