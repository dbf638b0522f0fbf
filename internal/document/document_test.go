package document

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		mime, filename string
		want           Kind
	}{
		{"application/pdf", "cv.pdf", PDF},
		{"text/plain; charset=utf-8", "", PlainText},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "", DOCX},
		{"text/csv", "", CSV},
		{"application/octet-stream", "portfolio.CSV", CSV},
		{"", "notes.md", PlainText},
		{"application/msword", "cv.doc", Unsupported},
		{"image/png", "photo.png", Unsupported},
	}
	for _, tt := range tests {
		t.Run(tt.mime+"|"+tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectKind(tt.mime, tt.filename))
		})
	}
}

func TestExtract_PlainText(t *testing.T) {
	text, err := Extract(PlainText, []byte("Go developer\nhttps://github.com/me"))
	require.NoError(t, err)
	assert.Equal(t, "Go developer\nhttps://github.com/me", text)
}

func TestExtract_EmptyText(t *testing.T) {
	_, err := Extract(PlainText, []byte("  \n\t"))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtract_Unsupported(t *testing.T) {
	_, err := Extract(Unsupported, []byte("whatever"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestExtract_CSVIsNotText(t *testing.T) {
	_, err := Extract(CSV, []byte("Techstack,Links\n"))
	assert.ErrorIs(t, err, ErrNotText)
}

func TestExtract_InvalidPDF(t *testing.T) {
	_, err := Extract(PDF, []byte("definitely not a pdf"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoText)
}

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Go, gRPC, PostgreSQL</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">https://github.com/me/</w:t></w:r><w:r><w:t>api</w:t></w:r></w:p>
</w:body>
</w:document>`

const testRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDocx(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"word/document.xml":            testDocumentXML,
		"word/_rels/document.xml.rels": testRelsXML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_DOCX(t *testing.T) {
	text, err := Extract(DOCX, buildDocx(t))
	require.NoError(t, err)
	assert.Equal(t, "Go, gRPC, PostgreSQL\nhttps://github.com/me/api", text)
}

func TestExtract_InvalidDOCX(t *testing.T) {
	_, err := Extract(DOCX, []byte("not a zip"))
	assert.Error(t, err)
}

func TestWordText(t *testing.T) {
	text, err := wordText(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Name</w:t><w:tab/><w:t>Value</w:t><w:br/><w:t>Next</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:jc w:val="left"/></w:pPr></w:p>` +
		`</w:body></w:document>`)
	require.NoError(t, err)
	assert.Equal(t, "Name\tValue\nNext", text)

	_, err = wordText("<w:document><unclosed>")
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "pdf", PDF.String())
	assert.Equal(t, "unsupported", Kind(42).String())
}
