package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		expect   Format
	}{
		{filename: "cv.pdf", expect: FormatPDF},
		{filename: "CV.PDF", expect: FormatPDF},
		{filename: "resume.docx", expect: FormatWord},
		{filename: "resume.Doc", expect: FormatWord},
		{filename: "resume.txt", expect: FormatText},
		{filename: "resume.md", expect: FormatText},
		{filename: "archive.pdf.txt", expect: FormatText},
		{filename: "pdf", expect: FormatPDF},
		{filename: "noextension", expect: FormatText},
		{filename: "", expect: FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()
			if got := FormatOf(tt.filename); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestDecodeText(t *testing.T) {
	t.Parallel()

	if got := DecodeText([]byte("héllo wörld")); got != "héllo wörld" {
		t.Fatalf("unexpected utf-8 decode: %q", got)
	}

	if got := DecodeText([]byte("caf\xe9 na\xefve")); got != "café naïve" {
		t.Fatalf("unexpected latin-1 decode: %q", got)
	}

	if got := DecodeText(nil); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestExtractPlainTextNeverWarns(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	extractor := New(zap.New(core))

	text, err := extractor.Extract("notes.bin", []byte{0xff, 0xfe, 'a'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "ÿþa" {
		t.Fatalf("unexpected text: %q", text)
	}
	if observed.Len() != 0 {
		t.Fatalf("expected no warnings, got %d", observed.Len())
	}
}

func TestExtractPDF(t *testing.T) {
	extractor := New(zap.NewNop())

	text, err := extractor.Extract("resume.pdf", buildPDF(t, "Hello Python"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Hello Python") {
		t.Fatalf("expected page text, got %q", text)
	}
}

func TestExtractPDFJoinsPages(t *testing.T) {
	extractor := New(zap.NewNop())

	extract := func(pages ...string) string {
		t.Helper()
		text, err := extractor.Extract("resume.pdf", buildPDF(t, pages...))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return text
	}

	first := extract("Page one")
	last := extract("Page three")
	if blank := extract(""); blank != "" {
		t.Fatalf("expected empty text for a blank page, got %q", blank)
	}

	got := extract("Page one", "", "Page three")
	if expect := first + "\n" + "\n" + last; got != expect {
		t.Fatalf("expected %q, got %q", expect, got)
	}
	if strings.Index(got, "Page one") > strings.Index(got, "Page three") {
		t.Fatalf("pages out of order: %q", got)
	}
}

func TestExtractMalformedPDF(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	extractor := New(zap.New(core))

	text, err := extractor.Extract("broken.PDF", []byte("definitely not a pdf"))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Format != FormatPDF || parseErr.Filename != "broken.PDF" {
		t.Fatalf("unexpected parse error: %+v", parseErr)
	}

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["filename"] != "broken.PDF" {
		t.Fatalf("expected filename field, got %v", entries[0].ContextMap())
	}
}

func TestExtractWord(t *testing.T) {
	dir := t.TempDir()
	extractor := New(zap.NewNop())
	extractor.TempDir = dir

	data := buildDOCX(t, "Senior Go engineer", "Kubernetes and AWS")

	text, err := extractor.Extract("resume.docx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Senior Go engineer") || !strings.Contains(text, "Kubernetes and AWS") {
		t.Fatalf("expected paragraphs in text, got %q", text)
	}

	assertEmptyDir(t, dir)
}

func TestExtractWordRemovesTempFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	extractor := New(zap.NewNop())
	extractor.TempDir = dir

	text, err := extractor.Extract("broken.docx", []byte("not a zip archive"))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Format != FormatWord {
		t.Fatalf("expected word parse error, got %v", err)
	}

	assertEmptyDir(t, dir)
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected temp files to be removed, found %d", len(entries))
	}
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}

	files := []struct {
		name    string
		content string
	}{
		{
			name: "[Content_Types].xml",
			content: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
				`<Default Extension="xml" ContentType="application/xml"/>` +
				`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
				`</Types>`,
		},
		{
			name: "word/document.xml",
			content: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
				body.String() +
				`</w:body></w:document>`,
		},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(f.content)); err != nil {
			t.Fatalf("write %s: %v", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// buildPDF writes a PDF with one page per entry and a correct cross
// reference table. An empty entry yields a page with an empty content stream.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	const firstPage = 4
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPage+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, text := range pages {
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", firstPage+2*i+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}
