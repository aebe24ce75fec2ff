// Package document converts raw resume bytes into plain text.
package document

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/utils"
)

// Format is the extraction path chosen for a document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatWord Format = "docx"
	FormatText Format = "text"
)

const previewLength = 120

// ParseError is a non-fatal extraction failure. The document text degrades to
// an empty string and the run continues.
type ParseError struct {
	Filename string
	Format   Format
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse issue for %q: %v", strings.ToUpper(string(e.Format)), e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Extractor dispatches documents to a format specific parser.
type Extractor struct {
	logger *zap.Logger
	// TempDir is where Word documents are staged for conversion.
	// Empty means os.TempDir().
	TempDir string
}

func New(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{logger: log}
}

// FormatOf picks the extraction path from the filename extension.
// A name without a dot is treated as if it were all extension.
func FormatOf(filename string) Format {
	name := strings.ToLower(filename)
	ext := name[strings.LastIndex(name, ".")+1:]

	switch ext {
	case "pdf":
		return FormatPDF
	case "docx", "doc":
		return FormatWord
	default:
		return FormatText
	}
}

// Extract returns the plain text of a document. A non-nil error is always a
// *ParseError and comes with an empty text; callers should treat it as a
// warning.
func (e *Extractor) Extract(filename string, data []byte) (string, error) {
	format := FormatOf(filename)
	log := logger.WithFields(e.logger, logger.DocumentFields(filename, string(format))...)

	var (
		text string
		err  error
	)

	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatWord:
		text, err = e.extractWord(filename, data)
	default:
		text = DecodeText(data)
	}

	if err != nil {
		log.Warn("document parse failed", zap.Error(err))
		return "", &ParseError{Filename: filename, Format: format, Err: err}
	}

	log.Debug("document extracted",
		zap.Int("bytes", len(data)),
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", utils.TruncateForLog(text, previewLength)),
	)

	return text, nil
}

func (e *Extractor) tempDir() string {
	if e.TempDir != "" {
		return e.TempDir
	}
	return os.TempDir()
}
