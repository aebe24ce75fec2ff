package document

import (
	"fmt"
	"os"
	"strings"

	"code.sajari.com/docconv"
	"go.uber.org/zap"
)

// extractWord stages the document in a temporary file because the converter
// works on paths. The file is removed on every return path.
func (e *Extractor) extractWord(filename string, data []byte) (string, error) {
	ext := ".docx"
	if strings.HasSuffix(strings.ToLower(filename), ".doc") {
		ext = ".doc"
	}

	tmp, err := os.CreateTemp(e.tempDir(), "resume-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			e.logger.Warn("removing temp file", zap.String("path", tmp.Name()), zap.Error(err))
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	res, err := docconv.ConvertPath(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("convert: %w", err)
	}

	return strings.TrimSpace(res.Body), nil
}
