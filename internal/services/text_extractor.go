package services

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	minExtractedChars = 100
	maxExtractedChars = 5000
)

var (
	disallowedRuns = regexp.MustCompile(`[^a-zA-Z0-9\s@.\-()]+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// ExtractedText is the heuristic reading of one résumé. Sufficient is false
// when Text is a placeholder rather than document content.
type ExtractedText struct {
	Text       string
	Sufficient bool
}

// TextExtractor approximates the text of a PDF by keeping printable ASCII
// runs from the raw bytes. It is not a PDF parser: compressed content
// streams yield nothing useful and the document is reported insufficient.
type TextExtractor struct {
	logger *zap.Logger
	scan   func([]byte) string
}

func NewTextExtractor(logger *zap.Logger) *TextExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextExtractor{logger: logger, scan: scanPrintable}
}

// Extract never fails; problems are reported through placeholder text.
func (e *TextExtractor) Extract(raw []byte, fileName string) (out ExtractedText) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("text extraction panicked",
				zap.String("file", fileName),
				zap.Any("panic", r),
			)
			out = ExtractedText{
				Text: fmt.Sprintf("PDF document %s could not be read. Text extraction failed for this file.", fileName),
			}
		}
	}()

	text := normalizeExtracted(e.scan(raw))
	if len(text) > minExtractedChars {
		return ExtractedText{Text: truncate(text, maxExtractedChars), Sufficient: true}
	}

	e.logger.Debug("insufficient text extracted",
		zap.String("file", fileName),
		zap.Int("chars", len(text)),
	)
	return ExtractedText{
		Text: fmt.Sprintf("PDF document %s. Text extraction yielded insufficient content to analyze this resume.", fileName),
	}
}

func scanPrintable(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw) / 2)
	for _, c := range raw {
		switch {
		case c >= 32 && c <= 126:
			b.WriteByte(c)
		case c == '\r' || c == '\n':
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func normalizeExtracted(text string) string {
	text = disallowedRuns.ReplaceAllString(text, " ")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// truncate cuts s to at most n bytes, dropping a trailing partial rune.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
