package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeepsPrintableASCII(t *testing.T) {
	raw := []byte("%PDF-1.4\n\x00\x01Jane Doe\r\njane@example.com\n(555) 123-4567\xff\xfe")
	raw = append(raw, []byte(strings.Repeat(" Senior Go engineer building distributed systems.", 3))...)

	out := NewTextExtractor(nil).Extract(raw, "jane.pdf")

	assert.True(t, out.Sufficient)
	assert.True(t, strings.HasPrefix(out.Text, "PDF-1.4 Jane Doe jane@example.com (555) 123-4567 Senior Go"))
	assert.NotContains(t, out.Text, "%")
	assert.NotContains(t, out.Text, "  ")
}

func TestExtractCollapsesDisallowedRuns(t *testing.T) {
	raw := []byte("Skills: Go / Kubernetes <<>> Postgres ### " + strings.Repeat("experience ", 12))

	out := NewTextExtractor(nil).Extract(raw, "a.pdf")

	assert.True(t, out.Sufficient)
	assert.True(t, strings.HasPrefix(out.Text, "Skills Go Kubernetes Postgres experience"))
}

func TestExtractTruncatesLongText(t *testing.T) {
	raw := []byte(strings.Repeat("word ", 3000))

	out := NewTextExtractor(nil).Extract(raw, "long.pdf")

	assert.True(t, out.Sufficient)
	assert.Len(t, out.Text, maxExtractedChars)
}

func TestExtractInsufficientReturnsPlaceholder(t *testing.T) {
	out := NewTextExtractor(nil).Extract([]byte("\x00\x01short text\x02"), "tiny.pdf")

	assert.False(t, out.Sufficient)
	assert.Contains(t, out.Text, "tiny.pdf")
	assert.Contains(t, out.Text, "insufficient")
}

func TestExtractExactlyMinimumIsInsufficient(t *testing.T) {
	out := NewTextExtractor(nil).Extract([]byte(strings.Repeat("a", minExtractedChars)), "edge.pdf")

	assert.False(t, out.Sufficient)
}

func TestExtractRecoversFromPanic(t *testing.T) {
	e := NewTextExtractor(nil)
	e.scan = func([]byte) string { panic("boom") }

	out := e.Extract([]byte("anything"), "broken.pdf")

	assert.False(t, out.Sufficient)
	assert.Contains(t, out.Text, "broken.pdf")
	assert.Contains(t, out.Text, "failed")
}
