package services

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// TextChunker splits guideline documents into overlapping chunks sized for
// embedding.
type TextChunker struct {
	size    int
	overlap int
}

func NewTextChunker(size, overlap int) *TextChunker {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &TextChunker{size: size, overlap: overlap}
}

// Chunk packs paragraphs into chunks of at most size runes (plus the carried
// overlap). Paragraphs longer than size are packed sentence by sentence.
func (tc *TextChunker) Chunk(text string) []string {
	var chunks []string
	var current strings.Builder

	flush := func(sep string) {
		if current.Len() == 0 {
			return
		}
		prev := current.String()
		chunks = append(chunks, prev)
		current.Reset()
		if tail := lastRunes(prev, tc.overlap); tail != "" {
			current.WriteString(tail)
			current.WriteString(sep)
		}
	}

	add := func(piece, sep string) {
		if current.Len() > 0 && utf8.RuneCountInString(current.String())+utf8.RuneCountInString(piece)+len(sep) > tc.size {
			flush(sep)
		}
		if current.Len() > 0 && !strings.HasSuffix(current.String(), sep) {
			current.WriteString(sep)
		}
		current.WriteString(piece)
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) <= tc.size {
			add(para, "\n\n")
			continue
		}
		for _, sentence := range splitSentences(para) {
			add(sentence, " ")
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// splitSentences keeps the terminating punctuation on each sentence.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
