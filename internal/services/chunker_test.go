package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkShortTextIsOneChunk(t *testing.T) {
	chunks := NewTextChunker(1000, 200).Chunk("Rubric\n\n  Weigh backend experience.  \n\n\n")

	assert.Equal(t, []string{"Rubric\n\nWeigh backend experience."}, chunks)
}

func TestChunkSplitsOnParagraphs(t *testing.T) {
	text := "aaaa aaaa aaaa\n\nbbbb bbbb bbbb"

	assert.Equal(t, []string{"aaaa aaaa aaaa", "bbbb bbbb bbbb"}, NewTextChunker(20, 0).Chunk(text))
	assert.Equal(t, []string{"aaaa aaaa aaaa", "aaaa\n\nbbbb bbbb bbbb"}, NewTextChunker(20, 4).Chunk(text))
}

func TestChunkLongParagraphBySentence(t *testing.T) {
	text := "First sentence here. Second sentence here. Third one!"

	chunks := NewTextChunker(30, 0).Chunk(text)

	assert.Equal(t, []string{"First sentence here.", "Second sentence here.", "Third one!"}, chunks)
}

func TestChunkEmptyText(t *testing.T) {
	assert.Empty(t, NewTextChunker(0, -1).Chunk("  \n\n "))
}

func TestNewTextChunkerNormalizesOverlap(t *testing.T) {
	tc := NewTextChunker(100, 150)

	assert.Equal(t, 100, tc.size)
	assert.Equal(t, 25, tc.overlap)
}
