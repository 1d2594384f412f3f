package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentscreen/job-screening/internal/services"
)

func TestTextChunker_ShortTextIsSingleChunk(t *testing.T) {
	chunker := services.NewTextChunker()

	chunks := chunker.ChunkText("A short reference document.", 1000, 200)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short reference document.", chunks[0])
}

func TestTextChunker_SplitsOnParagraphs(t *testing.T) {
	chunker := services.NewTextChunker()

	para := strings.Repeat("word ", 30)
	text := strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para)

	chunks := chunker.ChunkText(text, 200, 0)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200)
	}
}

func TestTextChunker_OverlapCarriesTailForward(t *testing.T) {
	chunker := services.NewTextChunker()

	first := strings.TrimSpace(strings.Repeat("alpha ", 25))
	second := strings.TrimSpace(strings.Repeat("omega ", 25))

	chunks := chunker.ChunkText(first+"\n\n"+second, 160, 30)
	require.Len(t, chunks, 2)

	tail := chunks[0][len(chunks[0])-30:]
	assert.True(t, strings.HasPrefix(chunks[1], tail),
		"second chunk starts with the previous chunk's tail")
}

func TestTextChunker_OversizedParagraphFallsBackToSentences(t *testing.T) {
	chunker := services.NewTextChunker()

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("This sentence pads out one very long paragraph. ")
	}

	chunks := chunker.ChunkText(strings.TrimSpace(b.String()), 200, 0)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk)
	}
}

func TestTextChunker_EmptyInput(t *testing.T) {
	chunker := services.NewTextChunker()

	assert.Empty(t, chunker.ChunkText("", 1000, 200))
	assert.Empty(t, chunker.ChunkText("\n\n  \n\n", 1000, 200))
}

func TestCleanText(t *testing.T) {
	dirty := "  Job Description  \n\n\n   Requirements:\n\n- Go\n   - PostgreSQL  \n"
	assert.Equal(t, "Job Description\nRequirements:\n- Go\n- PostgreSQL", services.CleanText(dirty))
}
