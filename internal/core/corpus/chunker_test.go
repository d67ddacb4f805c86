package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

func TestChunk_ShortDescriptionSingleChunk(t *testing.T) {
	records, _ := Parse(exampleLine)
	chunks := Chunk(records)

	require.Len(t, chunks, 1)
	c := chunks[0]
	assert.Equal(t, records[0].ID+"-0", c.ID)
	assert.Equal(t, records[0].ID, c.RecordID)
	assert.Equal(t, "Treaty of Example", c.Metadata.Title)
	assert.Equal(t, "January 1, 1990", c.Metadata.AdoptionDate)
	assert.Equal(t, 0, c.Metadata.ChunkIndex)
	assert.Equal(t, 1, c.Metadata.TotalChunks)
	assert.Equal(t, domain.ChunkKindMain, c.Metadata.Kind)
	assert.Contains(t, c.Content, "Treaty: Treaty of Example")
	assert.Contains(t, c.Content, "Alphaland and Betavia")
	assert.Nil(t, c.Embedding)
}

func TestChunk_LongDescriptionAddsContext(t *testing.T) {
	desc := strings.Repeat("Nuclear disarmament verification inspections ", 6)
	rec := domain.TreatyRecord{ID: "r1", Title: "Arms Pact", Description: desc}

	chunks := Chunk([]domain.TreatyRecord{rec})

	require.Len(t, chunks, 2)
	assert.Equal(t, "r1-0", chunks[0].ID)
	assert.Equal(t, "r1-1", chunks[1].ID)
	assert.Equal(t, 2, chunks[0].Metadata.TotalChunks)
	assert.Equal(t, 2, chunks[1].Metadata.TotalChunks)
	assert.Equal(t, 1, chunks[1].Metadata.ChunkIndex)
	assert.Equal(t, domain.ChunkKindContext, chunks[1].Metadata.Kind)
	assert.True(t, strings.HasPrefix(chunks[1].Content, "Additional context for Arms Pact: "))
	assert.Contains(t, chunks[1].Content, "Keywords: nuclear, disarmament, verification, inspections")
}

func TestChunk_CountInvariant(t *testing.T) {
	records := []domain.TreatyRecord{
		{ID: "a", Description: strings.Repeat("x", 200)},
		{ID: "b", Description: strings.Repeat("x", 201)},
		{ID: "c", Description: ""},
	}

	chunks := Chunk(records)

	require.Len(t, chunks, 4)
	assert.Equal(t, "a", chunks[0].RecordID)
	assert.Equal(t, "b", chunks[1].RecordID)
	assert.Equal(t, "b", chunks[2].RecordID)
	assert.Equal(t, "c", chunks[3].RecordID)
}

func TestChunk_ThresholdCountsCharacters(t *testing.T) {
	desc := strings.Repeat("Côte d’Ivoire ", 14)
	require.Less(t, len([]rune(desc)), 201)
	require.Greater(t, len(desc), 200)

	chunks := Chunk([]domain.TreatyRecord{{ID: "ci", Title: "Abidjan Accord", Description: desc}})

	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].Metadata.TotalChunks)
}

func TestNewChunker_Options(t *testing.T) {
	c := NewChunker(WithContextThreshold(10), WithKeywordCount(1), WithKeywordCount(-3))
	rec := domain.TreatyRecord{ID: "r", Title: "T", Description: "maritime maritime boundary delimitation"}

	chunks := c.Chunk([]domain.TreatyRecord{rec})

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasSuffix(chunks[1].Content, "Keywords: maritime"))
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want []string
	}{
		{"frequency then first occurrence", "Trade trade tariffs quota, tariffs TRADE", 2, []string{"trade", "tariffs"}},
		{"short words and stopwords dropped", "the war was over with them", 5, []string{}},
		{"limit respected", "alpha bravo charlie delta echoes foxtrot", 3, []string{"alpha", "bravo", "charlie"}},
		{"zero limit", "anything", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.text, tt.n)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
