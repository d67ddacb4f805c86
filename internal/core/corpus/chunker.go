package corpus

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// DefaultContextThreshold is the description length above which a context chunk is added.
const DefaultContextThreshold = 200

// DefaultKeywordCount is the number of keywords carried by a context chunk.
const DefaultKeywordCount = 5

// Chunker splits treaty records into chunks.
type Chunker struct {
	contextThreshold int
	keywordCount     int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithContextThreshold sets the description length that triggers a context chunk.
func WithContextThreshold(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.contextThreshold = n
		}
	}
}

// WithKeywordCount sets how many keywords a context chunk lists.
func WithKeywordCount(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.keywordCount = n
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...Option) *Chunker {
	c := &Chunker{
		contextThreshold: DefaultContextThreshold,
		keywordCount:     DefaultKeywordCount,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk returns one main chunk per record, followed by a context chunk for
// records whose description is longer than the threshold.
// Chunk order follows record order.
func (c *Chunker) Chunk(records []domain.TreatyRecord) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(records))
	for i := range records {
		chunks = append(chunks, c.chunkRecord(&records[i])...)
	}
	return chunks
}

func (c *Chunker) chunkRecord(rec *domain.TreatyRecord) []domain.Chunk {
	withContext := utf8.RuneCountInString(rec.Description) > c.contextThreshold
	total := 1
	if withContext {
		total = 2
	}

	meta := domain.ChunkMetadata{
		Section:      rec.Section,
		Title:        rec.Title,
		AdoptionDate: rec.AdoptionDate,
		Parties:      rec.Parties,
		TotalChunks:  total,
		Kind:         domain.ChunkKindMain,
	}

	chunks := []domain.Chunk{{
		ID:       chunkID(rec.ID, 0),
		RecordID: rec.ID,
		Content:  mainContent(rec),
		Metadata: meta,
	}}

	if withContext {
		meta.ChunkIndex = 1
		meta.Kind = domain.ChunkKindContext
		chunks = append(chunks, domain.Chunk{
			ID:       chunkID(rec.ID, 1),
			RecordID: rec.ID,
			Content:  c.contextContent(rec),
			Metadata: meta,
		})
	}
	return chunks
}

func chunkID(recordID string, index int) string {
	return fmt.Sprintf("%s-%d", recordID, index)
}

func mainContent(rec *domain.TreatyRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Treaty: %s\n", rec.Title)
	fmt.Fprintf(&b, "Section: %s\n", rec.Section)
	fmt.Fprintf(&b, "Adopted: %s\n", rec.AdoptionDate)
	fmt.Fprintf(&b, "Entered into force: %s\n", rec.EntryIntoForceDate)
	fmt.Fprintf(&b, "Parties: %s\n", rec.Parties)
	fmt.Fprintf(&b, "Description: %s", rec.Description)
	return b.String()
}

func (c *Chunker) contextContent(rec *domain.TreatyRecord) string {
	keywords := ExtractKeywords(rec.Description, c.keywordCount)
	return fmt.Sprintf("Additional context for %s: %s Keywords: %s",
		rec.Title, rec.Description, strings.Join(keywords, ", "))
}

// Chunk splits records with the default chunker.
func Chunk(records []domain.TreatyRecord) []domain.Chunk {
	return NewChunker().Chunk(records)
}
