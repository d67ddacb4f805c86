package domain

// UnknownDate is recorded when a corpus line carries no recognisable date.
const UnknownDate = "Unknown"

// TreatyRecord is one parsed entry of the treaty corpus.
// Records are immutable once the corpus is loaded.
type TreatyRecord struct {
	// ID is a name-based identifier, stable across re-parses of the same text.
	ID string

	// Section is the corpus section the record appeared under.
	Section string

	// Title is the treaty name.
	Title string

	// AdoptionDate is free text, or UnknownDate.
	AdoptionDate string

	// EntryIntoForceDate is free text, or UnknownDate.
	EntryIntoForceDate string

	// Parties describes the signatories.
	Parties string

	// Description is the treaty summary.
	Description string

	// FullText is the original corpus line.
	FullText string
}

// ChunkKind distinguishes the main chunk of a record from its context chunk.
type ChunkKind string

// Chunk kinds.
const (
	ChunkKindMain    ChunkKind = "main"
	ChunkKindContext ChunkKind = "context"
)

// ChunkMetadata is copied from the parent record onto every chunk.
type ChunkMetadata struct {
	Section      string `json:"section"`
	Title        string `json:"title"`
	AdoptionDate string `json:"adoptionDate"`
	Parties      string `json:"parties"`

	// ChunkIndex is the position of this chunk within its record (0-based).
	ChunkIndex int `json:"chunkIndex"`

	// TotalChunks is the number of chunks the record produced (1 or 2).
	TotalChunks int `json:"totalChunks"`

	Kind ChunkKind `json:"kind"`
}

// Chunk represents a searchable unit within a treaty record.
type Chunk struct {
	// ID is "<recordID>-<chunkIndex>".
	ID string `json:"id"`

	// RecordID links to the parent TreatyRecord.
	RecordID string `json:"recordId"`

	// Content is the text that is embedded and keyword-indexed.
	Content string `json:"content"`

	Metadata ChunkMetadata `json:"metadata"`

	// Embedding is nil until the index stage has run.
	// Chunks without an embedding are only reachable through keyword search.
	Embedding []float32 `json:"-"`
}

// HasEmbedding reports whether the chunk can take part in semantic search.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// ParseWarning records a corpus line that was dropped.
type ParseWarning struct {
	// Line is the 1-based line number.
	Line int `json:"line"`

	// Reason explains why the line was dropped.
	Reason string `json:"reason"`
}

// ParseReport summarises a corpus parse.
type ParseReport struct {
	// TotalLines is the number of lines in the input.
	TotalLines int `json:"totalLines"`

	// Records is the number of records produced.
	Records int `json:"records"`

	// Skipped is the number of record-like lines that were dropped.
	Skipped int `json:"skipped"`

	// Warnings lists the dropped lines.
	Warnings []ParseWarning `json:"warnings,omitempty"`
}
