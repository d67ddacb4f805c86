package domain

import "time"

// FusionStrategy selects how the semantic and keyword channels are combined.
type FusionStrategy string

// Fusion strategies.
const (
	// FusionLinear blends normalised channel scores with a semantic weight.
	FusionLinear FusionStrategy = "linear"

	// FusionRRF uses reciprocal rank fusion.
	FusionRRF FusionStrategy = "rrf"

	// FusionSemantic uses the embedding channel only.
	FusionSemantic FusionStrategy = "semantic"

	// FusionKeyword uses the BM25 channel only.
	FusionKeyword FusionStrategy = "keyword"
)

// IsValid returns true if the strategy is recognised.
func (f FusionStrategy) IsValid() bool {
	switch f {
	case FusionLinear, FusionRRF, FusionSemantic, FusionKeyword:
		return true
	default:
		return false
	}
}

// RequiresEmbedding returns true if the strategy needs query embeddings.
func (f FusionStrategy) RequiresEmbedding() bool {
	return f != FusionKeyword
}

// String returns the string representation.
func (f FusionStrategy) String() string {
	return string(f)
}

// Retrieval defaults.
const (
	DefaultTopK           = 5
	DefaultSemanticWeight = 0.7
	MaxTopK               = 50
)

// RetrievalOptions configures a retrieval request.
type RetrievalOptions struct {
	// TopK is the maximum number of documents returned.
	TopK int

	// SemanticWeight is the share of the semantic channel under FusionLinear.
	SemanticWeight float64

	Strategy FusionStrategy

	// ScenarioBoost applies conflict-type and participation boosts and the
	// mutual-signatory ordering.
	ScenarioBoost bool

	// Rerank runs the LLM cross-encoder over the candidates.
	Rerank bool
}

// DefaultRetrievalOptions returns options with sensible defaults.
func DefaultRetrievalOptions() RetrievalOptions {
	return RetrievalOptions{
		TopK:           DefaultTopK,
		SemanticWeight: DefaultSemanticWeight,
		Strategy:       FusionLinear,
		ScenarioBoost:  true,
	}
}

// Normalised returns a copy with out-of-range values replaced by defaults.
func (o RetrievalOptions) Normalised() RetrievalOptions {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.TopK > MaxTopK {
		o.TopK = MaxTopK
	}
	if o.SemanticWeight < 0 || o.SemanticWeight > 1 {
		o.SemanticWeight = DefaultSemanticWeight
	}
	if !o.Strategy.IsValid() {
		o.Strategy = FusionLinear
	}
	return o
}

// SigningStatus summarises which conflict parties signed a treaty.
type SigningStatus string

// Signing statuses.
const (
	SigningBoth          SigningStatus = "both_signed"
	SigningAggressorOnly SigningStatus = "aggressor_only"
	SigningVictimOnly    SigningStatus = "victim_only"
	SigningNeither       SigningStatus = "neither_signed"
)

// Participation records which scenario countries appear to be parties to a treaty.
type Participation struct {
	SelectedSigned    bool          `json:"selectedSigned"`
	OffensiveSigned   bool          `json:"offensiveSigned"`
	DefensiveSigned   bool          `json:"defensiveSigned"`
	BothPartiesSigned bool          `json:"bothPartiesSigned"`
	SigningStatus     SigningStatus `json:"signingStatus"`
}

// RetrievedDocument is a scored chunk. It lives for one request only.
type RetrievedDocument struct {
	Chunk Chunk `json:"chunk"`

	// Similarity is the cosine similarity of the semantic channel.
	Similarity float64 `json:"similarity"`

	// KeywordScore is the BM25 score of the keyword channel.
	KeywordScore float64 `json:"keywordScore"`

	// RelevanceScore is the final ranking score, clamped to [0, 1] before fusion.
	RelevanceScore float64 `json:"relevanceScore"`

	// Reason lists the boosts that fired.
	Reason string `json:"reason"`

	// Participation is set when scenario boosting ran.
	Participation *Participation `json:"participation,omitempty"`

	// RerankScore is the cross-encoder score (1-10), zero when reranking did not run.
	RerankScore float64 `json:"rerankScore,omitempty"`
}

// RetrievalTiming breaks a request down by stage.
type RetrievalTiming struct {
	Embedding time.Duration `json:"embedding"`
	Search    time.Duration `json:"search"`
	Rerank    time.Duration `json:"rerank"`
	Total     time.Duration `json:"total"`
}

// RetrievalResult is the retriever's response.
type RetrievalResult struct {
	Documents []RetrievedDocument `json:"documents"`

	// Query is the expanded query text that was searched.
	Query string `json:"query"`

	Strategy FusionStrategy `json:"strategy"`

	// TotalChunksSearched is the number of chunks considered.
	TotalChunksSearched int `json:"totalChunksSearched"`

	Timing RetrievalTiming `json:"timing"`
}

// Titles returns the distinct treaty titles in ranked order.
func (r RetrievalResult) Titles() []string {
	seen := make(map[string]bool, len(r.Documents))
	titles := make([]string, 0, len(r.Documents))
	for i := range r.Documents {
		title := r.Documents[i].Chunk.Metadata.Title
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}
	return titles
}

// IndexStats describes the loaded treaty index.
type IndexStats struct {
	Initialized    bool          `json:"initialized"`
	Records        int           `json:"records"`
	Chunks         int           `json:"chunks"`
	Embedded       int           `json:"embedded"`
	Dimensions     int           `json:"dimensions"`
	AvgChunkLength float64       `json:"avgChunkLength"`
	Parse          ParseReport   `json:"parse"`
	LoadDuration   time.Duration `json:"loadDuration"`
}
