package services

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/treatyrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
	"github.com/custodia-labs/treatyrag/internal/core/ranking"
)

// --- Fixtures ---

const exampleTreaty = "Treaty of Example: Adopted January 1, 1990, entered into force January 1, 1991; " +
	"Parties: 50; Description: A mutual defense pact between Alphaland and Betavia."

const tariffTreaty = "Andean Tariff Accord: Adopted March 3, 1975; Parties: 4; " +
	"Description: Reduces customs tariffs on agricultural goods among Andean states."

const scenarioCorpus = "Section Peace and Security\n" + exampleTreaty + "\nSection Commerce\n" + tariffTreaty + "\n"

// baselineCorpus covers every treaty in the baseline test set.
const baselineCorpus = `Section Disarmament
Chemical Weapons Convention: Adopted September 3, 1992, entered into force April 29, 1997; Parties: 193; Description: Prohibits the development, production and stockpiling of chemical weapons.
Treaty on the Non-Proliferation of Nuclear Weapons: Adopted July 1, 1968, entered into force March 5, 1970; Parties: 191; Description: Nuclear-weapon states undertake not to transfer nuclear weapons.
Section Law of Treaties
Vienna Convention on the Law of Treaties: Adopted May 23, 1969, entered into force January 27, 1980; Parties: 116; Description: Codifies how treaties are concluded, interpreted and terminated.
Section Law of the Sea
United Nations Convention on the Law of the Sea: Adopted December 10, 1982, entered into force November 16, 1994; Parties: 169; Description: Defines the territorial sea and exclusive economic zone.
Section Human Rights
International Covenant on Civil and Political Rights: Adopted December 16, 1966, entered into force March 23, 1976; Parties: 174; Description: Protects civil and political rights of individuals.
`

func scenarioQuery() domain.RetrievalQuery {
	return domain.RetrievalQuery{
		Scenario:         "territorial dispute",
		SelectedCountry:  "Alphaland",
		OffensiveCountry: "Betavia",
		DefensiveCountry: "Alphaland",
	}
}

// newTestIndex builds an index over text with pacing disabled.
func newTestIndex(text string, embedder driven.EmbeddingService, opts ...IndexOption) *IndexService {
	opts = append([]IndexOption{WithBatchRate(0)}, opts...)
	return NewIndexService(TextCorpus(text), memory.NewVectorIndex(), embedder, opts...)
}

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService with a
// deterministic bag-of-words embedding.
type mockEmbeddingService struct {
	batchErr   error
	queryErr   error
	shortBatch bool
	dims       int

	batchCalls atomic.Int32
	queryCalls atomic.Int32
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	dims := m.Dimensions()
	vec := make([]float32, dims)
	for _, tok := range ranking.Tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(dims)]++
	}
	return vec
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.queryCalls.Add(1)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls.Add(1)
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	if m.shortBatch && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 64
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	respond func(prompt string, opts driven.GenerateOptions) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.respond == nil {
		return "", domain.ErrEmptyCompletion
	}
	return m.respond(prompt, opts)
}

func (m *mockLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	parts := make([]string, len(messages))
	for i, msg := range messages {
		parts[i] = msg.Content
	}
	return m.Generate(ctx, strings.Join(parts, "\n"), driven.GenerateOptions{
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		JSONMode:    opts.JSONMode,
	})
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// mockEmbeddingCache implements driven.EmbeddingCache in memory.
type mockEmbeddingCache struct {
	mu      sync.Mutex
	vectors map[string][]float32
	getErr  error
}

func newMockEmbeddingCache() *mockEmbeddingCache {
	return &mockEmbeddingCache{vectors: make(map[string][]float32)}
}

func (m *mockEmbeddingCache) GetMany(_ context.Context, model string, keys []string) (map[string][]float32, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]float32)
	for _, k := range keys {
		if v, ok := m.vectors[model+"/"+k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *mockEmbeddingCache) PutMany(_ context.Context, model string, vectors map[string][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range vectors {
		m.vectors[model+"/"+k] = v
	}
	return nil
}

func (m *mockEmbeddingCache) Close() error {
	return nil
}

// mockPromptStore implements driven.PromptStore with fixed templates.
type mockPromptStore struct {
	templates map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if t, ok := m.templates[name]; ok {
		return t, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}
