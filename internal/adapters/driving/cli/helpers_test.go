package cli

import (
	"bytes"
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/treatyrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
	"github.com/custodia-labs/treatyrag/internal/core/services"
)

var errFactoryCalled = errors.New("services must not be built")

type mockRetrieval struct {
	lastQuery *domain.RetrievalQuery
	lastText  string
	lastOpts  domain.RetrievalOptions
	err       error
}

func (m *mockRetrieval) Search(
	_ context.Context, q domain.RetrievalQuery, opts domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	m.lastQuery, m.lastOpts = &q, opts
	if m.err != nil {
		return domain.RetrievalResult{}, m.err
	}
	if err := q.Validate(); err != nil {
		return domain.RetrievalResult{}, err
	}
	return sampleResult(opts.Strategy), nil
}

func (m *mockRetrieval) SearchText(
	_ context.Context, text string, opts domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	m.lastText, m.lastOpts = text, opts
	if m.err != nil {
		return domain.RetrievalResult{}, m.err
	}
	return sampleResult(opts.Strategy), nil
}

func sampleResult(strategy domain.FusionStrategy) domain.RetrievalResult {
	return domain.RetrievalResult{
		Strategy:            strategy,
		TotalChunksSearched: 8,
		Documents: []domain.RetrievedDocument{{
			Chunk: domain.Chunk{
				ID:      "rec-1-0",
				Content: "Founding instrument of the United Nations.",
				Metadata: domain.ChunkMetadata{
					Title:        "Charter of the United Nations",
					Section:      "Peace and Security",
					AdoptionDate: "June 26, 1945",
				},
			},
			RelevanceScore: 0.82,
			Reason:         "matched: sovereignty",
			Participation:  &domain.Participation{SigningStatus: domain.SigningBoth},
		}},
	}
}

type mockBriefing struct {
	lastQuery domain.RetrievalQuery
	lastOpts  domain.BriefingOptions
}

func (m *mockBriefing) Generate(
	_ context.Context, q domain.RetrievalQuery, opts domain.BriefingOptions,
) (*domain.Briefing, error) {
	m.lastQuery, m.lastOpts = q, opts
	return &domain.Briefing{
		Title:          "Briefing: " + q.Scenario,
		Classification: domain.ClassificationConfidential,
		Query:          q,
		Summary:        "Escalation risk is high.",
		KeyPoints:      []string{"Both parties signed the Charter."},
		Success:        true,
	}, nil
}

type mockEvaluation struct {
	lastOpts domain.EvaluationOptions
	report   domain.EvaluationReport
}

func (m *mockEvaluation) Evaluate(_ context.Context, opts domain.EvaluationOptions) (domain.EvaluationReport, error) {
	m.lastOpts = opts
	return m.report, nil
}

func (m *mockEvaluation) GenerateSynthetic(context.Context, int) ([]domain.TestCase, error) {
	return nil, nil
}

func (m *mockEvaluation) Score(
	context.Context, string, string, []domain.RetrievedDocument, []string,
) domain.RAGASMetrics {
	return domain.RAGASMetrics{}
}

type mockIndex struct {
	initialised bool
}

func (m *mockIndex) Initialize(context.Context) error {
	m.initialised = true
	return nil
}

func (m *mockIndex) Chunks() ([]domain.Chunk, error) { return nil, nil }

func (m *mockIndex) Stats() domain.IndexStats {
	return domain.IndexStats{
		Initialized: m.initialised,
		Records:     3,
		Chunks:      5,
		Parse: domain.ParseReport{
			Warnings: []domain.ParseWarning{{Line: 7, Reason: "no title separator"}},
		},
	}
}

type mockTestSets struct {
	cases []domain.TestCase
}

func (m *mockTestSets) Load(string) ([]domain.TestCase, error) { return m.cases, nil }

// testServices are the mocks installed by setupTestServices.
type testServices struct {
	*Services
	retrieval  *mockRetrieval
	briefing   *mockBriefing
	evaluation *mockEvaluation
	index      *mockIndex
	settings   driving.SettingsService
}

// setupTestServices installs mock services and an in-memory settings
// service, returning a cleanup that restores the previous state.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		retrieval:  &mockRetrieval{},
		briefing:   &mockBriefing{},
		evaluation: &mockEvaluation{},
		index:      &mockIndex{},
		settings:   services.NewSettingsService(memory.NewConfigStore(), nil),
	}
	ts.Services = &Services{
		Index:      ts.index,
		Retrieval:  ts.retrieval,
		Evaluation: ts.evaluation,
		Briefing:   ts.briefing,
		TestSets:   &mockTestSets{},
		Settings:   domain.DefaultAppSettings(),
	}

	servicesMu.Lock()
	prevServices, prevSettings := sharedServices, settingsService
	sharedServices, settingsService = ts.Services, ts.settings
	servicesMu.Unlock()

	return ts, func() {
		servicesMu.Lock()
		sharedServices, settingsService = prevServices, prevSettings
		servicesMu.Unlock()
	}
}

// failingServices clears any cached services and makes the factories fail,
// so a command that builds services returns errFactoryCalled.
func failingServices() func() {
	servicesMu.Lock()
	prevServices, prevSettings := sharedServices, settingsService
	prevNewSettings, prevNew := newSettingsService, newServices
	sharedServices, settingsService = nil, nil
	newSettingsService = func(string) (driving.SettingsService, error) { return nil, errFactoryCalled }
	newServices = func(string, driving.SettingsService) (*Services, error) { return nil, errFactoryCalled }
	servicesMu.Unlock()

	return func() {
		servicesMu.Lock()
		sharedServices, settingsService = prevServices, prevSettings
		newSettingsService, newServices = prevNewSettings, prevNew
		servicesMu.Unlock()
	}
}

// execute runs the root command with args and returns its output.
// Flags are reset afterwards because cobra keeps parsed values between runs.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
		searchParties.reset()
		briefingParties.reset()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
