package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/report"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

const excerptLength = 400

// SearchInput is the input schema for the treaty_search tool.
type SearchInput struct {
	Scenario         string `json:"scenario" jsonschema:"free-text description of the situation"`
	SelectedCountry  string `json:"selected_country,omitempty" jsonschema:"country the analysis is prepared for"`
	OffensiveCountry string `json:"offensive_country,omitempty" jsonschema:"aggressor country"`
	DefensiveCountry string `json:"defensive_country,omitempty" jsonschema:"victim country"`
	ConflictType     string `json:"conflict_type,omitempty" jsonschema:"territorial, trade, nuclear, cyber, environmental, space, diplomatic, economic or military"`
	Severity         string `json:"severity,omitempty" jsonschema:"low, medium, high or critical"`
	TopK             int    `json:"top_k,omitempty" jsonschema:"number of treaties to return (default 5, max 50)"`
	Fusion           string `json:"fusion,omitempty" jsonschema:"linear, rrf, semantic or keyword"`
}

func (in SearchInput) hasParties() bool {
	return in.SelectedCountry != "" || in.OffensiveCountry != "" || in.DefensiveCountry != ""
}

func (in SearchInput) query() domain.RetrievalQuery {
	return domain.RetrievalQuery{
		Scenario:         strings.TrimSpace(in.Scenario),
		SelectedCountry:  strings.TrimSpace(in.SelectedCountry),
		OffensiveCountry: strings.TrimSpace(in.OffensiveCountry),
		DefensiveCountry: strings.TrimSpace(in.DefensiveCountry),
		Severity:         domain.Severity(strings.ToLower(in.Severity)),
		ConflictType:     domain.ConflictType(strings.ToLower(in.ConflictType)),
	}
}

// SearchOutput is the output schema for the treaty_search tool.
type SearchOutput struct {
	Results       []TreatyOutput `json:"results"`
	Count         int            `json:"count"`
	Strategy      string         `json:"strategy"`
	ChunksScanned int            `json:"chunks_scanned"`
}

// TreatyOutput represents a single retrieved treaty.
type TreatyOutput struct {
	ChunkID       string  `json:"chunk_id"`
	Title         string  `json:"title"`
	Section       string  `json:"section,omitempty"`
	AdoptionDate  string  `json:"adoption_date,omitempty"`
	Score         float64 `json:"score"`
	Reason        string  `json:"reason,omitempty"`
	SigningStatus string  `json:"signing_status,omitempty"`
	Excerpt       string  `json:"excerpt"`
}

// BriefingInput is the input schema for the generate_briefing tool.
type BriefingInput struct {
	Scenario         string `json:"scenario" jsonschema:"free-text description of the situation"`
	SelectedCountry  string `json:"selected_country" jsonschema:"country the briefing is prepared for"`
	OffensiveCountry string `json:"offensive_country" jsonschema:"aggressor country"`
	DefensiveCountry string `json:"defensive_country" jsonschema:"victim country"`
	ConflictType     string `json:"conflict_type,omitempty" jsonschema:"territorial, trade, nuclear, cyber, environmental, space, diplomatic, economic or military"`
	Severity         string `json:"severity,omitempty" jsonschema:"low, medium, high or critical"`
	TimeFrame        string `json:"time_frame,omitempty" jsonschema:"immediate, short_term, medium_term or long_term"`
	TopK             int    `json:"top_k,omitempty" jsonschema:"number of treaties to cite"`
	Fast             bool   `json:"fast,omitempty" jsonschema:"skip LLM-judged quality metrics"`
}

func (in BriefingInput) query() domain.RetrievalQuery {
	q := SearchInput{
		Scenario:         in.Scenario,
		SelectedCountry:  in.SelectedCountry,
		OffensiveCountry: in.OffensiveCountry,
		DefensiveCountry: in.DefensiveCountry,
		ConflictType:     in.ConflictType,
		Severity:         in.Severity,
	}.query()
	q.TimeFrame = domain.TimeFrame(strings.ToLower(in.TimeFrame))
	return q
}

// BriefingOutput is the output schema for the generate_briefing tool.
type BriefingOutput struct {
	Title          string              `json:"title"`
	Classification string              `json:"classification"`
	Markdown       string              `json:"markdown"`
	Metrics        domain.RAGASMetrics `json:"metrics"`
	Success        bool                `json:"success"`
	Warnings       []string            `json:"warnings"`
}

// EvaluateOutput is the output schema for the evaluate_retrieval tool.
type EvaluateOutput struct {
	OverallScore float64             `json:"overall_score"`
	Averages     domain.RAGASMetrics `json:"averages"`
	Cases        []EvaluatedCase     `json:"cases"`
	Generated    []string            `json:"generated"`
	FastMode     bool                `json:"fast_mode"`
	DurationMS   int64               `json:"duration_ms"`
}

// EvaluatedCase is the score of one evaluation question.
type EvaluatedCase struct {
	Question  string              `json:"question"`
	Synthetic bool                `json:"synthetic"`
	Retrieved []string            `json:"retrieved"`
	Metrics   domain.RAGASMetrics `json:"metrics"`
}

// EvaluateInput is the input schema for the evaluate_retrieval tool.
type EvaluateInput struct {
	Baseline       *bool `json:"baseline,omitempty" jsonschema:"include the built-in baseline set (default true)"`
	Synthetic      bool  `json:"synthetic,omitempty" jsonschema:"generate synthetic questions from the corpus"`
	SyntheticCount int   `json:"synthetic_count,omitempty" jsonschema:"number of synthetic questions"`
	Fast           bool  `json:"fast,omitempty" jsonschema:"skip LLM judging"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "treaty_search",
		Description: "Find international treaties relevant to a scenario. Give the three countries " +
			"to enable scenario expansion and signatory boosting; otherwise the scenario is searched as text.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_briefing",
		Description: "Produce an analyst briefing with legal analysis and strategic options for a scenario",
	}, s.handleBriefing)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_retrieval",
		Description: "Score retrieval quality with faithfulness, relevancy, precision and recall metrics",
	}, s.handleEvaluate)
}

// handleSearch handles the treaty_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := s.ports.Defaults
	if input.TopK > 0 {
		opts.TopK = input.TopK
	}
	if f := domain.FusionStrategy(strings.ToLower(input.Fusion)); f.IsValid() {
		opts.Strategy = f
	}
	opts = opts.Normalised()

	var (
		result domain.RetrievalResult
		err    error
	)
	if input.hasParties() {
		result, err = s.ports.Retrieval.Search(ctx, input.query(), opts)
	} else {
		result, err = s.ports.Retrieval.SearchText(ctx, input.Scenario, opts)
	}
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results:       make([]TreatyOutput, len(result.Documents)),
		Count:         len(result.Documents),
		Strategy:      string(result.Strategy),
		ChunksScanned: result.TotalChunksSearched,
	}
	for i := range result.Documents {
		doc := &result.Documents[i]
		out := TreatyOutput{
			ChunkID:      doc.Chunk.ID,
			Title:        doc.Chunk.Metadata.Title,
			Section:      doc.Chunk.Metadata.Section,
			AdoptionDate: doc.Chunk.Metadata.AdoptionDate,
			Score:        doc.RelevanceScore,
			Reason:       doc.Reason,
			Excerpt:      truncate(doc.Chunk.Content, excerptLength),
		}
		if doc.Participation != nil {
			out.SigningStatus = string(doc.Participation.SigningStatus)
		}
		output.Results[i] = out
	}

	return nil, output, nil
}

// handleBriefing handles the generate_briefing tool invocation.
func (s *Server) handleBriefing(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BriefingInput,
) (*mcp.CallToolResult, BriefingOutput, error) {
	if s.ports.Briefing == nil {
		return nil, BriefingOutput{}, errServiceUnavailable
	}

	q := input.query()
	if err := q.Validate(); err != nil {
		return nil, BriefingOutput{}, err
	}
	b, err := s.ports.Briefing.Generate(ctx, q, domain.BriefingOptions{TopK: input.TopK, FastMode: input.Fast})
	if err != nil {
		return nil, BriefingOutput{}, err
	}

	output := BriefingOutput{
		Title:          b.Title,
		Classification: b.Classification,
		Markdown:       report.Markdown(b),
		Metrics:        b.Metrics,
		Success:        b.Success,
		Warnings:       append([]string{}, b.Warnings...),
	}
	return nil, output, nil
}

// handleEvaluate handles the evaluate_retrieval tool invocation.
func (s *Server) handleEvaluate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EvaluateInput,
) (*mcp.CallToolResult, EvaluateOutput, error) {
	if s.ports.Evaluation == nil {
		return nil, EvaluateOutput{}, errServiceUnavailable
	}

	rep, err := s.ports.Evaluation.Evaluate(ctx, domain.EvaluationOptions{
		IncludeBaseline:   input.Baseline == nil || *input.Baseline,
		GenerateSynthetic: input.Synthetic,
		SyntheticCount:    input.SyntheticCount,
		FastMode:          input.Fast,
	})
	if err != nil {
		return nil, EvaluateOutput{}, err
	}

	output := EvaluateOutput{
		OverallScore: rep.OverallScore,
		Averages:     rep.Averages,
		Cases:        make([]EvaluatedCase, len(rep.Results)),
		Generated:    make([]string, len(rep.Generated)),
		FastMode:     rep.FastMode,
		DurationMS:   rep.Duration.Milliseconds(),
	}
	for i, r := range rep.Results {
		output.Cases[i] = EvaluatedCase{
			Question:  r.TestCase.Question,
			Synthetic: r.TestCase.Synthetic,
			Retrieved: append([]string{}, r.Retrieved...),
			Metrics:   r.Metrics,
		}
	}
	for i, tc := range rep.Generated {
		output.Generated[i] = tc.Question
	}
	return nil, output, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
