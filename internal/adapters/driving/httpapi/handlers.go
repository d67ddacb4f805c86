package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/report"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// RetrieveRequest is the body of POST /api/v1/retrieve.
// Either the scenario with its three parties or Text must be set.
type RetrieveRequest struct {
	domain.RetrievalQuery

	// Text runs a plain text search without scenario expansion.
	Text string `json:"text"`

	TopK           int                   `json:"topK"`
	Fusion         domain.FusionStrategy `json:"fusion"`
	SemanticWeight *float64              `json:"semanticWeight"`
	ScenarioBoost  *bool                 `json:"scenarioBoost"`
	Rerank         *bool                 `json:"rerank"`
}

// EvaluateRequest is the body of POST /api/v1/evaluate.
type EvaluateRequest struct {
	Baseline       *bool             `json:"baseline"`
	Synthetic      bool              `json:"synthetic"`
	SyntheticCount int               `json:"syntheticCount"`
	Fast           bool              `json:"fast"`
	TopK           int               `json:"topK"`
	TestSet        []domain.TestCase `json:"testSet"`
}

// BriefingRequest is the body of POST /api/v1/briefings.
type BriefingRequest struct {
	domain.RetrievalQuery

	TopK int  `json:"topK"`
	Fast bool `json:"fast"`
}

func (s *Server) health(c *gin.Context) {
	ready := false
	if s.ports.Index != nil {
		ready = s.ports.Index.Stats().Initialized
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "indexReady": ready})
}

func (s *Server) indexStats(c *gin.Context) {
	if s.ports.Index == nil {
		respondError(c, domain.ErrIndexNotReady)
		return
	}
	c.JSON(http.StatusOK, s.ports.Index.Stats())
}

func (s *Server) retrieve(c *gin.Context) {
	var req RetrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	opts, err := s.retrievalOptions(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	var result domain.RetrievalResult
	if strings.TrimSpace(req.Text) != "" && strings.TrimSpace(req.Scenario) == "" {
		result, err = s.ports.Retrieval.SearchText(c.Request.Context(), req.Text, opts)
	} else {
		result, err = s.ports.Retrieval.Search(c.Request.Context(), req.RetrievalQuery, opts)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) retrievalOptions(req *RetrieveRequest) (domain.RetrievalOptions, error) {
	opts := s.ports.Defaults
	if req.TopK != 0 {
		if req.TopK < 0 || req.TopK > domain.MaxTopK {
			return opts, fmt.Errorf("%w: topK out of range", domain.ErrInvalidInput)
		}
		opts.TopK = req.TopK
	}
	if req.Fusion != "" {
		if !req.Fusion.IsValid() {
			return opts, fmt.Errorf("%w: unknown fusion strategy", domain.ErrInvalidInput)
		}
		opts.Strategy = req.Fusion
	}
	if req.SemanticWeight != nil {
		if *req.SemanticWeight < 0 || *req.SemanticWeight > 1 {
			return opts, fmt.Errorf("%w: semanticWeight must be between 0 and 1", domain.ErrInvalidInput)
		}
		opts.SemanticWeight = *req.SemanticWeight
	}
	if req.ScenarioBoost != nil {
		opts.ScenarioBoost = *req.ScenarioBoost
	}
	if req.Rerank != nil {
		opts.Rerank = *req.Rerank
	}
	return opts.Normalised(), nil
}

func (s *Server) evaluate(c *gin.Context) {
	if s.ports.Evaluation == nil {
		respondError(c, errors.New("evaluation service not configured"))
		return
	}

	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	opts := domain.EvaluationOptions{
		IncludeBaseline:   req.Baseline == nil || *req.Baseline,
		GenerateSynthetic: req.Synthetic,
		SyntheticCount:    req.SyntheticCount,
		TestSet:           req.TestSet,
		FastMode:          req.Fast || s.ports.FastMode,
		TopK:              req.TopK,
	}
	rep, err := s.ports.Evaluation.Evaluate(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) briefing(c *gin.Context) {
	if s.ports.Briefing == nil {
		respondError(c, errors.New("briefing service not configured"))
		return
	}

	var req BriefingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	opts := domain.BriefingOptions{TopK: req.TopK, FastMode: req.Fast || s.ports.FastMode}
	b, err := s.ports.Briefing.Generate(c.Request.Context(), req.RetrievalQuery, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	if strings.EqualFold(c.Query("format"), "html") {
		page, err := report.HTML(b)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
		return
	}
	c.JSON(http.StatusOK, b)
}
