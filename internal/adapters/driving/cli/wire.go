package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/treatyrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/treatyrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/treatyrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/treatyrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/treatyrag/internal/adapters/driven/testset/yaml"
	"github.com/custodia-labs/treatyrag/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
	"github.com/custodia-labs/treatyrag/internal/core/services"
	"github.com/custodia-labs/treatyrag/internal/logger"
)

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return file.DefaultDir()
}

func buildSettingsService(dir string) (driving.SettingsService, error) {
	dir, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return services.NewSettingsService(store, ai.NewConfigValidator()), nil
}

// buildServices wires adapters to the core services from the saved settings.
func buildServices(dir string, settingsSvc driving.SettingsService) (*Services, error) {
	dir, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}

	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	ai.ApplyEnvKeys(settings)

	svc := &Services{Settings: *settings, TestSets: yaml.NewLoader()}

	logger.Section("AI services")
	aiResult := ai.Init(settings)
	svc.Warnings = append(svc.Warnings, aiResult.Warnings...)
	svc.closers = append(svc.closers, func() error {
		aiResult.Close()
		return nil
	})

	vectors, err := newVectorIndex(settings.Vector)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}
	svc.closers = append(svc.closers, vectors.Close)

	opts := []services.IndexOption{
		services.WithBatchSize(settings.Embedding.BatchSize),
		services.WithBatchRate(settings.Embedding.RequestsPerSecond),
	}
	if settings.CacheEmbeddings && aiResult.EmbeddingService != nil {
		store, err := sqlite.NewStore(filepath.Join(dir, "data"))
		if err != nil {
			svc.Warnings = append(svc.Warnings, fmt.Sprintf("embedding cache disabled: %v", err))
		} else {
			svc.closers = append(svc.closers, store.Close)
			opts = append(opts, services.WithEmbeddingCache(store.EmbeddingCache()))
		}
	}

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("open prompts: %w", err)
	}
	svc.Prompts = prompts

	index := services.NewIndexService(
		services.FileCorpus(settings.Corpus.Path), vectors, aiResult.EmbeddingService, opts...)

	reranker := services.NewReranker(aiResult.LLMService)
	reranker.SetPromptStore(prompts)
	retrieval := services.NewRetrievalService(index, reranker)

	timeout := time.Duration(settings.Evaluation.TimeoutSeconds) * time.Second
	evaluation := services.NewEvaluationService(retrieval, index, aiResult.LLMService, timeout)
	evaluation.SetPromptStore(prompts)

	briefing := services.NewBriefingService(retrieval, evaluation, aiResult.LLMService, settings.Retrieval.Options())
	briefing.SetPromptStore(prompts)

	svc.Index = index
	svc.Retrieval = retrieval
	svc.Evaluation = evaluation
	svc.Briefing = briefing

	logger.Debug("corpus=%s vector=%s cache=%v", settings.Corpus.Path, settings.Vector, settings.CacheEmbeddings)
	return svc, nil
}

func newVectorIndex(backend domain.VectorBackend) (driven.VectorIndex, error) {
	if backend == domain.VectorBackendChromem {
		idx, err := chromem.NewVectorIndex()
		if err != nil {
			return nil, fmt.Errorf("create chromem index: %w", err)
		}
		return idx, nil
	}
	return memory.NewVectorIndex(), nil
}
