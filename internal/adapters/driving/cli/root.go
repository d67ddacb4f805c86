// Package cli implements the treatyrag command line.
package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driven"
	"github.com/custodia-labs/treatyrag/internal/core/ports/driving"
	"github.com/custodia-labs/treatyrag/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// PromptWatcher reloads prompt templates when their files change.
type PromptWatcher interface {
	Watch(ctx context.Context, onChange func(name string)) error
}

// Services holds the components every command works against.
// They are built once per process and shared by all driving adapters.
type Services struct {
	Index      driving.IndexService
	Retrieval  driving.RetrievalService
	Evaluation driving.EvaluationService
	Briefing   driving.BriefingService
	TestSets   driven.TestSetLoader
	Prompts    PromptWatcher

	// Settings is the resolved configuration the services were built from.
	Settings domain.AppSettings

	// Warnings lists degraded components, e.g. an unreachable embedding service.
	Warnings []string

	closers []func() error
}

// Close releases adapter resources in reverse construction order.
func (s *Services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

var (
	servicesMu      sync.Mutex
	sharedServices  *Services
	settingsService driving.SettingsService

	// Factories are swapped out in tests.
	newSettingsService = buildSettingsService
	newServices        = buildServices
)

var rootCmd = &cobra.Command{
	Use:   "treatyrag",
	Short: "Treaty retrieval and briefing engine",
	Long: `treatyrag retrieves international treaties relevant to a geopolitical
scenario and turns them into analyst briefings.

It combines semantic (embedding) and keyword (BM25) retrieval, boosts
treaties signed by the countries involved, and scores its own output with
RAGAS-style metrics.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline details to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.treatyrag)")
}

// Execute runs the root command and releases services on exit.
func Execute(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

// loadSettingsService returns the settings service, building it on first use.
func loadSettingsService() (driving.SettingsService, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	if settingsService != nil {
		return settingsService, nil
	}
	svc, err := newSettingsService(configDir)
	if err != nil {
		return nil, err
	}
	settingsService = svc
	return svc, nil
}

// loadServices returns the shared services, building them on first use.
func loadServices() (*Services, error) {
	settings, err := loadSettingsService()
	if err != nil {
		return nil, err
	}

	servicesMu.Lock()
	defer servicesMu.Unlock()

	if sharedServices != nil {
		return sharedServices, nil
	}
	svc, err := newServices(configDir, settings)
	if err != nil {
		return nil, err
	}
	for _, w := range svc.Warnings {
		logger.Warn("%s", w)
	}
	sharedServices = svc
	return svc, nil
}

func closeServices() {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	if sharedServices == nil {
		return
	}
	if err := sharedServices.Close(); err != nil {
		logger.Warn("closing services: %v", err)
	}
	sharedServices = nil
}
