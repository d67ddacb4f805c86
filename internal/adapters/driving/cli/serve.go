package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/treatyrag/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/treatyrag/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API.

Endpoints:
  GET  /healthz
  GET  /api/v1/index/stats
  POST /api/v1/retrieve
  POST /api/v1/evaluate
  POST /api/v1/briefings   (?format=html for a rendered page)

The treaty index is built in the background on start; retrieval requests
made before it is ready wait for it. Prompt templates in the configuration
directory are reloaded when they change.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = svc.Settings.Server.Addr
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Index:      svc.Index,
		Retrieval:  svc.Retrieval,
		Evaluation: svc.Evaluation,
		Briefing:   svc.Briefing,
		Defaults:   svc.Settings.Retrieval.Options(),
		FastMode:   svc.Settings.Evaluation.FastMode,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	startBackground(ctx, svc)

	cmd.Printf("Listening on http://%s\n", addr)
	return server.Run(ctx, addr)
}

// startBackground warms the index and watches prompt templates until ctx ends.
func startBackground(ctx context.Context, svc *Services) {
	if svc.Index != nil {
		go func() {
			if err := svc.Index.Initialize(ctx); err != nil {
				logger.Error(err, "index warmup")
				return
			}
			stats := svc.Index.Stats()
			logger.Info("index ready: %d chunks from %d records", stats.Chunks, stats.Records)
		}()
	}
	if svc.Prompts != nil {
		go func() {
			err := svc.Prompts.Watch(ctx, func(name string) {
				logger.Info("reloaded prompt %s", name)
			})
			if err != nil && ctx.Err() == nil {
				logger.Warn("prompt watcher stopped: %v", err)
			}
		}()
	}
}
