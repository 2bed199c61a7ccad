package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carsonhq/carson-bot/internal/core/pipeline"
	"github.com/carsonhq/carson-bot/internal/integrations/github"
	"github.com/carsonhq/carson-bot/internal/issues"
	"github.com/carsonhq/carson-bot/internal/logger"
	"github.com/carsonhq/carson-bot/internal/steps"
	"github.com/carsonhq/carson-bot/internal/webhook"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Receive GitHub webhooks and update issue statuses",
	Long: `Start the webhook server. Server settings come from the environment:
CARSON_HTTP_HOST, CARSON_HTTP_PORT, CARSON_HTTP_TIMEOUT,
CARSON_HTTP_SHUTDOWN_TIMEOUT, GITHUB_WEBHOOK_SECRET, GITHUB_TOKEN and
GITHUB_API_URL (GitHub Enterprise only).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srvCfg, err := webhook.LoadConfig()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, srvCfg.GitHubToken)
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if srvCfg.Secret == "" {
		log.Warn("serve: GITHUB_WEBHOOK_SECRET is empty, signatures are not verified")
	}

	gh, err := newGitHubClient(ctx, srvCfg.GitHubToken, srvCfg.GitHubAPIURL)
	if err != nil {
		return err
	}
	deps := &pipeline.Dependencies{
		StatusAPI: func(org, repo string) issues.StatusAPI {
			return github.NewLabelStatusAPI(gh, org, repo)
		},
		Logger: log,
		DryRun: dryRun,
	}

	runner, err := steps.NewRunner(cfg, deps)
	if err != nil {
		return err
	}

	srv := http.Server{
		Addr:    srvCfg.Addr(),
		Handler: webhook.NewRouter(runner, srvCfg.Secret, log, srvCfg.Timeout),
	}

	go func() {
		log.Info("starting http server", zap.String("addr", srv.Addr), zap.Strings("steps", runner.Steps()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", zap.Error(err))
		return err
	}

	log.Info("application shutdown completed successfully")
	return nil
}
