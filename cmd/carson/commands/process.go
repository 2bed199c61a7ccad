package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carsonhq/carson-bot/internal/core/pipeline"
	"github.com/carsonhq/carson-bot/internal/integrations/github"
	"github.com/carsonhq/carson-bot/internal/issues"
	"github.com/carsonhq/carson-bot/internal/logger"
	"github.com/carsonhq/carson-bot/internal/tui"
	"github.com/carsonhq/carson-bot/internal/webhook"
)

var (
	eventFile  string
	eventType  string
	deliveryID string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the status pipeline for a recorded webhook delivery",
	Long: `Run the status pipeline for a GitHub webhook payload stored in a file.
Without GITHUB_TOKEN the run is a dry run: the decided status is printed but not written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&eventFile, "event", "", "Path to webhook payload JSON file")
	processCmd.Flags().StringVar(&eventType, "type", "", "GitHub event type (issue_comment, pull_request, issues)")
	processCmd.Flags().StringVar(&deliveryID, "delivery", "", "Delivery id to record for the run")
	_ = processCmd.MarkFlagRequired("event")
	_ = processCmd.MarkFlagRequired("type")
}

func runProcess(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	payload, err := os.ReadFile(eventFile)
	if err != nil {
		return fmt.Errorf("failed to read event file: %w", err)
	}

	ev, err := webhook.ParseEvent(eventType, deliveryID, payload)
	if err != nil {
		return err
	}
	if ev == nil {
		fmt.Fprintf(out, "%s delivery does not affect issue status\n", eventType)
		return nil
	}

	token := os.Getenv("GITHUB_TOKEN")
	cfg, err := loadConfig(ctx, token)
	if err != nil {
		return err
	}

	isCI := os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"

	log := zap.NewNop()
	if isCI {
		if log, err = logger.New(&cfg.Logger); err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
	}

	deps := &pipeline.Dependencies{Logger: log, DryRun: dryRun}
	if token != "" {
		gh, err := newGitHubClient(ctx, token, os.Getenv("GITHUB_API_URL"))
		if err != nil {
			return err
		}
		deps.StatusAPI = func(org, repo string) issues.StatusAPI {
			return github.NewLabelStatusAPI(gh, org, repo)
		}
	} else {
		deps.DryRun = true
		deps.StatusAPI = func(org, repo string) issues.StatusAPI {
			return issues.NewDryRunStatusAPI(nil, log)
		}
	}

	stepNames := pipeline.ResolveSteps(cfg.Steps, cfg.Workflow)
	updates := make(chan tui.StepMsg)

	var (
		result *pipeline.Result
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, runErr = runReportingPipeline(ctx, deps, stepNames, ev, cfg, updates)
	}()

	if isCI {
		fmt.Fprintln(out, "[carson] Running in CI mode (no TUI)")
		for msg := range updates {
			fmt.Fprintf(out, "[carson] %s: %s %s\n", msg.Step, msg.State, msg.Message)
		}
	} else {
		title := fmt.Sprintf("Carson: %s/%s#%d", ev.Org, ev.Repo, ev.IssueNumber)
		if _, err := tea.NewProgram(tui.NewModel(title, stepNames, updates)).Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		// Keep the pipeline unblocked if the view quit early.
		go func() {
			for range updates {
			}
		}()
	}
	<-done

	if runErr != nil {
		return runErr
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
