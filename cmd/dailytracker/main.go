package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	anthropicadapter "github.com/ericfisherdev/dailytracker/internal/adapter/driven/anthropic"
	githubadapter "github.com/ericfisherdev/dailytracker/internal/adapter/driven/github"
	"github.com/ericfisherdev/dailytracker/internal/application"
	"github.com/ericfisherdev/dailytracker/internal/config"
	"github.com/ericfisherdev/dailytracker/internal/domain/model"
	"github.com/ericfisherdev/dailytracker/internal/report"
	"github.com/ericfisherdev/dailytracker/internal/retry"
	"github.com/ericfisherdev/dailytracker/internal/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		// Config may be what failed, so the runner flag is read directly here.
		reportFatal(githubactions.New(), err)
		os.Exit(1)
	}
}

// reportFatal annotates the workflow run with err when running under GitHub Actions.
func reportFatal(action *githubactions.Action, err error) {
	if action.Getenv("GITHUB_ACTIONS") != "true" {
		return
	}
	action.Errorf("%s", err.Error())
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "dailytracker",
		Short: "Post a daily status narrative and promote approved drafts to issues",
		Long: `dailytracker finds or creates today's tracking issue, posts a generated
status summary on it, and turns draft notes from its Drafts section into
issues once a maintainer approves them with a 👍 reaction.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, configFile, false)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file")
	root.PersistentFlags().String("date", "", "tracking date as YYYY-MM-DD (default: today in UTC)")

	root.AddCommand(&cobra.Command{
		Use:   "drafts",
		Short: "Only advance the draft approval gate on today's tracking issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, configFile, true)
		},
	})

	return root
}

func run(cmd *cobra.Command, configFile string, draftsOnly bool) error {
	// 1. Load configuration (fail fast before any network call).
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("config loaded",
		"repo", cfg.Repository.FullName(),
		"model", cfg.Model,
		"automation_login", cfg.AutomationLogin,
		"github_actions", cfg.GitHubActions,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Telemetry (no-op unless enabled).
	shutdown, err := telemetry.Init(ctx, "dailytracker", version, telemetry.Options{Enabled: cfg.TelemetryEnabled})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	// 4. Wire adapters, each behind its retry policy.
	tracker := retry.NewTracker(githubadapter.NewClient(cfg.GitHubToken), cfg.ReadRetry, cfg.WriteRetry)
	narrator := retry.NewNarrator(
		anthropicadapter.NewNarrator(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens),
		cfg.GenerateRetry,
	)

	// 5. Wire application services.
	runner := application.NewRunner(
		application.NewDailyIssueService(tracker, cfg.Repository),
		application.NewCollector(tracker, cfg.Repository, application.CollectorLimits{
			MaxIssues:       cfg.MaxIssues,
			MaxPullRequests: cfg.MaxPullRequests,
			StaleAfterDays:  cfg.StaleAfterDays,
		}),
		narrator,
		application.NewCommentPoster(tracker, cfg.Repository),
		application.NewDraftService(
			tracker,
			cfg.Repository,
			application.NewMaterializer(tracker, cfg.Repository),
			cfg.AutomationLogin,
		),
	)

	// 6. Run.
	date := cfg.Today(time.Now())
	var rep model.RunReport
	if draftsOnly {
		rep, err = runner.RunDrafts(ctx, date)
	} else {
		rep, err = runner.Run(ctx, date)
	}
	if err != nil {
		return err
	}

	// 7. Report.
	styled := term.IsTerminal(int(os.Stdout.Fd()))
	if err := report.Write(cmd.OutOrStdout(), rep, styled); err != nil {
		slog.Warn("failed to print report", "error", err)
	}
	if cfg.GitHubActions && cfg.GitHubOutputPath != "" {
		report.WriteActionsOutputs(report.NewAction(cfg.GitHubOutputPath), rep)
	}

	return nil
}
