package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/higuaro/stackwatch"
	"github.com/higuaro/stackwatch/config"
)

// newLogger creates a JSON logger for CLI use.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// watchCmd starts the question watcher.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for new questions",
	Long: `Watch the configured Stack Exchange site for newly created questions.

The watcher will:
  - Load configuration from the specified YAML file
  - Poll the API once per interval, one request per configured tag
  - Print every new question, and optionally announce it via notify-send
  - Back off automatically when the API enforces rate limits

The watcher runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  stackwatch watch -c config.yaml
  stackwatch watch --config /etc/stackwatch/config.yaml`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = watchCmd.MarkFlagRequired("config")
}

func runWatch(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.Debug)
	logger.Info("config loaded",
		"site", cfg.Site,
		"tags", []string(cfg.Tags),
		"poll_minutes", cfg.PollMinutes,
	)

	opts := config.BuildOptions(cfg)
	opts = append(opts,
		stackwatch.WithLogger(logger),
		stackwatch.WithResultCallback(func(result stackwatch.CycleResult) {
			handleResult(result, cfg, logger)
		}),
	)

	w, err := stackwatch.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w.Start()
	<-ctx.Done()
	w.Stop()
	logger.Info("shutdown complete")
	return nil
}

// handleResult reports one cycle's outcome on the terminal and, when
// enabled, as desktop notifications.
func handleResult(result stackwatch.CycleResult, cfg *config.Config, logger *slog.Logger) {
	switch result.Kind {
	case stackwatch.ResultSuccess:
		logger.Debug("poll cycle completed", "questions", len(result.Questions))
		for _, q := range result.Questions {
			logger.Info("new question",
				"id", q.ID,
				"title", q.Title,
				"link", q.Link,
				"score", q.Score,
				"answered", q.IsAnswered,
				"asked_by", q.Owner.DisplayName,
			)
			if cfg.Notify.Enabled {
				spawnNotification(cfg.Notify.Icon, q, logger)
			}
		}

	case stackwatch.ResultThrottled:
		logger.Warn("api throttled, polling paused",
			"cooldown_minutes", result.CooldownMinutes,
		)

	case stackwatch.ResultFailed:
		logger.Error("poll cycle failed", "error", result.Err)
	}
}

// spawnNotification runs notify-send for a single question. Failures are
// logged and otherwise ignored; a missing notify-send must not stop the
// watcher.
func spawnNotification(iconPath string, q stackwatch.Question, logger *slog.Logger) {
	argv := stackwatch.NotifyCommand(iconPath, q)
	command := exec.Command(argv[0], argv[1:]...)
	if err := command.Start(); err != nil {
		logger.Warn("failed to spawn notification", "error", err)
		return
	}
	// reap in the background so the child does not linger as a zombie
	go func() { _ = command.Wait() }()
}
