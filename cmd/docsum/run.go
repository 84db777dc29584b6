package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/docsum/internal/cache"
	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/pipeline"
	"github.com/dgallion1/docsum/internal/summarize"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var (
	runMode     string
	runInput    string
	runOutput   string
	runTheme    string
	runRetries  int
	runNoCache  bool
	runSchedule string
	runVerbose  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Summarize a directory of JSON documents",
	Long: `Run one summarization pass over every JSON document under the input
directory. With --schedule, run immediately and then on the given cron
expression until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("retries") {
			cfg.MaxRetries = runRetries
		}
		if runNoCache {
			cfg.CacheEnabled = false
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		mode := summarize.Mode(runMode)
		if !mode.Valid() {
			return fmt.Errorf("invalid mode %q (expected file, node, master, or cross)", runMode)
		}

		level := slog.LevelInfo
		if runVerbose {
			level = slog.LevelDebug
		}
		log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		prompts := summarize.DefaultPromptSet()
		if cfg.PromptSet != "" {
			prompts, err = summarize.LoadPromptSet(cfg.PromptSet)
			if err != nil {
				return err
			}
		}

		client := summarize.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		defer client.Close()

		summarizer := summarize.NewLLMSummarizer(client, prompts, log)
		cacheMgr := cache.NewManager(cfg.CacheDir, cfg.CacheEnabled, log)
		orch := pipeline.NewOrchestrator(cfg, cacheMgr, summarizer, log)

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		runOnce := func() error {
			res, err := orch.Run(ctx, mode, runInput, runOutput, runTheme)
			printRunReport(cmd.OutOrStdout(), mode, res, client.Stats().Snapshot())
			return err
		}

		if runSchedule == "" {
			return runOnce()
		}

		// Scheduled operation: one immediate pass, then on the cron
		// expression until a signal arrives.
		if err := runOnce(); err != nil {
			log.Error("initial run failed", "error", err)
		}
		c := cron.New()
		if _, err := c.AddFunc(runSchedule, func() {
			if err := runOnce(); err != nil {
				log.Error("scheduled run failed", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", runSchedule, err)
		}
		c.Start()
		log.Info("scheduler started", "schedule", runSchedule)
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runMode, "mode", "m", "file", "Summarization mode (file, node, master, cross)")
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "Input directory of JSON documents")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Output directory for summaries")
	runCmd.Flags().StringVar(&runTheme, "theme", "", "Theme for cross-document mode")
	runCmd.Flags().IntVar(&runRetries, "retries", 3, "Max retries per LLM call")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "Disable the summary cache")
	runCmd.Flags().StringVar(&runSchedule, "schedule", "", "Cron expression for repeated runs")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Enable debug logging")
	runCmd.MarkFlagRequired("input")
	runCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(runCmd)
}
