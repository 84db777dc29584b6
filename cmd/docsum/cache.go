package main

import (
	"log/slog"
	"os"

	"github.com/dgallion1/docsum/internal/cache"
	"github.com/dgallion1/docsum/internal/config"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the summary cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cache markers",
	Long: `Remove every cache marker so the next run regenerates all summaries.
Output artifacts are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		m := cache.NewManager(cfg.CacheDir, true, log)
		if err := m.Clear(); err != nil {
			return err
		}
		log.Info("cache cleared", "dir", cfg.CacheDir)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
