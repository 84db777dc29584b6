package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docsum/internal/api"
	"github.com/dgallion1/docsum/internal/config"
	"github.com/spf13/cobra"
)

var serveOutput string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve generated summaries over HTTP",
	Long: `Serve the artifacts of a completed summarization run: a JSON listing,
per-summary metadata, and HTML renderings of the Markdown summaries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		srv := api.NewServer(serveOutput, log, cfg)

		httpServer := &http.Server{
			Addr:         cfg.ServeAddr,
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown.
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			log.Info("shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Info("serving summaries", "addr", cfg.ServeAddr, "output", serveOutput)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveOutput, "output", "o", "", "Output directory from a summarization run")
	serveCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(serveCmd)
}
