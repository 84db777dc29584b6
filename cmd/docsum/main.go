package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docsum",
	Short: "Batch document summarization pipeline",
	Long: `docsum walks a directory tree of JSON documents (news articles, regulatory
filings), summarizes them with an LLM at several granularities, and writes
Markdown summaries with JSON metadata sidecars. Completed work is cached by
content hash, so interrupted batches resume where they left off.`,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
