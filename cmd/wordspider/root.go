package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wordspider.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordspider",
		Short: "Crawl a website and build a word frequency list",
		Long: `wordspider crawls every reachable page of a single website, extracts the
visible text, and counts how often each word occurs.

Links to other domains are never followed. Words listed in the ignore file
(ignore_words.txt by default) and words shorter than three letters are
skipped. Results are written as JSON, CSV, plain text or Markdown.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
