package commands

import (
	"context"
	"fmt"
	"os"

	"shakeup-scraper/report"

	"github.com/spf13/cobra"
)

type options struct {
	url           string
	file          string
	configPath    string
	format        string
	skipMalformed bool
	browser       bool
	saveToDB      bool
	spreadsheet   string
	credentials   string
	logLevel      string
	logPretty     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "shakeup (--url <leaderboard url> | --file <url list>)",
		Short: "Computes the public/private leaderboard shakeup of competitions.",
		Long: `Scrapes the public and private leaderboards of a competition and reports
how much participant ranks changed between them: the mean absolute rank
change over the whole board and over the top 10%, both normalized by the
board size, plus the Spearman rank correlation.

URLs are leaderboard roots without the trailing /public or /private, e.g.
https://www.kaggle.com/c/liberty-mutual-fire-peril/leaderboard`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.url, "url", "u", "", "Leaderboard URL, without the final /public or /private")
	flags.StringVarP(&opts.file, "file", "f", "", "File with one leaderboard URL per line")
	flags.StringVar(&opts.configPath, "config", "config.yaml", "Path to configuration file (defaults are used if it does not exist)")
	flags.StringVar(&opts.format, "format", report.FormatTable, "Output format: table, csv or markdown")
	flags.BoolVar(&opts.skipMalformed, "skip-malformed", false, "Skip URLs without a c/<name>/leaderboard path instead of aborting the batch")
	flags.BoolVar(&opts.browser, "browser", false, "Fetch pages with a headless browser")
	flags.BoolVar(&opts.saveToDB, "db", false, "Save results to PostgreSQL (storage.database_url or DATABASE_URL)")
	flags.StringVar(&opts.spreadsheet, "spreadsheet", "", "Google Sheets URL to export results to")
	flags.StringVar(&opts.credentials, "credentials", "", "Path to Google service account credentials JSON file (or use GOOGLE_SHEETS_CREDENTIALS env var)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.BoolVar(&opts.logPretty, "log-pretty", false, "Human-readable log output")

	cmd.MarkFlagsMutuallyExclusive("url", "file")
	cmd.MarkFlagsOneRequired("url", "file")

	return cmd
}

// ExecuteContext runs the CLI and exits non-zero on failure
func ExecuteContext(ctx context.Context) {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
