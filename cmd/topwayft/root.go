package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"topwayft/pkg/config"
	"topwayft/pkg/extract"
	"topwayft/pkg/logger"
	"topwayft/pkg/ratelimit"
	"topwayft/pkg/reddit"
	"topwayft/pkg/report"
	"topwayft/pkg/scraper"
	"topwayft/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// options holds the flag values of one invocation
type options struct {
	configFile     string
	logLevel       string
	quiet          bool
	month          string
	year           int
	scoreThreshold int
	runLength      string
}

// newRootCmd builds the topwayft command. The report goes to stdout and
// progress lines to stderr.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	now := time.Now()
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "topwayft",
		Short: "Collect the top rated fits from a month of WAYFT threads",
		Long: `topwayft searches r/rawdenim for the "What Are You Wearing Today" threads
posted by the moderator bot, keeps every comment scoring above the threshold and
prints a ranked markdown roundup of the linked pictures, ready to paste into a post.

Reddit API credentials are read from the configuration file or from
TOPWAYFT_CLIENT_ID and TOPWAYFT_CLIENT_SECRET.`,
		Example: `  # Roundup for the current month
  topwayft > roundup.md

  # April 2023 with a higher bar
  topwayft -m 4 -y 2023 -s 40

  # Best of the whole year
  topwayft -l year -y 2023`,
		Args:          cobra.NoArgs,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// flag errors were reported by PreRunE; from here on usage is noise
			cmd.SilenceUsage = true
			return run(cmd.Context(), opts, opts.changedFlags(cmd), stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVarP(&opts.month, "month", "m", strconv.Itoa(int(now.Month())), "the month to scrape (1-12), defaults to current")
	cmd.Flags().IntVarP(&opts.year, "year", "y", now.Year(), "the year to scrape, defaults to current")
	cmd.Flags().IntVarP(&opts.scoreThreshold, "score_threshold", "s", config.DefaultScoreThreshold, "score a comment must exceed to be included")
	cmd.Flags().StringVarP(&opts.runLength, "run_length", "l", string(config.RunLengthMonth), "how long should the scraper run for (month, year)")

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default is ./.topwayft.yaml or $HOME/.topwayft.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress lines")

	cmd.SetVersionTemplate(`topwayft {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newConfigCmd(opts, stdout, stderr))

	return cmd
}

// validate rejects malformed flag values before any request is made
func (o *options) validate() error {
	m, err := strconv.Atoi(o.month)
	if err != nil || m < 1 || m > 12 || strconv.Itoa(m) != o.month {
		return fmt.Errorf("invalid month %q: must be one of 1 through 12", o.month)
	}
	if o.scoreThreshold < 0 {
		return fmt.Errorf("invalid score threshold %d: cannot be negative", o.scoreThreshold)
	}
	if _, err := config.ParseRunLength(o.runLength); err != nil {
		return err
	}
	return nil
}

// changedFlags returns the flags the user set, keyed the way
// config.MergeCommandLineFlags expects
func (o *options) changedFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "month":
			m, _ := strconv.Atoi(o.month)
			flags["month"] = m
		case "year":
			flags["year"] = o.year
		case "score_threshold":
			flags["score_threshold"] = o.scoreThreshold
		case "run_length":
			rl, _ := config.ParseRunLength(o.runLength)
			flags["run_length"] = rl
		}
	})
	if o.logLevel != "" {
		flags["log-level"] = o.logLevel
	}
	return flags
}

func run(ctx context.Context, opts *options, flags map[string]interface{}, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configFile, flags)
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log, _ := logger.WithRunID(logger.GetLogger())
	logger.LogComponentStart(log, "topwayft", map[string]interface{}{
		"version":    version,
		"subreddit":  cfg.Scrape.Subreddit,
		"run_length": string(cfg.Scrape.RunLength),
		"month":      cfg.Scrape.Month,
		"year":       cfg.Scrape.Year,
		"threshold":  cfg.Scrape.ScoreThreshold,
	})

	extractor, err := extract.New(cfg.Scrape.LinkPattern)
	if err != nil {
		return fmt.Errorf("invalid link pattern: %w", err)
	}

	printer := ui.NewPrinter(stderr, opts.quiet)
	limiter := ratelimit.NewPerMinute(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	client := reddit.NewClient(cfg.Reddit, limiter, log)

	s := scraper.New(client, scraper.WithLogger(log), scraper.WithPrinter(printer))
	comments, err := s.Collect(ctx, scraper.RunConfigFrom(cfg.Scrape))
	if err != nil {
		return err
	}

	renderer := report.New(stdout, extractor, report.WithSiteURL(cfg.Reddit.SiteURL), report.WithLogger(log))
	if _, err := renderer.Render(comments); err != nil {
		return err
	}

	log.Info("Run completed")
	return nil
}

// Execute runs the root command and exits non-zero on failure. An interrupt
// cancels any request in flight.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.WithError(err).Error("Run failed")
		ui.NewPrinter(os.Stderr, false).PrintError("Error", err)
		stop()
		os.Exit(1)
	}
}
