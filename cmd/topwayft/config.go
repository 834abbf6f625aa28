package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"topwayft/pkg/config"
	"topwayft/pkg/ui"
)

const exampleConfig = `# topwayft configuration
#
# Every value can also be set with a TOPWAYFT_ environment variable,
# for example TOPWAYFT_CLIENT_ID and TOPWAYFT_CLIENT_SECRET.

reddit:
  # Script app credentials from https://www.reddit.com/prefs/apps (required)
  client_id: ""
  client_secret: ""

  # Optional; when set the password grant is used instead of app-only access
  username: ""
  password: ""

  user_agent: "Top of WAYFT Collector"
  timeout: 30s

rate_limit:
  # Reddit allows 100 requests per minute for OAuth clients
  requests_per_minute: 60
  burst: 1

scrape:
  subreddit: "rawdenim"
  author: "RawDenimAutoMod"
  subject: "WAYFT"
  score_threshold: 15

  # Also rank replies, not only top-level comments
  include_replies: false

logging:
  # debug, info, warn, error, disabled
  level: "warn"
  # Optional log file, written in addition to stderr
  file: ""
`

func newConfigCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
		Long: `Manage topwayft configuration files.

Configuration is loaded from, highest priority first:
  - Command line flags
  - Environment variables (TOPWAYFT_*) and .env files
  - Configuration file
  - Default values`,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create an example configuration file",
		Long: `Create an example configuration file with all available options.

The file is written to .topwayft.yaml in the current directory unless a
different path is given with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configFile
			if path == "" {
				path = ".topwayft.yaml"
			}
			return writeExampleConfig(path, ui.NewPrinter(stderr, opts.quiet))
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after merging every source.

Credentials are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if err := cfg.LoadFromFile(opts.configFile); err != nil {
				return err
			}
			if err := cfg.LoadFromEnv(); err != nil {
				return err
			}
			return showConfig(cfg, stdout)
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}

func writeExampleConfig(path string, printer *ui.Printer) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	printer.PrintInfo("Configuration file created", path)
	return nil
}

func showConfig(cfg *config.Config, w io.Writer) error {
	display := *cfg
	display.Reddit.ClientSecret = mask(display.Reddit.ClientSecret)
	display.Reddit.Password = mask(display.Reddit.Password)

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// mask hides all but the ends of a secret
func mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) > 8:
		return secret[:2] + "..." + secret[len(secret)-2:]
	default:
		return "***"
	}
}
