package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"topwayft/pkg/extract"
)

const (
	// DefaultScoreThreshold is the score a comment must exceed to make the roundup
	DefaultScoreThreshold = 15

	// DefaultAuthor is the moderator bot that posts the WAYFT threads
	DefaultAuthor = "RawDenimAutoMod"

	// DefaultSubreddit is the forum the roundup threads live in
	DefaultSubreddit = "rawdenim"

	// DefaultSubject is the title keyword of the roundup threads
	DefaultSubject = "WAYFT"

	// DefaultLinkPattern matches anchor targets in rendered comment HTML
	DefaultLinkPattern = extract.DefaultPattern

	envPrefix = "TOPWAYFT_"
)

// RunLength is the time window a run covers
type RunLength string

const (
	RunLengthMonth RunLength = "month"
	RunLengthYear  RunLength = "year"
)

// ParseRunLength validates a run length string. Only the exact lowercase
// names are accepted, so a parsed value always compares equal to the constants.
func ParseRunLength(s string) (RunLength, error) {
	switch RunLength(s) {
	case RunLengthMonth:
		return RunLengthMonth, nil
	case RunLengthYear:
		return RunLengthYear, nil
	default:
		return "", fmt.Errorf("invalid run length %q (want %q or %q)", s, RunLengthMonth, RunLengthYear)
	}
}

// Config holds all configuration options for a roundup run
type Config struct {
	// Reddit API access
	Reddit RedditConfig `yaml:"reddit" json:"reddit"`

	// Request pacing
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// What to scrape
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// RedditConfig holds the OAuth application credentials and endpoints
type RedditConfig struct {
	ClientID     string        `yaml:"client_id" json:"client_id"`
	ClientSecret string        `yaml:"client_secret" json:"client_secret"`
	Username     string        `yaml:"username" json:"username"`
	Password     string        `yaml:"password" json:"password"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	APIURL       string        `yaml:"api_url" json:"api_url"`
	AuthURL      string        `yaml:"auth_url" json:"auth_url"`
	SiteURL      string        `yaml:"site_url" json:"site_url"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds request pacing configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	Burst             int `yaml:"burst" json:"burst"`
}

// ScrapeConfig holds the run parameters. Month, Year, ScoreThreshold and RunLength
// are normally supplied on the command line.
type ScrapeConfig struct {
	Subreddit      string    `yaml:"subreddit" json:"subreddit"`
	Author         string    `yaml:"author" json:"author"`
	Subject        string    `yaml:"subject" json:"subject"`
	ScoreThreshold int       `yaml:"score_threshold" json:"score_threshold"`
	RunLength      RunLength `yaml:"run_length" json:"run_length"`
	Month          int       `yaml:"month" json:"month"`
	Year           int       `yaml:"year" json:"year"`
	IncludeReplies bool      `yaml:"include_replies" json:"include_replies"`
	LinkPattern    string    `yaml:"link_pattern" json:"link_pattern"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config for the current month
func DefaultConfig() *Config {
	return defaultConfigAt(time.Now())
}

func defaultConfigAt(now time.Time) *Config {
	return &Config{
		Reddit: RedditConfig{
			UserAgent: "Top of WAYFT Collector",
			APIURL:    "https://oauth.reddit.com",
			AuthURL:   "https://www.reddit.com",
			SiteURL:   "https://www.reddit.com",
			Timeout:   30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			Burst:             1,
		},
		Scrape: ScrapeConfig{
			Subreddit:      DefaultSubreddit,
			Author:         DefaultAuthor,
			Subject:        DefaultSubject,
			ScoreThreshold: DefaultScoreThreshold,
			RunLength:      RunLengthMonth,
			Month:          int(now.Month()),
			Year:           now.Year(),
			LinkPattern:    DefaultLinkPattern,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadFromEnv loads configuration from TOPWAYFT_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(envPrefix + "CLIENT_ID"); v != "" {
		c.Reddit.ClientID = v
	}
	if v := os.Getenv(envPrefix + "CLIENT_SECRET"); v != "" {
		c.Reddit.ClientSecret = v
	}
	if v := os.Getenv(envPrefix + "USERNAME"); v != "" {
		c.Reddit.Username = v
	}
	if v := os.Getenv(envPrefix + "PASSWORD"); v != "" {
		c.Reddit.Password = v
	}
	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		c.Reddit.UserAgent = v
	}

	if v := os.Getenv(envPrefix + "REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREQUESTS_PER_MINUTE: %w", envPrefix, err))
		} else {
			c.RateLimit.RequestsPerMinute = n
		}
	}

	if v := os.Getenv(envPrefix + "SUBREDDIT"); v != "" {
		c.Scrape.Subreddit = v
	}
	if v := os.Getenv(envPrefix + "AUTHOR"); v != "" {
		c.Scrape.Author = v
	}

	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".topwayft.yaml",
		".topwayft.yml",
		filepath.Join(home, ".config", "topwayft", "config.yaml"),
		filepath.Join(home, ".topwayft.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Reddit.ClientID == "" {
		errs = append(errs, errors.New("reddit client ID is required"))
	}
	if c.Reddit.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if (c.Reddit.Username == "") != (c.Reddit.Password == "") {
		errs = append(errs, errors.New("reddit username and password must be set together"))
	}
	if c.Reddit.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("burst must be positive"))
	}

	if c.Scrape.Subreddit == "" {
		errs = append(errs, errors.New("subreddit is required"))
	}
	if c.Scrape.Author == "" {
		errs = append(errs, errors.New("author filter is required"))
	}
	if c.Scrape.Subject == "" {
		errs = append(errs, errors.New("subject keyword is required"))
	}
	if c.Scrape.ScoreThreshold < 0 {
		errs = append(errs, errors.New("score threshold cannot be negative"))
	}
	if c.Scrape.Month < 1 || c.Scrape.Month > 12 {
		errs = append(errs, fmt.Errorf("month must be between 1 and 12, got %d", c.Scrape.Month))
	}
	if _, err := ParseRunLength(string(c.Scrape.RunLength)); err != nil {
		errs = append(errs, err)
	}
	if _, err := extract.New(c.Scrape.LinkPattern); err != nil {
		errs = append(errs, err)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map override; the map holds flags the user actually set.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if month, ok := flags["month"].(int); ok {
		c.Scrape.Month = month
	}
	if year, ok := flags["year"].(int); ok {
		c.Scrape.Year = year
	}
	if threshold, ok := flags["score_threshold"].(int); ok {
		c.Scrape.ScoreThreshold = threshold
	}
	if runLength, ok := flags["run_length"].(RunLength); ok {
		c.Scrape.RunLength = runLength
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".topwayft.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
