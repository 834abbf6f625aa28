package scraper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"topwayft/pkg/config"
	"topwayft/pkg/logger"
	"topwayft/pkg/reddit"
	"topwayft/pkg/ui"
)

// RunConfig holds the parameters of a single collection run
type RunConfig struct {
	Subreddit      string
	Author         string
	Subject        string
	ScoreThreshold int
	RunLength      config.RunLength
	Month          int
	Year           int
	IncludeReplies bool
}

// RunConfigFrom builds a RunConfig from the scrape section of the configuration
func RunConfigFrom(cfg config.ScrapeConfig) RunConfig {
	return RunConfig{
		Subreddit:      cfg.Subreddit,
		Author:         cfg.Author,
		Subject:        cfg.Subject,
		ScoreThreshold: cfg.ScoreThreshold,
		RunLength:      cfg.RunLength,
		Month:          cfg.Month,
		Year:           cfg.Year,
		IncludeReplies: cfg.IncludeReplies,
	}
}

// Validate checks the run parameters
func (rc RunConfig) Validate() error {
	var errs []error

	if rc.Subreddit == "" {
		errs = append(errs, errors.New("subreddit is required"))
	}
	if rc.Author == "" {
		errs = append(errs, errors.New("author is required"))
	}
	if rc.Subject == "" {
		errs = append(errs, errors.New("subject is required"))
	}
	if rc.ScoreThreshold < 0 {
		errs = append(errs, fmt.Errorf("score threshold cannot be negative, got %d", rc.ScoreThreshold))
	}
	if rc.Month < 1 || rc.Month > 12 {
		errs = append(errs, fmt.Errorf("month must be between 1 and 12, got %d", rc.Month))
	}
	if _, err := config.ParseRunLength(string(rc.RunLength)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Query returns the search query selecting the roundup threads
func (rc RunConfig) Query() string {
	return reddit.SearchQuery(rc.Subject, rc.Author)
}

// InWindow reports whether t falls in the run's year and, for monthly runs,
// its month. t is compared in UTC.
func (rc RunConfig) InWindow(t time.Time) bool {
	t = t.UTC()
	if t.Year() != rc.Year {
		return false
	}
	if rc.RunLength == config.RunLengthMonth && int(t.Month()) != rc.Month {
		return false
	}
	return true
}

// Window names the run's time window, "2023-04" for a month or "2023" for a year
func (rc RunConfig) Window() string {
	if rc.RunLength == config.RunLengthMonth {
		return fmt.Sprintf("%04d-%02d", rc.Year, rc.Month)
	}
	return fmt.Sprintf("%04d", rc.Year)
}

// Option configures a Scraper
type Option func(*Scraper)

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) {
		s.logger = l
	}
}

// WithPrinter sets where progress lines go
func WithPrinter(p *ui.Printer) Option {
	return func(s *Scraper) {
		s.printer = p
	}
}

// Scraper collects qualifying comments from a RedditClient
type Scraper struct {
	source  RedditClient
	logger  logger.Logger
	printer *ui.Printer
}

// New creates a Scraper reading from source
func New(source RedditClient, opts ...Option) *Scraper {
	s := &Scraper{
		source:  source,
		logger:  logger.GetLogger(),
		printer: ui.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collect returns every comment of the run's threads scoring strictly above
// the threshold, highest score first. Any source error aborts the run.
func (s *Scraper) Collect(ctx context.Context, rc RunConfig) ([]*reddit.Comment, error) {
	if err := rc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}

	s.logger.InfoWithFields("Starting collection", map[string]interface{}{
		"subreddit":       rc.Subreddit,
		"query":           rc.Query(),
		"run_length":      string(rc.RunLength),
		"month":           rc.Month,
		"year":            rc.Year,
		"score_threshold": rc.ScoreThreshold,
		"include_replies": rc.IncludeReplies,
	})

	posts, err := s.source.SearchPosts(ctx, rc.Subreddit, rc.Query())
	if err != nil {
		s.logger.WithError(err).WithField("subreddit", rc.Subreddit).Error("Failed to search threads")
		return nil, fmt.Errorf("failed to search r/%s: %w", rc.Subreddit, err)
	}

	s.logger.DebugWithFields("Search completed", map[string]interface{}{
		"subreddit": rc.Subreddit,
		"posts":     len(posts),
	})

	var kept []*reddit.Comment
	checked := 0
	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		created := post.Created()
		if !rc.InWindow(created) {
			s.logger.DebugWithFields("Skipping thread outside window", map[string]interface{}{
				"post_id": post.ID,
				"created": created.Format(time.RFC3339),
			})
			continue
		}

		s.printer.Checking(post.Title, created)
		s.logger.InfoWithFields("Checking thread", map[string]interface{}{
			"post_id":      post.ID,
			"subreddit":    post.Subreddit,
			"title":        post.Title,
			"created":      created.Format("2006-01-02"),
			"num_comments": post.NumComments,
		})

		nodes, err := s.source.Comments(ctx, post)
		if err != nil {
			s.logger.WithError(err).WithField("post_id", post.ID).Error("Failed to fetch comments")
			return nil, fmt.Errorf("failed to fetch comments for %q: %w", post.Title, err)
		}

		before := len(kept)
		kept = s.qualifying(kept, nodes, rc)
		checked++

		s.logger.DebugWithFields("Thread processed", map[string]interface{}{
			"post_id":   post.ID,
			"nodes":     len(nodes),
			"qualified": len(kept) - before,
		})
	}

	if checked == 0 {
		s.printer.PrintWarning(fmt.Sprintf("No %s threads in r/%s for %s", rc.Subject, rc.Subreddit, rc.Window()))
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return *kept[i].Score > *kept[j].Score
	})

	s.printer.Found(len(kept))
	s.logger.InfoWithFields("Collection completed", map[string]interface{}{
		"threads":  checked,
		"comments": len(kept),
	})

	return kept, nil
}

// qualifying appends the comments among nodes that beat the threshold.
// Replies are walked depth-first when the run asks for them.
func (s *Scraper) qualifying(kept []*reddit.Comment, nodes []reddit.CommentNode, rc RunConfig) []*reddit.Comment {
	for _, node := range nodes {
		switch n := node.(type) {
		case *reddit.MoreComments:
			s.logger.DebugWithFields("Skipping unloaded comments", map[string]interface{}{
				"more_id":  n.ID,
				"count":    n.Count,
				"children": len(n.Children),
			})
		case *reddit.Comment:
			if n.Score != nil && *n.Score > rc.ScoreThreshold {
				kept = append(kept, n)
			}
			if rc.IncludeReplies {
				kept = s.qualifying(kept, n.Replies, rc)
			}
		}
	}
	return kept
}
