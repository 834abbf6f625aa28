// Package scraper collects the highest scoring comments from a subreddit's
// recurring roundup threads.
//
// A run searches the subreddit for threads whose title carries the subject
// keyword and whose author is the configured bot, keeps the threads created in
// the requested month or year (UTC), and walks each thread's comments. Comments
// scoring strictly above the threshold are returned ordered by score, highest
// first; comments with equal scores keep the order they were fetched in.
//
// Usage:
//
//	client := reddit.NewClient(cfg.Reddit, limiter, log)
//	s := scraper.New(client, scraper.WithLogger(log))
//
//	comments, err := s.Collect(ctx, scraper.RunConfigFrom(cfg.Scrape))
//	if err != nil {
//	    return err
//	}
//
// "Load more" placeholders in a comment tree are skipped, never expanded, and
// only top-level comments are considered unless IncludeReplies is set.
package scraper
