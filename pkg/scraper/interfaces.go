package scraper

import (
	"context"

	"topwayft/pkg/reddit"
)

// RedditClient defines the content source the collector reads from
type RedditClient interface {
	SearchPosts(ctx context.Context, subreddit, query string) ([]reddit.Post, error)
	Comments(ctx context.Context, post reddit.Post) ([]reddit.CommentNode, error)
}
