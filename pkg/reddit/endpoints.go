package reddit

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// SearchPageSize is the largest page the search endpoint returns
	SearchPageSize = 100

	// CommentLimit is the largest number of comments one tree request returns
	CommentLimit = 500
)

// GetTokenURL returns the OAuth token endpoint
func GetTokenURL(authBase string) string {
	return strings.TrimRight(authBase, "/") + "/api/v1/access_token"
}

// GetSearchURL builds a newest-first search restricted to subreddit
func GetSearchURL(apiBase, subreddit, query, after string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("restrict_sr", "1")
	params.Set("sort", "new")
	params.Set("limit", fmt.Sprint(SearchPageSize))
	params.Set("raw_json", "1")
	if after != "" {
		params.Set("after", after)
	}
	return fmt.Sprintf("%s/r/%s/search?%s", strings.TrimRight(apiBase, "/"), url.PathEscape(subreddit), params.Encode())
}

// GetCommentsURL builds the comment tree request for a post
func GetCommentsURL(apiBase, postID string) string {
	params := url.Values{}
	params.Set("limit", fmt.Sprint(CommentLimit))
	params.Set("raw_json", "1")
	return fmt.Sprintf("%s/comments/%s?%s", strings.TrimRight(apiBase, "/"), url.PathEscape(postID), params.Encode())
}

// SearchQuery builds the title/author query used to find roundup threads
func SearchQuery(subject, author string) string {
	return fmt.Sprintf("title:%s AND author:%s", subject, author)
}

// PermalinkURL turns a site-relative permalink into an absolute URL.
// Absolute permalinks are returned unchanged.
func PermalinkURL(siteBase, permalink string) string {
	if permalink == "" || strings.HasPrefix(permalink, "http://") || strings.HasPrefix(permalink, "https://") {
		return permalink
	}
	if !strings.HasPrefix(permalink, "/") {
		permalink = "/" + permalink
	}
	return strings.TrimRight(siteBase, "/") + permalink
}
