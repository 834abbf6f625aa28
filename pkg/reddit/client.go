package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"topwayft/pkg/config"
	errs "topwayft/pkg/errors"
	"topwayft/pkg/logger"
	"topwayft/pkg/ratelimit"
)

// Client is a read-only Reddit OAuth API client
type Client struct {
	httpClient *http.Client
	cfg        config.RedditConfig
	limiter    ratelimit.Limiter
	logger     logger.Logger
	token      string
}

// NewClient creates a Reddit API client. A nil limiter disables pacing and a
// nil logger falls back to the global logger.
func NewClient(cfg config.RedditConfig, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		limiter:    limiter,
		logger:     log,
	}
}

// Authenticate obtains an access token. It uses the password grant when a
// username is configured and client_credentials otherwise. The token is
// fetched once and reused for the rest of the run.
func (c *Client) Authenticate(ctx context.Context) error {
	form := url.Values{}
	if c.cfg.Username != "" {
		form.Set("grant_type", "password")
		form.Set("username", c.cfg.Username)
		form.Set("password", c.cfg.Password)
	} else {
		form.Set("grant_type", "client_credentials")
	}

	tokenURL := GetTokenURL(c.cfg.AuthURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, 0, "failed to create token request: %v", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token tokenResponse
	if err := c.do(req, &token); err != nil {
		return err
	}
	if token.AccessToken == "" {
		// Reddit answers bad credentials with 200 and an error field
		return errs.New(errs.ErrorTypeAuth, http.StatusOK, "no access token returned: %s", token.Error)
	}

	c.token = token.AccessToken
	c.logger.DebugWithFields("obtained access token", map[string]interface{}{
		"grant_type": form.Get("grant_type"),
		"expires_in": token.ExpiresIn,
	})
	return nil
}

// SearchPosts returns every post in subreddit matching query, newest first,
// following pagination until the listing is exhausted.
func (c *Client) SearchPosts(ctx context.Context, subreddit, query string) ([]Post, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	var posts []Post
	after := ""
	seen := map[string]bool{}

	for page := 1; ; page++ {
		var l listing
		if err := c.getJSON(ctx, GetSearchURL(c.cfg.APIURL, subreddit, query, after), &l); err != nil {
			return nil, err
		}

		pagePosts, err := decodePosts(&l)
		if err != nil {
			return nil, errs.New(errs.ErrorTypeParsing, http.StatusOK, "%v", err)
		}
		posts = append(posts, pagePosts...)

		c.logger.DebugWithFields("fetched search page", map[string]interface{}{
			"subreddit": subreddit,
			"page":      page,
			"posts":     len(pagePosts),
		})

		after = l.Data.After
		if after == "" || seen[after] {
			break
		}
		seen[after] = true
	}

	return posts, nil
}

// Comments returns the top-level comment nodes of a post, with loaded replies
// attached to each comment.
func (c *Client) Comments(ctx context.Context, post Post) ([]CommentNode, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	// The endpoint answers with [post listing, comment listing]
	var listings []listing
	if err := c.getJSON(ctx, GetCommentsURL(c.cfg.APIURL, post.ID), &listings); err != nil {
		return nil, err
	}
	if len(listings) < 2 {
		return nil, errs.New(errs.ErrorTypeParsing, http.StatusOK, "comments for %s: expected 2 listings, got %d", post.ID, len(listings))
	}

	nodes, err := decodeCommentNodes(listings[1].Data.Children)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeParsing, http.StatusOK, "comments for %s: %v", post.ID, err)
	}

	c.logger.DebugWithFields("fetched comments", map[string]interface{}{
		"post_id": post.ID,
		"nodes":   len(nodes),
	})
	return nodes, nil
}

func (c *Client) ensureToken(ctx context.Context) error {
	if c.token != "" {
		return nil
	}
	return c.Authenticate(ctx)
}

// getJSON performs an authenticated GET and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, rawURL string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, 0, "failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "bearer "+c.token)
	return c.do(req, target)
}

// do paces, sends and decodes a request
func (c *Client) do(req *http.Request, target interface{}) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return errs.New(errs.ErrorTypeNetwork, 0, "network error: %v", err)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if apiErr := errs.FromStatus(resp.StatusCode, req.URL.String()); apiErr != nil {
		c.logger.WarnWithFields("API error", map[string]interface{}{
			"status": resp.StatusCode,
			"type":   string(apiErr.Type),
			"url":    req.URL.String(),
		})
		return apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.New(errs.ErrorTypeNetwork, resp.StatusCode, "failed to read response body: %v", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          req.URL.String(),
			"error":        err.Error(),
			"body_preview": preview,
		})
		return errs.New(errs.ErrorTypeParsing, resp.StatusCode, "failed to parse JSON: %v", err)
	}

	return nil
}
