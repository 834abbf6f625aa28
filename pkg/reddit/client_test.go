package reddit

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"topwayft/internal/redditmock"
	"topwayft/pkg/config"
	errs "topwayft/pkg/errors"
	"topwayft/pkg/logger"
)

func newTestClient(t *testing.T, srv *redditmock.Server) (*Client, *logger.TestLogger) {
	t.Helper()
	log := logger.NewTestLogger()
	cfg := config.RedditConfig{
		ClientID:     redditmock.ClientID,
		ClientSecret: redditmock.ClientSecret,
		UserAgent:    "topwayft-test",
		APIURL:       srv.URL,
		AuthURL:      srv.URL,
		SiteURL:      "https://www.reddit.com",
		Timeout:      5 * time.Second,
	}
	return NewClient(cfg, nil, log), log
}

func samplePosts(n int) []redditmock.Post {
	posts := make([]redditmock.Post, n)
	for i := range posts {
		posts[i] = redditmock.Post{
			ID:      fmt.Sprintf("p%d", i),
			Title:   fmt.Sprintf("WAYFT - %d", i),
			Author:  "RawDenimAutoMod",
			Created: time.Date(2023, time.April, 30-i%28, 12, 0, 0, 0, time.UTC),
		}
	}
	return posts
}

func assertAPIError(t *testing.T, err error, want errs.ErrorType) {
	t.Helper()
	var apiErr *errs.Error
	require.True(t, stderrors.As(err, &apiErr), "expected *errors.Error, got %T: %v", err, err)
	assert.Equal(t, want, apiErr.Type)
}

func TestAuthenticate(t *testing.T) {
	srv := redditmock.New()
	defer srv.Close()

	client, _ := newTestClient(t, srv)
	require.NoError(t, client.Authenticate(context.Background()))
	assert.Equal(t, redditmock.AccessToken, client.token)
	assert.Equal(t, 1, srv.TokenRequests())
}

func TestAuthenticateBadCredentials(t *testing.T) {
	srv := redditmock.New()
	defer srv.Close()

	client, _ := newTestClient(t, srv)
	client.cfg.ClientSecret = "wrong"

	err := client.Authenticate(context.Background())
	require.Error(t, err)
	assertAPIError(t, err, errs.ErrorTypeAuth)
}

func TestSearchPostsPaginates(t *testing.T) {
	srv := redditmock.New(samplePosts(7)...)
	defer srv.Close()
	srv.SetPageSize(3)

	client, _ := newTestClient(t, srv)
	posts, err := client.SearchPosts(context.Background(), "rawdenim", SearchQuery("WAYFT", "RawDenimAutoMod"))
	require.NoError(t, err)

	require.Len(t, posts, 7)
	for i, p := range posts {
		assert.Equal(t, fmt.Sprintf("p%d", i), p.ID)
		assert.Equal(t, "t3_"+p.ID, p.Name)
		assert.Equal(t, "RawDenimAutoMod", p.Author)
	}
	// three pages plus a single token request
	assert.Equal(t, 3, srv.RequestCount())
	assert.Equal(t, 1, srv.TokenRequests())
	assert.Equal(t, []string{
		"title:WAYFT AND author:RawDenimAutoMod",
		"title:WAYFT AND author:RawDenimAutoMod",
		"title:WAYFT AND author:RawDenimAutoMod",
	}, srv.Queries())
}

func TestSearchPostsEmpty(t *testing.T) {
	srv := redditmock.New()
	defer srv.Close()

	client, _ := newTestClient(t, srv)
	posts, err := client.SearchPosts(context.Background(), "rawdenim", "title:WAYFT")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostCreatedIsUTC(t *testing.T) {
	created := time.Date(2023, time.March, 31, 23, 30, 0, 0, time.UTC)
	srv := redditmock.New(redditmock.Post{ID: "a", Title: "WAYFT", Created: created})
	defer srv.Close()

	client, _ := newTestClient(t, srv)
	posts, err := client.SearchPosts(context.Background(), "rawdenim", "q")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, created, posts[0].Created())
	assert.Equal(t, time.UTC, posts[0].Created().Location())
}

func TestSearchPostsServerError(t *testing.T) {
	srv := redditmock.New(samplePosts(2)...)
	defer srv.Close()
	srv.SetErrorResponse("/r/rawdenim/search", http.StatusServiceUnavailable)

	client, log := newTestClient(t, srv)
	_, err := client.SearchPosts(context.Background(), "rawdenim", "q")
	require.Error(t, err)
	assertAPIError(t, err, errs.ErrorTypeServerError)
	assert.True(t, log.HasMessage("API error"))
	// no retry
	assert.Equal(t, 1, srv.RequestCount())
}

func TestSearchPostsRateLimited(t *testing.T) {
	srv := redditmock.New(samplePosts(2)...)
	defer srv.Close()
	srv.SetErrorResponse("/r/rawdenim/search", http.StatusTooManyRequests)

	client, _ := newTestClient(t, srv)
	_, err := client.SearchPosts(context.Background(), "rawdenim", "q")
	assertAPIError(t, err, errs.ErrorTypeRateLimit)
}

func TestNetworkError(t *testing.T) {
	srv := redditmock.New()
	client, _ := newTestClient(t, srv)
	srv.Close()

	_, err := client.SearchPosts(context.Background(), "rawdenim", "q")
	assertAPIError(t, err, errs.ErrorTypeNetwork)
}

func TestComments(t *testing.T) {
	post := redditmock.Post{
		ID:      "abc",
		Title:   "WAYFT",
		Created: time.Date(2023, time.April, 2, 0, 0, 0, 0, time.UTC),
		Comments: []redditmock.Comment{
			{
				ID:     "c1",
				Author: "denimhead",
				Body:   `<div class="md"><p><a href="http://x.com/a.jpg">fit</a></p></div>`,
				Score:  redditmock.Score(42),
				Replies: []redditmock.Comment{
					{ID: "r1", Author: "fan", Body: "<p>nice</p>", Score: redditmock.Score(3)},
					{ID: "r2", More: true},
				},
			},
			{ID: "c2", Author: "lurker", Body: "", Score: nil},
			{ID: "m1", More: true},
		},
	}
	srv := redditmock.New(post)
	defer srv.Close()

	client, _ := newTestClient(t, srv)
	nodes, err := client.Comments(context.Background(), Post{ID: "abc"})
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	c1, ok := nodes[0].(*Comment)
	require.True(t, ok)
	assert.Equal(t, "c1", c1.ID)
	assert.Equal(t, "denimhead", c1.Author)
	require.NotNil(t, c1.Score)
	assert.Equal(t, 42, *c1.Score)
	assert.Contains(t, c1.BodyHTML, `a href="http://x.com/a.jpg"`)
	assert.Equal(t, "/r/rawdenim/comments/abc/wayft/c1/", c1.Permalink)
	require.Len(t, c1.Replies, 2)
	assert.IsType(t, &Comment{}, c1.Replies[0])
	assert.IsType(t, &MoreComments{}, c1.Replies[1])

	c2, ok := nodes[1].(*Comment)
	require.True(t, ok)
	assert.Nil(t, c2.Score)
	assert.Empty(t, c2.BodyHTML)
	assert.Empty(t, c2.Replies)

	more, ok := nodes[2].(*MoreComments)
	require.True(t, ok)
	assert.Equal(t, "m1", more.ID)
}

func TestCommentsNotFound(t *testing.T) {
	srv := redditmock.New()
	defer srv.Close()

	client, _ := newTestClient(t, srv)
	_, err := client.Comments(context.Background(), Post{ID: "missing"})
	assertAPIError(t, err, errs.ErrorTypeNotFound)
}

func TestContextCancelled(t *testing.T) {
	srv := redditmock.New(samplePosts(1)...)
	defer srv.Close()

	client, _ := newTestClient(t, srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchPosts(ctx, "rawdenim", "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
