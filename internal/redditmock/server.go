// Package redditmock serves a small in-memory imitation of the Reddit OAuth API
// for tests.
package redditmock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	ClientID     = "test-client"
	ClientSecret = "test-secret"
	AccessToken  = "test-token"
)

// Post is a fixture submission with its comment tree
type Post struct {
	ID       string
	Title    string
	Author   string
	Created  time.Time
	Comments []Comment
}

// Comment is a fixture comment. More marks a "load more" placeholder; Score
// nil serialises as a null score.
type Comment struct {
	ID      string
	Author  string
	Body    string
	Score   *int
	More    bool
	Replies []Comment
}

// Score returns a pointer to n for Comment fixtures
func Score(n int) *int {
	return &n
}

// Server simulates the Reddit endpoints the client uses
type Server struct {
	*httptest.Server

	mu             sync.RWMutex
	posts          []Post
	pageSize       int
	errorResponses map[string]int
	queries        []string
	requestCount   int32
	tokenRequests  int32
}

// New starts a mock server holding posts, newest first as search returns them
func New(posts ...Post) *Server {
	m := &Server{
		posts:          posts,
		pageSize:       100,
		errorResponses: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/access_token", m.handleToken)
	mux.HandleFunc("GET /r/{subreddit}/search", m.handleSearch)
	mux.HandleFunc("GET /comments/{id}", m.handleComments)

	m.Server = httptest.NewServer(mux)
	return m
}

// SetPageSize changes how many posts each search page holds
func (m *Server) SetPageSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageSize = n
}

// SetErrorResponse makes requests whose path has the given prefix fail with code
func (m *Server) SetErrorResponse(pathPrefix string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[pathPrefix] = code
}

// Queries returns the search queries received so far
func (m *Server) Queries() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.queries...)
}

// RequestCount returns the number of API requests, excluding token requests
func (m *Server) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// TokenRequests returns the number of token requests
func (m *Server) TokenRequests() int {
	return int(atomic.LoadInt32(&m.tokenRequests))
}

func (m *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.tokenRequests, 1)

	if code := m.errorFor(r.URL.Path); code > 0 {
		w.WriteHeader(code)
		return
	}

	id, secret, ok := r.BasicAuth()
	if !ok || id != ClientID || secret != ClientSecret {
		// Reddit reports bad credentials as 401 with an error body
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "Unauthorized", "error": 401})
		return
	}
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": AccessToken,
		"token_type":   "bearer",
		"expires_in":   3600,
		"scope":        "*",
	})
}

func (m *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	if !m.authorized(w, r) {
		return
	}

	m.mu.Lock()
	m.queries = append(m.queries, r.URL.Query().Get("q"))
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	start := 0
	if after := r.URL.Query().Get("after"); after != "" {
		for i, p := range m.posts {
			if "t3_"+p.ID == after {
				start = i + 1
				break
			}
		}
	}
	end := start + m.pageSize
	if end > len(m.posts) {
		end = len(m.posts)
	}

	children := make([]interface{}, 0, end-start)
	for _, p := range m.posts[start:end] {
		children = append(children, postThing(p, r.PathValue("subreddit")))
	}

	after := ""
	if end < len(m.posts) {
		after = "t3_" + m.posts[end-1].ID
	}

	writeJSON(w, listing(children, after))
}

func (m *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)
	if !m.authorized(w, r) {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id := r.PathValue("id")
	for _, p := range m.posts {
		if p.ID != id {
			continue
		}
		writeJSON(w, []interface{}{
			listing([]interface{}{postThing(p, "rawdenim")}, ""),
			listing(commentThings(p, p.Comments), ""),
		})
		return
	}

	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]interface{}{"message": "Not Found", "error": 404})
}

// authorized applies configured errors and bearer token checks
func (m *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	if code := m.errorFor(r.URL.Path); code > 0 {
		w.WriteHeader(code)
		return false
	}
	if r.Header.Get("Authorization") != "bearer "+AccessToken {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	if r.Header.Get("User-Agent") == "" {
		w.WriteHeader(http.StatusTooManyRequests)
		return false
	}
	return true
}

func (m *Server) errorFor(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for prefix, code := range m.errorResponses {
		if strings.HasPrefix(path, prefix) {
			return code
		}
	}
	return 0
}

func listing(children []interface{}, after string) map[string]interface{} {
	var afterValue interface{}
	if after != "" {
		afterValue = after
	}
	return map[string]interface{}{
		"kind": "Listing",
		"data": map[string]interface{}{
			"after":    afterValue,
			"children": children,
		},
	}
}

func postThing(p Post, subreddit string) map[string]interface{} {
	return map[string]interface{}{
		"kind": "t3",
		"data": map[string]interface{}{
			"id":           p.ID,
			"name":         "t3_" + p.ID,
			"title":        p.Title,
			"author":       p.Author,
			"subreddit":    subreddit,
			"permalink":    fmt.Sprintf("/r/%s/comments/%s/", subreddit, p.ID),
			"created_utc":  float64(p.Created.Unix()),
			"num_comments": len(p.Comments),
		},
	}
}

func commentThings(p Post, comments []Comment) []interface{} {
	things := make([]interface{}, 0, len(comments))
	for _, c := range comments {
		if c.More {
			things = append(things, map[string]interface{}{
				"kind": "more",
				"data": map[string]interface{}{
					"id":       c.ID,
					"count":    len(c.Replies),
					"children": []string{c.ID},
				},
			})
			continue
		}

		var replies interface{} = ""
		if len(c.Replies) > 0 {
			replies = listing(commentThings(p, c.Replies), "")
		}

		var score interface{}
		if c.Score != nil {
			score = *c.Score
		}

		things = append(things, map[string]interface{}{
			"kind": "t1",
			"data": map[string]interface{}{
				"id":        c.ID,
				"author":    c.Author,
				"body_html": c.Body,
				"score":     score,
				"permalink": fmt.Sprintf("/r/rawdenim/comments/%s/wayft/%s/", p.ID, c.ID),
				"replies":   replies,
			},
		})
	}
	return things
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Ratelimit-Remaining", strconv.Itoa(600))
	json.NewEncoder(w).Encode(v)
}
