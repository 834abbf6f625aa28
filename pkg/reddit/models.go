package reddit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Post is a submission returned by search
type Post struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
	NumComments int     `json:"num_comments"`
}

// Created returns the post creation time in UTC
func (p Post) Created() time.Time {
	return time.Unix(int64(p.CreatedUTC), 0).UTC()
}

// CommentNode is one entry of a comment tree: either a *Comment or a
// *MoreComments placeholder. No other types implement it.
type CommentNode interface {
	isCommentNode()
}

// Comment is a real comment. Score is nil when the API omits it.
type Comment struct {
	ID        string
	Author    string
	Permalink string
	BodyHTML  string
	Score     *int
	Replies   []CommentNode
}

// MoreComments stands in for replies that were not loaded
type MoreComments struct {
	ID       string
	Count    int
	Children []string
}

func (*Comment) isCommentNode()      {}
func (*MoreComments) isCommentNode() {}

// thing is the kind/data envelope wrapping every API object
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// listing is a page of things with a pagination cursor
type listing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string  `json:"after"`
		Children []thing `json:"children"`
	} `json:"data"`
}

type commentData struct {
	ID        string          `json:"id"`
	Author    string          `json:"author"`
	Permalink string          `json:"permalink"`
	BodyHTML  *string         `json:"body_html"`
	Score     *int            `json:"score"`
	Replies   json.RawMessage `json:"replies"`
}

type moreData struct {
	ID       string   `json:"id"`
	Count    int      `json:"count"`
	Children []string `json:"children"`
}

// tokenResponse is the OAuth access token payload
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

const (
	kindComment = "t1"
	kindPost    = "t3"
	kindMore    = "more"
)

// decodePosts unpacks the t3 children of a search listing
func decodePosts(l *listing) ([]Post, error) {
	posts := make([]Post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		if child.Kind != kindPost {
			continue
		}
		var p Post
		if err := json.Unmarshal(child.Data, &p); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// decodeCommentNodes converts listing children into tagged comment nodes.
// Kinds other than t1 and more are dropped.
func decodeCommentNodes(children []thing) ([]CommentNode, error) {
	nodes := make([]CommentNode, 0, len(children))
	for _, child := range children {
		switch child.Kind {
		case kindComment:
			c, err := decodeComment(child.Data)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, c)
		case kindMore:
			var m moreData
			if err := json.Unmarshal(child.Data, &m); err != nil {
				return nil, fmt.Errorf("decode more: %w", err)
			}
			nodes = append(nodes, &MoreComments{ID: m.ID, Count: m.Count, Children: m.Children})
		}
	}
	return nodes, nil
}

func decodeComment(raw json.RawMessage) (*Comment, error) {
	var d commentData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode comment: %w", err)
	}

	c := &Comment{
		ID:        d.ID,
		Author:    d.Author,
		Permalink: d.Permalink,
		Score:     d.Score,
	}
	if d.BodyHTML != nil {
		c.BodyHTML = *d.BodyHTML
	}

	// replies is "" when there are none, otherwise a listing
	if len(d.Replies) > 0 && d.Replies[0] == '{' {
		var replies listing
		if err := json.Unmarshal(d.Replies, &replies); err != nil {
			return nil, fmt.Errorf("decode replies of %s: %w", d.ID, err)
		}
		nodes, err := decodeCommentNodes(replies.Data.Children)
		if err != nil {
			return nil, err
		}
		c.Replies = nodes
	}

	return c, nil
}
