package reddit

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSearchURL(t *testing.T) {
	raw := GetSearchURL("https://oauth.reddit.com/", "rawdenim", "title:WAYFT AND author:RawDenimAutoMod", "")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "oauth.reddit.com", u.Host)
	assert.Equal(t, "/r/rawdenim/search", u.Path)
	q := u.Query()
	assert.Equal(t, "title:WAYFT AND author:RawDenimAutoMod", q.Get("q"))
	assert.Equal(t, "1", q.Get("restrict_sr"))
	assert.Equal(t, "new", q.Get("sort"))
	assert.Equal(t, "100", q.Get("limit"))
	assert.False(t, q.Has("after"))

	u, err = url.Parse(GetSearchURL("https://oauth.reddit.com", "rawdenim", "q", "t3_abc"))
	require.NoError(t, err)
	assert.Equal(t, "t3_abc", u.Query().Get("after"))
}

func TestGetCommentsURL(t *testing.T) {
	u, err := url.Parse(GetCommentsURL("https://oauth.reddit.com", "abc123"))
	require.NoError(t, err)
	assert.Equal(t, "/comments/abc123", u.Path)
	assert.Equal(t, "500", u.Query().Get("limit"))
	assert.Equal(t, "1", u.Query().Get("raw_json"))
}

func TestGetTokenURL(t *testing.T) {
	assert.Equal(t, "https://www.reddit.com/api/v1/access_token", GetTokenURL("https://www.reddit.com/"))
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "title:WAYFT AND author:RawDenimAutoMod", SearchQuery("WAYFT", "RawDenimAutoMod"))
}

func TestPermalinkURL(t *testing.T) {
	site := "https://www.reddit.com"
	assert.Equal(t, "https://www.reddit.com/r/rawdenim/comments/a/b/c/", PermalinkURL(site, "/r/rawdenim/comments/a/b/c/"))
	assert.Equal(t, "https://www.reddit.com/r/x/", PermalinkURL(site+"/", "r/x/"))
	assert.Equal(t, "https://old.reddit.com/r/x/", PermalinkURL(site, "https://old.reddit.com/r/x/"))
	assert.Equal(t, "", PermalinkURL(site, ""))
}
