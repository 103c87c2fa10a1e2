package collectors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandwatch/brandwatchd/internal/model"
	"github.com/brandwatch/brandwatchd/internal/store"
	"github.com/brandwatch/brandwatchd/internal/timeline"
)

func redditFixture(t *testing.T, comments string) *httptest.Server {
	t.Helper()

	now := time.Now().Unix()
	search := fmt.Sprintf(`{"data": {"children": [
		{"data": {"title": "Acme is great", "selftext": "love the product", "author": "u1", "permalink": "/r/tech/comments/1/acme", "created_utc": %d, "ups": 10, "num_comments": 2}},
		{"data": {"title": "Acme broke again", "selftext": "terrible update", "author": "u2", "permalink": "/r/tech/comments/2/acme", "created_utc": %d, "ups": 3, "num_comments": 1}},
		{"data": {"title": "Unrelated post", "selftext": "nothing here", "author": "u3", "permalink": "/r/tech/comments/3/other", "created_utc": %d, "ups": 1, "num_comments": 0}}
	]}}`, now, now, now)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/search.json"):
			fmt.Fprint(w, search)
		case strings.HasSuffix(r.URL.Path, ".json"):
			if comments == "" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, comments)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRedditCollector_FiltersByBrandContainment(t *testing.T) {
	comments := `[
		{"data": {"children": []}},
		{"data": {"children": [
			{"data": {"body": "this is awesome"}},
			{"data": {"body": "total garbage"}},
			{"data": {"body": "just a comment"}}
		]}}
	]`
	server := redditFixture(t, comments)
	defer server.Close()

	st := store.NewMemory()
	c := NewRedditCollector(st)
	c.baseURL = server.URL

	mentions, err := c.Collect(context.Background(), "Acme", timeline.Month)
	require.NoError(t, err)
	require.Len(t, mentions, 2, "post without the brand must be dropped")

	for _, m := range mentions {
		assert.Equal(t, "Acme", m.Brand)
		assert.Equal(t, model.PlatformReddit, m.Platform)
		assert.Contains(t, strings.ToLower(m.Title+m.Content), "acme")
		require.NotNil(t, m.CommentSentiments)
		assert.Equal(t, 1, m.CommentSentiments.Positive)
		assert.Equal(t, 1, m.CommentSentiments.Negative)
		assert.Equal(t, 1, m.CommentSentiments.Neutral)
	}
}

func TestRedditCollector_SecondRunInsertsNothing(t *testing.T) {
	server := redditFixture(t, `[{"data":{"children":[]}},{"data":{"children":[]}}]`)
	defer server.Close()

	st := store.NewMemory()
	c := NewRedditCollector(st)
	c.baseURL = server.URL

	first, err := c.Collect(context.Background(), "Acme", timeline.Month)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := c.Collect(context.Background(), "Acme", timeline.Month)
	require.NoError(t, err)
	assert.Empty(t, second, "rerunning over unchanged results must insert nothing")

	stored, err := st.FindMentions(context.Background(), store.MentionFilter{Brand: "Acme"})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestRedditCollector_CommentFetchFailureYieldsZeroBreakdown(t *testing.T) {
	server := redditFixture(t, "")
	defer server.Close()

	st := store.NewMemory()
	c := NewRedditCollector(st)
	c.baseURL = server.URL

	mentions, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err, "a failed comment fetch must not abort the run")
	require.Len(t, mentions, 2)

	for _, m := range mentions {
		require.NotNil(t, m.CommentSentiments)
		assert.Equal(t, model.SentimentSummary{}, *m.CommentSentiments)
	}
}

func TestRedditCollector_SearchErrorReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewRedditCollector(store.NewMemory())
	c.baseURL = server.URL

	_, err := c.Collect(context.Background(), "Acme", timeline.None)
	assert.Error(t, err)
}

func TestRedditCollector_WindowExcludesOldPosts(t *testing.T) {
	old := time.Now().Add(-40 * 24 * time.Hour).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/search.json") {
			fmt.Fprintf(w, `{"data": {"children": [
				{"data": {"title": "Acme news", "selftext": "", "author": "u1", "permalink": "/r/tech/comments/1/acme", "created_utc": %d}}
			]}}`, old)
			return
		}
		fmt.Fprint(w, `[{"data":{"children":[]}},{"data":{"children":[]}}]`)
	}))
	defer server.Close()

	c := NewRedditCollector(store.NewMemory())
	c.baseURL = server.URL

	mentions, err := c.Collect(context.Background(), "Acme", timeline.Month)
	require.NoError(t, err)
	assert.Empty(t, mentions)
}
