package collectors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandwatch/brandwatchd/internal/model"
	"github.com/brandwatch/brandwatchd/internal/store"
	"github.com/brandwatch/brandwatchd/internal/timeline"
)

func TestLinkedInCollector_ExtractsStructuredPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<div class="feed-shared-update-v2">
				<span class="feed-shared-actor__name">Jane Smith</span>
				<span class="feed-shared-text">Acme has been a great partner for our team this year.</span>
				<a href="/feed/update/urn:li:activity:123">view</a>
			</div>
			<div class="feed-shared-update-v2">
				<span class="feed-shared-text">Completely unrelated announcement about hiring.</span>
			</div>
		</body></html>`)
	}))
	defer server.Close()

	st := store.NewMemory()
	c := NewLinkedInCollector(st)
	c.baseURL = server.URL

	mentions, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err)
	require.Len(t, mentions, 1, "the post without the brand must be dropped")

	assert.Equal(t, model.PlatformLinkedIn, mentions[0].Platform)
	assert.Equal(t, "Jane Smith", mentions[0].Author)
	assert.Contains(t, mentions[0].Content, "Acme")
	assert.Equal(t, server.URL+"/feed/update/urn:li:activity:123", mentions[0].URL)
	assert.Equal(t, model.SentimentPositive, mentions[0].Sentiment)
}

func TestLinkedInCollector_SyntheticFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Acme appears in the page text but the feed markup is gone.</p></body></html>`)
	}))
	defer server.Close()

	st := store.NewMemory()
	c := NewLinkedInCollector(st)
	c.baseURL = server.URL

	mentions, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err)
	require.Len(t, mentions, 1)
	assert.Equal(t, "linkedin_user", mentions[0].Author)
	assert.Contains(t, mentions[0].Content, "Acme")
}

func TestLinkedInCollector_NoBrandOnPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>nothing relevant here</p></body></html>`)
	}))
	defer server.Close()

	c := NewLinkedInCollector(store.NewMemory())
	c.baseURL = server.URL

	mentions, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err)
	assert.Empty(t, mentions)
}

func TestLinkedInCollector_UnavailablePageDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewLinkedInCollector(store.NewMemory())
	c.baseURL = server.URL

	mentions, err := c.Collect(context.Background(), "Acme", timeline.None)
	assert.NoError(t, err, "an auth wall is degraded-empty, not a fault")
	assert.Empty(t, mentions)
}
