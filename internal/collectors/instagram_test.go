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

func TestInstagramCollector_ExtractsPostPermalinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>#acme
			<a href="/p/AbC12-3/">post</a>
			<a href="/p/XyZ_789/">post</a>
		</body></html>`)
	}))
	defer server.Close()

	st := store.NewMemory()
	c := NewInstagramCollector(st)
	c.baseURL = server.URL

	mentions, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err)
	require.Len(t, mentions, 2)

	assert.Equal(t, model.PlatformInstagram, mentions[0].Platform)
	assert.Equal(t, server.URL+"/p/AbC12-3/", mentions[0].URL)
	assert.Equal(t, server.URL+"/p/XyZ_789/", mentions[1].URL)

	// The shortcode URLs are the dedup keys, so a rerun adds nothing.
	again, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestInstagramCollector_SyntheticFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>People talk about acme here, but no post markup survives.</body></html>`)
	}))
	defer server.Close()

	st := store.NewMemory()
	c := NewInstagramCollector(st)
	c.baseURL = server.URL

	mentions, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err)
	require.Len(t, mentions, 1, "brand text without extractable posts yields one page-level mention")
	assert.Contains(t, mentions[0].Content, "Acme")
	assert.Contains(t, mentions[0].URL, "/explore/tags/acme/")
}

func TestInstagramCollector_NoBrandOnPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>nothing relevant here</body></html>`)
	}))
	defer server.Close()

	c := NewInstagramCollector(store.NewMemory())
	c.baseURL = server.URL

	mentions, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err)
	assert.Empty(t, mentions)
}

func TestInstagramCollector_UnavailablePageDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewInstagramCollector(store.NewMemory())
	c.baseURL = server.URL

	mentions, err := c.Collect(context.Background(), "Acme", timeline.None)
	assert.NoError(t, err, "a blocked page is degraded-empty, not a fault")
	assert.Empty(t, mentions)
}
