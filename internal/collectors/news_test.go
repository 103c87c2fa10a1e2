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

func newsPage(brand string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head>
			<meta property="article:published_time" content="2026-08-20T10:00:00Z">
		</head><body><p>Breaking: %s announces excellent quarterly results.</p></body></html>`, brand)
	}
}

func TestNewsCollector_SkipsUnreachableSites(t *testing.T) {
	good := httptest.NewServer(newsPage("Acme"))
	defer good.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close() // connection refused from here on

	st := store.NewMemory()
	c := NewNewsCollector(st, []string{dead.URL, good.URL})

	mentions, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err, "an unreachable outlet must not fail the run")
	require.Len(t, mentions, 1)
	assert.Equal(t, model.PlatformNews, mentions[0].Platform)
	assert.Equal(t, good.URL, mentions[0].URL)
}

func TestNewsCollector_CompositeKeyDedup(t *testing.T) {
	site := httptest.NewServer(newsPage("Acme"))
	defer site.Close()

	st := store.NewMemory()
	c := NewNewsCollector(st, []string{site.URL})

	first, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Same site, same publish date: the (brand, site, publishedAt) key
	// already exists.
	second, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err)
	assert.Empty(t, second)

	stored, err := st.FindNews(context.Background(), store.NewsFilter{Brand: "Acme"})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestNewsCollector_DropsSitesWithoutBrand(t *testing.T) {
	site := httptest.NewServer(newsPage("SomeoneElse"))
	defer site.Close()

	c := NewNewsCollector(store.NewMemory(), []string{site.URL})

	mentions, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err)
	assert.Empty(t, mentions)
}

func TestNewsCollector_SnippetAndSentiment(t *testing.T) {
	site := httptest.NewServer(newsPage("Acme"))
	defer site.Close()

	st := store.NewMemory()
	c := NewNewsCollector(st, []string{site.URL})

	_, err := c.Collect(context.Background(), "Acme", timeline.None)
	require.NoError(t, err)

	stored, err := st.FindNews(context.Background(), store.NewsFilter{Brand: "Acme"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, model.SentimentPositive, stored[0].Sentiment)
	assert.Contains(t, stored[0].Snippet, "Acme")
	assert.Equal(t, 2026, stored[0].PublishedAt.Year(), "publish date must come from the page metadata")
}

func TestNewsCollector_DefaultSites(t *testing.T) {
	c := NewNewsCollector(store.NewMemory(), nil)
	assert.Len(t, c.sites, len(DefaultNewsSites))
	assert.True(t, c.Enabled())
}
