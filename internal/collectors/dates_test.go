package collectors

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractPublishDate(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantYear int
		found    bool
	}{
		{
			name:     "open graph article time",
			html:     `<head><meta property="article:published_time" content="2024-03-15T08:00:00Z"></head>`,
			wantYear: 2024,
			found:    true,
		},
		{
			name:     "pubdate meta",
			html:     `<head><meta name="pubdate" content="2023-11-02"></head>`,
			wantYear: 2023,
			found:    true,
		},
		{
			name:     "time element datetime",
			html:     `<body><time datetime="2022-06-01T12:30:00Z">June 1</time></body>`,
			wantYear: 2022,
			found:    true,
		},
		{
			name:  "no date markup",
			html:  `<body><p>undated page</p></body>`,
			found: false,
		},
		{
			name:  "unparseable value",
			html:  `<head><meta name="date" content="not a date"></head>`,
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := extractPublishDate(parseDoc(t, tt.html))
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.wantYear, got.Year())
			}
		})
	}
}

// The meta strategies outrank the time element, so a page carrying both
// resolves to the meta value.
func TestExtractPublishDate_StrategyOrder(t *testing.T) {
	html := `<html><head>
		<meta property="article:published_time" content="2024-01-01T00:00:00Z">
	</head><body>
		<time datetime="2020-01-01T00:00:00Z">old</time>
	</body></html>`

	got, found := extractPublishDate(parseDoc(t, html))
	require.True(t, found)
	assert.Equal(t, 2024, got.Year())
}
