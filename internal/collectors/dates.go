package collectors

import (
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// dateStrategy names one place a page might declare its publish date.
// Strategies run in order; the first parseable hit wins, so a site's
// markup change degrades to the next strategy instead of breaking
// extraction outright.
type dateStrategy struct {
	selector string
	attr     string
}

var dateStrategies = []dateStrategy{
	{`meta[property="article:published_time"]`, "content"},
	{`meta[name="pubdate"]`, "content"},
	{`meta[name="publish-date"]`, "content"},
	{`meta[name="date"]`, "content"},
	{`meta[itemprop="datePublished"]`, "content"},
	{`time[datetime]`, "datetime"},
}

// extractPublishDate walks the strategy list against a parsed page.
func extractPublishDate(doc *goquery.Document) (time.Time, bool) {
	for _, s := range dateStrategies {
		value, ok := doc.Find(s.selector).First().Attr(s.attr)
		if !ok || value == "" {
			continue
		}
		if t, err := dateparse.ParseAny(value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
