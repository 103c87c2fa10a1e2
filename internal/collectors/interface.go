package collectors

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/brandwatch/brandwatchd/internal/model"
	"github.com/brandwatch/brandwatchd/internal/store"
	"github.com/brandwatch/brandwatchd/internal/timeline"
)

// Collector defines the contract for all platform collectors. Collect
// fetches candidates for a brand, filters them by brand containment and
// the timeline window, scores sentiment and persists accepted records
// through the store before returning them. Per-item faults never escape
// Collect; a disabled collector returns an empty result.
type Collector interface {
	Name() string
	Enabled() bool
	Collect(ctx context.Context, brand string, window timeline.Window) ([]model.Mention, error)
}

// containsBrand is the containment invariant: a record is only stored
// when its text mentions the brand, case-insensitively.
func containsBrand(text, brand string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(brand))
}

// persistMention writes a mention unless its URL is already stored for
// the brand. Store failures are swallowed: the item is lost for this
// run but the collector keeps going.
func persistMention(ctx context.Context, st store.Store, m *model.Mention) bool {
	exists, err := st.MentionExists(ctx, m.Brand, m.URL)
	if err != nil {
		logrus.Errorf("Dedup check failed for %s: %v", m.URL, err)
		return false
	}
	if exists {
		return false
	}
	if err := st.InsertMention(ctx, m); err != nil {
		logrus.Errorf("Failed to store mention %s: %v", m.URL, err)
		return false
	}
	return true
}

// truncate cuts s to at most max bytes, backing up to a rune boundary
// so a multi-byte character is never split.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

const userAgent = "brandwatchd/1.0"
