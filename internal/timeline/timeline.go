package timeline

import "time"

// Window tags the retention/freshness window a collection run operates
// under. The zero value means no filtering.
type Window string

const (
	None  Window = ""
	Month Window = "month"
	Year  Window = "year"
)

// Parse normalizes a request-supplied window tag. Unknown tags map to
// None: the policy is explicitly default-permissive.
func Parse(s string) Window {
	switch Window(s) {
	case Month:
		return Month
	case Year:
		return Year
	default:
		return None
	}
}

// Contains reports whether a record with the given timestamp falls
// inside the window, measured from now.
func (w Window) Contains(ts time.Time) bool {
	return w.ContainsAt(ts, time.Now())
}

// ContainsAt is Contains with an explicit reference time.
func (w Window) ContainsAt(ts, now time.Time) bool {
	switch w {
	case Month:
		return now.Sub(ts) <= 30*24*time.Hour
	case Year:
		return now.Sub(ts) <= 365*24*time.Hour
	default:
		return true
	}
}

// Cutoff returns the oldest timestamp still inside the window, for
// pruning stored records. For None the zero time is returned and
// nothing should be pruned.
func (w Window) Cutoff(now time.Time) time.Time {
	switch w {
	case Month:
		return now.Add(-30 * 24 * time.Hour)
	case Year:
		return now.Add(-365 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}
