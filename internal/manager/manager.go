package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/brandwatch/brandwatchd/internal/collectors"
	"github.com/brandwatch/brandwatchd/internal/model"
	"github.com/brandwatch/brandwatchd/internal/notify"
	"github.com/brandwatch/brandwatchd/internal/store"
	"github.com/brandwatch/brandwatchd/internal/timeline"
)

// Manager owns the per-brand recurring collection jobs. Each running
// brand has one cron entry; a tick runs every collector in turn, sums
// the counts and publishes a status event.
type Manager struct {
	store      store.Store
	sink       notify.Sink
	collectors []collectors.Collector
	interval   time.Duration
	cron       *cron.Cron

	mu   sync.RWMutex
	jobs map[string]*brandJob
}

type brandJob struct {
	entryID    cron.EntryID
	window     timeline.Window
	startedAt  time.Time
	lastRun    time.Time
	lastCounts map[string]int
}

// BrandStatus describes one running brand for the control surface.
type BrandStatus struct {
	Brand      string         `json:"brand"`
	Timeline   string         `json:"timeline,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	LastRun    time.Time      `json:"last_run,omitempty"`
	LastCounts map[string]int `json:"last_counts,omitempty"`
}

// Status is the manager-wide view returned by GetStatus.
type Status struct {
	Running         []BrandStatus `json:"running"`
	IntervalSeconds int           `json:"interval"`
}

// TickResult reports one collection pass over all collectors.
type TickResult struct {
	Brand   string         `json:"brand"`
	Total   int            `json:"count"`
	Sources map[string]int `json:"sources"`
	Errors  int            `json:"errors"`
}

// New creates a manager and starts its cron loop. Brands are added via
// StartBrand; the loop itself is idle until then.
func New(st store.Store, sink notify.Sink, cs []collectors.Collector, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = 120 * time.Second
	}
	m := &Manager{
		store:      st,
		sink:       sink,
		collectors: cs,
		interval:   interval,
		cron:       cron.New(),
		jobs:       make(map[string]*brandJob),
	}
	m.cron.Start()
	return m
}

// StartBrand registers a recurring collection job for the brand.
// Returns false without side effects when the brand is already running.
func (m *Manager) StartBrand(brand string, window timeline.Window) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, running := m.jobs[brand]; running {
		logrus.Infof("Collectors already running for %s", brand)
		return false
	}

	spec := fmt.Sprintf("@every %ds", int(m.interval.Seconds()))
	entryID, err := m.cron.AddFunc(spec, func() {
		m.runTick(brand, window)
	})
	if err != nil {
		logrus.Errorf("Failed to schedule collectors for %s: %v", brand, err)
		return false
	}

	m.jobs[brand] = &brandJob{
		entryID:   entryID,
		window:    window,
		startedAt: time.Now(),
	}
	logrus.Infof("Started collectors for %s (every %v)", brand, m.interval)
	return true
}

// StopBrand cancels the brand's recurring job. An in-flight tick runs
// to completion; the dedup layer absorbs its late writes. Returns false
// when the brand was not running.
func (m *Manager) StopBrand(brand string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, running := m.jobs[brand]
	if !running {
		return false
	}
	m.cron.Remove(job.entryID)
	delete(m.jobs, brand)
	logrus.Infof("Stopped collectors for %s", brand)
	return true
}

// IsRunning reports whether the brand has an active job.
func (m *Manager) IsRunning(brand string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, running := m.jobs[brand]
	return running
}

// GetStatus returns the currently running brands and the interval.
func (m *Manager) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := Status{
		Running:         []BrandStatus{},
		IntervalSeconds: int(m.interval.Seconds()),
	}
	for brand, job := range m.jobs {
		status.Running = append(status.Running, BrandStatus{
			Brand:      brand,
			Timeline:   string(job.window),
			StartedAt:  job.startedAt,
			LastRun:    job.lastRun,
			LastCounts: job.lastCounts,
		})
	}
	return status
}

// Stop shuts down the cron loop. Running jobs finish their tick.
func (m *Manager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	logrus.Info("Collector manager stopped")
}

// runTick is the scheduled entry point. A tick failure is logged with
// brand context and never tears the timer down.
func (m *Manager) runTick(brand string, window timeline.Window) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("Collector tick panic for %s: %v", brand, r)
		}
	}()

	result := m.RunBrand(context.Background(), brand, window)

	m.mu.Lock()
	if job, ok := m.jobs[brand]; ok {
		job.lastRun = time.Now()
		job.lastCounts = result.Sources
	}
	m.mu.Unlock()
}

// RunBrand invokes every collector for the brand once, sequentially.
// A failure inside one collector is logged and the rest still run.
// The aggregated count is published to the notification sink.
func (m *Manager) RunBrand(ctx context.Context, brand string, window timeline.Window) TickResult {
	logrus.Infof("Collecting data for %s...", brand)

	result := TickResult{
		Brand:   brand,
		Sources: make(map[string]int),
	}

	for _, c := range m.collectors {
		if !c.Enabled() {
			logrus.Debugf("Skipping disabled collector %s", c.Name())
			continue
		}

		mentions, err := m.collectOne(ctx, c, brand, window)
		if err != nil {
			logrus.Errorf("Collector %s failed for %s: %v", c.Name(), brand, err)
			result.Errors++
			continue
		}
		result.Sources[c.Name()] = len(mentions)
		result.Total += len(mentions)
	}

	logrus.Infof("Collected %d mentions for %s", result.Total, brand)

	if m.sink != nil {
		if err := m.sink.Publish("mentions-updated", result); err != nil {
			logrus.Errorf("Failed to publish status event for %s: %v", brand, err)
		}
	}

	return result
}

// collectOne isolates a single collector call, converting panics into
// errors so nothing propagates past the collector boundary.
func (m *Manager) collectOne(ctx context.Context, c collectors.Collector, brand string, window timeline.Window) (mentions []model.Mention, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collector panic: %v", r)
		}
	}()
	return c.Collect(ctx, brand, window)
}

// UpdateBrand is the timeline-aware refresh: stored records outside the
// window are pruned first, then collectors run and insert only unseen
// natural keys.
func (m *Manager) UpdateBrand(ctx context.Context, brand string, window timeline.Window) (TickResult, int64) {
	var pruned int64

	if cutoff := window.Cutoff(time.Now()); !cutoff.IsZero() {
		n, err := m.store.DeleteMentions(ctx, store.MentionFilter{Brand: brand, Before: cutoff})
		if err != nil {
			logrus.Errorf("Failed to prune mentions for %s: %v", brand, err)
		}
		pruned += n

		n, err = m.store.DeleteNews(ctx, store.NewsFilter{Brand: brand, Before: cutoff})
		if err != nil {
			logrus.Errorf("Failed to prune news for %s: %v", brand, err)
		}
		pruned += n
	}

	return m.RunBrand(ctx, brand, window), pruned
}

// ResetBrand deletes everything stored for the brand across all
// platforms.
func (m *Manager) ResetBrand(ctx context.Context, brand string) (int64, error) {
	deleted, err := m.store.DeleteMentions(ctx, store.MentionFilter{Brand: brand})
	if err != nil {
		return deleted, fmt.Errorf("delete mentions: %w", err)
	}

	n, err := m.store.DeleteNews(ctx, store.NewsFilter{Brand: brand})
	deleted += n
	if err != nil {
		return deleted, fmt.Errorf("delete news: %w", err)
	}

	if err := m.store.DeleteYouTubeAnalysis(ctx, brand); err != nil {
		return deleted, fmt.Errorf("delete youtube analysis: %w", err)
	}

	logrus.Infof("Reset brand %s: %d records deleted", brand, deleted)
	return deleted, nil
}
