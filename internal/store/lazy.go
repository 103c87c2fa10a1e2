package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brandwatch/brandwatchd/internal/model"
)

// ErrUnavailable is returned by every Lazy operation until the backing
// database has been opened.
var ErrUnavailable = errors.New("store not yet available")

const openRetryInterval = 30 * time.Second

// Lazy defers opening the backing database so the service can start
// serving while the volume is still unreachable. A background loop
// retries the open on a fixed interval until it succeeds; until then
// every operation fails with ErrUnavailable and collectors simply lose
// that run's writes.
type Lazy struct {
	open     func() (Store, error)
	interval time.Duration

	mu sync.RWMutex
	st Store
}

// Ensure Lazy implements Store
var _ Store = (*Lazy)(nil)

// OpenLazy starts connecting to the database at path in the background
// and returns immediately.
func OpenLazy(path string) *Lazy {
	l := &Lazy{
		open:     func() (Store, error) { return Open(path) },
		interval: openRetryInterval,
	}
	go l.connect()
	return l
}

func (l *Lazy) connect() {
	for attempt := 1; ; attempt++ {
		st, err := l.open()
		if err == nil {
			l.mu.Lock()
			l.st = st
			l.mu.Unlock()
			logrus.Info("Store connected")
			return
		}
		logrus.Errorf("Store open attempt %d failed, retrying in %v: %v", attempt, l.interval, err)
		time.Sleep(l.interval)
	}
}

func (l *Lazy) backing() (Store, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.st == nil {
		return nil, ErrUnavailable
	}
	return l.st, nil
}

func (l *Lazy) InsertMention(ctx context.Context, m *model.Mention) error {
	st, err := l.backing()
	if err != nil {
		return err
	}
	return st.InsertMention(ctx, m)
}

func (l *Lazy) MentionExists(ctx context.Context, brand, url string) (bool, error) {
	st, err := l.backing()
	if err != nil {
		return false, err
	}
	return st.MentionExists(ctx, brand, url)
}

func (l *Lazy) FindMentions(ctx context.Context, f MentionFilter) ([]model.Mention, error) {
	st, err := l.backing()
	if err != nil {
		return nil, err
	}
	return st.FindMentions(ctx, f)
}

func (l *Lazy) DeleteMentions(ctx context.Context, f MentionFilter) (int64, error) {
	st, err := l.backing()
	if err != nil {
		return 0, err
	}
	return st.DeleteMentions(ctx, f)
}

func (l *Lazy) InsertNews(ctx context.Context, n *model.NewsMention) error {
	st, err := l.backing()
	if err != nil {
		return err
	}
	return st.InsertNews(ctx, n)
}

func (l *Lazy) NewsExists(ctx context.Context, brand, site string, publishedAt time.Time) (bool, error) {
	st, err := l.backing()
	if err != nil {
		return false, err
	}
	return st.NewsExists(ctx, brand, site, publishedAt)
}

func (l *Lazy) FindNews(ctx context.Context, f NewsFilter) ([]model.NewsMention, error) {
	st, err := l.backing()
	if err != nil {
		return nil, err
	}
	return st.FindNews(ctx, f)
}

func (l *Lazy) DeleteNews(ctx context.Context, f NewsFilter) (int64, error) {
	st, err := l.backing()
	if err != nil {
		return 0, err
	}
	return st.DeleteNews(ctx, f)
}

func (l *Lazy) GetYouTubeAnalysis(ctx context.Context, brand string) (*model.YouTubeAnalysis, error) {
	st, err := l.backing()
	if err != nil {
		return nil, err
	}
	return st.GetYouTubeAnalysis(ctx, brand)
}

func (l *Lazy) PutYouTubeAnalysis(ctx context.Context, a *model.YouTubeAnalysis) error {
	st, err := l.backing()
	if err != nil {
		return err
	}
	return st.PutYouTubeAnalysis(ctx, a)
}

func (l *Lazy) DeleteYouTubeAnalysis(ctx context.Context, brand string) error {
	st, err := l.backing()
	if err != nil {
		return err
	}
	return st.DeleteYouTubeAnalysis(ctx, brand)
}

// Close closes the backing store if it ever connected.
func (l *Lazy) Close() error {
	st, err := l.backing()
	if err != nil {
		return nil
	}
	return st.Close()
}
