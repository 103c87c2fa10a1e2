package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandwatch/brandwatchd/internal/model"
)

func TestLazy_OperationsFailUntilConnected(t *testing.T) {
	l := &Lazy{
		open:     func() (Store, error) { return nil, errors.New("volume not mounted") },
		interval: time.Millisecond,
	}
	ctx := context.Background()

	err := l.InsertMention(ctx, &model.Mention{Brand: "Acme", URL: "https://example.com/1"})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = l.FindMentions(ctx, MentionFilter{Brand: "Acme"})
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.NoError(t, l.Close(), "closing a never-connected store is a no-op")
}

func TestLazy_RetriesUntilOpenSucceeds(t *testing.T) {
	mem := NewMemory()
	attempts := 0
	l := &Lazy{
		open: func() (Store, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("volume not mounted")
			}
			return mem, nil
		},
		interval: time.Millisecond,
	}
	go l.connect()

	ctx := context.Background()
	require.Eventually(t, func() bool {
		_, err := l.FindMentions(ctx, MentionFilter{Brand: "Acme"})
		return err == nil
	}, time.Second, time.Millisecond, "operations must start succeeding once the open goes through")
	assert.Equal(t, 3, attempts)

	// Writes now reach the backing store.
	require.NoError(t, l.InsertMention(ctx, &model.Mention{Brand: "Acme", URL: "https://example.com/1"}))
	stored, err := mem.FindMentions(ctx, MentionFilter{Brand: "Acme"})
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}
