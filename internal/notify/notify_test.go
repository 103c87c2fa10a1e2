package notify

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSink_PostsEventEnvelope(t *testing.T) {
	var got webhookEvent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
	}))
	defer server.Close()

	sink := NewWebhookSink(server.URL)
	err := sink.Publish("mentions-updated", map[string]int{"count": 3})
	require.NoError(t, err)

	assert.Equal(t, "mentions-updated", got.Event)
}

func TestWebhookSink_EmptyURLIsNoOp(t *testing.T) {
	sink := NewWebhookSink("")
	assert.NoError(t, sink.Publish("mentions-updated", nil))
}

func TestWebhookSink_Non2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	sink := NewWebhookSink(server.URL)
	assert.Error(t, sink.Publish("mentions-updated", nil))
}

func TestEmailSink_NoRecipientIsNoOp(t *testing.T) {
	sink := NewEmailSink("", 0, "", "", "")
	assert.NoError(t, sink.Publish("mentions-updated", nil))
}

type stubSink struct {
	events []string
	err    error
}

func (s *stubSink) Publish(event string, payload any) error {
	s.events = append(s.events, event)
	return s.err
}

func TestMulti_FansOutAndAbsorbsFailures(t *testing.T) {
	ok := &stubSink{}
	failing := &stubSink{err: errors.New("receiver down")}
	after := &stubSink{}

	multi := NewMulti(ok, failing, after)
	err := multi.Publish("mentions-updated", nil)

	assert.NoError(t, err, "sink failures never propagate")
	assert.Equal(t, []string{"mentions-updated"}, ok.events)
	assert.Equal(t, []string{"mentions-updated"}, after.events, "sinks after a failure still run")
}
