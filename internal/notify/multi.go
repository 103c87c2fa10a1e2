package notify

import "github.com/sirupsen/logrus"

// Multi fans an event out to several sinks. A failing sink is logged
// and never stops the others.
type Multi struct {
	sinks []Sink
}

// Ensure Multi implements Sink
var _ Sink = (*Multi)(nil)

// NewMulti creates a fan-out sink.
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Publish(event string, payload any) error {
	for _, s := range m.sinks {
		if err := s.Publish(event, payload); err != nil {
			logrus.Errorf("Notification sink failed for %s: %v", event, err)
		}
	}
	return nil
}
