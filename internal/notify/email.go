package notify

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// EmailSink mails a short digest for each published event. Meant for
// low-frequency notification setups where no webhook receiver exists.
type EmailSink struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

// Ensure EmailSink implements Sink
var _ Sink = (*EmailSink)(nil)

// NewEmailSink creates an email sink. An empty recipient yields a sink
// whose Publish is a no-op.
func NewEmailSink(host string, port int, username, password, to string) *EmailSink {
	return &EmailSink{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     username,
		to:       to,
	}
}

func (e *EmailSink) Publish(event string, payload any) error {
	if e.to == "" || e.host == "" {
		return nil
	}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode event payload: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", e.from)
	msg.SetHeader("To", e.to)
	msg.SetHeader("Subject", fmt.Sprintf("Brand monitor: %s", event))
	msg.SetBody("text/plain", string(body))

	dialer := gomail.NewDialer(e.host, e.port, e.username, e.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send digest email: %w", err)
	}

	logrus.Debugf("Emailed %s digest to %s", event, e.to)
	return nil
}
