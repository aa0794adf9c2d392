package broker

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/avvvet/scan-services/internal/scansvc/models"
)

// ScanEvent is published for every logged scan decision.
type ScanEvent struct {
	EmployeeID string            `json:"employee_id"`
	Status     models.ScanStatus `json:"status"`
	IPAddress  string            `json:"ip_address,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Publisher is the conn surface the broker needs; *nats.Conn satisfies it.
type Publisher interface {
	Publish(subj string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

type Broker struct {
	Conn    Publisher
	Subject string
}

func NewBroker(conn Publisher, subject string) *Broker {
	return &Broker{Conn: conn, Subject: subject}
}

// PublishScan is best effort: failures are logged and dropped. A nil broker
// or one without a connection is a no-op.
func (b *Broker) PublishScan(ev ScanEvent) {
	if b == nil || b.Conn == nil || b.Subject == "" {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Errorf("Error marshal scan event %s", err)
		return
	}

	if err := b.Conn.Publish(b.Subject, data); err != nil {
		log.Warnf("Error publishing scan event to %s: %s", b.Subject, err)
	}
}
