// Package nats provides a chain.Sink that publishes each metric event to
// a NATS subject, for a consumer that wants to watch a run live instead
// of reading the NDJSON stream after the fact.
package nats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tevinokafor/chainsim/pkg/chain"
)

// SubjectRun returns the subject a run's events are published on.
func SubjectRun(runID string) string {
	return fmt.Sprintf("chainsim.run.%s", runID)
}

// Sink publishes each event as a JSON payload to SubjectRun(runID). It
// owns the connection it was given and closes it on Close.
type Sink struct {
	conn    *nats.Conn
	subject string
}

// Connect dials url and returns a Sink publishing under runID's subject.
func Connect(url, runID string) (*Sink, error) {
	conn, err := nats.Connect(url,
		nats.Name("chainsim"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	return &Sink{conn: conn, subject: SubjectRun(runID)}, nil
}

// Emit implements chain.Sink.
func (s *Sink) Emit(e chain.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event for nats publish: %w", err)
	}
	if err := s.conn.Publish(s.subject, payload); err != nil {
		return fmt.Errorf("publish event to %s: %w", s.subject, err)
	}
	return nil
}

// Close implements chain.Sink, flushing and closing the connection.
func (s *Sink) Close() error {
	if err := s.conn.FlushTimeout(2 * time.Second); err != nil {
		s.conn.Close()
		return fmt.Errorf("flush nats connection: %w", err)
	}
	s.conn.Close()
	return nil
}

var _ chain.Sink = (*Sink)(nil)
