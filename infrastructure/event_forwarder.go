package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"dicepot/events"
)

// Publisher sends raw messages to a subject
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Envelope wraps a domain event for the message bus
type Envelope struct {
	EventID    uuid.UUID        `json:"eventId"`
	Type       events.EventType `json:"type"`
	OccurredAt time.Time        `json:"occurredAt"`
	Payload    events.Event     `json:"payload"`
}

// EventForwarder republishes committed domain events to an external bus.
// Events land on "<prefix>.<event type>". Delivery is best effort and unordered:
// the bus runs each handler on its own goroutine, so consumers order by round state,
// not arrival.
type EventForwarder struct {
	publisher Publisher
	prefix    string
	now       func() time.Time

	mu       sync.RWMutex
	closed   bool
	inFlight sync.WaitGroup
}

// NewEventForwarder creates a forwarder publishing under the given subject prefix
func NewEventForwarder(publisher Publisher, prefix string) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Subject returns the subject an event type is published on
func (f *EventForwarder) Subject(eventType events.EventType) string {
	if f.prefix == "" {
		return string(eventType)
	}
	return f.prefix + "." + string(eventType)
}

// Register subscribes the forwarder to every event type on the bus
func (f *EventForwarder) Register(bus *events.Bus) {
	for _, eventType := range events.AllEventTypes() {
		bus.Subscribe(eventType, f.Forward)
	}
	log.WithField("prefix", f.prefix).Info("Event forwarding enabled")
}

// Forward publishes a single event. Failures are logged, never returned to the emitter.
// Handlers run after the originating request may have finished, so its cancellation is dropped.
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) {
	f.mu.RLock()
	if f.closed {
		f.mu.RUnlock()
		log.WithField("eventType", event.Type()).Debug("Forwarder closed, dropping event")
		return
	}
	f.inFlight.Add(1)
	f.mu.RUnlock()
	defer f.inFlight.Done()

	ctx = context.WithoutCancel(ctx)

	data, err := f.encode(event)
	if err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to encode event")
		return
	}

	subject := f.Subject(event.Type())
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		log.WithFields(log.Fields{
			"subject": subject,
			"error":   err,
		}).Warn("Failed to forward event")
		return
	}

	log.WithField("subject", subject).Debug("Event forwarded")
}

// Close stops accepting events and waits for in-flight publishes, up to ctx's deadline
func (f *EventForwarder) Close(ctx context.Context) error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	done := make(chan struct{})
	go func() {
		f.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for in-flight events: %w", ctx.Err())
	}
}

func (f *EventForwarder) encode(event events.Event) ([]byte, error) {
	envelope := Envelope{
		EventID:    uuid.New(),
		Type:       event.Type(),
		OccurredAt: f.now().UTC(),
		Payload:    event,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return data, nil
}
