package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"dicepot/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeUserCreated   EventType = "user_created"
	EventTypeRoundStarted  EventType = "round_started"
	EventTypeRollResolved  EventType = "roll_resolved"
	EventTypeRoundEnded    EventType = "round_ended"
)

// AllEventTypes lists every event type emitted by the services
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeBalanceChange,
		EventTypeUserCreated,
		EventTypeRoundStarted,
		EventTypeRollResolved,
		EventTypeRoundEnded,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          uuid.UUID              `json:"userId"`
	OldBalance      decimal.Decimal        `json:"oldBalance"`
	NewBalance      decimal.Decimal        `json:"newBalance"`
	TransactionType models.TransactionType `json:"transactionType"`
	ChangeAmount    decimal.Decimal        `json:"changeAmount"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent represents a new user creation
type UserCreatedEvent struct {
	UserID         uuid.UUID       `json:"userId"`
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// RoundStartedEvent is emitted once the stake has been debited
type RoundStartedEvent struct {
	RoundID uuid.UUID       `json:"roundId"`
	UserID  uuid.UUID       `json:"userId"`
	Stake   decimal.Decimal `json:"stake"`
}

func (e RoundStartedEvent) Type() EventType {
	return EventTypeRoundStarted
}

// RollResolvedEvent carries the outcome of a single throw
type RollResolvedEvent struct {
	RoundID uuid.UUID          `json:"roundId"`
	UserID  uuid.UUID          `json:"userId"`
	Outcome models.RollOutcome `json:"outcome"`
}

func (e RollResolvedEvent) Type() EventType {
	return EventTypeRollResolved
}

// RoundEndedEvent is emitted when a round busts or is cashed out
type RoundEndedEvent struct {
	RoundID    uuid.UUID          `json:"roundId"`
	UserID     uuid.UUID          `json:"userId"`
	Status     models.RoundStatus `json:"status"`
	Stake      decimal.Decimal    `json:"stake"`
	Payout     decimal.Decimal    `json:"payout"`
	TotalScore int                `json:"totalScore"`
	RollCount  int                `json:"rollCount"`
}

func (e RoundEndedEvent) Type() EventType {
	return EventTypeRoundEnded
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers run asynchronously so a slow subscriber never blocks a request
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queued event on transactional bus")
	b.pending = append(b.pending, e)
}

// Flush emits pending events. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing transactional bus")

	// Detached from the request context, which may already be cancelled
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
