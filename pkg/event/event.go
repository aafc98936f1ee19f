// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event.
type Type string

// Arena event types.
const (
	MatchStarted   Type = "match_started"
	MatchEnded     Type = "match_ended"
	AgentSpawned   Type = "agent_spawned"
	AgentRetired   Type = "agent_retired" // stopped responding, breaker tripped
	AgentDestroyed Type = "agent_destroyed"
	AgentHit       Type = "agent_hit"
	BulletFired    Type = "bullet_fired"
)

// Event is the base interface for all events.
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events.
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type.
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source.
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events.
type Handler func(Event)

// Bus manages event subscriptions and dispatching.
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus.
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish sends an event to all subscribed handlers.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// AgentEvent carries information about agent lifecycle events.
type AgentEvent struct {
	BaseEvent
	AgentID uint64
	Reason  string
}

// NewAgentEvent creates an agent lifecycle event.
func NewAgentEvent(eventType Type, source interface{}, agentID uint64, reason string) *AgentEvent {
	return &AgentEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		AgentID:   agentID,
		Reason:    reason,
	}
}

// BulletEvent carries information about a fired bullet.
type BulletEvent struct {
	BaseEvent
	BulletID uint64
	OwnerID  uint64
	Power    float64
}

// NewBulletEvent creates a bullet-fired event.
func NewBulletEvent(source interface{}, bulletID, ownerID uint64, power float64) *BulletEvent {
	return &BulletEvent{
		BaseEvent: BaseEvent{EventType: BulletFired, Source: source},
		BulletID:  bulletID,
		OwnerID:   ownerID,
		Power:     power,
	}
}

// HitEvent carries information about a bullet consuming against an agent.
type HitEvent struct {
	BaseEvent
	BulletID uint64
	OwnerID  uint64
	TargetID uint64
	Power    float64
}

// NewHitEvent creates an agent-hit event.
func NewHitEvent(source interface{}, bulletID, ownerID, targetID uint64, power float64) *HitEvent {
	return &HitEvent{
		BaseEvent: BaseEvent{EventType: AgentHit, Source: source},
		BulletID:  bulletID,
		OwnerID:   ownerID,
		TargetID:  targetID,
		Power:     power,
	}
}
