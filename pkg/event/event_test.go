// pkg/event/event_test.go
package event

import "testing"

func TestBus_PublishReachesSubscribers(t *testing.T) {
	bus := NewEventBus()
	var got []Event
	bus.Subscribe(AgentHit, func(e Event) {
		got = append(got, e)
	})

	bus.Publish(NewHitEvent(nil, 1, 2, 3, 5))
	bus.Publish(NewAgentEvent(AgentRetired, nil, 2, "timeout")) // no subscriber

	if len(got) != 1 {
		t.Fatalf("expected 1 delivered event, got %d", len(got))
	}
	hit, ok := got[0].(*HitEvent)
	if !ok {
		t.Fatalf("delivered event has type %T", got[0])
	}
	if hit.TargetID != 3 || hit.Power != 5 {
		t.Errorf("hit event fields = %+v", hit)
	}
}

func TestBus_MultipleHandlers(t *testing.T) {
	bus := NewEventBus()
	count := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(BulletFired, func(Event) { count++ })
	}
	bus.Publish(NewBulletEvent(nil, 10, 20, 1))
	if count != 3 {
		t.Errorf("expected all 3 handlers called, got %d", count)
	}
}

func TestBaseEvent_Accessors(t *testing.T) {
	src := "engine"
	e := &BaseEvent{EventType: MatchStarted, Source: src}
	if e.GetType() != MatchStarted {
		t.Errorf("GetType = %v", e.GetType())
	}
	if e.GetSource() != src {
		t.Errorf("GetSource = %v", e.GetSource())
	}
}
