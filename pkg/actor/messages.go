// pkg/actor/messages.go
package actor

import (
	"github.com/opd-ai/go-botarena/pkg/entity"
)

// TickMessage is sent by the orchestrator to one actor per tick. State
// is the authoritative state of that agent; Snapshot is a read-only
// value copy of every agent's state as of the start of the tick, used
// only for radar scanning. Recipients must not mutate the snapshot.
type TickMessage struct {
	Tick       uint64
	State      entity.AgentState
	Snapshot   []entity.AgentState
	DeltaTime  float64 // seconds, > 0
	InvokeTick bool    // fire eligibility and OnTick callback gate
}

// ResponseMessage is sent by an actor back to the orchestrator, once
// after initialization (with an empty bullet slice) and once per tick.
// Tick echoes the TickMessage it answers, so the orchestrator can tell
// a late response from the current tick's; the initialization handshake
// carries tick zero. Bullets holds at most one element per tick in this
// design.
type ResponseMessage struct {
	AgentID entity.ID
	Tick    uint64
	State   entity.AgentState
	Bullets []entity.Bullet
}
