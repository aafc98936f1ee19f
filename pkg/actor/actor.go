// Package actor implements the per-agent execution unit of the arena.
// Each agent runs as one goroutine owning its private physical state
// and user-script state, connected to the orchestrator by exactly two
// one-directional channels. Agents never share mutable memory with
// each other; the only cross-agent data path is the read-only world
// snapshot carried by each tick message.
package actor

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/entity"
	"github.com/opd-ai/go-botarena/pkg/logging"
	"github.com/opd-ai/go-botarena/pkg/validation"
)

// Actor is the concurrent unit running one agent. Create with New,
// start with Run, then drive it through Ticks and read Responses.
type Actor struct {
	id     entity.ID
	rules  *config.Rules
	script Script

	ticks     chan TickMessage
	responses chan ResponseMessage

	logger  *logging.Logger
	limiter *validation.LogLimiter
}

// New creates an actor for the given agent. The channels are buffered
// for one message each so the orchestrator's fan-out never blocks on a
// healthy agent.
func New(id entity.ID, rules *config.Rules, script Script, logger *logging.Logger, limiter *validation.LogLimiter) *Actor {
	return &Actor{
		id:        id,
		rules:     rules,
		script:    script,
		ticks:     make(chan TickMessage, 1),
		responses: make(chan ResponseMessage, 1),
		logger:    logger.WithAgent(uint64(id)),
		limiter:   limiter,
	}
}

// ID returns the agent's identifier.
func (a *Actor) ID() entity.ID {
	return a.id
}

// Ticks is the orchestrator-to-agent channel.
func (a *Actor) Ticks() chan<- TickMessage {
	return a.ticks
}

// Responses is the agent-to-orchestrator channel.
func (a *Actor) Responses() <-chan ResponseMessage {
	return a.responses
}

// Run executes the actor's lifecycle: the initialization phase once,
// then the ready loop until ctx is cancelled or the tick channel is
// closed. A panic in a user callback is fatal to this actor only: it is
// logged and the loop exits, which the orchestrator observes as a
// silent agent. Run never retries.
func (a *Actor) Run(ctx context.Context, initial entity.AgentState) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error(ctx, "agent script panicked, terminating actor", nil, "panic", r)
		}
	}()

	a.initialize(ctx, initial)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-a.ticks:
			if !ok {
				return
			}
			response := a.processTick(msg)
			select {
			case a.responses <- response:
			case <-ctx.Done():
				return
			}
		}
	}
}

// initialize runs the user's OnInit callback against the unchanged
// spawn state and emits the readiness handshake: a response carrying
// the spawn state and no bullets. This is not a physics tick.
func (a *Actor) initialize(ctx context.Context, state entity.AgentState) {
	sc := a.scriptContext(&state, 0)
	a.script.OnInit(sc)

	select {
	case a.responses <- ResponseMessage{AgentID: a.id, State: state}:
	case <-ctx.Done():
	}
}

// processTick performs one tick in the fixed order the protocol
// requires: physics and subsystem integration first, then the radar
// scan against the snapshot, then the user callbacks, and finally the
// response. The snapshot reflects the arena before this tick's motion,
// so scans run one tick behind the freshest positions on purpose.
func (a *Actor) processTick(msg TickMessage) ResponseMessage {
	state := msg.State

	bullet, fired := state.Step(a.rules, msg.DeltaTime, msg.InvokeTick)
	scan, scanFound := entity.TryScan(&state, msg.Snapshot, a.rules)

	sc := a.scriptContext(&state, msg.Tick)
	if msg.InvokeTick {
		a.script.OnTick(sc)
	}
	if scanFound {
		a.script.OnScan(sc, scan)
	}

	response := ResponseMessage{AgentID: a.id, Tick: msg.Tick, State: state}
	if fired {
		response.Bullets = []entity.Bullet{bullet}
	}
	return response
}

// scriptContext builds the callback view for one tick, including a
// fresh private randomness source so nothing a callback draws is shared
// across ticks or agents.
func (a *Actor) scriptContext(state *entity.AgentState, tick uint64) *Context {
	seed := rand.NewPCG(uint64(a.id), uint64(time.Now().UnixNano()))
	return &Context{
		State:   state,
		Rules:   a.rules,
		Rand:    rand.New(seed),
		Tick:    tick,
		logger:  a.logger,
		limiter: a.limiter,
	}
}
