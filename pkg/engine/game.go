// pkg/engine/game.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-botarena/pkg/actor"
	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/entity"
	"github.com/opd-ai/go-botarena/pkg/event"
	"github.com/opd-ai/go-botarena/pkg/logging"
	"github.com/opd-ai/go-botarena/pkg/physics"
	"github.com/opd-ai/go-botarena/pkg/validation"
)

// MatchStatus is the lifecycle phase of a match.
type MatchStatus int

const (
	MatchWaiting MatchStatus = iota
	MatchActive
	MatchEnded
)

// errResponseTimeout marks a tick where an agent missed its deadline.
var errResponseTimeout = errors.New("agent response timed out")

// agentHandle is the engine-side bookkeeping for one actor.
type agentHandle struct {
	name    string
	actor   *actor.Actor
	state   entity.AgentState
	damage  float64
	breaker *gobreaker.CircuitBreaker
	cancel  context.CancelFunc
}

// Game is the orchestrator of one match. It owns the authoritative
// arena state; agents only ever receive value copies and hand value
// copies back. All cross-agent computation happens here, strictly after
// the per-tick barrier: no derived state advances until every live
// agent has responded for the current tick.
type Game struct {
	Rules *config.Rules
	Env   *config.EnvironmentConfig

	// EventBus handlers run synchronously on the engine goroutine,
	// sometimes while the engine lock is held. Handlers must record and
	// return, never call back into the Game.
	EventBus *event.Bus

	mu       sync.RWMutex
	agents   map[entity.ID]*agentHandle
	order    []entity.ID // stable iteration order for snapshots
	bullets  []entity.Bullet
	snapshot []entity.AgentState // states as of the last completed barrier

	currentTick uint64
	status      MatchStatus
	winnerID    entity.ID // zero when no winner
	startTime   time.Time

	logger  *logging.Logger
	limiter *validation.LogLimiter
}

// NewGame creates a match with the given rules and runtime config.
// Rules must already be validated; this is the caller's precondition.
func NewGame(rules *config.Rules, envConfig *config.EnvironmentConfig) *Game {
	return &Game{
		Rules:    rules,
		Env:      envConfig,
		EventBus: event.NewEventBus(),
		agents:   make(map[entity.ID]*agentHandle),
		status:   MatchWaiting,
		logger:   logging.NewLogger(),
		limiter:  validation.NewLogLimiter(validation.MaxLogLinesPerSec, time.Second),
	}
}

// AddAgent registers a scripted agent before the match starts. The
// returned ID is unique for the match and never reused.
func (g *Game) AddAgent(name string, script actor.Script, mass float64, position physics.Vector2D) (entity.ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != MatchWaiting {
		return 0, fmt.Errorf("cannot add agent %q: match already started", name)
	}
	if len(g.agents) >= validation.MaxAgentsPerMatch {
		return 0, fmt.Errorf("cannot add agent %q: match is full (%d agents)", name, validation.MaxAgentsPerMatch)
	}
	if err := validation.ValidateAgentName(name); err != nil {
		return 0, err
	}
	if err := validation.ValidateSpawn(mass, position, g.Rules); err != nil {
		return 0, fmt.Errorf("invalid spawn for agent %q: %w", name, err)
	}

	state, err := entity.NewAgentState(entity.GenerateID(), mass, position)
	if err != nil {
		return 0, err
	}

	g.agents[state.ID] = &agentHandle{
		name:    name,
		actor:   actor.New(state.ID, g.Rules, script, g.logger, g.limiter),
		state:   state,
		breaker: newAgentBreaker(fmt.Sprintf("agent-%d", state.ID), g.Env, g.logger),
	}
	g.order = append(g.order, state.ID)
	return state.ID, nil
}

// Start launches every actor, waits for each initialization handshake,
// and activates the match. Agents that fail to hand-shake within the
// response deadline are retired before the first tick.
func (g *Game) Start(ctx context.Context) error {
	g.mu.Lock()
	if g.status != MatchWaiting {
		g.mu.Unlock()
		return fmt.Errorf("match already started")
	}
	if len(g.agents) == 0 {
		g.mu.Unlock()
		return fmt.Errorf("cannot start a match with no agents")
	}

	handles := make([]*agentHandle, 0, len(g.agents))
	for _, id := range g.order {
		handle := g.agents[id]
		actorCtx, cancel := context.WithCancel(ctx)
		handle.cancel = cancel
		go handle.actor.Run(actorCtx, handle.state)
		handles = append(handles, handle)
	}
	g.mu.Unlock()

	// Readiness barrier: every agent must hand-shake before tick zero.
	// The handshake state carries whatever OnInit set up, so it becomes
	// the authoritative state for the first tick.
	var mu sync.Mutex
	var failed []entity.ID
	ready := make(map[entity.ID]entity.AgentState)
	group, _ := errgroup.WithContext(ctx)
	for _, handle := range handles {
		group.Go(func() error {
			select {
			case resp := <-handle.actor.Responses():
				mu.Lock()
				ready[handle.actor.ID()] = resp.State
				mu.Unlock()
				return nil
			case <-time.After(g.Env.AgentTimeout):
				mu.Lock()
				failed = append(failed, handle.actor.ID())
				mu.Unlock()
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("match start interrupted: %w", err)
	}

	g.mu.Lock()
	for id, state := range ready {
		g.agents[id].state = state
	}
	for _, id := range failed {
		g.retireLocked(id, event.AgentRetired, "initialization handshake timed out")
	}
	for _, id := range g.order {
		g.EventBus.Publish(event.NewAgentEvent(event.AgentSpawned, g, uint64(id), g.agents[id].name))
	}
	g.status = MatchActive
	g.startTime = time.Now()
	g.snapshot = g.buildSnapshotLocked()
	g.mu.Unlock()

	g.EventBus.Publish(&event.BaseEvent{EventType: event.MatchStarted, Source: g})
	return nil
}

// Update advances the match by one tick of deltaTime seconds: fan out,
// barrier on every live agent's response, then resolve bullets.
func (g *Game) Update(ctx context.Context, deltaTime float64) error {
	if deltaTime <= 0 {
		return fmt.Errorf("delta time must be positive, got %v", deltaTime)
	}
	g.mu.Lock()
	if g.status != MatchActive {
		g.mu.Unlock()
		return nil
	}
	snapshot := g.snapshot
	invokeTick := g.currentTick%uint64(g.Env.CallbackEvery) == 0
	handles := make([]*agentHandle, 0, len(g.agents))
	for _, id := range g.order {
		if handle, ok := g.agents[id]; ok {
			handles = append(handles, handle)
		}
	}
	tick := g.currentTick
	g.mu.Unlock()

	responses, retired := g.collectResponses(ctx, handles, snapshot, tick, deltaTime, invokeTick)

	g.mu.Lock()
	for id, reason := range retired {
		g.retireLocked(id, event.AgentRetired, reason)
	}

	spawned := g.applyResponsesLocked(responses)
	g.advanceBulletsLocked(deltaTime)
	g.resolveHitsLocked()
	g.expireBulletsLocked()

	// Barrier complete: only now may the next snapshot be derived.
	g.snapshot = g.buildSnapshotLocked()
	g.currentTick++
	g.checkMatchEndLocked()
	g.mu.Unlock()

	for _, bullet := range spawned {
		g.EventBus.Publish(event.NewBulletEvent(g, uint64(bullet.ID), uint64(bullet.OwnerID), bullet.Power))
	}
	return nil
}

// collectResponses sends the tick message to every live agent and waits
// for all responses, each under the per-agent deadline and breaker.
func (g *Game) collectResponses(
	ctx context.Context,
	handles []*agentHandle,
	snapshot []entity.AgentState,
	tick uint64,
	deltaTime float64,
	invokeTick bool,
) (map[entity.ID]actor.ResponseMessage, map[entity.ID]string) {
	responses := make(map[entity.ID]actor.ResponseMessage)
	retired := make(map[entity.ID]string)
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	for _, handle := range handles {
		group.Go(func() error {
			msg := actor.TickMessage{
				Tick:       tick,
				State:      handle.state,
				Snapshot:   snapshot,
				DeltaTime:  deltaTime,
				InvokeTick: invokeTick,
			}

			tripped, err := awaitThroughBreaker(handle.breaker, func() error {
				select {
				case handle.actor.Ticks() <- msg:
				case <-time.After(g.Env.AgentTimeout):
					return errResponseTimeout
				case <-groupCtx.Done():
					return groupCtx.Err()
				}
				for {
					select {
					case resp := <-handle.actor.Responses():
						if resp.Tick != tick {
							// Late answer to a tick that already missed
							// its deadline. Its state and bullets were
							// never applied; discard it and keep waiting
							// for the current tick's response.
							continue
						}
						mu.Lock()
						responses[handle.actor.ID()] = resp
						mu.Unlock()
						return nil
					case <-time.After(g.Env.AgentTimeout):
						return errResponseTimeout
					case <-groupCtx.Done():
						return groupCtx.Err()
					}
				}
			})
			if tripped {
				mu.Lock()
				retired[handle.actor.ID()] = "stopped responding to tick messages"
				mu.Unlock()
			} else if err != nil && !errors.Is(err, context.Canceled) {
				g.logger.Warn(ctx, "agent missed tick deadline",
					"agent_id", uint64(handle.actor.ID()), "tick", tick, "error", err.Error())
			}
			return nil
		})
	}
	// Goroutines report only through the maps; Wait cannot fail here.
	_ = group.Wait()
	return responses, retired
}

// applyResponsesLocked folds the collected responses into the
// authoritative states and returns the newly spawned bullets.
func (g *Game) applyResponsesLocked(responses map[entity.ID]actor.ResponseMessage) []entity.Bullet {
	var spawned []entity.Bullet
	for id, resp := range responses {
		handle, ok := g.agents[id]
		if !ok {
			continue // retired while responding
		}
		handle.state = resp.State
		spawned = append(spawned, resp.Bullets...)
	}
	g.bullets = append(g.bullets, spawned...)
	return spawned
}

// advanceBulletsLocked moves every live bullet.
func (g *Game) advanceBulletsLocked(deltaTime float64) {
	for i := range g.bullets {
		g.bullets[i].Advance(deltaTime)
	}
}

// resolveHitsLocked tests every bullet against every agent. A hit
// consumes the bullet, accumulates damage on the target, and destroys
// the target once its damage crosses the configured threshold. A
// bullet never registers against its own owner.
func (g *Game) resolveHitsLocked() {
	remaining := g.bullets[:0]
	for _, bullet := range g.bullets {
		consumed := false
		for _, id := range g.order {
			handle, ok := g.agents[id]
			if !ok {
				continue
			}
			if !bullet.Hits(&handle.state, g.Rules) {
				continue
			}
			consumed = true
			handle.damage += bullet.Power
			g.EventBus.Publish(event.NewHitEvent(g,
				uint64(bullet.ID), uint64(bullet.OwnerID), uint64(id), bullet.Power))
			if handle.damage >= g.Env.DamageThreshold {
				g.retireLocked(id, event.AgentDestroyed, "damage threshold exceeded")
			}
			break
		}
		if !consumed {
			remaining = append(remaining, bullet)
		}
	}
	g.bullets = remaining
}

// expireBulletsLocked drops bullets that left the arena.
func (g *Game) expireBulletsLocked() {
	arena := physics.Rect{Width: g.Rules.WorldSize, Height: g.Rules.WorldSize}
	remaining := g.bullets[:0]
	for _, bullet := range g.bullets {
		if arena.Contains(bullet.Position) {
			remaining = append(remaining, bullet)
		}
	}
	g.bullets = remaining
}

// retireLocked removes an agent from the match: its actor is cancelled,
// its state leaves all future snapshots, and an event is published.
func (g *Game) retireLocked(id entity.ID, eventType event.Type, reason string) {
	handle, ok := g.agents[id]
	if !ok {
		return
	}
	if handle.cancel != nil {
		handle.cancel()
	}
	delete(g.agents, id)
	for i, orderedID := range g.order {
		if orderedID == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.limiter.Forget(uint64(id))
	g.EventBus.Publish(event.NewAgentEvent(eventType, g, uint64(id), reason))
}

// buildSnapshotLocked produces the read-only world snapshot handed to
// every agent on the next tick. It is a value copy in stable order.
func (g *Game) buildSnapshotLocked() []entity.AgentState {
	snapshot := make([]entity.AgentState, 0, len(g.agents))
	for _, id := range g.order {
		if handle, ok := g.agents[id]; ok {
			snapshot = append(snapshot, handle.state)
		}
	}
	return snapshot
}

// checkMatchEndLocked ends the match when at most one agent remains or
// the configured tick limit is reached.
func (g *Game) checkMatchEndLocked() {
	if g.status != MatchActive {
		return
	}
	limitReached := g.Env.MaxTicks > 0 && g.currentTick >= g.Env.MaxTicks
	if len(g.agents) > 1 && !limitReached {
		return
	}
	if len(g.agents) == 1 {
		g.winnerID = g.order[0]
	}
	g.status = MatchEnded
	for _, handle := range g.agents {
		if handle.cancel != nil {
			handle.cancel()
		}
	}
	g.EventBus.Publish(&event.BaseEvent{EventType: event.MatchEnded, Source: g})
}

// Stop ends the match immediately.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.status == MatchEnded {
		return
	}
	g.status = MatchEnded
	for _, handle := range g.agents {
		if handle.cancel != nil {
			handle.cancel()
		}
	}
	g.EventBus.Publish(&event.BaseEvent{EventType: event.MatchEnded, Source: g})
}

// Running reports whether the match is active.
func (g *Game) Running() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status == MatchActive
}

// Status returns the match lifecycle phase.
func (g *Game) Status() MatchStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currentTick
}

// Winner returns the winning agent's ID, or zero when the match has no
// winner.
func (g *Game) Winner() entity.ID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.winnerID
}

// Elapsed returns the wall-clock time since the match started, or zero
// before Start.
func (g *Game) Elapsed() time.Duration {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.startTime.IsZero() {
		return 0
	}
	return time.Since(g.startTime)
}

// AgentStates returns a value copy of every live agent's state, for
// rendering and inspection. Callers must not feed mutations back.
func (g *Game) AgentStates() []entity.AgentState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.buildSnapshotLocked()
}

// Bullets returns a value copy of the bullets currently in flight.
func (g *Game) Bullets() []entity.Bullet {
	g.mu.RLock()
	defer g.mu.RUnlock()
	bullets := make([]entity.Bullet, len(g.bullets))
	copy(bullets, g.bullets)
	return bullets
}

// LiveAgents returns the number of agents still in the match.
func (g *Game) LiveAgents() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.agents)
}
