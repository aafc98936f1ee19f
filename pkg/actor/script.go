// pkg/actor/script.go
package actor

import (
	"context"
	"math/rand/v2"

	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/entity"
	"github.com/opd-ai/go-botarena/pkg/logging"
	"github.com/opd-ai/go-botarena/pkg/validation"
)

// Script is the user-authored control program of one agent. Callbacks
// run inside the agent's own actor goroutine and may freely mutate the
// agent's control fields through the Context; they must not retain the
// Context past the callback's return. A panicking callback terminates
// that agent's loop only.
type Script interface {
	// OnInit runs exactly once before the first tick.
	OnInit(sc *Context)
	// OnTick runs on every fire-eligible tick, after physics and scanning.
	OnTick(sc *Context)
	// OnScan runs after OnTick whenever the radar found a target.
	OnScan(sc *Context, scan entity.ScanData)
}

// Context is the view a script callback gets of its agent for one tick.
type Context struct {
	// State is the agent's own state. Scripts steer by writing the
	// control fields: Thrust, AngularThrust, Gun.FiringPower,
	// Gun.AngularVelocity and Radar.AngularVelocity.
	State *entity.AgentState

	// Rules of the current match, read-only.
	Rules *config.Rules

	// Rand is a private randomness source, reseeded before every tick's
	// callbacks. It is never shared across ticks or agents.
	Rand *rand.Rand

	// Tick is the current tick number, 0 during OnInit.
	Tick uint64

	logger  *logging.Logger
	limiter *validation.LogLimiter
}

// Log emits one diagnostic line to the operator console. Lines are
// rate-limited per agent and never reach the orchestrator.
func (sc *Context) Log(msg string, args ...any) {
	if sc.limiter != nil && !sc.limiter.Allow(uint64(sc.State.ID)) {
		return
	}
	sc.logger.Info(context.Background(), msg, args...)
}
