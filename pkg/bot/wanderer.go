// Package bot ships ready-made agent scripts: simple opponents for
// testing arenas and starting points for new script authors.
package bot

import (
	"math"

	"github.com/opd-ai/go-botarena/pkg/actor"
	"github.com/opd-ai/go-botarena/pkg/entity"
)

// Wanderer drives around at constant thrust, changing direction at
// random intervals, radar spinning. When something crosses the radar it
// snaps a shot straight ahead without aiming.
type Wanderer struct {
	Thrust     float64 // forward thrust, default 60
	ShotPower  float64 // firing power per snap shot, default 1
	retargetIn uint64
}

// NewWanderer creates a Wanderer with default tuning.
func NewWanderer() *Wanderer {
	return &Wanderer{Thrust: 60, ShotPower: 1}
}

// OnInit implements actor.Script.
func (w *Wanderer) OnInit(sc *actor.Context) {
	sc.State.Thrust = w.Thrust
	sc.State.Radar.AngularVelocity = math.Pi // full sweep every 2s
}

// OnTick implements actor.Script.
func (w *Wanderer) OnTick(sc *actor.Context) {
	if w.retargetIn > 0 {
		w.retargetIn--
		return
	}
	// New random steering impulse, held for 20 to 60 ticks.
	sc.State.AngularThrust = (sc.Rand.Float64() - 0.5) * 4
	w.retargetIn = 20 + uint64(sc.Rand.IntN(40))
}

// OnScan implements actor.Script.
func (w *Wanderer) OnScan(sc *actor.Context, scan entity.ScanData) {
	// No lead, no alignment check. Cheap and occasionally lucky.
	sc.State.Gun.FiringPower = w.ShotPower
}
