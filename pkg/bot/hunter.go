// pkg/bot/hunter.go
package bot

import (
	"math"

	"github.com/opd-ai/go-botarena/pkg/actor"
	"github.com/opd-ai/go-botarena/pkg/entity"
	"github.com/opd-ai/go-botarena/pkg/physics"
)

// Hunter sweeps its radar until it finds a contact, then tracks it:
// the turret turns toward the target bearing under proportional control
// and fires once aligned. Losing the contact resumes the sweep.
type Hunter struct {
	TurnGain   float64 // turret proportional gain, default 8
	AimSlack   float64 // alignment tolerance in radians, default 0.05
	ShotPower  float64 // firing power per aimed shot, default 3
	sweepDir   float64
	ticksQuiet uint64 // ticks since the last contact
}

// NewHunter creates a Hunter with default tuning.
func NewHunter() *Hunter {
	return &Hunter{TurnGain: 8, AimSlack: 0.05, ShotPower: 3, sweepDir: 1}
}

// OnInit implements actor.Script.
func (h *Hunter) OnInit(sc *actor.Context) {
	sc.State.Radar.AngularVelocity = h.sweepDir * math.Pi
}

// OnTick implements actor.Script.
func (h *Hunter) OnTick(sc *actor.Context) {
	h.ticksQuiet++
	if h.ticksQuiet > 10 {
		// Contact lost: stop the turret and resume the radar sweep,
		// flipping direction so the sweep covers the other flank first.
		sc.State.Gun.AngularVelocity = 0
		if sc.State.Radar.AngularVelocity == 0 {
			h.sweepDir = -h.sweepDir
			sc.State.Radar.AngularVelocity = h.sweepDir * math.Pi
		}
	}
}

// OnScan implements actor.Script.
func (h *Hunter) OnScan(sc *actor.Context, scan entity.ScanData) {
	h.ticksQuiet = 0

	// Hold the radar on the contact's bearing.
	sc.State.Radar.AngularVelocity = 0
	sc.State.Radar.Heading = physics.AngleDiff(sc.State.Heading, scan.Angle)

	// Turn the turret toward the contact; fire only when aligned.
	gunBearing := physics.NormalizeAngle(sc.State.Heading + sc.State.Gun.Heading)
	aimError := physics.AngleDiff(gunBearing, scan.Angle)
	sc.State.Gun.AngularVelocity = h.TurnGain * aimError

	if math.Abs(aimError) <= h.AimSlack {
		sc.State.Gun.FiringPower = h.ShotPower
	}
}
