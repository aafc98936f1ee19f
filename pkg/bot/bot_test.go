package bot

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/opd-ai/go-botarena/pkg/actor"
	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/entity"
	"github.com/opd-ai/go-botarena/pkg/physics"
)

func scriptContext(t *testing.T, state *entity.AgentState) *actor.Context {
	t.Helper()
	return &actor.Context{
		State: state,
		Rules: config.DefaultRules(),
		Rand:  rand.New(rand.NewPCG(3, 11)),
	}
}

func freshAgent(t *testing.T) entity.AgentState {
	t.Helper()
	state, err := entity.NewAgentState(entity.GenerateID(), 1, physics.Vector2D{})
	if err != nil {
		t.Fatalf("NewAgentState: %v", err)
	}
	return state
}

func TestWanderer_OnInitStartsMoving(t *testing.T) {
	state := freshAgent(t)
	sc := scriptContext(t, &state)

	NewWanderer().OnInit(sc)

	if state.Thrust != 60 {
		t.Errorf("thrust = %v, want 60", state.Thrust)
	}
	if state.Radar.AngularVelocity == 0 {
		t.Error("radar not sweeping after init")
	}
}

func TestWanderer_SteeringHeldBetweenRetargets(t *testing.T) {
	state := freshAgent(t)
	sc := scriptContext(t, &state)
	w := NewWanderer()
	w.OnInit(sc)

	w.OnTick(sc)
	first := state.AngularThrust
	if math.Abs(first) > 2 {
		t.Errorf("steering impulse %v outside [-2,2]", first)
	}

	// The impulse holds for at least 20 ticks.
	for i := 0; i < 10; i++ {
		w.OnTick(sc)
	}
	if state.AngularThrust != first {
		t.Errorf("steering changed during hold: %v -> %v", first, state.AngularThrust)
	}
}

func TestWanderer_SnapShotOnScan(t *testing.T) {
	state := freshAgent(t)
	sc := scriptContext(t, &state)
	w := NewWanderer()

	w.OnScan(sc, entity.ScanData{Distance: 200, Angle: 1})
	if state.Gun.FiringPower != w.ShotPower {
		t.Errorf("firing power = %v, want %v", state.Gun.FiringPower, w.ShotPower)
	}
}

func TestHunter_TurnsTurretTowardContact(t *testing.T) {
	state := freshAgent(t)
	sc := scriptContext(t, &state)
	h := NewHunter()
	h.OnInit(sc)

	// Contact at bearing +0.5 with the gun at 0: turret must turn CCW
	// and hold fire while misaligned.
	h.OnScan(sc, entity.ScanData{Distance: 300, Angle: 0.5})

	if state.Gun.AngularVelocity <= 0 {
		t.Errorf("turret angular velocity = %v, want positive", state.Gun.AngularVelocity)
	}
	if state.Gun.FiringPower != 0 {
		t.Error("fired while misaligned")
	}
	if state.Radar.AngularVelocity != 0 {
		t.Error("radar still sweeping while tracking")
	}
	if !nearly(state.Radar.Heading, 0.5) {
		t.Errorf("radar heading = %v, want 0.5 on the contact", state.Radar.Heading)
	}
}

func TestHunter_FiresWhenAligned(t *testing.T) {
	state := freshAgent(t)
	sc := scriptContext(t, &state)
	h := NewHunter()

	h.OnScan(sc, entity.ScanData{Distance: 300, Angle: 0.01})
	if state.Gun.FiringPower != h.ShotPower {
		t.Errorf("firing power = %v, want %v", state.Gun.FiringPower, h.ShotPower)
	}
}

func TestHunter_ResumesSweepAfterContactLost(t *testing.T) {
	state := freshAgent(t)
	sc := scriptContext(t, &state)
	h := NewHunter()
	h.OnInit(sc)

	h.OnScan(sc, entity.ScanData{Distance: 300, Angle: 0.5})
	if state.Radar.AngularVelocity != 0 {
		t.Fatal("radar should hold still while tracking")
	}

	for i := 0; i < 12; i++ {
		h.OnTick(sc)
	}
	if state.Radar.AngularVelocity == 0 {
		t.Error("radar not sweeping after losing the contact")
	}
	if state.Gun.AngularVelocity != 0 {
		t.Error("turret still turning after losing the contact")
	}
}

func TestHunter_AimsAcrossWraparound(t *testing.T) {
	state := freshAgent(t)
	state.Heading = 3 // near the +π edge
	sc := scriptContext(t, &state)
	h := NewHunter()

	// Contact just across the discontinuity: the short way is CCW.
	target := physics.NormalizeAngle(state.Heading + 0.4)
	h.OnScan(sc, entity.ScanData{Distance: 300, Angle: target})

	if state.Gun.AngularVelocity <= 0 {
		t.Errorf("turret angular velocity = %v, want positive short-way turn", state.Gun.AngularVelocity)
	}
}

func nearly(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
