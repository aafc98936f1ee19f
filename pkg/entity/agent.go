// pkg/entity/agent.go
package entity

import (
	"fmt"

	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/physics"
)

// Gun is an agent's turret. Heading is relative to the agent body.
// FiringPower above zero is a charge that spawns exactly one bullet on
// the next fire-eligible tick and then resets to zero.
type Gun struct {
	Heading         float64
	FiringPower     float64
	AngularVelocity float64
}

// Radar is an agent's sensor head. Heading is relative to the agent body.
type Radar struct {
	Heading         float64
	AngularVelocity float64
}

// AgentState is the complete physical state of one combat robot. It is
// owned exclusively by the agent's own actor: the orchestrator and other
// agents only ever see value copies of it.
type AgentState struct {
	ID ID

	// Control inputs, set by the user script and consumed by Step.
	Thrust        float64
	AngularThrust float64

	Position        physics.Vector2D
	Heading         float64 // canonical (-π, π], kept normalized by Step
	Speed           float64 // signed magnitude along Heading
	AngularVelocity float64

	Gun   Gun
	Radar Radar

	Mass float64 // constant for the agent's lifetime
}

// NewAgentState creates the spawn state of an agent. Non-positive mass
// is a caller error and is rejected here rather than during stepping.
func NewAgentState(id ID, mass float64, position physics.Vector2D) (AgentState, error) {
	if mass <= 0 {
		return AgentState{}, fmt.Errorf("agent mass must be positive, got %v", mass)
	}
	return AgentState{
		ID:       id,
		Position: position,
		Mass:     mass,
	}, nil
}

// Step advances the agent's motion, gun and radar by dt seconds using a
// critically-damped explicit integrator: friction factors multiply the
// post-thrust velocities once per step. When fireEligible is set and the
// gun holds a positive firing power, exactly one bullet is spawned and
// the firing power resets to zero. At most one bullet per call.
func (a *AgentState) Step(rules *config.Rules, dt float64, fireEligible bool) (Bullet, bool) {
	a.stepMotion(rules, dt)
	a.stepGun(dt)
	a.stepRadar(dt)

	if fireEligible && a.Gun.FiringPower > 0 {
		return a.fire(rules), true
	}
	return Bullet{}, false
}

// stepMotion integrates body rotation and translation.
func (a *AgentState) stepMotion(rules *config.Rules, dt float64) {
	a.AngularVelocity = rules.TurnFriction * (a.AngularVelocity + a.AngularThrust*dt)
	a.Heading = physics.NormalizeAngle(a.Heading + a.AngularVelocity*dt)

	acceleration := a.Thrust / a.Mass
	a.Speed = rules.DriveFriction * (a.Speed + acceleration*dt)

	direction := physics.FromAngle(a.Heading, 1)
	a.Position = a.Position.Add(direction.Scale(a.Speed * dt))
}

// stepGun integrates the turret heading. Pure rotation, no friction.
func (a *AgentState) stepGun(dt float64) {
	a.Gun.Heading = physics.NormalizeAngle(a.Gun.Heading + a.Gun.AngularVelocity*dt)
}

// stepRadar integrates the radar heading. Pure rotation, no friction.
func (a *AgentState) stepRadar(dt float64) {
	a.Radar.Heading = physics.NormalizeAngle(a.Radar.Heading + a.Radar.AngularVelocity*dt)
}

// fire spawns one bullet from the gun muzzle and consumes the charge.
func (a *AgentState) fire(rules *config.Rules) Bullet {
	direction := physics.NormalizeAngle(a.Heading + a.Gun.Heading)
	muzzle := a.Position.Add(physics.FromAngle(direction, rules.GunOffset))

	bullet := Bullet{
		ID:       GenerateID(),
		Position: muzzle,
		Velocity: physics.FromAngle(direction, rules.BulletSpeed),
		Power:    a.Gun.FiringPower,
		OwnerID:  a.ID,
	}
	a.Gun.FiringPower = 0
	return bullet
}

// Bounds returns the agent's oriented bounding rectangle, sized per the
// rules and rotated by the body heading.
func (a *AgentState) Bounds(rules *config.Rules) physics.OrientedRect {
	return physics.OrientedRect{
		Center:   a.Position,
		Width:    rules.AgentWidth,
		Height:   rules.AgentHeight,
		Rotation: a.Heading,
	}
}
