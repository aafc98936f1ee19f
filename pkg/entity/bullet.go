// pkg/entity/bullet.go
package entity

import (
	"github.com/opd-ai/go-botarena/pkg/config"
	"github.com/opd-ai/go-botarena/pkg/physics"
)

// Bullet is a projectile spawned by an agent's gun. After creation only
// the position changes, and only through Advance driven by the
// orchestrator.
type Bullet struct {
	ID       ID
	Position physics.Vector2D
	Velocity physics.Vector2D
	Power    float64 // damage and size proxy, the firing power at spawn
	OwnerID  ID
}

// Advance moves the bullet along its velocity for dt seconds.
func (b *Bullet) Advance(dt float64) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// Hits reports whether the bullet currently registers against the given
// agent: its position lies inside the agent's oriented bounding
// rectangle and the agent is not the bullet's owner. This is a single
// point test, not a swept one; fast bullets may tunnel through thin
// agents between ticks and that approximation is accepted.
func (b Bullet) Hits(agent *AgentState, rules *config.Rules) bool {
	if b.OwnerID == agent.ID {
		return false
	}
	return agent.Bounds(rules).Contains(b.Position)
}
