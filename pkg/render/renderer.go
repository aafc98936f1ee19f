// Package render draws arena frames. The Renderer interface decouples
// the match loop from the output backend: a frame is Clear, any number
// of RenderAgent and RenderBullet calls, then Present.
package render

import (
	"context"

	"github.com/opd-ai/go-botarena/pkg/entity"
	"github.com/opd-ai/go-botarena/pkg/logging"
)

// Renderer is the drawing backend for one arena view.
type Renderer interface {
	Clear()
	RenderAgent(agent *entity.AgentState)
	RenderBullet(bullet *entity.Bullet)
	Present()
}

// DrawFrame renders one complete frame from value-copied match state.
func DrawFrame(r Renderer, agents []entity.AgentState, bullets []entity.Bullet) {
	r.Clear()
	for i := range agents {
		r.RenderAgent(&agents[i])
	}
	for i := range bullets {
		r.RenderBullet(&bullets[i])
	}
	r.Present()
}

// NullRenderer draws nothing and logs each call at debug level. It is
// the backend for headless matches.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{
		logger: logging.NewLogger(),
	}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.logger.Debug(context.Background(), "Present called")
}

// RenderAgent implements Renderer.
func (d *NullRenderer) RenderAgent(agent *entity.AgentState) {
	ctx := context.Background()
	if agent == nil {
		d.logger.Debug(ctx, "RenderAgent called with nil agent")
		return
	}
	d.logger.Debug(ctx, "RenderAgent called",
		"agent_id", uint64(agent.ID),
		"x", agent.Position.X,
		"y", agent.Position.Y,
		"heading", agent.Heading,
	)
}

// RenderBullet implements Renderer.
func (d *NullRenderer) RenderBullet(bullet *entity.Bullet) {
	ctx := context.Background()
	if bullet == nil {
		d.logger.Debug(ctx, "RenderBullet called with nil bullet")
		return
	}
	d.logger.Debug(ctx, "RenderBullet called",
		"bullet_id", uint64(bullet.ID),
		"owner_id", uint64(bullet.OwnerID),
	)
}

// NullRendererInstance is a global instance of NullRenderer for convenience.
var NullRendererInstance Renderer = NewNullRenderer()
