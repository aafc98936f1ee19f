// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-botarena/pkg/entity"
	"github.com/opd-ai/go-botarena/pkg/physics"
)

// drawnEntity keeps the ECS handle together with its components so
// per-frame updates can write through without querying the world.
type drawnEntity struct {
	basic  ecs.BasicEntity
	space  *common.SpaceComponent
	render *common.RenderComponent
	seen   bool
}

// ArenaRenderer implements render.Renderer on top of the Engo game
// engine. Agents and bullets map to ECS entities that persist across
// frames; anything not re-rendered since the last Clear is removed.
type ArenaRenderer struct {
	world        *ecs.World
	renderSystem *common.RenderSystem

	agentEntities  map[entity.ID]*drawnEntity
	bulletEntities map[entity.ID]*drawnEntity

	scale float64 // world units per pixel
}

// NewArenaRenderer creates an Engo-based renderer drawing into world.
func NewArenaRenderer(world *ecs.World, scale float64) *ArenaRenderer {
	return &ArenaRenderer{
		world:          world,
		agentEntities:  make(map[entity.ID]*drawnEntity),
		bulletEntities: make(map[entity.ID]*drawnEntity),
		scale:          scale,
	}
}

// Initialize registers the render system with the world.
func (r *ArenaRenderer) Initialize() error {
	r.renderSystem = &common.RenderSystem{}
	r.world.AddSystem(r.renderSystem)
	return nil
}

// Clear implements render.Renderer. Engo clears the framebuffer itself;
// this pass marks every drawn entity stale so Present can drop the ones
// that left the match.
func (r *ArenaRenderer) Clear() {
	for _, d := range r.agentEntities {
		d.seen = false
	}
	for _, d := range r.bulletEntities {
		d.seen = false
	}
}

// Present implements render.Renderer. Presentation itself is driven by
// Engo's render system; this removes entities not drawn this frame.
func (r *ArenaRenderer) Present() {
	for id, d := range r.agentEntities {
		if !d.seen {
			r.renderSystem.Remove(d.basic)
			delete(r.agentEntities, id)
		}
	}
	for id, d := range r.bulletEntities {
		if !d.seen {
			r.renderSystem.Remove(d.basic)
			delete(r.bulletEntities, id)
		}
	}
}

// RenderAgent implements render.Renderer.
func (r *ArenaRenderer) RenderAgent(agent *entity.AgentState) {
	d, ok := r.agentEntities[agent.ID]
	if !ok {
		d = r.addEntity(r.agentEntities, agent.ID, &common.Rectangle{}, 24, 16,
			agentColor(agent.ID))
	}
	d.seen = true
	pos := r.worldToScreen(agent.Position)
	d.space.Position = pos
	d.space.Rotation = float32(agent.Heading * 180 / math.Pi)
}

// RenderBullet implements render.Renderer.
func (r *ArenaRenderer) RenderBullet(bullet *entity.Bullet) {
	d, ok := r.bulletEntities[bullet.ID]
	if !ok {
		d = r.addEntity(r.bulletEntities, bullet.ID, &common.Circle{}, 4, 4,
			color.RGBA{255, 255, 0, 255})
	}
	d.seen = true
	d.space.Position = r.worldToScreen(bullet.Position)
}

// addEntity creates an ECS entity with its components and registers it
// with the render system.
func (r *ArenaRenderer) addEntity(
	entities map[entity.ID]*drawnEntity,
	id entity.ID,
	drawable common.Drawable,
	width, height float32,
	col color.Color,
) *drawnEntity {
	d := &drawnEntity{
		basic: ecs.NewBasic(),
		render: &common.RenderComponent{
			Drawable: drawable,
			Color:    col,
		},
		space: &common.SpaceComponent{
			Width:  width,
			Height: height,
		},
	}
	entities[id] = d
	r.renderSystem.Add(&d.basic, d.render, d.space)
	return d
}

// worldToScreen converts arena coordinates, origin at the center, to
// screen coordinates, origin at the top left.
func (r *ArenaRenderer) worldToScreen(worldPos physics.Vector2D) engo.Point {
	return engo.Point{
		X: float32(worldPos.X/r.scale) + engo.GameWidth()/2,
		Y: engo.GameHeight()/2 - float32(worldPos.Y/r.scale),
	}
}

// agentColor assigns a stable palette color per agent.
func agentColor(id entity.ID) color.Color {
	palette := []color.Color{
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 255, 0, 255},
		color.RGBA{64, 128, 255, 255},
		color.RGBA{255, 0, 255, 255},
		color.RGBA{0, 255, 255, 255},
		color.RGBA{255, 128, 0, 255},
	}
	return palette[uint64(id)%uint64(len(palette))]
}
