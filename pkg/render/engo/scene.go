// pkg/render/engo/scene.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-botarena/pkg/engine"
	"github.com/opd-ai/go-botarena/pkg/render"
)

// ArenaScene is the Engo scene for a running match. It drives the game
// from Engo's frame loop: each frame advances one tick and redraws the
// arena.
type ArenaScene struct {
	world    *ecs.World
	game     *engine.Game
	renderer *ArenaRenderer
	scale    float64
}

// NewArenaScene creates a scene for the given match. Scale is world
// units per pixel.
func NewArenaScene(game *engine.Game, scale float64) *ArenaScene {
	return &ArenaScene{
		game:  game,
		scale: scale,
	}
}

// Type returns the scene type (required by Engo).
func (scene *ArenaScene) Type() string {
	return "ArenaScene"
}

// Preload is called before the scene starts (required by Engo).
func (scene *ArenaScene) Preload() {}

// Setup is called when the scene starts (required by Engo).
func (scene *ArenaScene) Setup(u engo.Updater) {
	scene.world = &ecs.World{}
	scene.world.AddSystem(&common.MouseSystem{})

	scene.renderer = NewArenaRenderer(scene.world, scene.scale)
	if err := scene.renderer.Initialize(); err != nil {
		panic("failed to initialize renderer: " + err.Error())
	}

	scene.world.AddSystem(&matchSystem{
		game:     scene.game,
		renderer: scene.renderer,
	})
}

// Exit is called when the scene is exiting (required by Engo).
func (scene *ArenaScene) Exit() {
	scene.game.Stop()
}

// matchSystem advances the match and redraws it once per Engo frame.
type matchSystem struct {
	game     *engine.Game
	renderer *ArenaRenderer
}

// Update implements ecs.System.
func (s *matchSystem) Update(dt float32) {
	if s.game.Running() {
		// Frame pacing drives tick pacing in windowed mode.
		_ = s.game.Update(context.Background(), float64(dt))
	}
	render.DrawFrame(s.renderer, s.game.AgentStates(), s.game.Bullets())
}

// Remove implements ecs.System. The system tracks no per-entity state.
func (s *matchSystem) Remove(ecs.BasicEntity) {}
