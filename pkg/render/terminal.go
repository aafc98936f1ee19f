package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/opd-ai/go-botarena/pkg/entity"
	"github.com/opd-ai/go-botarena/pkg/physics"
)

// TerminalRenderer provides a simple ASCII rendering for terminals.
// Agents draw as an arrow glyph pointing along their heading, bullets
// as dots.
type TerminalRenderer struct {
	width     int
	height    int
	buffer    [][]rune
	scale     float64
	centerPos physics.Vector2D
	out       io.Writer
}

// NewTerminalRenderer creates a terminal renderer. Scale is world units
// per character cell. Output goes to stdout; use SetOutput to redirect.
func NewTerminalRenderer(width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		out:    os.Stdout,
	}
}

// SetOutput redirects frame output, mainly for tests.
func (r *TerminalRenderer) SetOutput(w io.Writer) {
	r.out = w
}

// SetCenter sets the world position shown at the middle of the view.
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// worldToScreen converts world coordinates to buffer coordinates.
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2)
	screenY := int((pos.Y-r.centerPos.Y)/r.scale + float64(r.height)/2)
	return screenX, screenY
}

// Clear implements Renderer.
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// Present implements Renderer.
func (r *TerminalRenderer) Present() {
	fmt.Fprint(r.out, "\033[H\033[2J")

	fmt.Fprintln(r.out, "+"+strings.Repeat("-", r.width)+"+")
	for y := range r.buffer {
		fmt.Fprintln(r.out, "|"+string(r.buffer[y])+"|")
	}
	fmt.Fprintln(r.out, "+"+strings.Repeat("-", r.width)+"+")
}

// RenderAgent implements Renderer.
func (r *TerminalRenderer) RenderAgent(agent *entity.AgentState) {
	x, y := r.worldToScreen(agent.Position)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = headingGlyph(agent.Heading)
	}
}

// RenderBullet implements Renderer.
func (r *TerminalRenderer) RenderBullet(bullet *entity.Bullet) {
	x, y := r.worldToScreen(bullet.Position)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = '.'
	}
}

// headingGlyph maps a canonical heading to the nearest arrow glyph.
func headingGlyph(heading float64) rune {
	switch {
	case math.Abs(heading) <= math.Pi/4:
		return '>'
	case heading > math.Pi/4 && heading <= 3*math.Pi/4:
		return '^'
	case heading < -math.Pi/4 && heading >= -3*math.Pi/4:
		return 'v'
	default:
		return '<'
	}
}
