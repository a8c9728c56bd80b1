package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/opd-ai/go-starship/pkg/engine"
	"github.com/opd-ai/go-starship/pkg/physics"
)

// TerminalRenderer provides a simple ASCII-based rendering for terminals
type TerminalRenderer struct {
	out       io.Writer
	width     int
	height    int
	buffer    [][]rune
	scale     float64
	centerPos physics.Vector2D
	every     uint64
	clear     bool
}

// NewTerminalRenderer creates a new terminal renderer with the specified dimensions.
// scale is world units per character cell.
func NewTerminalRenderer(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		out:    out,
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
		every:  1,
	}
}

// SetEvery draws only every n-th tick, plus every terminal frame
func (r *TerminalRenderer) SetEvery(n uint64) {
	if n == 0 {
		n = 1
	}
	r.every = n
}

// SetClearScreen emits an ANSI clear before each frame
func (r *TerminalRenderer) SetClearScreen(clear bool) {
	r.clear = clear
}

// SetCenter sets the center position of the view
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

// worldToScreen converts world coordinates to screen coordinates. Screen
// rows grow downward.
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	screenX := int(math.Floor((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2))
	screenY := int(math.Floor(float64(r.height)/2 - (pos.Y-r.centerPos.Y)/r.scale))
	return screenX, screenY
}

func (r *TerminalRenderer) plot(pos physics.Vector2D, c rune) {
	x, y := r.worldToScreen(pos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = c
	}
}

// Clear blanks the frame buffer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// Observe implements engine.Observer
func (r *TerminalRenderer) Observe(snap engine.Snapshot) {
	if snap.Tick%r.every != 0 && !snap.Phase.Terminal() {
		return
	}
	r.Draw(snap)
	r.Present(snap)
}

// Draw renders the snapshot into the frame buffer, centered on the stage
// in focus.
func (r *TerminalRenderer) Draw(snap engine.Snapshot) {
	r.Clear()
	r.SetCenter(snap.Focus().Position)

	r.drawGround(snap)
	for _, st := range []engine.StageSnapshot{snap.Booster, snap.Upper} {
		r.drawExhaust(st)
	}
	r.drawStage(snap.Booster, 'B')
	r.drawStage(snap.Upper, 'S')
}

func (r *TerminalRenderer) drawGround(snap engine.Snapshot) {
	_, gy := r.worldToScreen(physics.Vector2D{Y: snap.Pad.GroundY})
	if gy < 0 || gy >= r.height {
		return
	}
	for x := 0; x < r.width; x++ {
		r.buffer[gy][x] = '='
	}
	left := snap.Pad.X - snap.Pad.Width/2
	for wx := left; wx <= left+snap.Pad.Width; wx += r.scale {
		r.plot(physics.Vector2D{X: wx, Y: snap.Pad.GroundY}, '#')
	}
}

// drawStage draws the stage body as a line of cells along its heading
func (r *TerminalRenderer) drawStage(st engine.StageSnapshot, c rune) {
	if !st.Visible {
		return
	}
	if st.Crashed {
		c = 'X'
	}
	axis := physics.FromAngle(st.Heading, 1)
	for d := -st.Height / 2; d <= st.Height/2; d += r.scale / 2 {
		r.plot(st.Position.Add(axis.Scale(d)), c)
	}
	// nose marker
	r.plot(st.Position.Add(axis.Scale(st.Height/2)), '^')
}

func (r *TerminalRenderer) drawExhaust(st engine.StageSnapshot) {
	for _, p := range st.Exhaust {
		r.plot(p.Position, '.')
	}
}

// Present writes the frame buffer and a status line
func (r *TerminalRenderer) Present(snap engine.Snapshot) {
	var b strings.Builder
	if r.clear {
		b.WriteString("\033[H\033[2J")
	}

	b.WriteString("+" + strings.Repeat("-", r.width) + "+\n")
	for y := range r.buffer {
		b.WriteString("|")
		b.WriteString(string(r.buffer[y]))
		b.WriteString("|\n")
	}
	b.WriteString("+" + strings.Repeat("-", r.width) + "+\n")
	b.WriteString(StatusLine(snap))
	b.WriteString("\n")

	_, _ = io.WriteString(r.out, b.String())
}

// StatusLine summarizes the stage in focus on one line
func StatusLine(snap engine.Snapshot) string {
	f := snap.Focus()
	ap := "off"
	if f.Autopilot {
		ap = "on"
	}
	tilt := physics.AngleError(physics.Vertical, f.Heading)
	return fmt.Sprintf("T+%05d %-18s %-11s alt %7.1f  vx %6.2f  vy %6.2f  tilt %+.3f  fuel %6.1f  ap %s",
		snap.Tick, snap.Phase, f.Kind, f.Altitude, f.Velocity.X, f.Velocity.Y, tilt, f.Fuel, ap)
}
