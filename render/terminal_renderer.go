package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/lra-cloth/cloth"
	"github.com/lixenwraith/lra-cloth/parameter"
)

const (
	glyphPinned     = '●'
	glyphFree       = '•'
	glyphAttachment = '.'
)

// cell is a particle's projected screen position
type cell struct {
	x, y int
	ok   bool
}

// TerminalRenderer draws the cloth wireframe onto a tcell screen
type TerminalRenderer struct {
	screen tcell.Screen
	width  int
	height int

	Camera Camera

	// ShowAttachments draws LRA lines while LRA is enabled
	ShowAttachments bool

	cells []cell
}

// NewTerminalRenderer creates a renderer sized to the screen
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	w, h := screen.Size()
	return &TerminalRenderer{
		screen:          screen,
		width:           w,
		height:          h,
		Camera:          DefaultCamera(),
		ShowAttachments: true,
	}
}

// Resize updates the drawing area after a terminal resize event
func (r *TerminalRenderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// viewHeight is the cloth viewport height above the HUD
func (r *TerminalRenderer) viewHeight() int {
	return max(0, r.height-parameter.HudRows)
}

// Draw renders one frame: attachments, edges, particles, then the HUD rows
func (r *TerminalRenderer) Draw(w *cloth.World, hud []string) {
	bg := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', bg)

	ps := w.Particles()
	r.project(ps)

	limit := 4 * (r.width + r.height)

	if r.ShowAttachments && w.UseLRA() {
		style := bg.Foreground(RgbAttachment)
		for _, c := range w.LRAConstraints() {
			a, b := r.cells[c.Particle], r.cells[c.Anchor]
			if !a.ok || !b.ok {
				continue
			}
			traceLine(a.x, a.y, b.x, b.y, limit, func(x, y int) {
				r.set(x, y, glyphAttachment, style)
			})
		}
	}

	for _, c := range w.LocalConstraints() {
		a, b := r.cells[c.I], r.cells[c.J]
		if !a.ok || !b.ok {
			continue
		}
		style := bg.Foreground(stretchColor(c.Stretch(ps), parameter.StretchTintFull))
		glyph := slopeGlyph(b.x-a.x, b.y-a.y)
		traceLine(a.x, a.y, b.x, b.y, limit, func(x, y int) {
			r.set(x, y, glyph, style)
		})
	}

	// Free first so anchors stay visible where cells overlap
	freeStyle := bg.Foreground(RgbFree)
	for i := range ps {
		if !ps[i].Pinned && r.cells[i].ok {
			r.set(r.cells[i].x, r.cells[i].y, glyphFree, freeStyle)
		}
	}
	pinnedStyle := bg.Foreground(RgbPinned).Bold(true)
	for i := range ps {
		if ps[i].Pinned && r.cells[i].ok {
			r.set(r.cells[i].x, r.cells[i].y, glyphPinned, pinnedStyle)
		}
	}

	r.drawHUD(hud, bg)
	r.screen.Show()
}

// project fills r.cells for every particle, reusing the backing array
func (r *TerminalRenderer) project(ps cloth.ParticleBuffer) {
	if cap(r.cells) < len(ps) {
		r.cells = make([]cell, len(ps))
	}
	r.cells = r.cells[:len(ps)]

	viewH := r.viewHeight()
	for i := range ps {
		x, y, _, ok := r.Camera.Project(ps[i].Pos, r.width, viewH)
		r.cells[i] = cell{x: x, y: y, ok: ok}
	}
}

// set writes a cell, clipping to the cloth viewport
func (r *TerminalRenderer) set(x, y int, ch rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= r.width || y >= r.viewHeight() {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

func (r *TerminalRenderer) drawHUD(hud []string, bg tcell.Style) {
	top := r.height - parameter.HudRows
	for row := 0; row < parameter.HudRows && row < len(hud); row++ {
		y := top + row
		if y < 0 {
			continue
		}
		fg := RgbStatusBar
		if row > 0 {
			fg = RgbHint
		}
		r.writeStr(1, y, hud[row], bg.Foreground(fg))
	}
}

func (r *TerminalRenderer) writeStr(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		if x >= r.width {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// StatusLine summarizes solver state for the first HUD row
func StatusLine(w *cloth.World, paused, muted bool) string {
	excess := w.MaxLRAExcess()
	excessText := "n/a"
	if !math.IsInf(excess, -1) {
		excessText = fmt.Sprintf("%+.4f", excess)
	}

	s := fmt.Sprintf("%s | Tick: %d | Excess: %s | Stretch: %.3f",
		w.Status(), w.Ticks(), excessText, w.MaxStretch())
	if muted {
		s += " | Muted"
	}
	if paused {
		s += " | [PAUSED]"
	}
	return s
}

// HintLine lists the default controls for the second HUD row
const HintLine = "l:LRA  r:reset  [/]:slack  1-4:iters  space:pause  n:step  arrows/drag:orbit  wasd:pan  +/-:zoom  q:quit"
