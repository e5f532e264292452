package stream

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/lixenwraith/lra-cloth/cloth"
)

// Outbound message types
const (
	MsgFrame = "frame"
	MsgAck   = "ack"
	MsgError = "error"
)

// Command types accepted from clients
const (
	CmdToggleLRA  = "toggle_lra"
	CmdReset      = "reset"
	CmdSlack      = "slack"
	CmdIterations = "iterations"
	CmdSnapshot   = "snapshot"
	CmdRestore    = "restore"
	CmdPause      = "pause"
	CmdStep       = "step"
)

// Frame is the per-broadcast cloth state
type Frame struct {
	Type       string       `json:"type"`
	Tick       uint64       `json:"tick"`
	Status     string       `json:"status"`
	Positions  [][3]float64 `json:"positions"`
	Pinned     []int        `json:"pinned"`
	LRAOn      bool         `json:"lra_on"`
	Slack      float64      `json:"slack"`
	Iterations int          `json:"iterations"`
	Paused     bool         `json:"paused"`

	// MaxExcess is omitted when the cloth has no attachments
	MaxExcess  *float64 `json:"max_excess,omitempty"`
	MaxStretch float64  `json:"max_stretch"`
}

// Command is a client request; Value carries the numeric argument when the type takes one
// A nil Value means the field was absent
type Command struct {
	Type  string   `json:"type"`
	Value *float64 `json:"value,omitempty"`
}

// number returns the argument, failing when it is absent or not finite
func (c Command) number() (float64, error) {
	if c.Value == nil {
		return 0, fmt.Errorf("%s requires a value", c.Type)
	}
	v := *c.Value
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s value must be finite", c.Type)
	}
	return v, nil
}

// Reply acknowledges or rejects a command to the sender only
type Reply struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Message string `json:"message,omitempty"`
}

// Topology describes the constraint graph, stable until the next reset with a new grid
type Topology struct {
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Spacing     float64  `json:"spacing"`
	Anchors     []int    `json:"anchors"`
	Edges       [][2]int `json:"edges"`
	Attachments [][2]int `json:"attachments"`
}

// buildFrame copies world state into a frame, reusing dst's slices
func buildFrame(w *cloth.World, paused bool, dst *Frame) {
	ps := w.Particles()
	p := w.Params()

	if cap(dst.Positions) < len(ps) {
		dst.Positions = make([][3]float64, len(ps))
	}
	dst.Positions = dst.Positions[:len(ps)]
	dst.Pinned = dst.Pinned[:0]

	for i := range ps {
		dst.Positions[i] = [3]float64{ps[i].Pos.X, ps[i].Pos.Y, ps[i].Pos.Z}
		if ps[i].Pinned {
			dst.Pinned = append(dst.Pinned, i)
		}
	}

	dst.Type = MsgFrame
	dst.Tick = w.Ticks()
	dst.Status = w.Status()
	dst.LRAOn = p.UseLRA
	dst.Slack = p.LRASlack
	dst.Iterations = p.Iterations
	dst.Paused = paused
	dst.MaxStretch = w.MaxStretch()

	// JSON has no encoding for -Inf
	dst.MaxExcess = nil
	if e := w.MaxLRAExcess(); !math.IsInf(e, -1) {
		dst.MaxExcess = &e
	}
}

// buildTopology snapshots the constraint graph
func buildTopology(w *cloth.World) Topology {
	p := w.Params()
	topo := Topology{
		Width:       p.Width,
		Height:      p.Height,
		Spacing:     p.Spacing,
		Anchors:     append([]int(nil), w.Anchors()...),
		Edges:       make([][2]int, 0, len(w.LocalConstraints())),
		Attachments: make([][2]int, 0, len(w.LRAConstraints())),
	}
	for _, c := range w.LocalConstraints() {
		topo.Edges = append(topo.Edges, [2]int{c.I, c.J})
	}
	for _, c := range w.LRAConstraints() {
		topo.Attachments = append(topo.Attachments, [2]int{c.Particle, c.Anchor})
	}
	return topo
}

func encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
