package stream

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/lra-cloth/cloth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func value(v float64) *float64 {
	return &v
}

func newTestHub() *Hub {
	return NewHub(cloth.NewWorld(cloth.DefaultParams()), 60, 30)
}

// TestHubApplyCommands verifies each command mutates the owned world
func TestHubApplyCommands(t *testing.T) {
	h := newTestHub()
	w := h.world

	if err := h.apply(Command{Type: CmdToggleLRA}); err != nil || w.UseLRA() {
		t.Errorf("Expected toggle_lra to disable LRA, got err=%v on=%v", err, w.UseLRA())
	}
	if err := h.apply(Command{Type: CmdSlack, Value: value(1.2)}); err != nil || w.LRASlack() != 1.2 {
		t.Errorf("Expected slack 1.2, got err=%v slack=%f", err, w.LRASlack())
	}
	if err := h.apply(Command{Type: CmdSlack, Value: value(0.5)}); err != nil || w.LRASlack() != 1 {
		t.Errorf("Expected slack clamped to 1, got err=%v slack=%f", err, w.LRASlack())
	}
	if err := h.apply(Command{Type: CmdIterations, Value: value(10)}); err != nil || w.Iterations() != 10 {
		t.Errorf("Expected 10 iterations, got err=%v iters=%d", err, w.Iterations())
	}

	w.Step()
	if err := h.apply(Command{Type: CmdReset}); err != nil || w.Ticks() != 0 || h.Ticks() != 0 {
		t.Errorf("Expected reset to zero ticks, got err=%v world=%d hub=%d", err, w.Ticks(), h.Ticks())
	}
}

func TestHubApplyRejects(t *testing.T) {
	h := newTestHub()

	tests := []Command{
		{Type: CmdIterations, Value: value(0)},
		{Type: CmdIterations, Value: value(2.5)},
		{Type: CmdSlack, Value: value(math.Inf(1))},
		{Type: CmdRestore},
		{Type: CmdStep},
		{Type: CmdSlack},
		{Type: CmdIterations},
		{Type: CmdSlack, Value: value(math.NaN())},
		{Type: CmdPause, Value: value(math.Inf(-1))},
		{Type: "explode"},
		{},
	}
	for _, cmd := range tests {
		if err := h.apply(cmd); err == nil {
			t.Errorf("%+v: expected error", cmd)
		}
	}
	if h.world.Iterations() != 5 {
		t.Errorf("Expected rejected commands to leave iterations at 5, got %d", h.world.Iterations())
	}
	if h.world.LRASlack() != 1 {
		t.Errorf("Expected rejected commands to leave slack at 1, got %f", h.world.LRASlack())
	}
}

// TestHubSnapshotRestore verifies rewind returns the world to the saved state
func TestHubSnapshotRestore(t *testing.T) {
	h := newTestHub()
	w := h.world

	for i := 0; i < 10; i++ {
		w.Step()
	}
	if err := h.apply(Command{Type: CmdSnapshot}); err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	saved := w.Positions(nil)

	for i := 0; i < 20; i++ {
		w.Step()
	}
	if err := h.apply(Command{Type: CmdRestore}); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if w.Ticks() != 10 || h.Ticks() != 10 {
		t.Errorf("Expected tick 10 after restore, got world=%d hub=%d", w.Ticks(), h.Ticks())
	}
	for i, p := range w.Positions(nil) {
		if p != saved[i] {
			t.Fatalf("particle %d: expected %v, got %v", i, saved[i], p)
		}
	}

	// Grid change makes the snapshot unusable
	w.SetGrid(10, 10, 0.05)
	w.BuildScene()
	if err := h.apply(Command{Type: CmdRestore}); err == nil {
		t.Error("Expected restore to fail after topology change")
	}
}

// TestHubPauseStep verifies single stepping only while paused
func TestHubPauseStep(t *testing.T) {
	h := newTestHub()

	if err := h.apply(Command{Type: CmdPause, Value: value(1)}); err != nil || !h.paused {
		t.Fatalf("Expected pause, got err=%v", err)
	}
	if err := h.apply(Command{Type: CmdStep}); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if h.world.Ticks() != 1 || h.Ticks() != 1 {
		t.Errorf("Expected one tick, got %d", h.world.Ticks())
	}
	if err := h.apply(Command{Type: CmdPause}); err != nil || h.paused {
		t.Errorf("Expected resume, got err=%v paused=%v", err, h.paused)
	}
}

func TestBuildFrame(t *testing.T) {
	w := cloth.NewWorld(cloth.DefaultParams())
	w.Step()

	var f Frame
	buildFrame(w, true, &f)

	if f.Type != MsgFrame || f.Tick != 1 || !f.Paused {
		t.Errorf("Expected paused frame at tick 1, got %+v", f.Type)
	}
	if len(f.Positions) != 900 {
		t.Fatalf("Expected 900 positions, got %d", len(f.Positions))
	}
	if len(f.Pinned) != 2 || f.Pinned[0] != 0 || f.Pinned[1] != 29 {
		t.Errorf("Expected pinned [0 29], got %v", f.Pinned)
	}
	if f.MaxExcess == nil {
		t.Error("Expected max excess with attachments")
	}
	if f.Status != w.Status() {
		t.Errorf("Expected status %q, got %q", w.Status(), f.Status)
	}

	// No attachments: excess is omitted and the frame still encodes
	free := cloth.NewWorld(cloth.DefaultParams(), cloth.WithPinRule(cloth.PinNone))
	buildFrame(free, false, &f)
	if f.MaxExcess != nil {
		t.Errorf("Expected nil max excess, got %f", *f.MaxExcess)
	}
	data, err := encode(&f)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if strings.Contains(string(data), "max_excess") {
		t.Error("Expected max_excess omitted")
	}
}

func TestBuildTopology(t *testing.T) {
	topo := buildTopology(cloth.NewWorld(cloth.DefaultParams()))

	if topo.Width != 30 || topo.Height != 30 {
		t.Errorf("Expected 30x30, got %dx%d", topo.Width, topo.Height)
	}
	if len(topo.Edges) != 1740 || len(topo.Attachments) != 898 {
		t.Errorf("Expected 1740 edges and 898 attachments, got %d and %d", len(topo.Edges), len(topo.Attachments))
	}
	if topo.Edges[0] != [2]int{0, 1} {
		t.Errorf("Expected first edge [0 1], got %v", topo.Edges[0])
	}
}

// TestHubMetrics verifies gauges track steps and commands
func TestHubMetrics(t *testing.T) {
	h := newTestHub()
	snap := h.Metrics().Snapshot()
	if snap["sim.ticks"] != int64(0) || snap["stream.clients"] != int64(0) {
		t.Errorf("Expected fresh gauges, got %v", snap)
	}

	for i := 0; i < 3; i++ {
		h.step()
	}
	if err := h.apply(Command{Type: CmdToggleLRA}); err != nil {
		t.Fatalf("toggle_lra failed: %v", err)
	}

	snap = h.Metrics().Snapshot()
	if snap["sim.ticks"] != int64(3) {
		t.Errorf("Expected 3 ticks, got %v", snap["sim.ticks"])
	}
	if snap["sim.lra_on"] != false {
		t.Errorf("Expected LRA off, got %v", snap["sim.lra_on"])
	}
	if snap["sim.iterations"] != int64(5) {
		t.Errorf("Expected 5 iterations, got %v", snap["sim.iterations"])
	}
	if _, ok := snap["sim.peak_excess"].(float64); !ok {
		t.Errorf("Expected peak excess after stepping, got %v", snap["sim.peak_excess"])
	}
	if s, _ := snap["sim.status"].(string); !strings.HasPrefix(s, "LRA: OFF") {
		t.Errorf("Expected status line, got %q", s)
	}
}

func startServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	h := newTestHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	srv := httptest.NewServer(Router(h))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-h.Done()
	})
	return h, srv
}

func TestHealthAndTopology(t *testing.T) {
	_, srv := startServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	var health map[string]any
	err = json.NewDecoder(resp.Body).Decode(&health)
	resp.Body.Close()
	if err != nil || resp.StatusCode != http.StatusOK || health["status"] != "ok" {
		t.Errorf("Expected ok health, got %d %v (err=%v)", resp.StatusCode, health, err)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	var metrics map[string]any
	err = json.NewDecoder(resp.Body).Decode(&metrics)
	resp.Body.Close()
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Errorf("Expected metrics, got %d (err=%v)", resp.StatusCode, err)
	}
	if _, ok := metrics["sim.max_stretch"]; !ok {
		t.Errorf("Expected sim.max_stretch gauge, got %v", metrics)
	}

	resp, err = http.Get(srv.URL + "/topology")
	if err != nil {
		t.Fatalf("topology request failed: %v", err)
	}
	var topo Topology
	err = json.NewDecoder(resp.Body).Decode(&topo)
	resp.Body.Close()
	if err != nil || len(topo.Edges) != 1740 || len(topo.Anchors) != 2 {
		t.Errorf("Expected demo topology, got %d edges %v anchors (err=%v)", len(topo.Edges), topo.Anchors, err)
	}
}

// TestWebSocketFramesAndCommands verifies frames stream and commands round-trip
func TestWebSocketFramesAndCommands(t *testing.T) {
	h, srv := startServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	read := func() (string, []byte) {
		t.Helper()
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		return head.Type, data
	}

	typ, data := read()
	if typ != MsgFrame {
		t.Fatalf("Expected initial frame, got %q", typ)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("frame decode failed: %v", err)
	}
	if len(f.Positions) != 900 || !f.LRAOn {
		t.Errorf("Expected 900 positions with LRA on, got %d lra=%v", len(f.Positions), f.LRAOn)
	}

	if err := conn.WriteJSON(Command{Type: CmdToggleLRA}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	acked := false
	for !acked {
		typ, data := read()
		if typ == MsgAck {
			var r Reply
			_ = json.Unmarshal(data, &r)
			if r.Command != CmdToggleLRA {
				t.Fatalf("Expected ack for toggle_lra, got %q", r.Command)
			}
			acked = true
		}
	}
	for {
		typ, data := read()
		if typ != MsgFrame {
			continue
		}
		if err := json.Unmarshal(data, &f); err != nil {
			t.Fatalf("frame decode failed: %v", err)
		}
		if !f.LRAOn {
			break
		}
	}

	if err := conn.WriteJSON(Command{Type: "explode"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	for {
		typ, data := read()
		if typ != MsgError {
			continue
		}
		var r Reply
		_ = json.Unmarshal(data, &r)
		if r.Command != "explode" || r.Message == "" {
			t.Errorf("Expected error reply for explode, got %+v", r)
		}
		break
	}

	// A value-taking command without its value is rejected, not defaulted
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"slack"}`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	for {
		typ, data := read()
		if typ == MsgAck {
			t.Fatalf("Expected slack without value rejected, got ack %s", data)
		}
		if typ != MsgError {
			continue
		}
		var r Reply
		_ = json.Unmarshal(data, &r)
		if r.Command != CmdSlack {
			t.Errorf("Expected error reply for slack, got %+v", r)
		}
		break
	}

	if h.Clients() != 1 {
		t.Errorf("Expected one client, got %d", h.Clients())
	}
}
