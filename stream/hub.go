package stream

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/lra-cloth/cloth"
	"github.com/lixenwraith/lra-cloth/parameter"
	"github.com/lixenwraith/lra-cloth/status"
)

// Inbox messages, consumed only by Run

type register struct {
	client *Client
}

type unregister struct {
	client *Client
}

type clientCommand struct {
	client *Client
	cmd    Command
}

type topologyRequest struct {
	reply chan<- Topology
}

// Hub owns one cloth world. Run is its single writer: ticks, commands and
// client membership are all serialized through Inbox
type Hub struct {
	Inbox chan any

	world          *cloth.World
	tickHz         int
	broadcastEvery int

	clients map[*Client]struct{}
	saved   *cloth.Snapshot
	paused  bool
	frame   Frame

	done    chan struct{}
	started time.Time

	metrics *status.Registry
	gauges  hubGauges
}

// hubGauges caches registry pointers written by Run
type hubGauges struct {
	ticks      *atomic.Int64
	clients    *atomic.Int64
	iterations *atomic.Int64
	lraOn      *atomic.Bool
	paused     *atomic.Bool
	slack      *status.AtomicFloat
	maxExcess  *status.AtomicFloat
	peakExcess *status.AtomicFloat
	maxStretch *status.AtomicFloat
	world      *status.AtomicString
}

func newHubGauges(r *status.Registry) hubGauges {
	return hubGauges{
		ticks:      r.Ints.Get("sim.ticks"),
		clients:    r.Ints.Get("stream.clients"),
		iterations: r.Ints.Get("sim.iterations"),
		lraOn:      r.Bools.Get("sim.lra_on"),
		paused:     r.Bools.Get("sim.paused"),
		slack:      r.Floats.Get("sim.lra_slack"),
		maxExcess:  r.Floats.Get("sim.max_excess"),
		peakExcess: r.Floats.Get("sim.peak_excess"),
		maxStretch: r.Floats.Get("sim.max_stretch"),
		world:      r.Strings.Get("sim.status"),
	}
}

// NewHub creates a hub ticking w at tickHz and broadcasting at broadcastHz
func NewHub(w *cloth.World, tickHz, broadcastHz int) *Hub {
	if tickHz <= 0 {
		tickHz = parameter.StreamTickHz
	}
	broadcastEvery := 1
	if broadcastHz > 0 {
		broadcastEvery = max(1, tickHz/broadcastHz)
	}
	h := &Hub{
		Inbox:          make(chan any, parameter.StreamInboxSize),
		world:          w,
		tickHz:         tickHz,
		broadcastEvery: broadcastEvery,
		clients:        make(map[*Client]struct{}),
		done:           make(chan struct{}),
		started:        time.Now(),
		metrics:        status.NewRegistry(),
	}
	h.gauges = newHubGauges(h.metrics)
	h.resetPeak()
	h.publish()
	return h
}

// Run steps the world until ctx is cancelled, then disconnects every client
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(h.tickHz))
	defer ticker.Stop()
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.Inbox:
			h.handle(msg)
		case <-ticker.C:
			if h.paused {
				continue
			}
			h.step()
			if h.world.Ticks()%uint64(h.broadcastEvery) == 0 {
				h.broadcast()
			}
		}
	}
}

// Done is closed once Run has returned
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Ticks is the last published world tick, safe from any goroutine
func (h *Hub) Ticks() uint64 {
	return uint64(h.gauges.ticks.Load())
}

// Clients is the connected client count, safe from any goroutine
func (h *Hub) Clients() int {
	return int(h.gauges.clients.Load())
}

// Metrics exposes the gauges Run publishes
func (h *Hub) Metrics() *status.Registry {
	return h.metrics
}

// Uptime since the hub was created
func (h *Hub) Uptime() time.Duration {
	return time.Since(h.started)
}

// Submit queues msg for Run, failing if the hub stopped or ctx ended first
func (h *Hub) Submit(ctx context.Context, msg any) error {
	select {
	case h.Inbox <- msg:
		return nil
	case <-h.done:
		return fmt.Errorf("hub stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Topology asks Run for the current constraint graph
func (h *Hub) Topology(ctx context.Context) (Topology, error) {
	reply := make(chan Topology, 1)
	if err := h.Submit(ctx, topologyRequest{reply: reply}); err != nil {
		return Topology{}, err
	}
	select {
	case t := <-reply:
		return t, nil
	case <-h.done:
		return Topology{}, fmt.Errorf("hub stopped")
	case <-ctx.Done():
		return Topology{}, ctx.Err()
	}
}

func (h *Hub) step() {
	h.world.Step()
	h.publish()
}

// publish copies world state into the registry; called only from Run
func (h *Hub) publish() {
	w := h.world
	g := h.gauges
	excess := w.MaxLRAExcess()

	g.ticks.Store(int64(w.Ticks()))
	g.clients.Store(int64(len(h.clients)))
	g.iterations.Store(int64(w.Iterations()))
	g.lraOn.Store(w.UseLRA())
	g.paused.Store(h.paused)
	g.slack.Set(w.LRASlack())
	g.maxExcess.Set(excess)
	g.peakExcess.SetMax(excess)
	g.maxStretch.Set(w.MaxStretch())
	g.world.Store(w.Status())
}

// resetPeak restarts peak tracking after the scene changes under it
func (h *Hub) resetPeak() {
	h.gauges.peakExcess.Set(math.Inf(-1))
}

func (h *Hub) handle(msg any) {
	switch m := msg.(type) {
	case register:
		h.clients[m.client] = struct{}{}
		h.gauges.clients.Store(int64(len(h.clients)))
		log.Printf("[STREAM] client %s connected (%d total)", m.client.id, len(h.clients))
		h.sendFrameTo(m.client)
	case unregister:
		h.drop(m.client)
	case clientCommand:
		if _, ok := h.clients[m.client]; !ok && m.client != nil {
			return
		}
		if err := h.apply(m.cmd); err != nil {
			h.reply(m.client, Reply{Type: MsgError, Command: m.cmd.Type, Message: err.Error()})
			return
		}
		h.reply(m.client, Reply{Type: MsgAck, Command: m.cmd.Type})
		h.broadcast()
	case topologyRequest:
		m.reply <- buildTopology(h.world)
	default:
		log.Printf("[STREAM] unknown inbox message %T", msg)
	}
}

// apply executes one command against the world
func (h *Hub) apply(cmd Command) error {
	w := h.world

	switch cmd.Type {
	case CmdToggleLRA:
		w.ToggleLRA()
	case CmdReset:
		w.BuildScene()
		h.resetPeak()
	case CmdSlack:
		v, err := cmd.number()
		if err != nil {
			return err
		}
		w.SetLRASlack(v)
	case CmdIterations:
		v, err := cmd.number()
		if err != nil {
			return err
		}
		if v < 1 || v != math.Trunc(v) {
			return fmt.Errorf("iterations must be a positive integer, got %g", v)
		}
		w.SetIterations(int(v))
	case CmdSnapshot:
		s := w.Snapshot()
		h.saved = &s
	case CmdRestore:
		if h.saved == nil {
			return fmt.Errorf("no snapshot saved")
		}
		if !w.Restore(*h.saved) {
			return fmt.Errorf("snapshot does not match current topology")
		}
		h.resetPeak()
	case CmdPause:
		// Absent value toggles
		if cmd.Value == nil {
			h.paused = !h.paused
			break
		}
		v, err := cmd.number()
		if err != nil {
			return err
		}
		h.paused = v != 0
	case CmdStep:
		if !h.paused {
			return fmt.Errorf("step requires pause")
		}
		h.step()
	case "":
		return fmt.Errorf("malformed command")
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
	h.publish()
	return nil
}

// broadcast sends the current frame to every client; clients that cannot keep up are dropped
func (h *Hub) broadcast() {
	if len(h.clients) == 0 {
		return
	}
	buildFrame(h.world, h.paused, &h.frame)
	data, err := encode(&h.frame)
	if err != nil {
		log.Printf("[STREAM] frame encode: %v", err)
		return
	}

	var slow []*Client
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		log.Printf("[STREAM] client %s send buffer full, dropping", c.id)
		h.drop(c)
	}
}

func (h *Hub) sendFrameTo(c *Client) {
	buildFrame(h.world, h.paused, &h.frame)
	data, err := encode(&h.frame)
	if err != nil {
		log.Printf("[STREAM] frame encode: %v", err)
		return
	}
	h.trySend(c, data)
}

func (h *Hub) reply(c *Client, r Reply) {
	if c == nil {
		return
	}
	data, err := encode(r)
	if err != nil {
		return
	}
	h.trySend(c, data)
}

func (h *Hub) trySend(c *Client, data []byte) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		h.drop(c)
	}
}

// drop unregisters c and closes its send channel, which ends its write pump
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.gauges.clients.Store(int64(len(h.clients)))
	log.Printf("[STREAM] client %s disconnected (%d total)", c.id, len(h.clients))
}

func (h *Hub) shutdown() {
	for c := range h.clients {
		h.drop(c)
	}
	close(h.done)
}
