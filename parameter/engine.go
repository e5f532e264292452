package parameter

import "time"

// Host loop timing
const (
	// FrameUpdateInterval is the sandbox tick/render interval (~60 FPS, one cloth step per frame)
	FrameUpdateInterval = 16 * time.Millisecond

	// InputQueueSize is the buffered event channel capacity between the poller and the loop
	InputQueueSize = 100
)

// Stream host timing
const (
	// StreamTickHz is the simulation rate of the streaming host
	StreamTickHz = 60

	// StreamBroadcastHz is the frame broadcast rate, ticks between broadcasts = TickHz / BroadcastHz
	StreamBroadcastHz = 30

	// StreamInboxSize bounds queued client commands
	StreamInboxSize = 256

	// StreamSendBuffer bounds queued outbound frames per client
	StreamSendBuffer = 16

	// StreamWriteWait is the deadline for a single websocket write
	StreamWriteWait = 10 * time.Second

	// StreamPongWait is how long a client may stay silent before it is dropped
	StreamPongWait = 60 * time.Second

	// StreamPingPeriod must be shorter than StreamPongWait
	StreamPingPeriod = 25 * time.Second

	// StreamReadLimit caps inbound command size
	StreamReadLimit = 1 << 16
)
