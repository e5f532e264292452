package stream

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/lra-cloth/parameter"
)

// Client is one websocket viewer. The hub owns send and closes it on drop
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

func newClient(hub *Hub, conn *websocket.Conn, id string) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, parameter.StreamSendBuffer),
		hub:  hub,
	}
}

// writePump forwards hub frames to the connection and keeps it alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(parameter.StreamPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(parameter.StreamWriteWait))
			if !ok {
				// Hub dropped us, best-effort close frame
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[STREAM] write error for client %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(parameter.StreamWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump decodes commands into the hub inbox until the connection fails
func (c *Client) readPump() {
	defer func() {
		_ = c.hub.Submit(context.Background(), unregister{client: c})
		c.conn.Close()
	}()

	c.conn.SetReadLimit(parameter.StreamReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(parameter.StreamPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(parameter.StreamPongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[STREAM] read error for client %s: %v", c.id, err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(parameter.StreamPongWait))

		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			_ = c.hub.Submit(context.Background(), clientCommand{client: c, cmd: Command{}})
			continue
		}
		if err := c.hub.Submit(context.Background(), clientCommand{client: c, cmd: cmd}); err != nil {
			return
		}
	}
}
