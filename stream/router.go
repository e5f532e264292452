package stream

import (
	"fmt"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Viewer may be served from anywhere
	},
}

var clientSeq atomic.Uint64

// Router wires the hub's HTTP surface
func Router(h *Hub) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.handleHealth)
	router.GET("/metrics", h.handleMetrics)
	router.GET("/topology", h.handleTopology)
	router.GET("/ws", h.handleWebSocket)

	return router
}

func (h *Hub) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "lra-cloth",
		"tick":    h.Ticks(),
		"clients": h.Clients(),
		"uptime":  h.Uptime().String(),
	})
}

func (h *Hub) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

func (h *Hub) handleTopology(c *gin.Context) {
	topo, err := h.Topology(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, topo)
}

func (h *Hub) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[STREAM] upgrade error: %v", err)
		return
	}

	client := newClient(h, conn, fmt.Sprintf("c%d", clientSeq.Add(1)))
	if err := h.Submit(c.Request.Context(), register{client: client}); err != nil {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
