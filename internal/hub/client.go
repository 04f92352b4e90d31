package hub

import (
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"assochub/internal/model"
)

const (
	// sendQueueSize bounds the per-client queue; overflow drops the client.
	sendQueueSize = 32

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	readLimit  = 512
)

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	topics map[string]struct{}
	// all means every collection topic; private topics still need an
	// explicit subscription.
	all bool
}

func newClient(h *Hub, conn *websocket.Conn, topics []string) *client {
	c := &client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		topics: make(map[string]struct{}, len(topics)),
		all:    true,
	}
	for _, t := range topics {
		c.topics[t] = struct{}{}
		if !model.IsUserTopic(t) {
			c.all = false
		}
	}
	return c
}

func parseTopics(raw string) []string {
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

func (c *client) subscribed(topic string) bool {
	if _, ok := c.topics[topic]; ok {
		return true
	}
	return c.all && !model.IsUserTopic(topic)
}

// readPump discards inbound frames; it exists to notice closes and keep the
// pong handler running.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
