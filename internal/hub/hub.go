package hub

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"assochub/internal/model"
	"assochub/internal/pkg"
)

// Message is one broadcast notification. The topic routes it server-side;
// only type and payload go over the wire.
type Message struct {
	Topic   string `json:"-"`
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub fans broadcast notifications out to every connected client subscribed
// to the message's topic. Delivery is best-effort: no persistence, no acks,
// no replay. A client that cannot drain its bounded queue is dropped.
type Hub struct {
	secret     []byte
	register   chan *client
	unregister chan *client
	broadcast  chan Message
	done       chan struct{}
	clients    map[*client]struct{}
	upgrader   websocket.Upgrader
}

func New(secret []byte) *Hub {
	return &Hub{
		secret:     secret,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Message, 64),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Run owns the client set; register, unregister and publish all serialize
// through here. Closing done releases clients still trying to register or
// unregister after shutdown.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			h.drop(c)
		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Error().Err(err).Str("type", msg.Type).Msg("broadcast marshal failed")
				continue
			}
			for c := range h.clients {
				if !c.subscribed(msg.Topic) {
					continue
				}
				select {
				case c.send <- data:
				default:
					// slow consumer, disconnect rather than block the fan-out
					h.drop(c)
				}
			}
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			close(h.done)
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Publish queues a notification for fan-out. Fire-and-forget.
func (h *Hub) Publish(topic, kind string, payload any) {
	h.broadcast <- Message{Topic: topic, Type: kind, Payload: payload}
}

// ServeWS upgrades the request and attaches the client to the hub. The
// optional topics query narrows the subscription; no topics means all
// collections. A valid bearer token in the token query additionally joins
// the member's private notification topic.
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	topics := parseTopics(c.Query("topics"))
	if tok := c.Query("token"); tok != "" {
		uid, err := pkg.VerifyToken(h.secret, tok)
		if err != nil {
			log.Warn().Err(err).Msg("websocket token rejected, personal topic not joined")
		} else {
			topics = append(topics, model.UserTopic(uid))
		}
	}

	cl := newClient(h, conn, topics)
	select {
	case h.register <- cl:
	case <-h.done:
		conn.Close()
		return
	}

	go cl.writePump()
	go cl.readPump()
}
