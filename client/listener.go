package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"assochub/internal/model"
)

// Listener consumes the broadcast channel and patches the attached cache
// pages in place. Messages for items outside the cached pages are dropped;
// anything missed while disconnected is only recovered by a fresh fetch.
type Listener struct {
	conn          *websocket.Conn
	Events        *EventsPage
	Posts         *PostsPage
	Notifications *NotificationFeed
}

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dial connects to the hub's websocket endpoint, subscribing to the given
// topics (none means every collection). A non-empty token also joins the
// member's personal notification topic.
func Dial(ctx context.Context, wsURL, token string, topics []string) (*Listener, error) {
	params := url.Values{}
	if len(topics) > 0 {
		params.Set("topics", strings.Join(topics, ","))
	}
	if token != "" {
		params.Set("token", token)
	}
	if len(params) > 0 {
		wsURL += "?" + params.Encode()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}
	return &Listener{conn: conn}, nil
}

func (l *Listener) Close() error {
	return l.conn.Close()
}

// Run reads frames until the connection or context ends, dispatching each
// to the matching cache page. Unknown message types are ignored.
func (l *Listener) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		l.conn.Close()
	}()
	for {
		_, data, err := l.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		l.dispatch(data)
	}
}

func (l *Listener) dispatch(data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return
	}
	switch f.Type {
	case model.KindEventUpdate:
		if l.Events == nil {
			return
		}
		var u model.EventUpdate
		if err := json.Unmarshal(f.Payload, &u); err == nil {
			l.Events.ApplyEventUpdate(u)
		}
	case model.KindNewComment:
		if l.Posts == nil {
			return
		}
		var n model.NewComment
		if err := json.Unmarshal(f.Payload, &n); err == nil {
			l.Posts.ApplyNewComment(n)
		}
	case model.KindNewPost:
		if l.Posts == nil {
			return
		}
		var p model.ResolvedPost
		if err := json.Unmarshal(f.Payload, &p); err == nil {
			l.Posts.ApplyNewPost(p)
		}
	case model.KindNotification:
		if l.Notifications == nil {
			return
		}
		var n model.Notification
		if err := json.Unmarshal(f.Payload, &n); err == nil {
			l.Notifications.Apply(n)
		}
	}
}
