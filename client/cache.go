// Package client holds the consumer side of the live-update protocol: a
// per-collection cached page populated by REST fetch and patched in place
// by broadcast notifications, without re-fetching.
package client

import (
	"sync"

	"assochub/internal/model"
)

// EventsPage is one cached page of the events collection. Notifications
// only ever patch the page currently held; an id outside it is a no-op and
// the cache catches up on the next fetch.
type EventsPage struct {
	mu         sync.Mutex
	Page       int
	Events     []model.Event
	Total      int64
	TotalPages int
}

// ApplyEventUpdate replaces the attendee list of the matching event with a
// placeholder list of the broadcast length. Unknown ids are ignored.
func (p *EventsPage) ApplyEventUpdate(u model.EventUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.Events {
		if p.Events[i].ID.Hex() == u.EventID {
			p.Events[i].Attendees = make([]string, u.Attendees)
		}
	}
}

// Snapshot copies the cached events for safe reading alongside a running
// listener.
func (p *EventsPage) Snapshot() []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Event, len(p.Events))
	copy(out, p.Events)
	return out
}

// PostsPage is one cached page of the posts collection.
type PostsPage struct {
	mu         sync.Mutex
	Page       int
	PageSize   int
	Posts      []model.ResolvedPost
	Total      int64
	TotalPages int
}

// ApplyNewComment appends the resolved comment to the matching post.
// Unknown ids are ignored.
func (p *PostsPage) ApplyNewComment(n model.NewComment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.Posts {
		if p.Posts[i].ID.Hex() == n.PostID {
			p.Posts[i].Comments = append(p.Posts[i].Comments, n.Comment)
		}
	}
}

// ApplyNewPost prepends the post to the cached page, trims to the page
// size and bumps the total.
func (p *PostsPage) ApplyNewPost(post model.ResolvedPost) {
	p.mu.Lock()
	defer p.mu.Unlock()
	size := p.PageSize
	if size <= 0 {
		size = len(p.Posts) + 1
	}
	posts := append([]model.ResolvedPost{post}, p.Posts...)
	if len(posts) > size {
		posts = posts[:size]
	}
	p.Posts = posts
	p.Total++
}

func (p *PostsPage) Snapshot() []model.ResolvedPost {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.ResolvedPost, len(p.Posts))
	copy(out, p.Posts)
	return out
}

// NotificationFeed collects personal notifications, newest first. Read
// state lives here only; the server keeps none.
type NotificationFeed struct {
	mu    sync.Mutex
	Items []model.Notification
}

func (f *NotificationFeed) Apply(n model.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Items = append([]model.Notification{n}, f.Items...)
}

// MarkRead flips the matching notification; unknown ids are ignored.
func (f *NotificationFeed) MarkRead(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Items {
		if f.Items[i].ID == id {
			f.Items[i].Read = true
		}
	}
}

func (f *NotificationFeed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for i := range f.Items {
		if !f.Items[i].Read {
			n++
		}
	}
	return n
}

func (f *NotificationFeed) Snapshot() []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Notification, len(f.Items))
	copy(out, f.Items)
	return out
}
