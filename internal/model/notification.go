package model

import (
	"strings"
	"time"
)

// Broadcast topics, one per collection. Per-member topics come from
// UserTopic.
const (
	TopicEvents = "events"
	TopicPosts  = "posts"
)

// Broadcast message kinds.
const (
	KindEventUpdate  = "eventUpdate"
	KindNewPost      = "newPost"
	KindNewComment   = "newComment"
	KindNotification = "notification"
)

// UserTopic is the private topic a member's connections subscribe to for
// personal notifications.
func UserTopic(uid string) string {
	return "user:" + uid
}

// IsUserTopic reports whether the topic is somebody's private topic.
func IsUserTopic(topic string) bool {
	return strings.HasPrefix(topic, "user:")
}

// EventUpdate carries the attendee count only, not the full list.
type EventUpdate struct {
	EventID   string `json:"eventId"`
	Attendees int    `json:"attendees"`
}

// NewComment carries the fully-resolved comment that was just appended.
type NewComment struct {
	PostID  string          `json:"postId"`
	Comment ResolvedComment `json:"comment"`
}

// Notification is a personal message shown in the member's dropdown. Read
// state only flips client-side for now.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}
