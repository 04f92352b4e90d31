package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author is a member reference resolved for display.
type Author struct {
	ID     string `bson:"id" json:"id"`
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar" json:"avatar"`
}

// Comment as stored: the author is a raw member uid. Comments are
// append-only, never edited or removed.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	AuthorUID string             `bson:"author" json:"author"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type ResolvedComment struct {
	ID        primitive.ObjectID `json:"id"`
	Author    Author             `json:"author"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"createdAt"`
}

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	AuthorUID string             `bson:"author" json:"author"`
	// AuthorInfo is populated by the repository's $lookup stage, never stored.
	AuthorInfo *Author   `bson:"authorInfo,omitempty" json:"-"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	Likes      int64     `bson:"likes" json:"likes"`
	Comments   []Comment `bson:"comments" json:"comments"`
}

// ResolvedPost is the API and broadcast form, with every member reference
// expanded for display.
type ResolvedPost struct {
	ID        primitive.ObjectID `json:"id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Author    Author             `json:"author"`
	CreatedAt time.Time          `json:"createdAt"`
	Likes     int64              `json:"likes"`
	Comments  []ResolvedComment  `json:"comments"`
}
