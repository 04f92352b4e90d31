package model

import "go.mongodb.org/mongo-driver/bson/primitive"

const RoleAdmin = "admin"

// Project is owned by exactly one member; its id is assigned client-side.
type Project struct {
	ID          string `bson:"id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Link        string `bson:"link" json:"link"`
}

type SocialLinks struct {
	GitHub   string `bson:"github,omitempty" json:"github,omitempty"`
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter  string `bson:"twitter,omitempty" json:"twitter,omitempty"`
}

type Member struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID         string             `bson:"uid" json:"uid"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Role        string             `bson:"role" json:"role"`
	Avatar      string             `bson:"avatar,omitempty" json:"avatar"`
	Bio         string             `bson:"bio,omitempty" json:"bio"`
	Skills      []string           `bson:"skills" json:"skills"`
	Projects    []Project          `bson:"projects" json:"projects"`
	SocialLinks SocialLinks        `bson:"socialLinks" json:"socialLinks"`
}

// MemberUpdate is the allow-list of fields a profile edit may overwrite.
type MemberUpdate struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	Avatar      string      `json:"avatar"`
	Bio         string      `json:"bio"`
	Skills      []string    `json:"skills"`
	Projects    []Project   `json:"projects"`
	SocialLinks SocialLinks `json:"socialLinks"`
}

func (m *Member) AuthorRef() Author {
	return Author{ID: m.UID, Name: m.Name, Avatar: m.Avatar}
}
