package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like records that a user liked a post. A user appears at most once per post.
type Like struct {
	User string `json:"user" bson:"user"`
}

// Comment is embedded in its parent Post. Name and Avatar are copied from the
// commenter when the comment is written and are not kept in sync afterwards.
type Comment struct {
	ID     primitive.ObjectID `json:"_id"    bson:"_id"`
	User   string             `json:"user"   bson:"user"`
	Text   string             `json:"text"   bson:"text"`
	Name   string             `json:"name"   bson:"name"`
	Avatar string             `json:"avatar" bson:"avatar"`
	Date   time.Time          `json:"date"   bson:"date"`
}

// Post is a single post document. Likes and Comments are kept newest first.
// Version is bumped on every write and guards read-modify-write cycles.
type Post struct {
	ID       primitive.ObjectID `json:"_id"      bson:"_id,omitempty"`
	User     string             `json:"user"     bson:"user"`
	Text     string             `json:"text"     bson:"text"`
	Name     string             `json:"name"     bson:"name"`
	Avatar   string             `json:"avatar"   bson:"avatar"`
	Likes    []Like             `json:"likes"    bson:"likes"`
	Comments []Comment          `json:"comments" bson:"comments"`
	Date     time.Time          `json:"date"     bson:"date"`
	Version  int64              `json:"-"        bson:"__v"`
}

// Clone returns a deep copy, so callers can mutate likes and comments freely.
func (p *Post) Clone() *Post {
	cp := *p
	cp.Likes = append(make([]Like, 0, len(p.Likes)), p.Likes...)
	cp.Comments = append(make([]Comment, 0, len(p.Comments)), p.Comments...)
	return &cp
}

// PostRequest is the JSON body for POST /api/posts and POST /api/posts/comment/{id}.
type PostRequest struct {
	Text string `json:"text"`
}
