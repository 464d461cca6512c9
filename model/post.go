package model

import "time"

// Payload holds the caller supplied fields of a new post.
type Payload struct {
	Text string `json:"text" yaml:"text"`
}

// Post represents a stored post
type Post struct {
	// ID is assigned on creation and never changes
	ID string `json:"id" yaml:"id"`

	Text string `json:"text" yaml:"text"`

	// CreatedAt is informational; collection order is creation order, not time
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// NewPost returns an unsaved post carrying the payload fields.
func NewPost(payload *Payload) *Post {
	if payload == nil {
		return nil
	}
	return &Post{Text: payload.Text}
}
