package models

import "time"

type Post struct {
	ID     string `json:"id"`
	UserID string `json:"user"` // author
	Text   string `json:"text"`

	// Author display data snapshotted at creation time so posts render
	// without joining back to users.
	AuthorName   string `json:"name"`
	AuthorAvatar string `json:"avatar"`

	Likes     []PostLike    `json:"likes"`
	Comments  []PostComment `json:"comments"`
	CreatedAt time.Time     `json:"createdAt"`
}

// PostLike records one user's like of a post. A user may like a post at
// most once.
type PostLike struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	CreatedAt time.Time `json:"-"`
}

type PostComment struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user"`
	Text         string    `json:"text"`
	AuthorName   string    `json:"name"`
	AuthorAvatar string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LikedBy reports whether userID has already liked the post.
func (p *Post) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
