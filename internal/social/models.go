// Package social implements the feed: posts, comments, likes and saves.
package social

import (
	"errors"
	"time"
)

// ErrPostNotFound is returned when a post does not exist or is not
// visible to the requesting user.
var ErrPostNotFound = errors.New("post not found")

// ErrCommentNotFound is returned when a comment does not exist.
var ErrCommentNotFound = errors.New("comment not found")

// ErrForbidden is returned when a user tries to modify content they do
// not own.
var ErrForbidden = errors.New("forbidden")

// Field limits.
const (
	MaxPostLength    = 5000
	MaxCommentLength = 2000
)

// Visibility controls who can see a post.
type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

// Post is one feed post. It may reference one of the author's journals
// or itineraries; the reference is carried by ID only.
type Post struct {
	ID          string
	AuthorID    string
	Body        string
	JournalID   *string
	ItineraryID *string
	Visibility  Visibility
	CreatedAt   time.Time
}

// PostView is a post together with its derived engagement counts and the
// requesting user's own like/save state.
type PostView struct {
	Post
	LikeCount    int
	CommentCount int
	Liked        bool
	Saved        bool
}

// Comment is one comment on a post.
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}
