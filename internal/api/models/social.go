package models

// Post is the read view of a feed post. LikeCount and CommentCount are
// derived; Liked and Saved are relative to the requesting user.
type Post struct {
	ID           string     `json:"id"`
	AuthorID     string     `json:"authorId"`
	Body         string     `json:"body"`
	JournalID    *string    `json:"journalId,omitempty"`
	ItineraryID  *string    `json:"itineraryId,omitempty"`
	Visibility   Visibility `json:"visibility"`
	LikeCount    int        `json:"likeCount"`
	CommentCount int        `json:"commentCount"`
	Liked        bool       `json:"liked"`
	Saved        bool       `json:"saved"`
	CreatedAt    Timestamp  `json:"createdAt"`
}

// PagedPosts is a paginated feed page.
type PagedPosts struct {
	Items []Post            `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// PostCreateRequest is the inbound shape for creating a post. A post may
// reference at most one of the author's journals or itineraries.
type PostCreateRequest struct {
	Body        string     `json:"body"`
	JournalID   *string    `json:"journalId,omitempty"`
	ItineraryID *string    `json:"itineraryId,omitempty"`
	Visibility  Visibility `json:"visibility,omitempty"`
}

// Comment is the read view of a post comment.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt Timestamp `json:"createdAt"`
}

// PagedComments is a paginated list of comments.
type PagedComments struct {
	Items []Comment         `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// CommentCreateRequest is the inbound shape for commenting on a post.
type CommentCreateRequest struct {
	Body string `json:"body"`
}
