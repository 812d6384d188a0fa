package social

import "context"

// FeedOptions contains options for listing posts or comments.
type FeedOptions struct {
	Limit  int
	Cursor string
}

// FeedResult contains one page of post views.
type FeedResult struct {
	Items      []*PostView
	NextCursor string
}

// CommentResult contains one page of comments.
type CommentResult struct {
	Items      []*Comment
	NextCursor string
}

// Repository persists posts, comments, likes and saves. Methods taking a
// viewerID only surface posts the viewer may see: public ones plus their
// own.
type Repository interface {
	// CreatePost stores a new post.
	CreatePost(ctx context.Context, post *Post) error

	// GetPost retrieves a post with derived counts and the viewer's
	// like/save state. Returns ErrPostNotFound if it does not exist or is
	// private to another user.
	GetPost(ctx context.Context, viewerID, postID string) (*PostView, error)

	// DeletePost removes a post and cascades to its comments, likes and
	// saves.
	DeletePost(ctx context.Context, postID string) error

	// Feed lists visible posts newest first with pagination.
	Feed(ctx context.Context, viewerID string, opts FeedOptions) (*FeedResult, error)

	// SavedPosts lists the posts the viewer has saved, newest first.
	SavedPosts(ctx context.Context, viewerID string, opts FeedOptions) (*FeedResult, error)

	// CreateComment stores a new comment.
	CreateComment(ctx context.Context, c *Comment) error

	// GetComment retrieves one comment by ID.
	GetComment(ctx context.Context, commentID string) (*Comment, error)

	// DeleteComment removes one comment.
	DeleteComment(ctx context.Context, commentID string) error

	// ListComments lists a post's comments oldest first with pagination.
	ListComments(ctx context.Context, postID string, opts FeedOptions) (*CommentResult, error)

	// Like records that a user likes a post. Liking twice is a no-op.
	Like(ctx context.Context, postID, userID string) error

	// Unlike removes a like. Removing an absent like is a no-op.
	Unlike(ctx context.Context, postID, userID string) error

	// Save records that a user saved a post. Saving twice is a no-op.
	Save(ctx context.Context, postID, userID string) error

	// Unsave removes a save. Removing an absent save is a no-op.
	Unsave(ctx context.Context, postID, userID string) error
}
