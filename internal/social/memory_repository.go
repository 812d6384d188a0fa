package social

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	posts    map[string]*Post
	comments map[string]*Comment
	likes    map[string]map[string]bool // postID -> userID
	saves    map[string]map[string]saveMark
	saveSeq  int
}

type saveMark struct {
	seq int
}

// NewInMemoryRepository creates a new in-memory social repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		posts:    make(map[string]*Post),
		comments: make(map[string]*Comment),
		likes:    make(map[string]map[string]bool),
		saves:    make(map[string]map[string]saveMark),
	}
}

// CreatePost stores a new post.
func (r *InMemoryRepository) CreatePost(_ context.Context, post *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *post
	r.posts[post.ID] = &cpy
	return nil
}

// GetPost retrieves a post with derived counts and viewer state.
func (r *InMemoryRepository) GetPost(_ context.Context, viewerID, postID string) (*PostView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[postID]
	if !ok || !visibleTo(post, viewerID) {
		return nil, ErrPostNotFound
	}
	return r.viewLocked(post, viewerID), nil
}

// DeletePost removes a post and its comments, likes and saves.
func (r *InMemoryRepository) DeletePost(_ context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, postID)
	delete(r.likes, postID)
	delete(r.saves, postID)
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

// Feed lists visible posts newest first with pagination.
func (r *InMemoryRepository) Feed(_ context.Context, viewerID string, opts FeedOptions) (*FeedResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var views []*PostView
	for _, post := range r.posts {
		if !visibleTo(post, viewerID) {
			continue
		}
		views = append(views, r.viewLocked(post, viewerID))
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	return pageViews(views, opts), nil
}

// SavedPosts lists the posts the viewer has saved, newest save first.
func (r *InMemoryRepository) SavedPosts(_ context.Context, viewerID string, opts FeedOptions) (*FeedResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type savedView struct {
		view *PostView
		seq  int
	}
	var saved []savedView
	for postID, marks := range r.saves {
		mark, ok := marks[viewerID]
		if !ok {
			continue
		}
		post, exists := r.posts[postID]
		if !exists || !visibleTo(post, viewerID) {
			continue
		}
		saved = append(saved, savedView{view: r.viewLocked(post, viewerID), seq: mark.seq})
	}

	sort.Slice(saved, func(i, j int) bool {
		return saved[i].seq > saved[j].seq
	})

	views := make([]*PostView, 0, len(saved))
	for _, s := range saved {
		views = append(views, s.view)
	}
	return pageViews(views, opts), nil
}

// CreateComment stores a new comment.
func (r *InMemoryRepository) CreateComment(_ context.Context, c *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *c
	r.comments[c.ID] = &cpy
	return nil
}

// GetComment retrieves one comment by ID.
func (r *InMemoryRepository) GetComment(_ context.Context, commentID string) (*Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.comments[commentID]
	if !ok {
		return nil, ErrCommentNotFound
	}
	cpy := *c
	return &cpy, nil
}

// DeleteComment removes one comment.
func (r *InMemoryRepository) DeleteComment(_ context.Context, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.comments, commentID)
	return nil
}

// ListComments lists a post's comments oldest first with pagination.
func (r *InMemoryRepository) ListComments(_ context.Context, postID string, opts FeedOptions) (*CommentResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var comments []*Comment
	for _, c := range r.comments {
		if c.PostID != postID {
			continue
		}
		cpy := *c
		comments = append(comments, &cpy)
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	if opts.Cursor != "" {
		for i := range comments {
			if comments[i].ID == opts.Cursor {
				comments = comments[i+1:]
				break
			}
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &CommentResult{Items: comments}
	if len(comments) > limit {
		result.Items = comments[:limit]
		result.NextCursor = comments[limit-1].ID
	}
	return result, nil
}

// Like records that a user likes a post.
func (r *InMemoryRepository) Like(_ context.Context, postID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.likes[postID] == nil {
		r.likes[postID] = make(map[string]bool)
	}
	r.likes[postID][userID] = true
	return nil
}

// Unlike removes a like.
func (r *InMemoryRepository) Unlike(_ context.Context, postID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.likes[postID], userID)
	return nil
}

// Save records that a user saved a post.
func (r *InMemoryRepository) Save(_ context.Context, postID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saves[postID] == nil {
		r.saves[postID] = make(map[string]saveMark)
	}
	if _, ok := r.saves[postID][userID]; !ok {
		r.saveSeq++
		r.saves[postID][userID] = saveMark{seq: r.saveSeq}
	}
	return nil
}

// Unsave removes a save.
func (r *InMemoryRepository) Unsave(_ context.Context, postID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.saves[postID], userID)
	return nil
}

func (r *InMemoryRepository) viewLocked(post *Post, viewerID string) *PostView {
	commentCount := 0
	for _, c := range r.comments {
		if c.PostID == post.ID {
			commentCount++
		}
	}

	_, saved := r.saves[post.ID][viewerID]
	return &PostView{
		Post:         *post,
		LikeCount:    len(r.likes[post.ID]),
		CommentCount: commentCount,
		Liked:        r.likes[post.ID][viewerID],
		Saved:        saved,
	}
}

func visibleTo(post *Post, viewerID string) bool {
	return post.Visibility == VisibilityPublic || post.AuthorID == viewerID
}

func pageViews(views []*PostView, opts FeedOptions) *FeedResult {
	if opts.Cursor != "" {
		for i := range views {
			if views[i].ID == opts.Cursor {
				views = views[i+1:]
				break
			}
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &FeedResult{Items: views}
	if len(views) > limit {
		result.Items = views[:limit]
		result.NextCursor = views[limit-1].ID
	}
	return result
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
