package social

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
)

// Service implements the social feed use cases over a Repository.
type Service struct {
	repo Repository
}

// NewService creates a new social service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreatePost validates and persists a new post.
func (s *Service) CreatePost(ctx context.Context, userID string, input *models.PostCreateRequest) (*models.Post, error) {
	fieldErrs := validatePostInput(input)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Errors: fieldErrs}
	}

	visibility := VisibilityPublic
	if input.Visibility == models.VisibilityPrivate {
		visibility = VisibilityPrivate
	}

	post := &Post{
		ID:          "pst_" + uuid.New().String()[:22],
		AuthorID:    userID,
		Body:        input.Body,
		JournalID:   input.JournalID,
		ItineraryID: input.ItineraryID,
		Visibility:  visibility,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	view, err := s.repo.GetPost(ctx, userID, post.ID)
	if err != nil {
		return nil, err
	}
	return toAPIPost(view), nil
}

// GetPost returns one post visible to the viewer.
func (s *Service) GetPost(ctx context.Context, viewerID, postID string) (*models.Post, error) {
	view, err := s.repo.GetPost(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	return toAPIPost(view), nil
}

// DeletePost removes a post. Only the author may delete it.
func (s *Service) DeletePost(ctx context.Context, userID, postID string) error {
	view, err := s.repo.GetPost(ctx, userID, postID)
	if err != nil {
		return err
	}
	if view.AuthorID != userID {
		return ErrForbidden
	}
	return s.repo.DeletePost(ctx, postID)
}

// Feed returns a page of posts visible to the viewer, newest first.
func (s *Service) Feed(ctx context.Context, viewerID string, limit int, cursor string) (*models.PagedPosts, error) {
	result, err := s.repo.Feed(ctx, viewerID, FeedOptions{Limit: limit, Cursor: cursor})
	if err != nil {
		return nil, err
	}
	return toAPIPagedPosts(result, limit), nil
}

// SavedPosts returns the viewer's saved posts, newest save first.
func (s *Service) SavedPosts(ctx context.Context, viewerID string, limit int, cursor string) (*models.PagedPosts, error) {
	result, err := s.repo.SavedPosts(ctx, viewerID, FeedOptions{Limit: limit, Cursor: cursor})
	if err != nil {
		return nil, err
	}
	return toAPIPagedPosts(result, limit), nil
}

// AddComment validates and persists a comment on a visible post.
func (s *Service) AddComment(ctx context.Context, userID, postID string, input *models.CommentCreateRequest) (*models.Comment, error) {
	if _, err := s.repo.GetPost(ctx, userID, postID); err != nil {
		return nil, err
	}

	if input.Body == "" {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "body", Message: "body is required"},
		}}
	}
	if len(input.Body) > MaxCommentLength {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "body", Message: fmt.Sprintf("body must be at most %d characters", MaxCommentLength)},
		}}
	}

	c := &Comment{
		ID:        "cmt_" + uuid.New().String()[:22],
		PostID:    postID,
		AuthorID:  userID,
		Body:      input.Body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return toAPIComment(c), nil
}

// ListComments returns a post's comments oldest first.
func (s *Service) ListComments(ctx context.Context, viewerID, postID string, limit int, cursor string) (*models.PagedComments, error) {
	if _, err := s.repo.GetPost(ctx, viewerID, postID); err != nil {
		return nil, err
	}

	result, err := s.repo.ListComments(ctx, postID, FeedOptions{Limit: limit, Cursor: cursor})
	if err != nil {
		return nil, err
	}

	items := make([]models.Comment, 0, len(result.Items))
	for _, c := range result.Items {
		items = append(items, *toAPIComment(c))
	}

	page := &models.PagedComments{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	}
	if result.NextCursor != "" {
		cursor := result.NextCursor
		page.Meta.NextCursor = &cursor
	}
	return page, nil
}

// DeleteComment removes a comment. The comment author and the post
// author may both delete it.
func (s *Service) DeleteComment(ctx context.Context, userID, commentID string) error {
	c, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != userID {
		post, err := s.repo.GetPost(ctx, userID, c.PostID)
		if err != nil {
			return ErrForbidden
		}
		if post.AuthorID != userID {
			return ErrForbidden
		}
	}
	return s.repo.DeleteComment(ctx, commentID)
}

// LikePost marks a visible post as liked by the user. Idempotent.
func (s *Service) LikePost(ctx context.Context, userID, postID string) error {
	if _, err := s.repo.GetPost(ctx, userID, postID); err != nil {
		return err
	}
	return s.repo.Like(ctx, postID, userID)
}

// UnlikePost removes the user's like. Idempotent.
func (s *Service) UnlikePost(ctx context.Context, userID, postID string) error {
	if _, err := s.repo.GetPost(ctx, userID, postID); err != nil {
		return err
	}
	return s.repo.Unlike(ctx, postID, userID)
}

// SavePost marks a visible post as saved by the user. Idempotent.
func (s *Service) SavePost(ctx context.Context, userID, postID string) error {
	if _, err := s.repo.GetPost(ctx, userID, postID); err != nil {
		return err
	}
	return s.repo.Save(ctx, postID, userID)
}

// UnsavePost removes the user's save. Idempotent.
func (s *Service) UnsavePost(ctx context.Context, userID, postID string) error {
	if _, err := s.repo.GetPost(ctx, userID, postID); err != nil {
		return err
	}
	return s.repo.Unsave(ctx, postID, userID)
}

func validatePostInput(input *models.PostCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Body == "" {
		errs = append(errs, models.FieldError{Field: "body", Message: "body is required"})
	} else if len(input.Body) > MaxPostLength {
		errs = append(errs, models.FieldError{
			Field:   "body",
			Message: fmt.Sprintf("body must be at most %d characters", MaxPostLength),
		})
	}

	if input.JournalID != nil && input.ItineraryID != nil {
		errs = append(errs, models.FieldError{
			Field:   "journalId",
			Message: "a post may reference a journal or an itinerary, not both",
		})
	}

	if input.Visibility != "" &&
		input.Visibility != models.VisibilityPublic &&
		input.Visibility != models.VisibilityPrivate {
		errs = append(errs, models.FieldError{
			Field:   "visibility",
			Message: "visibility must be one of PRIVATE, PUBLIC",
		})
	}

	return errs
}

func toAPIPost(view *PostView) *models.Post {
	return &models.Post{
		ID:           view.ID,
		AuthorID:     view.AuthorID,
		Body:         view.Body,
		JournalID:    view.JournalID,
		ItineraryID:  view.ItineraryID,
		Visibility:   models.Visibility(view.Visibility),
		LikeCount:    view.LikeCount,
		CommentCount: view.CommentCount,
		Liked:        view.Liked,
		Saved:        view.Saved,
		CreatedAt:    models.Timestamp(view.CreatedAt),
	}
}

func toAPIComment(c *Comment) *models.Comment {
	return &models.Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: models.Timestamp(c.CreatedAt),
	}
}

func toAPIPagedPosts(result *FeedResult, limit int) *models.PagedPosts {
	items := make([]models.Post, 0, len(result.Items))
	for _, view := range result.Items {
		items = append(items, *toAPIPost(view))
	}

	page := &models.PagedPosts{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	}
	if result.NextCursor != "" {
		cursor := result.NextCursor
		page.Meta.NextCursor = &cursor
	}
	return page
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
