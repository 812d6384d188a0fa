package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
	"github.com/wayfarerhq/wayfarer/internal/api/response"
	"github.com/wayfarerhq/wayfarer/internal/featureflags"
	"github.com/wayfarerhq/wayfarer/internal/social"
)

// SocialHandler handles the public post feed, comments, likes and saves.
type SocialHandler struct {
	service *social.Service
	flags   *featureflags.Service
}

// NewSocialHandler creates a new SocialHandler. Flags may be nil.
func NewSocialHandler(service *social.Service, flags *featureflags.Service) *SocialHandler {
	return &SocialHandler{service: service, flags: flags}
}

// Feed handles GET /v1/posts - the public feed.
func (h *SocialHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if h.flags != nil && h.flags.IsPublicFeedDisabled(r.Context()) {
		response.ServiceUnavailable(w, r, "the feed is temporarily unavailable")
		return
	}

	viewerID := GetUserID(r.Context())
	limit := pageLimit(r)

	page, err := h.service.Feed(r.Context(), viewerID, limit, pageCursor(r))
	if err != nil {
		response.InternalError(w, r, "failed to load feed")
		return
	}

	response.JSON(w, r, http.StatusOK, page)
}

// CreatePost handles POST /v1/posts.
func (h *SocialHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.PostCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	post, err := h.service.CreatePost(r.Context(), userID, &input)
	if err != nil {
		writeSocialError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/posts/"+post.ID, post)
}

// GetPost handles GET /v1/posts/{postId}.
func (h *SocialHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	viewerID := GetUserID(r.Context())
	postID := chi.URLParam(r, "postId")

	post, err := h.service.GetPost(r.Context(), viewerID, postID)
	if err != nil {
		writeSocialError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, post)
}

// DeletePost handles DELETE /v1/posts/{postId}.
func (h *SocialHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	postID := chi.URLParam(r, "postId")

	if err := h.service.DeletePost(r.Context(), userID, postID); err != nil {
		writeSocialError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// SavedPosts handles GET /v1/me/saved-posts.
func (h *SocialHandler) SavedPosts(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	limit := pageLimit(r)

	page, err := h.service.SavedPosts(r.Context(), userID, limit, pageCursor(r))
	if err != nil {
		response.InternalError(w, r, "failed to load saved posts")
		return
	}

	response.JSON(w, r, http.StatusOK, page)
}

// ListComments handles GET /v1/posts/{postId}/comments.
func (h *SocialHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	viewerID := GetUserID(r.Context())
	postID := chi.URLParam(r, "postId")
	limit := pageLimit(r)

	page, err := h.service.ListComments(r.Context(), viewerID, postID, limit, pageCursor(r))
	if err != nil {
		writeSocialError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, page)
}

// AddComment handles POST /v1/posts/{postId}/comments.
func (h *SocialHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	postID := chi.URLParam(r, "postId")

	var input models.CommentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	comment, err := h.service.AddComment(r.Context(), userID, postID, &input)
	if err != nil {
		writeSocialError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/posts/"+postID+"/comments/"+comment.ID, comment)
}

// DeleteComment handles DELETE /v1/posts/{postId}/comments/{commentId}.
func (h *SocialHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	commentID := chi.URLParam(r, "commentId")

	if err := h.service.DeleteComment(r.Context(), userID, commentID); err != nil {
		writeSocialError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// LikePost handles PUT /v1/posts/{postId}/like.
func (h *SocialHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, h.service.LikePost)
}

// UnlikePost handles DELETE /v1/posts/{postId}/like.
func (h *SocialHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, h.service.UnlikePost)
}

// SavePost handles PUT /v1/posts/{postId}/save.
func (h *SocialHandler) SavePost(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, h.service.SavePost)
}

// UnsavePost handles DELETE /v1/posts/{postId}/save.
func (h *SocialHandler) UnsavePost(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, h.service.UnsavePost)
}

// mark runs an idempotent per-post marker operation (like/save).
func (h *SocialHandler) mark(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, postID string) error) {
	userID := GetUserID(r.Context())
	postID := chi.URLParam(r, "postId")

	if err := op(r.Context(), userID, postID); err != nil {
		writeSocialError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// writeSocialError maps social service errors to problem responses.
func writeSocialError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *social.ValidationError

	switch {
	case errors.Is(err, social.ErrPostNotFound):
		response.NotFound(w, r, "post not found")
	case errors.Is(err, social.ErrCommentNotFound):
		response.NotFound(w, r, "comment not found")
	case errors.Is(err, social.ErrForbidden):
		response.Forbidden(w, r, "you do not have permission to do that")
	case errors.As(err, &verr):
		response.BadRequest(w, r, "validation error", verr.Errors)
	default:
		response.InternalError(w, r, "social operation failed")
	}
}
