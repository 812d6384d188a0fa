package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
	"github.com/wayfarerhq/wayfarer/internal/api/response"
	"github.com/wayfarerhq/wayfarer/internal/auth"
	"github.com/wayfarerhq/wayfarer/internal/featureflags"
	"github.com/wayfarerhq/wayfarer/internal/user"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
	userService *user.Service
	flags       *featureflags.Service
}

// NewAuthHandler creates a new AuthHandler. The user service is used to
// provision a profile row on registration; flags may be nil.
func NewAuthHandler(authService *auth.Service, userService *user.Service, flags *featureflags.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		flags:       flags,
	}
}

// Register handles POST /v1/auth/register - create an account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.flags != nil && h.flags.AreSignupsDisabled(r.Context()) {
		response.ServiceUnavailable(w, r, "registration is temporarily unavailable")
		return
	}

	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", toFieldErrors(errs))
		return
	}

	tokenResp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			response.Conflict(w, r, "an account with this email already exists")
			return
		}
		var verr *auth.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(w, r, "validation error", toFieldErrors(verr.Errors))
			return
		}
		response.InternalError(w, r, "registration failed")
		return
	}

	// Profile creation is best-effort; GetMe lazily creates one too.
	if h.userService != nil {
		if _, err := h.userService.EnsureProfile(r.Context(), tokenResp.User.ID, tokenResp.User.Locale); err != nil {
			response.InternalError(w, r, "registration failed")
			return
		}
	}

	response.Created(w, r, "/v1/me", tokenResp)
}

// Login handles POST /v1/auth/login - authenticate with email and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", toFieldErrors(errs))
		return
	}

	tokenResp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "invalid email or password")
			return
		}
		response.InternalError(w, r, "login failed")
		return
	}

	response.JSON(w, r, http.StatusOK, tokenResp)
}

// RefreshToken handles POST /v1/auth/refresh - refresh access token.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation error", toFieldErrors(errs))
		return
	}

	tokenResp, err := h.authService.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			response.Unauthorized(w, r, "invalid refresh token")
			return
		}
		if errors.Is(err, auth.ErrRefreshTokenExpired) {
			response.Unauthorized(w, r, "refresh token has expired")
			return
		}
		if errors.Is(err, auth.ErrUserNotFound) {
			response.Unauthorized(w, r, "user not found")
			return
		}

		response.InternalError(w, r, "token refresh failed")
		return
	}

	response.JSON(w, r, http.StatusOK, tokenResp)
}

// Logout handles POST /v1/auth/logout - revoke current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if req.RefreshToken == "" {
		response.BadRequest(w, r, "refreshToken is required", nil)
		return
	}

	if err := h.authService.RevokeRefreshToken(r.Context(), req.RefreshToken); err != nil {
		response.InternalError(w, r, "logout failed")
		return
	}

	response.NoContent(w, r)
}

// LogoutAll handles POST /v1/auth/logout-all - revoke all sessions for the user.
// This endpoint requires authentication.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	if err := h.authService.RevokeAllTokens(r.Context(), userID); err != nil {
		response.InternalError(w, r, "logout failed")
		return
	}

	response.NoContent(w, r)
}

// toFieldErrors converts auth field errors to API field errors.
func toFieldErrors(errs []auth.FieldError) []models.FieldError {
	fieldErrors := make([]models.FieldError, len(errs))
	for i, e := range errs {
		fieldErrors[i] = models.FieldError{
			Field:   e.Field,
			Message: e.Message,
			Code:    e.Code,
		}
	}
	return fieldErrors
}
