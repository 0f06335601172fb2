package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/akademy/akademy-api/pkg/users"
)

// Handle handles HTTP requests for user lifecycle operations
type Handle struct {
	service *users.UsersService
}

// NewHandle creates a new users handler
func NewHandle(service *users.UsersService) *Handle {
	return &Handle{
		service: service,
	}
}

// RegisterRoutes registers the user lifecycle routes
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Post("/users/from-agreement/{agreementId}", h.PostCreateFromAgreement)
	r.Post("/users/{userId}/reset-password", h.PostResetPassword)
	r.Post("/users/{userId}/deactivate", h.PostDeactivate)
}

// PostCreateFromAgreement handles POST /users/from-agreement/{agreementId}
func (h *Handle) PostCreateFromAgreement(w http.ResponseWriter, r *http.Request) {
	agreementID, err := uuid.Parse(chi.URLParam(r, "agreementId"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Invalid agreement id"})
		return
	}

	user, err := h.service.CreateFromAgreement(r.Context(), agreementID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

// PostResetPassword handles POST /users/{userId}/reset-password
func (h *Handle) PostResetPassword(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Invalid user id"})
		return
	}

	if err := h.service.ResetPassword(r.Context(), userID); err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"message": "Password reset"})
}

// PostDeactivate handles POST /users/{userId}/deactivate
func (h *Handle) PostDeactivate(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Invalid user id"})
		return
	}

	if err := h.service.Deactivate(r.Context(), userID); err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"message": "User deactivated"})
}

func (h *Handle) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrAgreementNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "Agreement not found"})
	case errors.Is(err, users.ErrUserNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "User not found"})
	case errors.Is(err, users.ErrUserAlreadyExists):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, map[string]string{"error": "User already exists"})
	default:
		slog.Error("User operation failed", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "Internal server error"})
	}
}
