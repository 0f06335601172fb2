package api

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/akademy/akademy-api/pkg/migration"
)

// Handle handles HTTP requests for the migration endpoint
type Handle struct {
	service *migration.Service
	token   string
}

// NewHandle creates a new migration handler. token is the super-credential
// required when the route is mounted outside an authenticated group; pass
// an empty token to rely entirely on upstream middleware.
func NewHandle(service *migration.Service, token string) *Handle {
	return &Handle{
		service: service,
		token:   token,
	}
}

// RegisterRoutes registers the migration routes
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Post("/migrate", h.PostMigrate)
}

// PostMigrate handles POST /migrate - run the Strapi migration pipeline
func (h *Handle) PostMigrate(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "Unauthorized"})
		return
	}

	result, err := h.service.Run(r.Context())
	if err != nil {
		if errors.Is(err, migration.ErrMigrationInProgress) {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, map[string]string{"error": "Migration already in progress"})
			return
		}
		// Infrastructure failure: log the cause, return a generic message.
		slog.Error("Migration run failed", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]interface{}{
			"success": false,
			"error":   "Migration failed",
		})
		return
	}

	if !result.Success {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, result)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// authorized checks the caller-presented bearer credential. When no token is
// configured the check is delegated to upstream middleware.
func (h *Handle) authorized(r *http.Request) bool {
	if h.token == "" {
		return true
	}

	header := r.Header.Get("Authorization")
	credential, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || credential == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credential), []byte(h.token)) == 1
}
