package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/authgate/internal/handlers/render"
	"github.com/nkiryanov/authgate/internal/logger"
	"github.com/nkiryanov/authgate/internal/models"
)

type userService interface {
	// List public user records, sanitized for rendering
	ListUsers(ctx context.Context) ([]models.PublicUser, error)
}

// DataHandler serves the protected resource: the user listing.
// Token verification happens in middleware, the handler body never runs
// for unauthenticated requests.
type DataHandler struct {
	userService userService
	logger      logger.Logger
}

func NewData(users userService, l logger.Logger) *DataHandler {
	return &DataHandler{userService: users, logger: l}
}

func (h *DataHandler) Handler() http.Handler {
	return http.HandlerFunc(h.listUsers)
}

func (h *DataHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	type ListUsersResponse struct {
		Users []models.PublicUser `json:"users"`
		Count int                 `json:"count"`
	}

	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("user listing failed", "error", err.Error())
		render.ServiceError(w, "Failed to retrieve data", http.StatusInternalServerError)
		return
	}

	if users == nil {
		users = []models.PublicUser{}
	}

	render.JSON(w, ListUsersResponse{Users: users, Count: len(users)})
}
