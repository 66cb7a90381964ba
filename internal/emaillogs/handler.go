package emaillogs

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/schedulrr/backend/internal/events"
	"github.com/schedulrr/backend/internal/middleware"
	"github.com/schedulrr/backend/pkg/response"
)

// Handler handles email log HTTP endpoints.
type Handler struct {
	repo      *Repository
	eventRepo *events.Repository
}

// NewHandler creates an email logs handler.
func NewHandler(repo *Repository, eventRepo *events.Repository) *Handler {
	return &Handler{repo: repo, eventRepo: eventRepo}
}

// ListByEvent handles GET /events/:id/emails. Owner only.
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	event, err := h.eventRepo.GetByID(c.Request.Context(), eventID)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if event.UserID != userID {
		response.Forbidden(c, "not your event")
		return
	}
	logs, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to load email logs")
		return
	}
	response.OK(c, logs)
}
