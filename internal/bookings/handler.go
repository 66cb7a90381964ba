package bookings

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schedulrr/backend/internal/middleware"
	"github.com/schedulrr/backend/pkg/response"
)

// CreateRequest is the body for POST /events/:id/bookings (public booking page).
type CreateRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	AdditionalInfo string `json:"additional_info"`
}

// Handler handles booking HTTP endpoints.
type Handler struct {
	service *Service
	repo    *Repository
	events  EventStore
	logger  *zap.Logger
}

// NewHandler creates a bookings handler.
func NewHandler(service *Service, repo *Repository, events EventStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, repo: repo, events: events, logger: logger}
}

// Create handles POST /events/:id/bookings. Public; every failure is reported
// through the uniform {success:false, error} envelope.
func (h *Handler) Create(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		response.BadRequest(c, "invalid start_time")
		return
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		response.BadRequest(c, "invalid end_time")
		return
	}
	if !endTime.After(startTime) {
		response.BadRequest(c, "end_time must be after start_time")
		return
	}

	booking, meetLink, err := h.service.Create(c.Request.Context(), Request{
		EventID:        eventID,
		Name:           req.Name,
		Email:          req.Email,
		StartTime:      startTime,
		EndTime:        endTime,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			response.NotFound(c, ErrEventNotFound.Error())
		case errors.Is(err, ErrCalendarNotConnected):
			response.BadRequest(c, ErrCalendarNotConnected.Error())
		default:
			h.logger.Error("create booking failed", zap.Error(err), zap.String("event_id", eventID.String()))
			response.Internal(c, "failed to create booking")
		}
		return
	}

	response.Created(c, gin.H{"booking": booking, "meet_link": meetLink})
}

// ListByEvent handles GET /events/:id/bookings (owner only).
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	event, _, err := h.events.GetByIDWithOwner(c.Request.Context(), eventID)
	if err != nil {
		response.NotFound(c, ErrEventNotFound.Error())
		return
	}
	if event.UserID != userID {
		response.Forbidden(c, "not your event")
		return
	}

	list, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list bookings")
		return
	}
	response.OK(c, list)
}

// ListMine handles GET /bookings. Returns bookings across the caller's events.
func (h *Handler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list bookings")
		return
	}
	response.OK(c, list)
}

// Stats handles GET /events/:id/stats. Returns booking counts for an event.
func (h *Handler) Stats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	event, _, err := h.events.GetByIDWithOwner(c.Request.Context(), eventID)
	if err != nil {
		response.NotFound(c, ErrEventNotFound.Error())
		return
	}
	if event.UserID != userID {
		response.Forbidden(c, "not your event")
		return
	}
	total, upcoming, err := h.repo.CountByEvent(c.Request.Context(), eventID, time.Now())
	if err != nil {
		response.Internal(c, "failed to load stats")
		return
	}
	response.OK(c, gin.H{"total": total, "upcoming": upcoming})
}
