package events

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/schedulrr/backend/internal/middleware"
	"github.com/schedulrr/backend/internal/models"
	"github.com/schedulrr/backend/pkg/response"
)

// ParticipantInput is one pre-registered participant of a PUBLIC event.
type ParticipantInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Title           string             `json:"title" binding:"required"`
	Description     string             `json:"description"`
	DurationMinutes int                `json:"duration_minutes" binding:"required,min=1,max=1440"`
	EventType       string             `json:"event_type" binding:"required"`
	HasVideo        bool               `json:"has_video"`
	VideoProvider   string             `json:"video_provider"`
	ChatProvider    string             `json:"chat_provider"`
	Address         string             `json:"address"`
	ContactNumber   string             `json:"contact_number"`
	Participants    []ParticipantInput `json:"participants"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates an events handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// toEvent validates the meeting-mode fields and builds the model. Fields that
// don't apply to the chosen mode are dropped, mirroring the form behavior.
func (req *CreateRequest) toEvent(userID uuid.UUID) (*models.Event, string) {
	var eventType models.EventType
	switch models.EventType(req.EventType) {
	case models.EventTypePublic, models.EventTypePrivate, models.EventTypeInPerson:
		eventType = models.EventType(req.EventType)
	default:
		return nil, "event_type must be PUBLIC, PRIVATE or IN_PERSON"
	}

	e := &models.Event{
		UserID:          userID,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		EventType:       eventType,
		HasVideo:        req.HasVideo,
	}

	switch {
	case eventType == models.EventTypeInPerson:
		if req.Address == "" {
			return nil, "address is required for IN_PERSON events"
		}
		e.Address = req.Address
		e.ContactNumber = req.ContactNumber
		e.HasVideo = false
	case req.HasVideo:
		switch req.VideoProvider {
		case "", models.VideoProviderGoogleMeet:
			e.VideoProvider = models.VideoProviderGoogleMeet
		case models.VideoProviderZoom:
			e.VideoProvider = models.VideoProviderZoom
		default:
			return nil, "video_provider must be google-meet or zoom"
		}
	default:
		switch req.ChatProvider {
		case "", models.ChatProviderWhatsApp:
			e.ChatProvider = models.ChatProviderWhatsApp
		case models.ChatProviderTeams:
			e.ChatProvider = models.ChatProviderTeams
		default:
			return nil, "chat_provider must be whatsapp or teams"
		}
	}

	if eventType == models.EventTypePublic {
		for _, p := range req.Participants {
			e.Participants = append(e.Participants, models.Participant{Name: p.Name, Email: p.Email})
		}
	}
	return e, ""
}

// Create handles POST /events.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	event, msg := req.toEvent(userID)
	if msg != "" {
		response.BadRequest(c, msg)
		return
	}
	if err := h.repo.Create(c.Request.Context(), event); err != nil {
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, event)
}

// GetByID handles GET /events/:id (public event page).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	event, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, event)
}

// List handles GET /events. Returns events owned by the current user.
func (h *Handler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// ListPublic handles GET /users/:username/events. Public booking page listing.
func (h *Handler) ListPublic(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.BadRequest(c, "username required")
		return
	}
	list, err := h.repo.ListPublicByUsername(c.Request.Context(), username)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// Update handles PATCH /events/:id (owner only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	existing, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	if existing.UserID != userID {
		response.Forbidden(c, "not your event")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	event, msg := req.toEvent(userID)
	if msg != "" {
		response.BadRequest(c, msg)
		return
	}
	event.ID = id
	if err := h.repo.Update(c.Request.Context(), event); err != nil {
		response.Internal(c, "failed to update event")
		return
	}
	updated, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /events/:id (owner only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if err := h.repo.Delete(c.Request.Context(), id, userID); err != nil {
		response.Internal(c, "failed to delete event")
		return
	}
	response.NoContent(c)
}
