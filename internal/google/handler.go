package google

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/schedulrr/backend/internal/middleware"
	"github.com/schedulrr/backend/pkg/response"
)

const (
	stateKeyPrefix = "oauth_state:"
	stateTTL       = 10 * time.Minute
)

// Handler handles the Google Calendar connect flow.
type Handler struct {
	store  *Store
	oauth  *oauth2.Config
	rdb    *redis.Client
	logger *zap.Logger
}

// NewHandler creates a calendar connect handler.
func NewHandler(store *Store, oauthCfg *oauth2.Config, rdb *redis.Client, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, oauth: oauthCfg, rdb: rdb, logger: logger}
}

// Connect handles GET /integrations/google/connect. Returns the consent URL;
// the state parameter is a one-time key bound to the current user in Redis.
func (h *Handler) Connect(c *gin.Context) {
	if h.oauth.ClientID == "" || h.oauth.ClientSecret == "" {
		response.ServiceUnavailable(c, "Google integration not configured (GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET)")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	state := uuid.New().String()
	if err := h.rdb.Set(c.Request.Context(), stateKeyPrefix+state, userID.String(), stateTTL).Err(); err != nil {
		h.logger.Error("store oauth state failed", zap.Error(err))
		response.Internal(c, "failed to start calendar connection")
		return
	}

	// offline access + forced consent so a refresh token is always issued
	url := h.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	response.OK(c, gin.H{"auth_url": url})
}

// Callback handles GET /integrations/google/callback?state=...&code=...
// Google redirects the owner's browser here; no JWT is present, the state
// key identifies the user.
func (h *Handler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		response.BadRequest(c, "missing state or code")
		return
	}

	userIDStr, err := h.rdb.GetDel(c.Request.Context(), stateKeyPrefix+state).Result()
	if err == redis.Nil {
		response.BadRequest(c, "invalid or expired state")
		return
	}
	if err != nil {
		h.logger.Error("load oauth state failed", zap.Error(err))
		response.Internal(c, "failed to complete calendar connection")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.BadRequest(c, "invalid state")
		return
	}

	token, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("oauth exchange failed", zap.Error(err), zap.String("user_id", userIDStr))
		response.BadRequest(c, "failed to exchange authorization code")
		return
	}

	if err := h.store.Save(c.Request.Context(), userID, token); err != nil {
		h.logger.Error("save calendar token failed", zap.Error(err), zap.String("user_id", userIDStr))
		response.Internal(c, "failed to store calendar connection")
		return
	}

	h.logger.Info("calendar connected", zap.String("user_id", userIDStr))
	response.OK(c, gin.H{"connected": true})
}

// Status handles GET /integrations/google/status.
func (h *Handler) Status(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	conn, err := h.store.Connection(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to load calendar status")
		return
	}
	if conn == nil {
		response.OK(c, gin.H{"connected": false})
		return
	}
	response.OK(c, gin.H{"connected": true, "connection": conn})
}

// Disconnect handles DELETE /integrations/google.
func (h *Handler) Disconnect(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if err := h.store.Delete(c.Request.Context(), userID); err != nil {
		response.Internal(c, "failed to disconnect calendar")
		return
	}
	response.OK(c, gin.H{"connected": false})
}
