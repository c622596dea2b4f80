package websocket

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// AccessChecker decides whether a user may follow a course channel
type AccessChecker interface {
	CanFollowCourse(ctx context.Context, userID, courseID int64) (bool, error)
}

// Handler for WebSocket connections
type Handler struct {
	hub      *Hub
	access   AccessChecker
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. allowedOrigins containing "*" accepts any origin.
func NewHandler(hub *Hub, access AccessChecker, allowedOrigins []string, logger zerolog.Logger) *Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &Handler{
		hub:    hub,
		access: access,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// native mobile clients send no Origin
				return origin == "" || origins["*"] || origins[origin]
			},
		},
		logger: logger.With().Str("component", "live-ws").Logger(),
	}
}

// HandleConnection godoc
// @Summary Follow live class events of a course
// @Description Upgrades the connection to a WebSocket that receives class status events for the course
// @Tags live
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} map[string]string "Invalid course ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not enrolled in the course"
// @Router /courses/{id}/live/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || courseID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course ID"})
		return
	}

	userID := c.GetInt64("userID")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	allowed, err := h.access.CanFollowCourse(c.Request.Context(), userID, courseID)
	if err != nil {
		h.logger.Error().Err(err).Int64("courseID", courseID).Int64("userID", userID).Msg("Failed to check course access")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check course access"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not enrolled in this course"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("courseID", courseID).Int64("userID", userID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		send:     make(chan []byte, 64),
		userID:   userID,
		courseID: courseID,
		logger:   h.logger,
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("courseID", courseID).
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
