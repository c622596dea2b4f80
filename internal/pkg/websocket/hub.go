package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types pushed to course channels
const (
	EventClassStatus    = "class_status"
	EventClassScheduled = "class_scheduled"
	EventClassDeleted   = "class_deleted"
)

// Event is a server-pushed course update
type Event struct {
	Type      string    `json:"type"`
	CourseID  int64     `json:"courseId"`
	ClassID   string    `json:"classId,omitempty"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher is what services depend on to announce course updates
type Publisher interface {
	Publish(event Event)
}

// Hub maintains the active clients per course and fans events out to them
type Hub struct {
	// Registered clients organized by course ID
	clients map[int64]map[*Client]bool

	broadcast  chan Event
	register   chan *Client
	unregister chan *Client

	// guards clients for the read-only accessors
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[int64]map[*Client]bool),
		logger:     logger.With().Str("component", "live-hub").Logger(),
	}
}

// Run handles registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.courseID]; !ok {
		h.clients[client.courseID] = make(map[*Client]bool)
	}
	h.clients[client.courseID][client] = true

	h.logger.Info().
		Int64("courseID", client.courseID).
		Int64("userID", client.userID).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.courseID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.courseID)
	}

	h.logger.Info().
		Int64("courseID", client.courseID).
		Int64("userID", client.userID).
		Msg("Client unregistered")
}

func (h *Hub) broadcastEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Int64("courseID", event.CourseID).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[event.CourseID]
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// slow consumer, drop it
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Int64("courseID", event.CourseID).
		Str("type", event.Type).
		Int("clientCount", len(clients)).
		Msg("Event broadcasted to course")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// Publish queues an event for the course channel. It never blocks the caller.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().Int64("courseID", event.CourseID).Str("type", event.Type).Msg("Live event dropped, hub is busy")
	}
}

// ClientCount returns the number of connected clients for a course
func (h *Hub) ClientCount(courseID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[courseID])
}
