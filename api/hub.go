package api

import (
	"sync"

	"github.com/TurbsaDurps/MultiplayerMazeGame/service"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Hub tracks which client subscribes to which room and fans engine output out
// to them. It implements service.Publisher. Delivery is fire-and-forget: a
// client whose send buffer is full simply misses the frame, the next tick
// resends full state anyway.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client            // playerID -> client
	rooms   map[uuid.UUID]map[uuid.UUID]bool // roomID -> subscriber playerIDs
	logger  logrus.FieldLogger
}

// NewHub creates an empty hub.
func NewHub(logger logrus.FieldLogger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
		rooms:   make(map[uuid.UUID]map[uuid.UUID]bool),
		logger:  logger,
	}
}

// Register subscribes a client to a room's broadcasts.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.playerID] = c
	if h.rooms[c.roomID] == nil {
		h.rooms[c.roomID] = make(map[uuid.UUID]bool)
	}
	h.rooms[c.roomID][c.playerID] = true
}

// Unregister drops a client and its room subscription.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.playerID] != c {
		return
	}
	delete(h.clients, c.playerID)
	if subs := h.rooms[c.roomID]; subs != nil {
		delete(subs, c.playerID)
		if len(subs) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
}

// BroadcastSnapshot sends a room snapshot to every subscriber.
func (h *Hub) BroadcastSnapshot(roomID uuid.UUID, snapshot service.Snapshot) {
	h.broadcast(roomID, msgSnapshot, snapshot)
}

// BroadcastEvent sends a one-shot event to every subscriber of a room.
func (h *Hub) BroadcastEvent(roomID uuid.UUID, kind string, payload any) {
	h.broadcast(roomID, kind, payload)
}

func (h *Hub) broadcast(roomID uuid.UUID, kind string, payload any) {
	data, err := marshalEnvelope(kind, payload)
	if err != nil {
		h.logger.WithError(err).Error("marshaling broadcast")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for playerID := range h.rooms[roomID] {
		c, ok := h.clients[playerID]
		if !ok {
			// Client vanished between unsubscribe steps; skip it.
			continue
		}
		c.trySend(data)
	}
}
