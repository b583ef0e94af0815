package service

import "github.com/google/uuid"

// One-shot event kinds pushed to room subscribers outside the snapshot cadence.
const (
	EventRoomStarted   = "roomStarted"
	EventRoomFinished  = "roomFinished"
	EventPlayerJoined  = "playerJoined"
	EventPlayerLeft    = "playerLeft"
	EventSystemMessage = "systemMessage"
)

// RoomFinishedEvent announces the winner of a finished room.
type RoomFinishedEvent struct {
	WinnerID uuid.UUID `json:"winnerId"`
}

// RosterEvent accompanies playerJoined/playerLeft and carries the player the
// event is about plus the resulting roster.
type RosterEvent struct {
	PlayerID uuid.UUID        `json:"playerId"`
	Roster   []PlayerSnapshot `json:"roster"`
}

// SystemMessageEvent is a short human-readable notice with a category.
type SystemMessageEvent struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

// Publisher delivers snapshots and one-shot events to whatever transport has
// subscribers for a room. Implementations must not block the caller; a slow
// subscriber is the transport's problem, never the engine's.
type Publisher interface {
	BroadcastSnapshot(roomID uuid.UUID, snapshot Snapshot)
	BroadcastEvent(roomID uuid.UUID, kind string, payload any)
}
