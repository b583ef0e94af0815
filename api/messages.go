package api

import (
	"encoding/json"

	"github.com/TurbsaDurps/MultiplayerMazeGame/maze"
	"github.com/TurbsaDurps/MultiplayerMazeGame/service"
	"github.com/google/uuid"
)

// Inbound message types.
const (
	msgReady      = "ready"
	msgMove       = "move"
	msgUseAbility = "useAbility"
	msgLeave      = "leave"
)

// Outbound message types. Snapshot and event payloads come from the service
// package; the adapter only wraps them in the envelope.
const (
	msgJoined   = "joined"
	msgSnapshot = "snapshot"
	msgError    = "error"
)

// clientMessage is the single inbound frame shape. Fields beyond Type are
// read depending on the type.
type clientMessage struct {
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Angle     float64 `json:"angle"`
	AbilityID string  `json:"abilityId"`
	TargetX   float64 `json:"targetX"`
	TargetY   float64 `json:"targetY"`
}

// envelope is the canonical outbound frame: a type tag plus a payload.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

func marshalEnvelope(kind string, payload any) ([]byte, error) {
	return json.Marshal(envelope{Type: kind, Payload: payload})
}

// mazePayload is the one-time serialization of a room's maze, sent at join
// and immutable thereafter.
type mazePayload struct {
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Grid   [][]maze.CellKind `json:"grid"`
	Start  maze.Point        `json:"start"`
	Finish maze.Point        `json:"finish"`
}

// joinedPayload is the direct reply to a successful join.
type joinedPayload struct {
	RoomID      uuid.UUID            `json:"roomId"`
	PlayerID    uuid.UUID            `json:"playerId"`
	Maze        mazePayload          `json:"maze"`
	Checkpoints []service.Checkpoint `json:"checkpoints"`
	Abilities   []service.Ability    `json:"abilities"`
}

// errorPayload is the single user-visible failure shape.
type errorPayload struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

func newMazePayload(m *maze.Maze) mazePayload {
	return mazePayload{
		Width:  m.Width(),
		Height: m.Height(),
		Grid:   m.Grid(),
		Start:  m.Start(),
		Finish: m.Finish(),
	}
}
