package service

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/TurbsaDurps/MultiplayerMazeGame/config"
	"github.com/TurbsaDurps/MultiplayerMazeGame/maze"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionDirectory owns the process-wide room registry: roomID -> Room and
// playerID -> roomID. It is the only process-wide mutable state; its own lock
// guards the two maps, independent of the per-room locks, and it keeps the
// invariant that a player mapped to a room is present in that room's player
// map.
type SessionDirectory struct {
	rooms        map[uuid.UUID]*Room
	playerToRoom map[uuid.UUID]uuid.UUID
	publisher    Publisher
	settings     config.Config
	logger       logrus.FieldLogger
	rng          *rand.Rand
	now          func() time.Time
	sync.RWMutex
}

// DirectoryConfig carries the directory's dependencies.
type DirectoryConfig struct {
	Publisher Publisher
	Settings  config.Config
	Logger    logrus.FieldLogger
	Rand      *rand.Rand       // Defaults to an unseeded source.
	Now       func() time.Time // Defaults to time.Now.
}

// NewSessionDirectory creates an empty directory.
func NewSessionDirectory(c *DirectoryConfig) (*SessionDirectory, error) {
	if c.Publisher == nil {
		return nil, fmt.Errorf("session directory needs a publisher")
	}
	logger := c.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	rng := c.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	return &SessionDirectory{
		rooms:        make(map[uuid.UUID]*Room),
		playerToRoom: make(map[uuid.UUID]uuid.UUID),
		publisher:    c.Publisher,
		settings:     c.Settings,
		logger:       logger,
		rng:          rng,
		now:          now,
	}, nil
}

// CreateRoom allocates and registers a fresh waiting room with a newly
// generated maze sized to the configured bounds.
func (d *SessionDirectory) CreateRoom(capacity int) (*Room, error) {
	if capacity < 1 {
		capacity = d.settings.MaxPlayers
	}

	size := d.settings.MinMazeSize + capacity*d.settings.SizeMultiplier
	if size > d.settings.MaxMazeSize {
		size = d.settings.MaxMazeSize
	}

	d.Lock()
	defer d.Unlock()

	m, err := maze.Generate(size, size, d.settings.Difficulty, d.rng)
	if err != nil {
		return nil, fmt.Errorf("generating maze: %w", err)
	}
	room, err := NewRoom(RoomConfig{
		Maze:       m,
		MaxPlayers: capacity,
		MinPlayers: d.settings.MinPlayersToStart,
		Now:        d.now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}

	d.rooms[room.ID] = room
	d.logger.WithField("roomID", room.ID).Info("created room")
	return room, nil
}

// FindJoinableRoom returns the first waiting room with space left, or nil.
// Assignment is first-match, not load-balanced.
func (d *SessionDirectory) FindJoinableRoom() *Room {
	d.RLock()
	defer d.RUnlock()
	for _, room := range d.rooms {
		if room.Joinable() {
			return room
		}
	}
	return nil
}

// JoinResult is handed back to the transport so the joiner can be sent the
// room's static data.
type JoinResult struct {
	Room   *Room
	Player *Player
}

// Join places a player in a room. With roomID == uuid.Nil the player gets the
// first open room, or a fresh one. An explicit id that no longer resolves
// falls back to the same join-or-create path rather than hard-failing. A full
// room rejects with ErrRoomFull and is otherwise unaffected.
func (d *SessionDirectory) Join(playerID uuid.UUID, name, color string, roomID uuid.UUID, abilities []Ability) (*JoinResult, error) {
	if d.roomFor(playerID) != nil {
		return nil, ErrAlreadyInRoom
	}

	var room *Room
	if roomID != uuid.Nil {
		d.RLock()
		room = d.rooms[roomID]
		d.RUnlock()
		if room == nil {
			d.logger.WithField("roomID", roomID).Warn("join for unknown room, falling back to open room")
		}
	}
	if room == nil {
		room = d.FindJoinableRoom()
	}
	if room == nil {
		var err error
		room, err = d.CreateRoom(d.settings.MaxPlayers)
		if err != nil {
			return nil, err
		}
	}

	if len(abilities) == 0 {
		abilities = DefaultAbilities()
	}
	player := NewPlayer(playerID, name, color, room.SpawnPosition(), d.settings.DefaultLives, abilities)

	if err := room.AddPlayer(player); err != nil {
		return nil, err
	}

	d.Lock()
	d.playerToRoom[playerID] = room.ID
	d.Unlock()

	d.logger.WithFields(logrus.Fields{"playerID": playerID, "roomID": room.ID}).Info("player joined")
	d.publisher.BroadcastEvent(room.ID, EventPlayerJoined, RosterEvent{PlayerID: playerID, Roster: room.Roster()})
	d.publisher.BroadcastSnapshot(room.ID, room.Snapshot())
	return &JoinResult{Room: room, Player: player}, nil
}

// Leave removes a player from their room and from the directory. The last
// player out deletes the room; no empty rooms persist. Disconnects go through
// the same path. Leaving without a room is a no-op.
func (d *SessionDirectory) Leave(playerID uuid.UUID) {
	d.Lock()
	roomID, ok := d.playerToRoom[playerID]
	if !ok {
		d.Unlock()
		return
	}
	delete(d.playerToRoom, playerID)
	room := d.rooms[roomID]
	d.Unlock()

	if room == nil {
		d.logger.WithField("playerID", playerID).Error("directory pointed at a deleted room, dropped stale mapping")
		return
	}

	empty := room.RemovePlayer(playerID)
	if empty {
		d.Lock()
		delete(d.rooms, roomID)
		d.Unlock()
		d.logger.WithField("roomID", roomID).Info("room drained, deleted")
		return
	}

	d.logger.WithFields(logrus.Fields{"playerID": playerID, "roomID": roomID}).Info("player left")
	d.publisher.BroadcastEvent(roomID, EventPlayerLeft, RosterEvent{PlayerID: playerID, Roster: room.Roster()})
	d.publisher.BroadcastSnapshot(roomID, room.Snapshot())
}

// SetReady signals readiness for a player and broadcasts the start when the
// gate opens.
func (d *SessionDirectory) SetReady(playerID uuid.UUID) {
	room := d.roomFor(playerID)
	if room == nil {
		return
	}
	started := room.SetReady(playerID)
	d.publisher.BroadcastSnapshot(room.ID, room.Snapshot())
	if started {
		d.logger.WithField("roomID", room.ID).Info("room started")
		d.publisher.BroadcastEvent(room.ID, EventRoomStarted, nil)
	}
}

// Move applies a movement update. Rejected moves are atomic no-ops and do not
// broadcast; accepted ones push a snapshot immediately rather than waiting
// out the tick.
func (d *SessionDirectory) Move(playerID uuid.UUID, pos Position, angle float64) {
	room := d.roomFor(playerID)
	if room == nil {
		return
	}
	res := room.Move(playerID, pos, angle)
	if !res.Moved {
		return
	}
	d.publisher.BroadcastSnapshot(room.ID, room.Snapshot())
	if res.Died {
		d.publisher.BroadcastEvent(room.ID, EventSystemMessage, SystemMessageEvent{
			Message:  "a racer is out of lives",
			Category: "info",
		})
	}
	if res.Won {
		d.logger.WithFields(logrus.Fields{"roomID": room.ID, "winnerID": playerID}).Info("room finished")
		d.publisher.BroadcastEvent(room.ID, EventRoomFinished, RoomFinishedEvent{WinnerID: playerID})
	}
}

// UseAbility triggers an ability. Cooldown rejections are silent.
func (d *SessionDirectory) UseAbility(playerID uuid.UUID, abilityID string, target Position) {
	room := d.roomFor(playerID)
	if room == nil {
		return
	}
	res := room.UseAbility(playerID, abilityID, target)
	if !res.Used {
		return
	}
	d.publisher.BroadcastSnapshot(room.ID, room.Snapshot())
}

// Rooms returns every registered room, for the tick loop.
func (d *SessionDirectory) Rooms() []*Room {
	d.RLock()
	defer d.RUnlock()
	rooms := make([]*Room, 0, len(d.rooms))
	for _, room := range d.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// RoomByID resolves a room id.
func (d *SessionDirectory) RoomByID(id uuid.UUID) (*Room, error) {
	d.RLock()
	defer d.RUnlock()
	room, ok := d.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// StopAll drops every room and mapping. Used at shutdown.
func (d *SessionDirectory) StopAll() {
	d.Lock()
	defer d.Unlock()
	d.rooms = make(map[uuid.UUID]*Room)
	d.playerToRoom = make(map[uuid.UUID]uuid.UUID)
}

// roomFor resolves the room a player belongs to. A mapping that points at a
// deleted room, or at a room that lost the player, is a programming error:
// it is logged and the stale entry dropped so it can never leak into game
// state.
func (d *SessionDirectory) roomFor(playerID uuid.UUID) *Room {
	d.RLock()
	roomID, ok := d.playerToRoom[playerID]
	var room *Room
	if ok {
		room = d.rooms[roomID]
	}
	d.RUnlock()

	if !ok {
		return nil
	}
	if room == nil || !room.Contains(playerID) {
		d.logger.WithFields(logrus.Fields{"playerID": playerID, "roomID": roomID}).
			Error("stale directory mapping, dropping")
		d.Lock()
		delete(d.playerToRoom, playerID)
		d.Unlock()
		return nil
	}
	return room
}
