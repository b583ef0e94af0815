package service

import (
	"math"
	"sync"
	"time"

	"github.com/TurbsaDurps/MultiplayerMazeGame/maze"
	"github.com/google/uuid"
)

// Room states.
type RoomState string

const (
	RoomWaiting    RoomState = "waiting"
	RoomInProgress RoomState = "inProgress"
	RoomFinished   RoomState = "finished"
)

// Room constants.
const (
	collisionRadius = 0.5 // Grid units for checkpoint/finish collision.
	teleportRange   = 3   // Max cells a teleport may cover.
)

// Checkpoint is one marked cell in a room's maze. Reached is room-global:
// the first player to cross it claims it for everyone.
type Checkpoint struct {
	ID      int  `json:"id"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Reached bool `json:"reached"`
}

// Room is one isolated game instance: a maze, the players racing through it,
// and the room's state machine. Rooms perform pure state transitions and no
// I/O; all operations on a room are serialized by its embedded lock.
type Room struct {
	ID          uuid.UUID
	maze        *maze.Maze
	players     map[uuid.UUID]*Player
	checkpoints []*Checkpoint
	state       RoomState
	winner      uuid.UUID
	version     int64 // Snapshot version for client-side ordering.
	maxPlayers  int
	minPlayers  int
	createdAt   time.Time
	now         func() time.Time
	sync.RWMutex
}

// RoomConfig carries everything a new room needs.
type RoomConfig struct {
	Maze       *maze.Maze
	MaxPlayers int
	MinPlayers int
	Now        func() time.Time // Defaults to time.Now.
}

// NewRoom creates an empty waiting room around the given maze.
// Returns an error if configuration constraints are violated.
func NewRoom(c RoomConfig) (*Room, error) {
	if c.Maze == nil {
		return nil, ErrNilMaze
	}
	if c.MaxPlayers < 1 || c.MinPlayers < 1 || c.MinPlayers > c.MaxPlayers {
		return nil, ErrInvalidRoomConfig
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	r := &Room{
		ID:         uuid.New(),
		maze:       c.Maze,
		players:    make(map[uuid.UUID]*Player),
		state:      RoomWaiting,
		maxPlayers: c.MaxPlayers,
		minPlayers: c.MinPlayers,
		createdAt:  now(),
		now:        now,
	}
	for i, cell := range c.Maze.CheckpointCells() {
		r.checkpoints = append(r.checkpoints, &Checkpoint{ID: i, X: cell.X, Y: cell.Y})
	}
	return r, nil
}

// Maze returns the room's immutable maze.
func (r *Room) Maze() *maze.Maze { return r.maze }

// State returns the current room state.
func (r *Room) State() RoomState {
	r.RLock()
	defer r.RUnlock()
	return r.state
}

// Winner returns the winning player's id, or uuid.Nil while nobody has won.
func (r *Room) Winner() uuid.UUID {
	r.RLock()
	defer r.RUnlock()
	return r.winner
}

// SpawnPosition returns the center of the maze's start cell.
func (r *Room) SpawnPosition() Position {
	s := r.maze.Start()
	return Position{X: float64(s.X) + 0.5, Y: float64(s.Y) + 0.5}
}

// PlayerCount returns the current population.
func (r *Room) PlayerCount() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.players)
}

// Joinable reports whether the room is still waiting with space left.
func (r *Room) Joinable() bool {
	r.RLock()
	defer r.RUnlock()
	return r.state == RoomWaiting && len(r.players) < r.maxPlayers
}

// AddPlayer registers a player with the room. Joining an already running room
// is allowed while capacity remains; the readiness gate only matters while
// the room is waiting.
func (r *Room) AddPlayer(p *Player) error {
	r.Lock()
	defer r.Unlock()
	if len(r.players) >= r.maxPlayers {
		return ErrRoomFull
	}
	r.players[p.ID] = p
	r.version++
	return nil
}

// RemovePlayer drops a player from the room and reports whether the room
// drained empty. Removing an unknown id is a no-op.
func (r *Room) RemovePlayer(id uuid.UUID) (empty bool) {
	r.Lock()
	defer r.Unlock()
	delete(r.players, id)
	r.version++
	return len(r.players) == 0
}

// Contains reports whether the player belongs to this room.
func (r *Room) Contains(id uuid.UUID) bool {
	r.RLock()
	defer r.RUnlock()
	_, ok := r.players[id]
	return ok
}

// SetReady marks a player ready and reports whether that opened the gate:
// the room starts when it is still waiting, population has reached the
// minimum and every connected player has signaled ready. A player who left
// takes their readiness with them; a late joiner holds the gate closed until
// they too signal ready.
func (r *Room) SetReady(id uuid.UUID) (started bool) {
	r.Lock()
	defer r.Unlock()
	p, ok := r.players[id]
	if !ok {
		return false
	}
	p.ready = true
	r.version++

	if r.state != RoomWaiting || len(r.players) < r.minPlayers {
		return false
	}
	for _, p := range r.players {
		if !p.ready {
			return false
		}
	}
	r.state = RoomInProgress
	r.version++
	return true
}

// MoveResult reports what a move did. A rejected or ignored move leaves
// every field zero.
type MoveResult struct {
	Moved       bool
	Checkpoints []int // Ids of checkpoints claimed by this move.
	HitObstacle bool
	Died        bool
	Won         bool
}

// Move applies an absolute position update for a player. The move is a silent
// no-op unless the player is alive, the room is in progress and the target
// cell is walkable; the client's own movement is advisory, the grid is
// authoritative. On an accepted move collisions are evaluated in a fixed
// order: checkpoints, then obstacles, then the finish, so a single move can
// never both kill a player and win the race.
func (r *Room) Move(id uuid.UUID, pos Position, angle float64) MoveResult {
	r.Lock()
	defer r.Unlock()

	var res MoveResult
	p, ok := r.players[id]
	if !ok || p.Status != StatusAlive || r.state != RoomInProgress {
		return res
	}

	cellX, cellY := int(math.Floor(pos.X)), int(math.Floor(pos.Y))
	if !r.maze.At(cellX, cellY).Walkable() {
		return res
	}

	p.Pos = pos
	p.Angle = angle
	res.Moved = true

	for _, cp := range r.checkpoints {
		if cp.Reached {
			continue
		}
		if within(pos, cp.X, cp.Y) {
			cp.Reached = true
			p.CheckpointsPassed++
			p.lastCheckpoint = cellCenter(cp.X, cp.Y)
			res.Checkpoints = append(res.Checkpoints, cp.ID)
		}
	}

	if r.maze.At(cellX, cellY) == maze.Obstacle {
		res.HitObstacle = true
		p.Lives--
		if p.Lives <= 0 {
			p.Lives = 0
			p.Status = StatusDead
			res.Died = true
		} else {
			p.Pos = p.lastCheckpoint
		}
	}

	finish := r.maze.Finish()
	if p.Status == StatusAlive && within(p.Pos, finish.X, finish.Y) {
		r.state = RoomFinished
		r.winner = p.ID
		p.Status = StatusFinished
		res.Won = true
	}

	r.version++
	return res
}

// AbilityResult reports what an ability use did.
type AbilityResult struct {
	Used     bool
	Teleport bool // The use moved the player.
}

// UseAbility triggers an ability for a player. Uses are silently ignored
// unless the player is alive, the room is in progress, the player owns the
// ability and its cooldown has elapsed (a never-used ability is always
// ready). A successful use arms the cooldown and then dispatches on ability
// identity; only teleport has mechanics, every other ability is acknowledged
// with no further effect.
func (r *Room) UseAbility(id uuid.UUID, abilityID string, target Position) AbilityResult {
	r.Lock()
	defer r.Unlock()

	var res AbilityResult
	p, ok := r.players[id]
	if !ok || p.Status != StatusAlive || r.state != RoomInProgress {
		return res
	}
	ability, ok := p.ability(abilityID)
	if !ok {
		return res
	}

	now := r.now()
	if ready, armed := p.cooldowns[abilityID]; armed && now.Before(ready) {
		return res
	}
	p.cooldowns[abilityID] = now.Add(ability.cooldown())
	res.Used = true
	r.version++

	if abilityID == "teleport" {
		res.Teleport = r.teleport(p, target)
	}
	return res
}

// teleport steps the player up to teleportRange cells toward target, one
// cell at a time along the axis with the larger remaining distance, stopping
// before the first wall. A blocked first step leaves the player in place.
func (r *Room) teleport(p *Player, target Position) bool {
	cellX, cellY := int(math.Floor(p.Pos.X)), int(math.Floor(p.Pos.Y))
	targetX, targetY := int(math.Floor(target.X)), int(math.Floor(target.Y))

	moved := false
	for i := 0; i < teleportRange; i++ {
		dx, dy := targetX-cellX, targetY-cellY
		if dx == 0 && dy == 0 {
			break
		}
		nextX, nextY := cellX, cellY
		if abs(dx) >= abs(dy) {
			nextX += sign(dx)
		} else {
			nextY += sign(dy)
		}
		if !r.maze.At(nextX, nextY).Walkable() {
			break
		}
		cellX, cellY = nextX, nextY
		moved = true
	}

	if moved {
		p.Pos = cellCenter(cellX, cellY)
	}
	return moved
}

// Tick is the per-tick simulation hook, invoked by the tick loop for rooms in
// progress before each scheduled broadcast. Movement is currently applied
// directly by Move, so there is no time-driven simulation yet.
func (r *Room) Tick() {}

// PlayerSnapshot is the wire-facing view of one player.
type PlayerSnapshot struct {
	ID                uuid.UUID    `json:"id"`
	Name              string       `json:"name"`
	Color             string       `json:"color"`
	Position          Position     `json:"position"`
	Angle             float64      `json:"angle"`
	Lives             int          `json:"lives"`
	CheckpointsPassed int          `json:"checkpointsPassed"`
	Status            PlayerStatus `json:"status"`
}

// Snapshot is a full serialization of current room state for subscribers.
// The maze is not part of it; clients receive the grid once at join.
type Snapshot struct {
	RoomID      uuid.UUID        `json:"roomId"`
	Version     int64            `json:"version"`
	State       RoomState        `json:"state"`
	WinnerID    uuid.UUID        `json:"winnerId"`
	Players     []PlayerSnapshot `json:"players"`
	Checkpoints []Checkpoint     `json:"checkpoints"`
}

// Snapshot captures the current room state.
func (r *Room) Snapshot() Snapshot {
	r.RLock()
	defer r.RUnlock()

	s := Snapshot{
		RoomID:   r.ID,
		Version:  r.version,
		State:    r.state,
		WinnerID: r.winner,
	}
	for _, p := range r.players {
		s.Players = append(s.Players, PlayerSnapshot{
			ID:                p.ID,
			Name:              p.Name,
			Color:             p.Color,
			Position:          p.Pos,
			Angle:             p.Angle,
			Lives:             p.Lives,
			CheckpointsPassed: p.CheckpointsPassed,
			Status:            p.Status,
		})
	}
	for _, cp := range r.checkpoints {
		s.Checkpoints = append(s.Checkpoints, *cp)
	}
	return s
}

// Roster returns the player snapshots without the rest of the room state.
func (r *Room) Roster() []PlayerSnapshot {
	return r.Snapshot().Players
}

// within reports whether a position is inside the collision radius of the
// center of cell (x, y).
func within(pos Position, x, y int) bool {
	c := cellCenter(x, y)
	return math.Hypot(pos.X-c.X, pos.Y-c.Y) <= collisionRadius
}

func cellCenter(x, y int) Position {
	return Position{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
