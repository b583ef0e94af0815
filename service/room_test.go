package service

import (
	"testing"
	"time"

	"github.com/TurbsaDurps/MultiplayerMazeGame/maze"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMaze assembles a maze from a compact picture: '#' wall, '.' floor,
// 'C' checkpoint, 'F' finish, 'O' obstacle. The finish marker is located by
// scanning; the start is always (1,1).
func buildMaze(t *testing.T, rows []string) *maze.Maze {
	t.Helper()
	grid := make([][]maze.CellKind, len(rows))
	finish := maze.Point{}
	for y, row := range rows {
		grid[y] = make([]maze.CellKind, len(row))
		for x, ch := range row {
			switch ch {
			case '#':
				grid[y][x] = maze.Wall
			case '.':
				grid[y][x] = maze.Floor
			case 'C':
				grid[y][x] = maze.Checkpoint
			case 'F':
				grid[y][x] = maze.Finish
				finish = maze.Point{X: x, Y: y}
			case 'O':
				grid[y][x] = maze.Obstacle
			}
		}
	}
	m, err := maze.New(grid, maze.Point{X: 1, Y: 1}, finish)
	require.NoError(t, err)
	return m
}

var testRows = []string{
	"#######",
	"#.....#",
	"#.###.#",
	"#..C..#",
	"#.#O#.#",
	"#....F#",
	"#######",
}

func newTestRoom(t *testing.T, minPlayers int, now func() time.Time) *Room {
	t.Helper()
	r, err := NewRoom(RoomConfig{
		Maze:       buildMaze(t, testRows),
		MaxPlayers: 4,
		MinPlayers: minPlayers,
		Now:        now,
	})
	require.NoError(t, err)
	return r
}

func addTestPlayer(t *testing.T, r *Room, lives int) *Player {
	t.Helper()
	p := NewPlayer(uuid.New(), "racer", "#ff0000", r.SpawnPosition(), lives, DefaultAbilities())
	require.NoError(t, r.AddPlayer(p))
	return p
}

func startRoom(t *testing.T, r *Room, players ...*Player) {
	t.Helper()
	started := false
	for _, p := range players {
		started = r.SetReady(p.ID)
	}
	require.True(t, started)
	require.Equal(t, RoomInProgress, r.State())
}

func center(x, y int) Position {
	return Position{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

func TestReadinessGate(t *testing.T) {
	r := newTestRoom(t, 2, nil)
	p1 := addTestPlayer(t, r, 3)

	assert.False(t, r.SetReady(p1.ID), "below minimum population")
	assert.Equal(t, RoomWaiting, r.State())

	p2 := addTestPlayer(t, r, 3)
	assert.True(t, r.SetReady(p2.ID))
	assert.Equal(t, RoomInProgress, r.State())
}

func TestReadinessGateLateJoiner(t *testing.T) {
	r := newTestRoom(t, 2, nil)
	p1 := addTestPlayer(t, r, 3)
	p2 := addTestPlayer(t, r, 3)

	assert.False(t, r.SetReady(p1.ID))

	// An unready late joiner holds the gate closed.
	p3 := addTestPlayer(t, r, 3)
	assert.False(t, r.SetReady(p2.ID))
	assert.Equal(t, RoomWaiting, r.State())

	assert.True(t, r.SetReady(p3.ID))
	assert.Equal(t, RoomInProgress, r.State())
}

func TestReadinessLeavesWithThePlayer(t *testing.T) {
	r := newTestRoom(t, 2, nil)
	p1 := addTestPlayer(t, r, 3)
	p2 := addTestPlayer(t, r, 3)
	p3 := addTestPlayer(t, r, 3)

	r.SetReady(p1.ID)
	r.SetReady(p2.ID)

	// p3 never readies up but leaves; the remaining readiness suffices.
	empty := r.RemovePlayer(p3.ID)
	assert.False(t, empty)
	assert.True(t, r.SetReady(p1.ID))
}

func TestMoveRejectsWalls(t *testing.T) {
	r := newTestRoom(t, 1, nil)
	p := addTestPlayer(t, r, 3)
	startRoom(t, r, p)

	before := p.Pos
	res := r.Move(p.ID, center(2, 2), 0) // wall cell
	assert.False(t, res.Moved)
	assert.Equal(t, before, p.Pos)

	res = r.Move(p.ID, center(2, 1), 0.5)
	assert.True(t, res.Moved)
	assert.Equal(t, center(2, 1), p.Pos)
	assert.Equal(t, 0.5, p.Angle)
}

func TestMoveIgnoredBeforeStart(t *testing.T) {
	r := newTestRoom(t, 2, nil)
	p := addTestPlayer(t, r, 3)

	res := r.Move(p.ID, center(2, 1), 0)
	assert.False(t, res.Moved)
	assert.Equal(t, r.SpawnPosition(), p.Pos)
}

func TestCheckpointClaimedOnceForTheRoom(t *testing.T) {
	r := newTestRoom(t, 2, nil)
	p1 := addTestPlayer(t, r, 3)
	p2 := addTestPlayer(t, r, 3)
	r.SetReady(p1.ID)
	startRoom(t, r, p2)

	res := r.Move(p1.ID, center(3, 3), 0)
	require.True(t, res.Moved)
	assert.Equal(t, []int{0}, res.Checkpoints)
	assert.Equal(t, 1, p1.CheckpointsPassed)

	// The checkpoint stays claimed; the second player scores nothing.
	res = r.Move(p2.ID, center(3, 3), 0)
	require.True(t, res.Moved)
	assert.Empty(t, res.Checkpoints)
	assert.Equal(t, 0, p2.CheckpointsPassed)

	snap := r.Snapshot()
	require.Len(t, snap.Checkpoints, 1)
	assert.True(t, snap.Checkpoints[0].Reached)
}

func TestObstacleRespawnsToLastCheckpoint(t *testing.T) {
	r := newTestRoom(t, 1, nil)
	p := addTestPlayer(t, r, 3)
	startRoom(t, r, p)

	// Claim the checkpoint first so it becomes the respawn target.
	require.True(t, r.Move(p.ID, center(3, 3), 0).Moved)

	res := r.Move(p.ID, center(3, 4), 0)
	require.True(t, res.Moved)
	assert.True(t, res.HitObstacle)
	assert.False(t, res.Died)
	assert.Equal(t, 2, p.Lives)
	assert.Equal(t, center(3, 3), p.Pos, "respawned to last checkpoint")
}

func TestObstacleDeathIsTerminal(t *testing.T) {
	r := newTestRoom(t, 1, nil)
	p := addTestPlayer(t, r, 3)
	startRoom(t, r, p)

	for i := 0; i < 3; i++ {
		res := r.Move(p.ID, center(3, 4), 0)
		require.True(t, res.Moved, "hit %d", i)
		require.True(t, res.HitObstacle)
	}
	assert.Equal(t, 0, p.Lives)
	assert.Equal(t, StatusDead, p.Status)

	// A fourth collision is a no-op: no further decrement, no error.
	res := r.Move(p.ID, center(3, 4), 0)
	assert.False(t, res.Moved)
	assert.Equal(t, 0, p.Lives)
}

func TestObstacleTakesPrecedenceOverFinish(t *testing.T) {
	rows := []string{
		"#######",
		"#.....#",
		"#.###.#",
		"#.....#",
		"#.###.#",
		"#...OF#",
		"#######",
	}
	r, err := NewRoom(RoomConfig{Maze: buildMaze(t, rows), MaxPlayers: 2, MinPlayers: 1})
	require.NoError(t, err)
	p := NewPlayer(uuid.New(), "racer", "#00ff00", r.SpawnPosition(), 1, nil)
	require.NoError(t, r.AddPlayer(p))
	startRoom(t, r, p)

	// One life left, stepping onto the obstacle beside the finish: the
	// player dies and cannot win on the same move.
	res := r.Move(p.ID, center(4, 5), 0)
	require.True(t, res.Moved)
	assert.True(t, res.Died)
	assert.False(t, res.Won)
	assert.Equal(t, StatusDead, p.Status)
	assert.Equal(t, RoomInProgress, r.State())
	assert.Equal(t, uuid.Nil, r.Winner())
}

func TestFinishIsOneShot(t *testing.T) {
	r := newTestRoom(t, 2, nil)
	p1 := addTestPlayer(t, r, 3)
	p2 := addTestPlayer(t, r, 3)
	r.SetReady(p1.ID)
	startRoom(t, r, p2)

	res := r.Move(p1.ID, center(5, 5), 0)
	require.True(t, res.Moved)
	assert.True(t, res.Won)
	assert.Equal(t, RoomFinished, r.State())
	assert.Equal(t, p1.ID, r.Winner())
	assert.Equal(t, StatusFinished, p1.Status)

	// Movement after the finish is silently ignored.
	before := p2.Pos
	res = r.Move(p2.ID, center(2, 1), 0)
	assert.False(t, res.Moved)
	assert.Equal(t, before, p2.Pos)
	assert.Equal(t, p1.ID, r.Winner())
}

func TestUseAbilityCooldown(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	r := newTestRoom(t, 1, clock)
	p := addTestPlayer(t, r, 3)
	startRoom(t, r, p)

	// First use is always free.
	res := r.UseAbility(p.ID, "teleport", center(5, 1))
	require.True(t, res.Used)
	assert.True(t, res.Teleport)
	posAfterFirst := p.Pos

	// Still cooling down: nothing changes.
	now = now.Add(2 * time.Second)
	res = r.UseAbility(p.ID, "teleport", center(1, 1))
	assert.False(t, res.Used)
	assert.Equal(t, posAfterFirst, p.Pos)

	now = now.Add(4 * time.Second)
	res = r.UseAbility(p.ID, "teleport", center(1, 1))
	assert.True(t, res.Used)
}

func TestUseAbilityUnknownOrStub(t *testing.T) {
	r := newTestRoom(t, 1, nil)
	p := addTestPlayer(t, r, 3)
	startRoom(t, r, p)

	res := r.UseAbility(p.ID, "rocket-boots", center(5, 1))
	assert.False(t, res.Used, "ability the player does not own")

	// Stub abilities arm their cooldown but move nothing.
	before := p.Pos
	res = r.UseAbility(p.ID, "shield", center(5, 1))
	assert.True(t, res.Used)
	assert.False(t, res.Teleport)
	assert.Equal(t, before, p.Pos)
}

func TestTeleportStopsBeforeWalls(t *testing.T) {
	r := newTestRoom(t, 1, nil)
	p := addTestPlayer(t, r, 3)
	startRoom(t, r, p)

	// Open corridor along the top row: full three-cell hop.
	res := r.UseAbility(p.ID, "teleport", center(5, 1))
	require.True(t, res.Used)
	assert.Equal(t, center(4, 1), p.Pos)
}

func TestTeleportBlockedFirstStepIsNoOp(t *testing.T) {
	rows := []string{
		"#######",
		"#.#...#",
		"#.#.#.#",
		"#.#...#",
		"#.###.#",
		"#....F#",
		"#######",
	}
	r, err := NewRoom(RoomConfig{Maze: buildMaze(t, rows), MaxPlayers: 2, MinPlayers: 1})
	require.NoError(t, err)
	p := NewPlayer(uuid.New(), "racer", "#0000ff", r.SpawnPosition(), 3, DefaultAbilities())
	require.NoError(t, r.AddPlayer(p))
	startRoom(t, r, p)

	// Target east of the spawn, first step straight into a wall.
	before := p.Pos
	res := r.UseAbility(p.ID, "teleport", center(5, 1))
	assert.True(t, res.Used, "cooldown still arms")
	assert.False(t, res.Teleport)
	assert.Equal(t, before, p.Pos)
}
