package maze

import (
	"math/rand"
)

// Generation tuning constants.
const (
	finishPlaceAttempts = 32 // Random far-quadrant tries before the fallback scan.
	checkpointDivisor   = 48 // One checkpoint per this many free cells.
)

// Generate carves a random maze of the requested dimensions. Even dimensions
// are rounded up to the next odd value; dimensions below MinDimension are
// rejected. difficulty > 0 additionally scatters obstacle cells, two percent
// of the free cells per difficulty level.
//
// The same rng and parameters always produce the same maze.
func Generate(width, height, difficulty int, rng *rand.Rand) (*Maze, error) {
	if width%2 == 0 {
		width++
	}
	if height%2 == 0 {
		height++
	}
	if width < MinDimension || height < MinDimension {
		return nil, ErrTooSmall
	}

	grid := make([][]CellKind, height)
	for y := range grid {
		grid[y] = make([]CellKind, width)
		for x := range grid[y] {
			grid[y][x] = Wall
		}
	}

	start := Point{X: 1, Y: 1}
	carve(grid, start, rng)

	finish := placeFinish(grid, width, height, start, rng)
	grid[finish.Y][finish.X] = Finish

	free := freeCells(grid, start, finish)
	rng.Shuffle(len(free), func(i, j int) {
		free[i], free[j] = free[j], free[i]
	})

	numCheckpoints := len(free) / checkpointDivisor
	if numCheckpoints < 1 {
		numCheckpoints = 1
	}
	if numCheckpoints > len(free) {
		numCheckpoints = len(free)
	}
	for _, p := range free[:numCheckpoints] {
		grid[p.Y][p.X] = Checkpoint
	}
	free = free[numCheckpoints:]

	if difficulty > 0 {
		numObstacles := len(free) * difficulty * 2 / 100
		if numObstacles > len(free) {
			numObstacles = len(free)
		}
		for _, p := range free[:numObstacles] {
			grid[p.Y][p.X] = Obstacle
		}
	}

	return New(grid, start, finish)
}

// carve runs randomized recursive backtracking with an explicit stack. Cells
// at odd coordinates form the lattice; carving a neighbor also opens the wall
// cell between the two. The walk leaves a spanning tree over the lattice, so
// every carved cell stays reachable from the entry.
func carve(grid [][]CellKind, entry Point, rng *rand.Rand) {
	height, width := len(grid), len(grid[0])
	grid[entry.Y][entry.X] = Floor

	stack := []Point{entry}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		candidates := make([]Point, 0, 4)
		for _, d := range [4]Point{{X: 2}, {X: -2}, {Y: 2}, {Y: -2}} {
			next := Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if next.X <= 0 || next.X >= width-1 || next.Y <= 0 || next.Y >= height-1 {
				continue
			}
			if grid[next.Y][next.X] == Wall {
				candidates = append(candidates, next)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := candidates[rng.Intn(len(candidates))]
		grid[(cur.Y+next.Y)/2][(cur.X+next.X)/2] = Floor
		grid[next.Y][next.X] = Floor
		stack = append(stack, next)
	}
}

// placeFinish picks a finish cell biased toward the quadrant opposite the
// start. After finishPlaceAttempts misses it falls back to a deterministic
// scan of the lower half for the first free cell.
func placeFinish(grid [][]CellKind, width, height int, start Point, rng *rand.Rand) Point {
	for i := 0; i < finishPlaceAttempts; i++ {
		p := Point{
			X: width/2 + rng.Intn(width-width/2),
			Y: height/2 + rng.Intn(height-height/2),
		}
		if grid[p.Y][p.X] == Floor && p != start {
			return p
		}
	}

	for y := height / 2; y < height; y++ {
		for x := 0; x < width; x++ {
			if grid[y][x] == Floor && (Point{X: x, Y: y}) != start {
				return Point{X: x, Y: y}
			}
		}
	}
	// A carved maze always has floor cells in its lower half, so this is
	// unreachable; keep the start as a harmless fallback.
	return start
}

// freeCells collects every floor cell that is not the start or finish.
func freeCells(grid [][]CellKind, start, finish Point) []Point {
	var free []Point
	for y, row := range grid {
		for x, kind := range row {
			p := Point{X: x, Y: y}
			if kind == Floor && p != start && p != finish {
				free = append(free, p)
			}
		}
	}
	return free
}
