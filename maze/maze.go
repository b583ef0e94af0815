// Package maze implements the grid model and procedural generator for the
// game's mazes. A maze is generated once per room and never mutated after.
package maze

import "errors"

// Maze-related errors.
var (
	ErrTooSmall      = errors.New("maze dimension is too small")
	ErrRaggedGrid    = errors.New("maze grid rows have unequal length")
	ErrOpenBorder    = errors.New("maze border must be solid wall")
	ErrBlockedMarker = errors.New("start and finish must be walkable cells")
)

// MinDimension is the smallest width or height a maze may have.
const MinDimension = 5

// CellKind identifies what occupies a single grid cell.
type CellKind byte

const (
	Floor CellKind = iota
	Wall
	Checkpoint
	Finish
	Obstacle
)

// Walkable reports whether a player may occupy a cell of this kind.
func (k CellKind) Walkable() bool {
	return k != Wall
}

// Point is a discrete cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Maze is an immutable 2-D grid with a start cell, a finish cell and a set of
// checkpoint cells. The grid is indexed grid[y][x].
type Maze struct {
	grid        [][]CellKind
	width       int
	height      int
	start       Point
	finish      Point
	checkpoints []Point
}

// New assembles a maze from a pre-built grid. The grid must be rectangular
// with odd dimensions of at least MinDimension and a fully walled border, and
// the start and finish markers must sit on walkable cells. Generated mazes go
// through the same assembly; tests use it for hand-built layouts.
func New(grid [][]CellKind, start, finish Point) (*Maze, error) {
	height := len(grid)
	if height < MinDimension || height%2 == 0 {
		return nil, ErrTooSmall
	}
	width := len(grid[0])
	if width < MinDimension || width%2 == 0 {
		return nil, ErrTooSmall
	}

	for _, row := range grid {
		if len(row) != width {
			return nil, ErrRaggedGrid
		}
	}
	for x := 0; x < width; x++ {
		if grid[0][x] != Wall || grid[height-1][x] != Wall {
			return nil, ErrOpenBorder
		}
	}
	for y := 0; y < height; y++ {
		if grid[y][0] != Wall || grid[y][width-1] != Wall {
			return nil, ErrOpenBorder
		}
	}
	if !grid[start.Y][start.X].Walkable() || !grid[finish.Y][finish.X].Walkable() {
		return nil, ErrBlockedMarker
	}

	m := &Maze{
		grid:   grid,
		width:  width,
		height: height,
		start:  start,
		finish: finish,
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if grid[y][x] == Checkpoint {
				m.checkpoints = append(m.checkpoints, Point{X: x, Y: y})
			}
		}
	}
	return m, nil
}

// Width returns the horizontal cell count.
func (m *Maze) Width() int { return m.width }

// Height returns the vertical cell count.
func (m *Maze) Height() int { return m.height }

// Start returns the cell players spawn on.
func (m *Maze) Start() Point { return m.start }

// Finish returns the cell that ends the race.
func (m *Maze) Finish() Point { return m.finish }

// InBound reports whether the coordinate lies inside the grid.
func (m *Maze) InBound(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// At returns the kind of the cell at (x, y). Out-of-bound coordinates read as
// Wall so callers can treat the outside world as solid.
func (m *Maze) At(x, y int) CellKind {
	if !m.InBound(x, y) {
		return Wall
	}
	return m.grid[y][x]
}

// CheckpointCells returns the checkpoint coordinates in row-major order.
func (m *Maze) CheckpointCells() []Point {
	out := make([]Point, len(m.checkpoints))
	copy(out, m.checkpoints)
	return out
}

// Grid returns a deep copy of the grid for serialization.
func (m *Maze) Grid() [][]CellKind {
	out := make([][]CellKind, m.height)
	for y, row := range m.grid {
		out[y] = make([]CellKind, m.width)
		copy(out[y], row)
	}
	return out
}
