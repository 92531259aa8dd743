package universe

import (
	"math/rand"
	"strings"
)

// Cell is the binary state of one grid position.
// The numeric values are part of the contract: a Cell can be summed
// directly when counting live neighbours.
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

// Universe is a fixed-size toroidal Game of Life grid.
// Cells are stored in a single flat buffer in row-major order
// (index = row*width + column). The grid has no edges: row and column
// arithmetic wraps, so every cell has exactly 8 Moore neighbours.
//
// The Universe has no internal locking. A single owner may drive it
// directly; shared use requires external mutual exclusion around Tick,
// SetCells, SetWidth, SetHeight and any read of Cells.
type Universe struct {
	width  int
	height int
	cells  []Cell
}

// New creates a universe with each cell independently set to Alive
// with ~50% probability. Dimensions must be positive.
func New(width, height int) *Universe {
	u := newUniverse(width, height)
	u.Randomize()
	return u
}

// newUniverse allocates an all-dead universe.
func newUniverse(width, height int) *Universe {
	return &Universe{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
}

// Index returns the flat buffer position of (row, column).
// The caller must supply row < height and column < width;
// no bound check is performed here.
func (u *Universe) Index(row, column int) int {
	return row*u.width + column
}

// liveNeighbourCount counts the Alive cells among the 8 Moore neighbours
// of (row, column). Offsets are expressed as height-1 and width-1 rather
// than -1 so the modulo result stays non-negative.
func (u *Universe) liveNeighbourCount(row, column int) int {
	count := 0
	for _, dr := range [3]int{u.height - 1, 0, 1} {
		for _, dc := range [3]int{u.width - 1, 0, 1} {
			if dr == 0 && dc == 0 {
				continue
			}
			r := (row + dr) % u.height
			c := (column + dc) % u.width
			count += int(u.cells[u.Index(r, c)])
		}
	}
	return count
}

// Tick advances the universe by one generation. Every neighbour count is
// taken against the pre-tick snapshot; the next generation is built in a
// fresh buffer and swapped in as a whole, so no cell ever sees a
// half-advanced grid.
func (u *Universe) Tick() {
	next := make([]Cell, len(u.cells))
	for row := 0; row < u.height; row++ {
		for column := 0; column < u.width; column++ {
			idx := u.Index(row, column)
			cell := u.cells[idx]
			neighbours := u.liveNeighbourCount(row, column)

			var state Cell
			switch {
			case cell == Alive && neighbours < 2:
				state = Dead
			case cell == Alive && (neighbours == 2 || neighbours == 3):
				state = Alive
			case cell == Alive && neighbours > 3:
				state = Dead
			case cell == Dead && neighbours == 3:
				state = Alive
			default:
				state = cell
			}
			next[idx] = state
		}
	}
	u.cells = next
}

// SetCells sets exactly the named (row, column) cells to Alive, leaving
// all others untouched. Out-of-range coordinates panic; callers wanting
// lenient behaviour must validate first.
func (u *Universe) SetCells(coords [][2]int) {
	for _, rc := range coords {
		u.cells[u.Index(rc[0], rc[1])] = Alive
	}
}

// SetWidth resizes the grid to the new width. The resize is destructive:
// the buffer is reallocated and every cell is reset to Dead.
func (u *Universe) SetWidth(width int) {
	u.width = width
	u.cells = make([]Cell, width*u.height)
}

// SetHeight resizes the grid to the new height. The resize is
// destructive: the buffer is reallocated and every cell is reset to Dead.
func (u *Universe) SetHeight(height int) {
	u.height = height
	u.cells = make([]Cell, u.width*height)
}

// Randomize re-seeds every cell to Alive with ~50% probability.
func (u *Universe) Randomize() {
	for i := range u.cells {
		if rand.Float64() < 0.5 {
			u.cells[i] = Alive
		} else {
			u.cells[i] = Dead
		}
	}
}

// Clear kills every cell.
func (u *Universe) Clear() {
	for i := range u.cells {
		u.cells[i] = Dead
	}
}

// Width returns the column count.
func (u *Universe) Width() int { return u.width }

// Height returns the row count.
func (u *Universe) Height() int { return u.height }

// Cells exposes the backing buffer (row-major, one tag per cell) so a
// host can render directly without copying. Callers must treat the
// slice as read-only; Tick replaces it wholesale.
func (u *Universe) Cells() []Cell { return u.cells }

// LiveCells returns the number of Alive cells.
func (u *Universe) LiveCells() int {
	live := 0
	for _, c := range u.cells {
		live += int(c)
	}
	return live
}

// Render returns a printable snapshot of the grid: height lines of width
// glyphs, a hollow square for Dead and a filled square for Alive.
func (u *Universe) Render() string {
	var b strings.Builder
	b.Grow(u.height * (u.width*3 + 1))
	for row := 0; row < u.height; row++ {
		for column := 0; column < u.width; column++ {
			if u.cells[u.Index(row, column)] == Dead {
				b.WriteRune('◻')
			} else {
				b.WriteRune('◼')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (u *Universe) String() string { return u.Render() }
