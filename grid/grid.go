// Package grid builds a rectangular tile grid from a parsed block's rows
// and iterates it in host (BYOND) order under a 0/90/180/270 degree
// rotation, per spec §4.8.
package grid

import "fmt"

// Rotation selects one of the four block orientations a map offset can
// request.
type Rotation int

const (
	None Rotation = iota
	Ninety
	OneEighty
	TwoSeventy
)

// Cell is one grid position paired with its raw key text.
type Cell struct {
	Coord [3]int
	Key   string
}

// Grid is a 2D array of fixed-width keys anchored at a bottom-left world
// coordinate. It is built once from a block's rows, when New copies each
// row's keys out into cells; Rotate hands out those key strings without
// copying them again.
type Grid struct {
	bottomLeft [3]int
	cells      [][]string // cells[row][col], row 0 = first input line (top of the block)
	numRows    int
	numCols    int
}

// New builds a Grid from bottomLeft (the block's anchor, treated as the
// bottom-left corner) and rows, each split into numCols fixed-width keys of
// keyLen bytes apiece. All rows must split into the same column count.
func New(bottomLeft [3]int, keyLen int, rows []string) (*Grid, error) {
	if keyLen <= 0 {
		return nil, fmt.Errorf("grid: key_len must be positive, got %d", keyLen)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid: block has no rows")
	}

	cells := make([][]string, len(rows))
	numCols := -1
	for i, row := range rows {
		keys := splitFixedWidth(row, keyLen)
		if numCols == -1 {
			numCols = len(keys)
		} else if len(keys) != numCols {
			return nil, fmt.Errorf("grid: row %d has %d keys, want %d", i, len(keys), numCols)
		}
		cells[i] = keys
	}

	return &Grid{bottomLeft: bottomLeft, cells: cells, numRows: len(rows), numCols: numCols}, nil
}

// splitFixedWidth splits s into consecutive keyLen-rune chunks, keeping a
// final short chunk (mirroring the original's from-fn iterator, which
// stops as soon as an empty slice would be produced).
func splitFixedWidth(s string, keyLen int) []string {
	r := []rune(s)
	var out []string
	for len(r) > 0 {
		n := keyLen
		if n > len(r) {
			n = len(r)
		}
		if n == 0 {
			break
		}
		out = append(out, string(r[:n]))
		r = r[n:]
	}
	return out
}

// NumRows and NumCols report the grid's dimensions.
func (g *Grid) NumRows() int { return g.numRows }
func (g *Grid) NumCols() int { return g.numCols }

// Rotate returns every cell of the grid translated into world coordinates
// and ordered per rotation, per the coordinate mappings fixed by spec §8's
// rotation scenarios.
func (g *Grid) Rotate(rotation Rotation) []Cell {
	switch rotation {
	case None:
		return g.rotateNone()
	case Ninety:
		return g.rotateNinety()
	case OneEighty:
		return g.rotateOneEighty()
	case TwoSeventy:
		return g.rotateTwoSeventy()
	default:
		return nil
	}
}

func (g *Grid) rotateNone() []Cell {
	out := make([]Cell, 0, g.numRows*g.numCols)
	for y := 0; y < g.numRows; y++ {
		for x := 0; x < g.numCols; x++ {
			out = append(out, Cell{
				Coord: [3]int{g.bottomLeft[0] + x, g.bottomLeft[1] + (g.numRows - y - 1), g.bottomLeft[2]},
				Key:   g.cells[y][x],
			})
		}
	}
	return out
}

func (g *Grid) rotateOneEighty() []Cell {
	out := make([]Cell, 0, g.numRows*g.numCols)
	for y := g.numRows - 1; y >= 0; y-- {
		for x := g.numCols - 1; x >= 0; x-- {
			out = append(out, Cell{
				Coord: [3]int{g.bottomLeft[0] + (g.numCols - x - 1), g.bottomLeft[1] + y, g.bottomLeft[2]},
				Key:   g.cells[y][x],
			})
		}
	}
	return out
}

func (g *Grid) rotateNinety() []Cell {
	out := make([]Cell, 0, g.numRows*g.numCols)
	for col := g.numCols - 1; col >= 0; col-- {
		for row := 0; row < g.numRows; row++ {
			out = append(out, Cell{
				Coord: [3]int{g.bottomLeft[0] + row, g.bottomLeft[1] + col, g.bottomLeft[2]},
				Key:   g.cells[row][col],
			})
		}
	}
	return out
}

func (g *Grid) rotateTwoSeventy() []Cell {
	out := make([]Cell, 0, g.numRows*g.numCols)
	for col := 0; col < g.numCols; col++ {
		for x := 0; x < g.numRows; x++ {
			row := g.numRows - 1 - x
			out = append(out, Cell{
				Coord: [3]int{g.bottomLeft[0] + x, g.bottomLeft[1] + (g.numCols - col - 1), g.bottomLeft[2]},
				Key:   g.cells[row][col],
			})
		}
	}
	return out
}
