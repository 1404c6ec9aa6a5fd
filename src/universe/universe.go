package universe

import (
	"math"

	"github.com/pkg/errors"
)

var (
	//ErrOutOfRange is returned when a coordinate falls outside the universe
	ErrOutOfRange = errors.New("coordinate out of range")
	//ErrInvalidDimensions is returned when the universe is created with a non-positive width or height,
	//or with more cells than an int can count
	ErrInvalidDimensions = errors.New("invalid universe dimensions")
)

//Universe is a fixed size toroidal field of cells
//the cells are stored row-major in one flat slice: (row, column) lives at row*width+column
//a Universe is not safe for concurrent use, the owner must serialise all calls
type Universe struct {
	width  int
	height int
	cells  []Cell
	//scratch buffer for the next generation, swapped with cells on every step
	next []Cell
}

//New creates the universe with all cells dead
func New(width int, height int) (*Universe, error) {
	if width < 1 || height < 1 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%dx%d", width, height)
	}
	if width > math.MaxInt/height {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%dx%d overflows the cell count", width, height)
	}
	return &Universe{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		next:   make([]Cell, width*height),
	}, nil
}

//Width returns the number of columns
func (u *Universe) Width() int { return u.width }

//Height returns the number of rows
func (u *Universe) Height() int { return u.height }

//Len returns the number of cells, always Width()*Height()
func (u *Universe) Len() int { return len(u.cells) }

//Index maps (row, column) to the offset in the cell slice
//ok is false when the coordinate is outside [0,height)x[0,width)
func (u *Universe) Index(row int, column int) (idx int, ok bool) {
	if row < 0 || column < 0 || row >= u.height || column >= u.width {
		return 0, false
	}
	return u.index(row, column), true
}

//index is the unchecked form, callers must guarantee the bounds
func (u *Universe) index(row int, column int) int {
	return row*u.width + column
}

//Cell returns the cell at (row, column), ok is false for coordinates outside the universe
func (u *Universe) Cell(row int, column int) (c Cell, ok bool) {
	idx, ok := u.Index(row, column)
	if !ok {
		return Dead, false
	}
	return u.cells[idx], true
}

//SetCell overwrites the cell at (row, column) bypassing the rules
func (u *Universe) SetCell(row int, column int, c Cell) error {
	idx, ok := u.Index(row, column)
	if !ok {
		return u.outOfRange(row, column)
	}
	u.cells[idx] = c
	return nil
}

//InverseCell toggles the cell at (row, column)
func (u *Universe) InverseCell(row int, column int) error {
	idx, ok := u.Index(row, column)
	if !ok {
		return u.outOfRange(row, column)
	}
	u.cells[idx] = u.cells[idx].Inverse()
	return nil
}

func (u *Universe) outOfRange(row int, column int) error {
	return errors.Wrapf(ErrOutOfRange, "(%d, %d) in %dx%d universe", row, column, u.width, u.height)
}

//AliveNeighborCount counts the alive cells among the 8 toroidal neighbours of (row, column)
//the coordinate itself is wrapped first, so any int pair is accepted
func (u *Universe) AliveNeighborCount(row int, column int) int {
	row = wrap(row, u.height)
	column = wrap(column, u.width)
	count := 0
	//the deltas are positional: on a field one cell wide or high the cell itself
	//is reached through both side deltas and counted twice, on 1x1 eight times
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			//skip my position
			if dr == 0 && dc == 0 {
				continue
			}
			//adding the dimension keeps the -1 delta non-negative
			nr := (row + u.height + dr) % u.height
			nc := (column + u.width + dc) % u.width
			count += u.cells[u.index(nr, nc)].Count()
		}
	}
	return count
}

//NextGeneration advances the universe by one generation
//every cell is evaluated against the current cells and written to the scratch buffer,
//the buffers are swapped only after the whole field is done
//changed reports whether any cell differs from the previous generation
func (u *Universe) NextGeneration() (changed bool) {
	for row := 0; row < u.height; row++ {
		for column := 0; column < u.width; column++ {
			idx := u.index(row, column)
			c := nextState(u.cells[idx], u.AliveNeighborCount(row, column))
			changed = changed || c != u.cells[idx]
			u.next[idx] = c
		}
	}
	u.cells, u.next = u.next, u.cells
	return changed
}

//LiveCells calculates the count of live cells
func (u *Universe) LiveCells() int {
	liveCells := 0
	for _, c := range u.cells {
		liveCells += c.Count()
	}
	return liveCells
}

//Cells returns a copy of the cells in row-major order
func (u *Universe) Cells() []Cell {
	return append([]Cell(nil), u.cells...)
}

//Walk calls cb for each cell in row-major order
func (u *Universe) Walk(cb func(row int, column int, c Cell)) {
	for idx, c := range u.cells {
		cb(idx/u.width, idx%u.width, c)
	}
}

//Clear kills all cells
func (u *Universe) Clear() {
	for i := range u.cells {
		u.cells[i] = Dead
	}
}

//wrap brings v into [0, n), n must be positive
func wrap(v int, n int) int {
	return (v%n + n) % n
}
