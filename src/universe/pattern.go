package universe

import (
	"sort"

	"github.com/pkg/errors"
)

//ErrUnknownPattern is returned by LookupPattern for names that are not registered
var ErrUnknownPattern = errors.New("unknown pattern")

//Point is a (row, column) offset inside a pattern
type Point struct {
	Row    int
	Column int
}

//Pattern represents the seeding pattern which can be used to settle the universe with predefined data
type Pattern struct {
	Name        string  //pattern name
	Descr       string  //pattern descr
	Coordinates []Point //alive cells relative to the top left corner
}

var patterns = map[string]Pattern{}

func init() {
	for _, p := range []Pattern{
		{"glider", "moves one cell diagonally every 4 generations", []Point{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}},
		{"blinker", "period 2 oscillator", []Point{{0, 0}, {0, 1}, {0, 2}}},
		{"block", "still life", []Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
		{"toad", "period 2 oscillator", []Point{{0, 1}, {0, 2}, {0, 3}, {1, 0}, {1, 1}, {1, 2}}},
		{"beacon", "period 2 oscillator", []Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 2}, {2, 3}, {3, 2}, {3, 3}}},
		{"r-pentomino", "methuselah, stabilises after 1103 generations on an unbounded field", []Point{{0, 1}, {0, 2}, {1, 0}, {1, 1}, {2, 1}}},
	} {
		RegisterPattern(p)
	}
}

//RegisterPattern adds the pattern to the registry, replacing one with the same name
func RegisterPattern(p Pattern) {
	if p.Name == "" {
		return
	}
	patterns[p.Name] = p
}

//LookupPattern returns the registered pattern by name
func LookupPattern(name string) (Pattern, error) {
	p, ok := patterns[name]
	if !ok {
		return Pattern{}, errors.Wrapf(ErrUnknownPattern, "%q", name)
	}
	return p, nil
}

//PatternNames returns the registered pattern names in sorted order
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for k := range patterns {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//Settle places the pattern with its top left corner at (row, column)
//pattern cells crossing an edge wrap around to the opposite side
func (u *Universe) Settle(p Pattern, row int, column int) {
	for _, pt := range p.Coordinates {
		r := wrap(row+pt.Row, u.height)
		c := wrap(column+pt.Column, u.width)
		u.cells[u.index(r, c)] = Alive
	}
}
