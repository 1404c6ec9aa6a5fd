package universe

import (
	"testing"

	"github.com/pkg/errors"
)

func settled(t *testing.T, name string, width int, height int, row int, column int) *Universe {
	t.Helper()
	p, err := LookupPattern(name)
	if err != nil {
		t.Fatal(err)
	}
	u := mustNew(t, width, height)
	u.Settle(p, row, column)
	return u
}

func TestPatternsSettle(t *testing.T) {
	for _, name := range PatternNames() {
		p, _ := LookupPattern(name)
		u := settled(t, name, 16, 16, 2, 2)
		if u.LiveCells() != len(p.Coordinates) {
			t.Fatalf("%s: %d live cells, expected %d", name, u.LiveCells(), len(p.Coordinates))
		}
	}
}

func TestLookupUnknownPattern(t *testing.T) {
	if _, err := LookupPattern("spaceship-9000"); errors.Cause(err) != ErrUnknownPattern {
		t.Fatalf("expected ErrUnknownPattern, got %v", err)
	}
}

func TestSettleWrapsAroundEdges(t *testing.T) {
	u := settled(t, "block", 5, 4, 3, 4)
	for _, p := range [][2]int{{3, 4}, {3, 0}, {0, 4}, {0, 0}} {
		if c, _ := u.Cell(p[0], p[1]); c != Alive {
			t.Fatalf("(%d,%d) not alive", p[0], p[1])
		}
	}
	if u.LiveCells() != 4 {
		t.Fatalf("expected 4 live cells, got %d", u.LiveCells())
	}
}

func TestOscillatorsPeriodTwo(t *testing.T) {
	for _, name := range []string{"blinker", "toad", "beacon"} {
		u := settled(t, name, 10, 10, 3, 3)
		start := aliveOffsets(u)
		u.NextGeneration()
		if equalInts(aliveOffsets(u), start) {
			t.Fatalf("%s: unchanged after one generation", name)
		}
		u.NextGeneration()
		if got := aliveOffsets(u); !equalInts(got, start) {
			t.Fatalf("%s: %v after two generations, expected %v", name, got, start)
		}
	}
}

func TestGliderCrossesTheTorus(t *testing.T) {
	u := settled(t, "glider", 8, 8, 0, 0)
	//the glider moves one row down and one column right every 4 generations
	for shift := 1; shift <= 8; shift++ {
		for i := 0; i < 4; i++ {
			u.NextGeneration()
		}
		want := settled(t, "glider", 8, 8, shift, shift)
		if got := aliveOffsets(u); !equalInts(got, aliveOffsets(want)) {
			t.Fatalf("after %d generations: %v, expected %v", shift*4, got, aliveOffsets(want))
		}
	}
}

func TestRandomizeDeterministic(t *testing.T) {
	a := mustNew(t, 20, 10)
	b := mustNew(t, 20, 10)
	a.Randomize(42, 0.3)
	b.Randomize(42, 0.3)
	if !equalInts(aliveOffsets(a), aliveOffsets(b)) {
		t.Fatalf("same seed produced different fields")
	}
	if a.LiveCells() == 0 || a.LiveCells() == a.Len() {
		t.Fatalf("density 0.3 produced %d of %d live cells", a.LiveCells(), a.Len())
	}

	a.Randomize(7, 0)
	if a.LiveCells() != 0 {
		t.Fatalf("density 0 produced live cells")
	}
	a.Randomize(7, 1)
	if a.LiveCells() != a.Len() {
		t.Fatalf("density 1 left dead cells")
	}
}
