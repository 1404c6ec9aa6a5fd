package universe

//nextState applies the Conway rule to a cell with the given count of alive neighbours
//  alive, < 2 neighbours: dies (underpopulation)
//  alive, 2 or 3: survives
//  alive, > 3: dies (overpopulation)
//  dead, exactly 3: becomes alive (reproduction)
//any other combination keeps the current state
func nextState(current Cell, liveNeighbours int) Cell {
	switch {
	case current == Alive && liveNeighbours < 2:
		return Dead
	case current == Alive && liveNeighbours > 3:
		return Dead
	case current == Dead && liveNeighbours == 3:
		return Alive
	}
	return current
}
