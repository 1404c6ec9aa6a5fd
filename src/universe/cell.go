package universe

//Cell is the state of one position of the universe
//the zero value is Dead, so a freshly allocated buffer is an empty universe
type Cell uint8

const (
	Dead Cell = iota
	Alive
)

//Count converts the cell to its contribution to a neighbour count
//Alive counts as 1, Dead as 0
//the neighbour sum and the transition rule both depend on this mapping, do not use the raw value
func (c Cell) Count() int {
	if c == Alive {
		return 1
	}
	return 0
}

//Inverse returns the opposite state
func (c Cell) Inverse() Cell {
	if c == Alive {
		return Dead
	}
	return Alive
}

func (c Cell) String() string {
	if c == Alive {
		return "alive"
	}
	return "dead"
}
