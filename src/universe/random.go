package universe

import "math/rand/v2"

//Randomize sets every cell alive with the given probability
//the same seed always produces the same field
func (u *Universe) Randomize(seed int64, density float64) {
	r := rand.New(rand.NewPCG(uint64(seed), 0))
	for i := range u.cells {
		if r.Float64() < density {
			u.cells[i] = Alive
		} else {
			u.cells[i] = Dead
		}
	}
}
