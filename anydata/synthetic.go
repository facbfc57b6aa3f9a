package anydata

import (
	"math"
	"math/rand"

	"github.com/unixpickle/anyvec"
)

// Chessboard generates a two-class problem on a 4x4
// chessboard in the square [-1, 1]^2.
//
// Each label is flipped with probability noise, which
// makes the problem easy to overfit.
func Chessboard(c anyvec.Creator, n int, noise float64, rng *rand.Rand) Set {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	res := make(Set, n)
	for i := range res {
		x, y := rng.Float64()*2-1, rng.Float64()*2-1
		cell := int(math.Floor((x+1)*2)) + int(math.Floor((y+1)*2))
		label := cell % 2
		if rng.Float64() < noise {
			label = 1 - label
		}
		res[i] = &Sample{
			Input:  c.MakeVectorData(c.MakeNumericList([]float64{x, y})),
			Output: OneHot(c, label, 2),
			Label:  label,
		}
	}
	return res
}
