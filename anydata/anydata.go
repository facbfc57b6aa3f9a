// Package anydata provides labeled sample sets for
// supervised training, along with the splits needed for
// validation and testing.
package anydata

import (
	"crypto/sha1"
	"encoding/binary"
	"math"
	"math/rand"

	"github.com/unixpickle/anyvec"
)

// A Sample is an input vector with its desired output.
//
// For classification problems, Output is the one-hot
// encoding of Label.
type Sample struct {
	Input  anyvec.Vector
	Output anyvec.Vector
	Label  int
}

// A Set is a list of samples.
type Set []*Sample

// Len returns the number of samples.
func (s Set) Len() int {
	return len(s)
}

// Swap swaps two samples.
func (s Set) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Slice copies a sub-slice of the set.
func (s Set) Slice(i, j int) Set {
	return append(Set{}, s[i:j]...)
}

// Hash hashes the input of the sample at index i.
func (s Set) Hash(i int) []byte {
	h := sha1.New()
	temp := make([]byte, 8)
	for _, x := range vectorFloats(s[i].Input) {
		binary.BigEndian.PutUint64(temp, math.Float64bits(x))
		h.Write(temp)
	}
	return h.Sum(nil)
}

// InputSize returns the length of the input vectors, or 0
// for an empty set.
func (s Set) InputSize() int {
	if len(s) == 0 {
		return 0
	}
	return s[0].Input.Len()
}

// OutputSize returns the length of the output vectors, or
// 0 for an empty set.
func (s Set) OutputSize() int {
	if len(s) == 0 {
		return 0
	}
	return s[0].Output.Len()
}

// Shuffle shuffles the set in place.
// If rng is nil, the global source is used.
func Shuffle(s Set, rng *rand.Rand) {
	perm := rand.Perm
	if rng != nil {
		perm = rng.Perm
	}
	p := perm(len(s))
	shuffled := make(Set, len(s))
	for i, j := range p {
		shuffled[i] = s[j]
	}
	copy(s, shuffled)
}

// Split divides the set at a fraction of its length.
// The first part receives round(frac*len(s)) samples.
func Split(s Set, frac float64) (left, right Set) {
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	idx := int(math.Round(frac * float64(len(s))))
	return s.Slice(0, idx), s.Slice(idx, len(s))
}

// OneHot creates a one-hot vector.
func OneHot(c anyvec.Creator, label, numClasses int) anyvec.Vector {
	data := make([]float64, numClasses)
	data[label] = 1
	return c.MakeVectorData(c.MakeNumericList(data))
}

func vectorFloats(v anyvec.Vector) []float64 {
	switch data := v.Data().(type) {
	case []float64:
		return data
	case []float32:
		res := make([]float64, len(data))
		for i, x := range data {
			res[i] = float64(x)
		}
		return res
	default:
		panic("unsupported numeric type")
	}
}
