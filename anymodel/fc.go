package anymodel

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var f FC
	serializer.RegisterTypedDeserializer(f.SerializerType(), DeserializeFC)
}

// FC is a fully-connected layer.
//
// Weights is a row-major OutCount by InCount matrix.
type FC struct {
	InCount  int
	OutCount int
	Weights  *anydiff.Var
	Biases   *anydiff.Var
}

// DeserializeFC deserializes an FC.
func DeserializeFC(d []byte) (*FC, error) {
	var weights, biases *anyvecsave.S
	if err := serializer.DeserializeAny(d, &weights, &biases); err != nil {
		return nil, essentials.AddCtx("deserialize FC", err)
	}
	if biases.Vector.Len() == 0 {
		return nil, errors.New("deserialize FC: no outputs")
	}
	outCount := biases.Vector.Len()
	inCount := weights.Vector.Len() / outCount
	if inCount*outCount != weights.Vector.Len() {
		return nil, errors.New("deserialize FC: invalid matrix dimensions")
	}
	return &FC{
		InCount:  inCount,
		OutCount: outCount,
		Weights:  anydiff.NewVar(weights.Vector),
		Biases:   anydiff.NewVar(biases.Vector),
	}, nil
}

// NewFC creates an FC with random weights and zero biases.
//
// Weights are drawn from a normal distribution scaled so
// that unit-variance inputs produce unit-variance outputs.
// If rng is nil, the global source is used.
func NewFC(c anyvec.Creator, in, out int, rng *rand.Rand) *FC {
	res := NewFCZero(c, in, out)
	anyvec.Rand(res.Weights.Vector, anyvec.Normal, rng)
	res.Weights.Vector.Scale(c.MakeNumeric(1 / math.Sqrt(float64(in))))
	return res
}

// NewFCZero creates an FC with all parameters set to 0.
func NewFCZero(c anyvec.Creator, in, out int) *FC {
	return &FC{
		InCount:  in,
		OutCount: out,
		Weights:  anydiff.NewVar(c.MakeVector(in * out)),
		Biases:   anydiff.NewVar(c.MakeVector(out)),
	}
}

// Apply computes W*x + b for every row x of the batch.
func (f *FC) Apply(in anydiff.Res, batch int) anydiff.Res {
	if batch*f.InCount != in.Output().Len() {
		panic(fmt.Sprintf("FC input length should be %d, but got %d",
			batch*f.InCount, in.Output().Len()))
	}
	weightMat := &anydiff.Matrix{
		Data: f.Weights,
		Rows: f.OutCount,
		Cols: f.InCount,
	}
	inMat := &anydiff.Matrix{
		Data: in,
		Rows: batch,
		Cols: f.InCount,
	}
	product := anydiff.MatMul(false, true, inMat, weightMat)
	return anydiff.AddRepeated(product.Data, f.Biases)
}

// Parameters returns the weights followed by the biases.
func (f *FC) Parameters() []*anydiff.Var {
	return []*anydiff.Var{f.Weights, f.Biases}
}

// SerializerType returns the unique ID used to serialize
// an FC with the serializer package.
func (f *FC) SerializerType() string {
	return "github.com/unixpickle/anystop/anymodel.FC"
}

// Serialize serializes the FC.
func (f *FC) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		&anyvecsave.S{Vector: f.Weights.Vector},
		&anyvecsave.S{Vector: f.Biases.Vector},
	)
}

// NewMLP creates a multi-layer perceptron.
//
// The sizes list the width of every layer, starting with
// the input; hidden is applied after every FC except the
// last one, and output (if non-nil) after the last one.
func NewMLP(c anyvec.Creator, rng *rand.Rand, hidden, output Layer, sizes ...int) Net {
	if len(sizes) < 2 {
		panic("an MLP needs at least an input and an output size")
	}
	var res Net
	for i := 1; i < len(sizes); i++ {
		res = append(res, NewFC(c, sizes[i-1], sizes[i], rng))
		if i+1 < len(sizes) {
			res = append(res, hidden)
		} else if output != nil {
			res = append(res, output)
		}
	}
	return res
}
