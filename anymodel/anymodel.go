// Package anymodel provides the feed-forward models and
// cost functions which objective functions are built
// from.
package anymodel

import (
	"fmt"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var n Net
	serializer.RegisterTypedDeserializer(n.SerializerType(), DeserializeNet)
}

// A Parameterizer is anything with trainable variables.
//
// Parameters must return the same variables in the same
// order on every call, since optimizers and snapshots
// identify parameters by position.
type Parameterizer interface {
	Parameters() []*anydiff.Var
}

// A Layer maps a batch of inputs to a batch of outputs.
//
// The input packs batchSize equally sized rows into one
// vector, so its length must be divisible by batchSize.
type Layer interface {
	Apply(in anydiff.Res, batchSize int) anydiff.Res
}

// A Net is a feed-forward model which feeds the output of
// each layer into the next one.
type Net []Layer

// DeserializeNet deserializes a Net.
func DeserializeNet(d []byte) (Net, error) {
	slice, err := serializer.DeserializeSlice(d)
	if err != nil {
		return nil, essentials.AddCtx("deserialize Net", err)
	}
	res := make(Net, len(slice))
	for i, x := range slice {
		layer, ok := x.(Layer)
		if !ok {
			return nil, fmt.Errorf("deserialize Net: not a Layer: %T", x)
		}
		res[i] = layer
	}
	return res, nil
}

// Apply runs every layer in order.
// An empty Net is the identity.
func (n Net) Apply(in anydiff.Res, batchSize int) anydiff.Res {
	for _, l := range n {
		in = l.Apply(in, batchSize)
	}
	return in
}

// Parameters collects the parameters of every layer that
// implements Parameterizer, from the first layer to the
// last.
func (n Net) Parameters() []*anydiff.Var {
	var res []*anydiff.Var
	for _, l := range n {
		if p, ok := l.(Parameterizer); ok {
			res = append(res, p.Parameters()...)
		}
	}
	return res
}

// NumParams returns the total number of scalar parameters.
func (n Net) NumParams() int {
	var count int
	for _, p := range n.Parameters() {
		count += p.Vector.Len()
	}
	return count
}

// SerializerType returns the unique ID used to serialize
// a Net with the serializer package.
func (n Net) SerializerType() string {
	return "github.com/unixpickle/anystop/anymodel.Net"
}

// Serialize serializes the Net.
// It fails if any layer is not a serializer.Serializer.
func (n Net) Serialize() ([]byte, error) {
	var slice []serializer.Serializer
	for _, l := range n {
		s, ok := l.(serializer.Serializer)
		if !ok {
			return nil, fmt.Errorf("serialize Net: not a Serializer: %T", l)
		}
		slice = append(slice, s)
	}
	return serializer.SerializeSlice(slice)
}
