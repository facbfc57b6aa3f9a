package anymodel

import (
	"fmt"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/serializer"
)

func init() {
	var a Activation
	serializer.RegisterTypedDeserializer(a.SerializerType(), DeserializeActivation)
}

// An Activation is an element-wise (or, for LogSoftmax,
// row-wise) activation layer.
type Activation int

// These are the supported activations.
const (
	Tanh Activation = iota
	Sigmoid
	ReLU
	LogSoftmax

	// SELU is the scaled exponential linear unit from
	// https://arxiv.org/abs/1706.02515, using the constants
	// which keep activations near mean 0 and variance 1.
	SELU
)

const (
	seluAlpha  = 1.6732632423543772848170429916717
	seluLambda = 1.0507009873554804934193349852946
)

var activationNames = map[Activation]string{
	Tanh:       "tanh",
	Sigmoid:    "sigmoid",
	ReLU:       "relu",
	LogSoftmax: "logsoftmax",
	SELU:       "selu",
}

// ParseActivation finds an activation by the name that
// String returns.
func ParseActivation(name string) (Activation, error) {
	for a, n := range activationNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown activation: %s", name)
}

// DeserializeActivation deserializes an Activation.
func DeserializeActivation(d []byte) (Activation, error) {
	if len(d) != 1 {
		return 0, fmt.Errorf("deserialize Activation: data length (%d) should be 1", len(d))
	}
	a := Activation(d[0])
	if _, ok := activationNames[a]; !ok {
		return 0, fmt.Errorf("deserialize Activation: unknown activation ID: %d", a)
	}
	return a, nil
}

// Apply applies the activation function.
func (a Activation) Apply(in anydiff.Res, n int) anydiff.Res {
	switch a {
	case Tanh:
		return anydiff.Tanh(in)
	case Sigmoid:
		return anydiff.Sigmoid(in)
	case ReLU:
		return anydiff.ClipPos(in)
	case LogSoftmax:
		inLen := in.Output().Len()
		if inLen%n != 0 {
			panic("batch size must divide input length")
		}
		return anydiff.LogSoftmax(in, inLen/n)
	case SELU:
		return selu(in)
	default:
		panic(fmt.Sprintf("unknown activation: %d", a))
	}
}

func (a Activation) String() string {
	if name, ok := activationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Activation(%d)", int(a))
}

func selu(in anydiff.Res) anydiff.Res {
	c := in.Output().Creator()
	return anydiff.Pool(in, func(in anydiff.Res) anydiff.Res {
		neg := anydiff.Scale(
			anydiff.ClipPos(anydiff.Scale(in, c.MakeNumeric(-1))),
			c.MakeNumeric(-1),
		)
		return anydiff.Scale(
			anydiff.AddScalar(
				anydiff.Add(
					anydiff.ClipPos(in),
					anydiff.Scale(anydiff.Exp(neg), c.MakeNumeric(seluAlpha)),
				),
				c.MakeNumeric(-seluAlpha),
			),
			c.MakeNumeric(seluLambda),
		)
	})
}

// SerializerType returns the unique ID used to serialize
// an Activation.
func (a Activation) SerializerType() string {
	return "github.com/unixpickle/anystop/anymodel.Activation"
}

// Serialize serializes the activation.
func (a Activation) Serialize() ([]byte, error) {
	return []byte{byte(a)}, nil
}
