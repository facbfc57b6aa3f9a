package anystop

import (
	"errors"
	"fmt"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	var s Snapshot
	serializer.RegisterTypedDeserializer(s.SerializerType(), DeserializeSnapshot)
}

var errSnapshotMismatch = errors.New("snapshot does not match variables")

// A Snapshot is a copy of the values of a list of
// parameters.
type Snapshot []anyvec.Vector

// TakeSnapshot copies the current values of the
// variables.
func TakeSnapshot(vars []*anydiff.Var) Snapshot {
	res := make(Snapshot, len(vars))
	for i, v := range vars {
		res[i] = v.Vector.Copy()
	}
	return res
}

// DeserializeSnapshot deserializes a Snapshot.
func DeserializeSnapshot(d []byte) (Snapshot, error) {
	slice, err := serializer.DeserializeSlice(d)
	if err != nil {
		return nil, essentials.AddCtx("deserialize Snapshot", err)
	}
	res := make(Snapshot, len(slice))
	for i, x := range slice {
		vec, ok := x.(*anyvecsave.S)
		if !ok {
			return nil, fmt.Errorf("deserialize Snapshot: not a vector: %T", x)
		}
		res[i] = vec.Vector
	}
	return res, nil
}

// Restore writes the snapshot back into the variables.
//
// The variables must match the ones the snapshot was
// taken from in count, length and numeric type.
func (s Snapshot) Restore(vars []*anydiff.Var) error {
	if len(vars) != len(s) {
		return errSnapshotMismatch
	}
	for i, v := range vars {
		if v.Vector.Len() != s[i].Len() || v.Vector.Creator() != s[i].Creator() {
			return errSnapshotMismatch
		}
	}
	for i, v := range vars {
		v.Vector.Set(s[i])
	}
	return nil
}

// SerializerType returns the unique ID used to serialize
// a Snapshot with the serializer package.
func (s Snapshot) SerializerType() string {
	return "github.com/unixpickle/anystop.Snapshot"
}

// Serialize serializes the snapshot.
func (s Snapshot) Serialize() ([]byte, error) {
	slice := make([]serializer.Serializer, len(s))
	for i, vec := range s {
		slice[i] = &anyvecsave.S{Vector: vec}
	}
	return serializer.SerializeSlice(slice)
}
