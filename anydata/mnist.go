package anydata

import (
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/mnist"
)

// FromMNIST converts (up to limit samples of) an MNIST
// data set.
// A limit of 0 converts every sample.
func FromMNIST(ds mnist.DataSet, c anyvec.Creator, limit int) Set {
	samples := ds.Samples
	if limit > 0 && limit < len(samples) {
		samples = samples[:limit]
	}
	res := make(Set, len(samples))
	for i, s := range samples {
		res[i] = &Sample{
			Input:  c.MakeVectorData(c.MakeNumericList(s.Intensities)),
			Output: OneHot(c, s.Label, 10),
			Label:  s.Label,
		}
	}
	return res
}

// LoadMNIST loads the MNIST training and testing sets.
func LoadMNIST(c anyvec.Creator, limit int) (train, test Set) {
	train = FromMNIST(mnist.LoadTrainingDataSet(), c, limit)
	test = FromMNIST(mnist.LoadTestingDataSet(), c, limit)
	return
}
