package dataset

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

/*
TrainTestSplit takes a context, a dataset, the fraction of samples to hold
out for testing and a seed and returns two datasets: the training one and the
testing one. Samples are assigned after a shuffle driven by the seed, so the
same seed always yields the same partition. The number of testing samples is
the fraction of the total rounded up, as long as at least one sample is left
for training. A zero fraction returns the given dataset itself for training,
so backends that filter on their own keep doing so, and an empty testing one.
*/
func TrainTestSplit(ctx context.Context, s Dataset, testSize float64, seed int64) (Dataset, Dataset, error) {
	if testSize < 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in [0, 1), got %v", testSize)
	}
	if testSize == 0 {
		return s, New(nil), nil
	}
	samples, err := s.Samples(ctx)
	if err != nil {
		return nil, nil, err
	}
	n := len(samples)
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test := make([]Sample, 0, nTest)
	train := make([]Sample, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, samples[idx])
		} else {
			train = append(train, samples[idx])
		}
	}
	return New(train), New(test), nil
}
