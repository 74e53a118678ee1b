package bio

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestReadNpySet(t *testing.T) {
	ctx := context.Background()
	buf := new(bytes.Buffer)
	m := mat.NewDense(3, 3, []float64{
		20, 50, 1,
		45, math.NaN(), 0,
		60, 70, 0,
	})
	require.NoError(t, npyio.Write(buf, m))
	set, err := ReadNpySet(buf, nil, nil)
	require.NoError(t, err)
	require.Len(t, set.Inputs, 2)
	assert.Equal(t, "x1", set.Inputs[1].Name())
	assert.Equal(t, "y", set.Label.Name())
	samples, err := set.Dataset.Samples(ctx)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	v, err := samples[1].ValueFor(ctx, set.Inputs[1])
	require.NoError(t, err)
	assert.Nil(t, v)
	v, err = samples[0].ValueFor(ctx, set.Label)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestReadNpySetChecksColumnNames(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, npyio.Write(buf, mat.NewDense(1, 2, []float64{1, 2})))
	_, err := ReadNpySet(buf, []string{"a", "b", "c"}, nil)
	assert.Error(t, err)
}
