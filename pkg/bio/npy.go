package bio

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
)

/*
ReadNpySet takes an io.Reader for a 2-dimensional float64 array in the NumPy
.npy format, the names of its columns and a SetGenerator and returns a Set
with a sample per row of the array or an error.

Every column but the last one is read as a continuous input feature, NaN
values meaning undefined. The last column is the label: its values are
formatted as strings.
*/
func ReadNpySet(reader io.Reader, columns []string, sg SetGenerator) (*Set, error) {
	r, err := npyio.NewReader(reader)
	if err != nil {
		return nil, fmt.Errorf("reading npy header: %v", err)
	}
	m := &mat.Dense{}
	if err = r.Read(m); err != nil {
		return nil, fmt.Errorf("reading npy data: %v", err)
	}
	return newMatrixSet(m, columns, sg)
}

/*
ReadNpySetFromFilePath takes a filepath string, the names of the columns and
a SetGenerator, opens the file to which the filepath points to and uses
ReadNpySet to return a Set or an error read from it. Without column names,
columns are named x0, x1... and the label y.
*/
func ReadNpySetFromFilePath(filepath string, columns []string, sg SetGenerator) (*Set, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("opening npy file: %v", err)
	}
	defer f.Close()
	set, err := ReadNpySet(f, columns, sg)
	if err != nil {
		err = fmt.Errorf("parsing npy file %s: %v", filepath, err)
	}
	return set, err
}

func newMatrixSet(m mat.Matrix, columns []string, sg SetGenerator) (*Set, error) {
	rows, cols := m.Dims()
	if cols < 2 {
		return nil, fmt.Errorf("expected at least 2 columns, got %d", cols)
	}
	if len(columns) == 0 {
		for j := 0; j < cols-1; j++ {
			columns = append(columns, "x"+strconv.Itoa(j))
		}
		columns = append(columns, "y")
	}
	if len(columns) != cols {
		return nil, fmt.Errorf("got %d column names for %d columns", len(columns), cols)
	}
	set := &Set{Label: feature.NewDiscreteFeature(columns[cols-1], nil)}
	for _, name := range columns[:cols-1] {
		set.Inputs = append(set.Inputs, feature.NewContinuousFeature(name))
	}
	samples := make([]dataset.Sample, 0, rows)
	for i := 0; i < rows; i++ {
		featureValues := make(map[string]interface{}, cols)
		for j := 0; j < cols-1; j++ {
			if v := m.At(i, j); !math.IsNaN(v) {
				featureValues[columns[j]] = v
			}
		}
		if v := m.At(i, cols-1); !math.IsNaN(v) {
			featureValues[columns[cols-1]] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		samples = append(samples, dataset.NewSample(featureValues))
	}
	set.Dataset = sg.generate(samples)
	return set, nil
}
