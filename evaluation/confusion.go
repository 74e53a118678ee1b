/*
Package evaluation measures how well a tree classifies a dataset.
*/
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/tree"
)

/*
ConfusionMatrix counts classifications by actual and predicted label. Rows
are actual labels and columns predicted ones, both in the order of the labels
the matrix was created with.

Samples for which no prediction is available are not counted in the matrix:
they are counted as misses.
*/
type ConfusionMatrix struct {
	labels  []string
	index   map[string]int
	counts  *mat.Dense
	misses  int
	unknown int
}

/*
NewConfusionMatrix takes a slice of labels and returns an empty
ConfusionMatrix over them.
*/
func NewConfusionMatrix(labels []string) *ConfusionMatrix {
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	n := len(labels)
	if n == 0 {
		n = 1
	}
	return &ConfusionMatrix{
		labels: append([]string{}, labels...),
		index:  index,
		counts: mat.NewDense(n, n, nil),
	}
}

/*
Add takes the actual label of a sample and the label predicted for it and
counts them. Pairs involving labels the matrix does not know are counted
apart and reported by Unknown.
*/
func (cm *ConfusionMatrix) Add(actual, predicted string) {
	i, ok := cm.index[actual]
	j, ok2 := cm.index[predicted]
	if !ok || !ok2 {
		cm.unknown++
		return
	}
	cm.counts.Set(i, j, cm.counts.At(i, j)+1)
}

// AddMiss counts a sample for which no prediction was available.
func (cm *ConfusionMatrix) AddMiss() {
	cm.misses++
}

// Count returns the number of samples with the given actual and predicted labels.
func (cm *ConfusionMatrix) Count(actual, predicted string) int {
	i, ok := cm.index[actual]
	j, ok2 := cm.index[predicted]
	if !ok || !ok2 {
		return 0
	}
	return int(cm.counts.At(i, j))
}

// Labels returns the labels of the matrix rows and columns.
func (cm *ConfusionMatrix) Labels() []string {
	return cm.labels
}

// Misses returns the number of samples for which no prediction was available.
func (cm *ConfusionMatrix) Misses() int {
	return cm.misses
}

// Unknown returns the number of samples with labels outside the matrix.
func (cm *ConfusionMatrix) Unknown() int {
	return cm.unknown
}

// Total returns the number of samples counted, misses included.
func (cm *ConfusionMatrix) Total() int {
	return int(mat.Sum(cm.counts)) + cm.misses + cm.unknown
}

/*
Accuracy returns the fraction of counted samples whose predicted label
matches the actual one. Misses count as wrong predictions. An empty matrix
has an accuracy of 0.
*/
func (cm *ConfusionMatrix) Accuracy() float64 {
	total := cm.Total()
	if total == 0 {
		return 0
	}
	return mat.Trace(cm.counts) / float64(total)
}

func (cm *ConfusionMatrix) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(cm.labels, " "))
	b.WriteString("\n")
	for i := range cm.labels {
		row := make([]string, 0, len(cm.labels))
		for j := range cm.labels {
			row = append(row, fmt.Sprintf("%d", int(cm.counts.At(i, j))))
		}
		fmt.Fprintf(&b, "[%s]\n", strings.Join(row, " "))
	}
	return b.String()
}

/*
Evaluate takes a context, a tree, a dataset and the labels to build the
matrix with and returns a ConfusionMatrix with the classification by the
tree of every sample in the dataset. A sample the tree cannot classify is
counted as a miss; any other classification error is returned.
*/
func Evaluate(ctx context.Context, t *tree.Tree, s dataset.Dataset, labels []string) (*ConfusionMatrix, error) {
	cm := NewConfusionMatrix(labels)
	samples, err := s.Samples(ctx)
	if err != nil {
		return nil, err
	}
	for _, sample := range samples {
		actual, err := sample.ValueFor(ctx, t.Label)
		if err != nil {
			return nil, err
		}
		predicted, err := t.Classify(ctx, sample)
		if errors.Is(err, tree.ErrNoPrediction) {
			cm.AddMiss()
			continue
		}
		if err != nil {
			return nil, err
		}
		cm.Add(fmt.Sprintf("%v", actual), predicted)
	}
	return cm, nil
}

/*
Labels takes a context, a dataset and the label feature and returns the
values the label takes on the dataset, in the order they are first found.
*/
func Labels(ctx context.Context, s dataset.Dataset, t *tree.Tree) ([]string, error) {
	values, err := s.FeatureValues(ctx, t.Label)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(values))
	for _, v := range values {
		labels = append(labels, fmt.Sprintf("%v", v))
	}
	return labels, nil
}
