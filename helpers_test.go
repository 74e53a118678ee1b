package canopy

import (
	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
)

var (
	age    = feature.NewContinuousFeature("Age")
	weight = feature.NewContinuousFeature("Weight")
	class  = feature.NewDiscreteFeature("Class", nil)
)

type row struct {
	age, weight float64
	class       string
}

func rows(rs ...row) dataset.Dataset {
	samples := make([]dataset.Sample, 0, len(rs))
	for _, r := range rs {
		samples = append(samples, dataset.NewSample(map[string]interface{}{
			"Age":    r.age,
			"Weight": r.weight,
			"Class":  r.class,
		}))
	}
	return dataset.New(samples)
}

func ages(classes map[float64]string, order ...float64) dataset.Dataset {
	rs := make([]row, 0, len(order))
	for _, a := range order {
		rs = append(rs, row{age: a, class: classes[a]})
	}
	return rows(rs...)
}
