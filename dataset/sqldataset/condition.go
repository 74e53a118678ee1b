package sqldataset

import (
	"math"

	"github.com/pbanos/canopy/feature"
)

/*
Condition is a restriction on the samples of a table that translates
directly to a comparison in the WHERE clause of a SELECT statement:
Column Operator Value.
*/
type Condition struct {
	Column   string
	Operator string
	Value    float64
}

/*
NewConditions takes a feature.Criterion and a Dialect and returns the
conditions equivalent to the criterion and true, or false when the criterion
has no translation to conditions and must be checked on every sample read.
*/
func NewConditions(fc feature.Criterion, d Dialect) ([]Condition, bool, error) {
	switch fc := fc.(type) {
	case feature.BandCriterion:
		column, err := d.ColumnName(fc.Feature().Name())
		if err != nil {
			return nil, false, err
		}
		a, b := fc.Band()
		result := []Condition{}
		if !math.IsInf(a, 0) {
			result = append(result, Condition{column, ">=", a})
		}
		if !math.IsInf(b, 0) {
			result = append(result, Condition{column, "<", b})
		}
		// NULL values satisfy no band
		result = append(result, Condition{Column: column, Operator: "IS NOT NULL"})
		return result, true, nil
	case feature.ThresholdCriterion:
		column, err := d.ColumnName(fc.Feature().Name())
		if err != nil {
			return nil, false, err
		}
		t, above := fc.Threshold()
		if above {
			return []Condition{{column, ">", t}}, true, nil
		}
		return []Condition{{column, "<=", t}}, true, nil
	}
	return nil, false, nil
}
