package bio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
)

/*
ReadCSVSet takes an io.Reader for a CSV stream, a slice of features, the name
of the label feature and a SetGenerator and returns a Set built with the
SetGenerator and the samples parsed from the reader or an error.

The header or first row of the CSV content is expected to consist of the names
of the features in the given slice. The rest of the rows should consist of valid
values for the all features and/or the '?' string to indicate an undefined value.
Columns in the header that are not among the features are ignored.
*/
func ReadCSVSet(reader io.Reader, features []feature.Feature, label string, sg SetGenerator) (*Set, error) {
	inputs, lf, err := splitLabel(features, label)
	if err != nil {
		return nil, err
	}
	lf = labelFeature(lf)
	featuresByName := featureSliceToMap(append(append([]feature.Feature{}, inputs...), lf))
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	featureOrder, err := parseFeaturesFromCSVHeader(header, featuresByName)
	if err != nil {
		return nil, err
	}
	samples := []dataset.Sample{}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseSampleFromCSVRow(row, featureOrder)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %v", l, err)
		}
		samples = append(samples, sample)
	}
	return &Set{Dataset: sg.generate(samples), Inputs: inputs, Label: lf}, nil
}

/*
ReadCSVSetFromFilePath takes a filepath string, a slice of features, the name
of the label feature and a SetGenerator, opens the file to which the filepath
points to and uses ReadCSVSet to return a Set or an error read from it. An
empty filepath reads from STDIN.
*/
func ReadCSVSetFromFilePath(filepath string, features []feature.Feature, label string, sg SetGenerator) (*Set, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("opening CSV file: %v", err)
		}
		defer f.Close()
	}
	set, err := ReadCSVSet(f, features, label, sg)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return set, err
}

func parseFeaturesFromCSVHeader(header []string, features map[string]feature.Feature) ([]feature.Feature, error) {
	featureOrder := make([]feature.Feature, len(header))
	found := 0
	for i, name := range header {
		if f, ok := features[name]; ok {
			featureOrder[i] = f
			found++
		}
	}
	if found != len(features) {
		for name := range features {
			if !containsString(header, name) {
				return nil, fmt.Errorf("parsing header: missing column for feature %s", name)
			}
		}
	}
	return featureOrder, nil
}

func parseSampleFromCSVRow(row []string, featureOrder []feature.Feature) (dataset.Sample, error) {
	if len(row) != len(featureOrder) {
		return nil, fmt.Errorf("expected %d values, got %d", len(featureOrder), len(row))
	}
	featureValues := make(map[string]interface{})
	for i, f := range featureOrder {
		if f == nil {
			continue
		}
		v := row[i]
		var value interface{}
		if v != undefinedValue && v != "" {
			if _, ok := f.(*feature.ContinuousFeature); ok {
				fv, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("converting %s to float64: %v", v, err)
				}
				value = fv
			} else {
				value = v
			}
		}
		if ok, err := f.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v of type %T for feature %s: %v", value, value, f.Name(), err)
		}
		if value != nil {
			featureValues[f.Name()] = value
		}
	}
	return dataset.NewSample(featureValues), nil
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
