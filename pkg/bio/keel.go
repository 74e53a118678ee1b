package bio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/feature"
)

const undefinedValue = "?"

var (
	keelAttribute = regexp.MustCompile(`(?i)^@attribute\s+(\S+)\s*(.*)$`)
	keelNominal   = regexp.MustCompile(`^\{(.*)\}`)
	keelList      = regexp.MustCompile(`,\s*|\s+`)
)

/*
ReadKEELSet takes an io.Reader for a dataset in the KEEL .dat format and a
SetGenerator and returns a Set with the samples parsed from the reader or an
error.

Attributes declared as integer or real are read as continuous features,
attributes declared with a list of values between braces are read as
discrete features. The input features are those listed in the @inputs
declaration, or every attribute but the last one if there is none. The label
is the attribute named in the @outputs declaration, or the last one.

Continuous values that cannot be parsed as numbers, like the '?' marker, are
read as undefined.
*/
func ReadKEELSet(reader io.Reader, sg SetGenerator) (*Set, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var columns []feature.Feature
	var inputNames []string
	var outputName string
	l := 0
	data := false
	for !data && scanner.Scan() {
		l++
		line := strings.TrimSpace(scanner.Text())
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "@attribute"):
			f, err := parseKEELAttribute(line)
			if err != nil {
				return nil, fmt.Errorf("parsing line %d: %v", l, err)
			}
			columns = append(columns, f)
		case strings.HasPrefix(lower, "@inputs"):
			inputNames = keelList.Split(line, -1)[1:]
		case strings.HasPrefix(lower, "@output"):
			if names := keelList.Split(line, -1)[1:]; len(names) > 0 {
				outputName = names[0]
			}
		case strings.HasPrefix(lower, "@data"):
			data = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	if !data {
		return nil, fmt.Errorf("missing @data declaration")
	}
	if len(columns) < 2 {
		return nil, fmt.Errorf("expected at least 2 attributes, got %d", len(columns))
	}
	set, err := keelFeatures(columns, inputNames, outputName)
	if err != nil {
		return nil, err
	}
	samples := []dataset.Sample{}
	for scanner.Scan() {
		l++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		row := strings.Split(line, ",")
		if len(row) != len(columns) {
			return nil, fmt.Errorf("parsing line %d: expected %d values, got %d", l, len(columns), len(row))
		}
		sample, err := parseKEELRow(row, columns, set.Label)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %v", l, err)
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading body: %v", err)
	}
	set.Dataset = sg.generate(samples)
	return set, nil
}

/*
ReadKEELSetFromFilePath takes a filepath string and a SetGenerator, opens the
file to which the filepath points to and uses ReadKEELSet to return a Set or
an error read from it.
*/
func ReadKEELSetFromFilePath(filepath string, sg SetGenerator) (*Set, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("opening KEEL file: %v", err)
	}
	defer f.Close()
	set, err := ReadKEELSet(f, sg)
	if err != nil {
		err = fmt.Errorf("parsing KEEL file %s: %v", filepath, err)
	}
	return set, err
}

func parseKEELAttribute(line string) (feature.Feature, error) {
	m := keelAttribute.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("malformed attribute declaration %q", line)
	}
	name, declaration := m[1], strings.TrimSpace(m[2])
	if n := keelNominal.FindStringSubmatch(declaration); n != nil {
		var values []string
		for _, v := range strings.Split(n[1], ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		return feature.NewDiscreteFeature(name, values), nil
	}
	if strings.HasPrefix(name, "{") {
		return nil, fmt.Errorf("malformed attribute declaration %q", line)
	}
	kind := strings.ToLower(strings.Fields(declaration + " real")[0])
	switch {
	case strings.HasPrefix(kind, "real"), strings.HasPrefix(kind, "integer"), strings.HasPrefix(kind, "numeric"):
		return feature.NewContinuousFeature(name), nil
	}
	return nil, fmt.Errorf("unknown type %q for attribute %s", kind, name)
}

func keelFeatures(columns []feature.Feature, inputNames []string, outputName string) (*Set, error) {
	byName := featureSliceToMap(columns)
	set := &Set{Label: columns[len(columns)-1]}
	if outputName != "" {
		label, ok := byName[outputName]
		if !ok {
			return nil, fmt.Errorf("unknown output attribute %s", outputName)
		}
		set.Label = label
	}
	set.Label = labelFeature(set.Label)
	if len(inputNames) == 0 {
		for _, f := range columns {
			if f.Name() != set.Label.Name() {
				set.Inputs = append(set.Inputs, f)
			}
		}
		return set, nil
	}
	for _, name := range inputNames {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown input attribute %s", name)
		}
		set.Inputs = append(set.Inputs, f)
	}
	return set, nil
}

// labelFeature returns a discrete feature for f: labels are always read as strings.
func labelFeature(f feature.Feature) feature.Feature {
	if _, ok := f.(*feature.DiscreteFeature); ok {
		return f
	}
	return feature.NewDiscreteFeature(f.Name(), nil)
}

func parseKEELRow(row []string, columns []feature.Feature, label feature.Feature) (dataset.Sample, error) {
	featureValues := make(map[string]interface{}, len(columns))
	for i, f := range columns {
		v := strings.TrimSpace(row[i])
		if v == undefinedValue || v == "" {
			continue
		}
		if f.Name() == label.Name() {
			f = label
		}
		if _, ok := f.(*feature.ContinuousFeature); ok {
			value, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(value) {
				continue
			}
			featureValues[f.Name()] = value
			continue
		}
		if df, ok := f.(*feature.DiscreteFeature); ok {
			if ok, err := df.Valid(v); !ok {
				return nil, err
			}
		}
		featureValues[f.Name()] = v
	}
	return dataset.NewSample(featureValues), nil
}
