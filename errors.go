package canopy

import "fmt"

/*
ConfigError is the error returned when a Pot is configured or invoked in a
way that can never succeed, such as a split count below 2 or an empty
training set. It signals a defect in the caller rather than in the data.
*/
type ConfigError struct {
	msg string
}

func (ce *ConfigError) Error() string {
	return "invalid configuration: " + ce.msg
}

func configErrorf(format string, a ...interface{}) error {
	return &ConfigError{fmt.Sprintf(format, a...)}
}

/*
ErrNoFeatures is the error returned by SelectFeature when given no
candidate features.
*/
var ErrNoFeatures error = &ConfigError{"no candidate features to select from"}
