// internal/esg/errors.go
package esg

import (
	"errors"
	"fmt"
)

var (
	ErrMissingMetric     = errors.New("MISSING_METRIC")
	ErrDivisionUndefined = errors.New("DIVISION_UNDEFINED")
)

// MissingMetricError names the raw input that was absent.
type MissingMetricError struct {
	Field string
}

func (e *MissingMetricError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingMetric, e.Field)
}

func (e *MissingMetricError) Is(target error) bool {
	return target == ErrMissingMetric
}
