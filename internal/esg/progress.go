// internal/esg/progress.go
package esg

import "fmt"

// TargetValue is the current and goal value of one target.
type TargetValue struct {
	Current float64 `json:"currentValue"`
	Target  float64 `json:"targetValue"`
}

// TargetProgress returns current/target*100. Values above 100 are kept.
// A zero target is rejected with ErrDivisionUndefined.
func TargetProgress(current, target float64) (float64, error) {
	if target == 0 {
		return 0, fmt.Errorf("%w: target value is zero", ErrDivisionUndefined)
	}
	return current / target * 100, nil
}

// CategoryProgress returns the ratio of summed current values to summed target values,
// as a percentage. It is not the mean of the individual percentages.
func CategoryProgress(targets []TargetValue) (float64, error) {
	var current, target float64
	for _, t := range targets {
		current += t.Current
		target += t.Target
	}
	if target == 0 {
		return 0, fmt.Errorf("%w: category target sum is zero", ErrDivisionUndefined)
	}
	return current / target * 100, nil
}
