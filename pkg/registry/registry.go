// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var (
	ErrActivityExists   = errors.New("activity already exists")
	ErrActivityNotFound = errors.New("activity not found")
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry stamps LastUpdated and writes the registry as indented JSON.
func SaveRegistry(path string, reg *ActivityRegistry, now time.Time) error {
	reg.LastUpdated = now.UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// FindByTaskType returns the activity registered for a job type.
func (r *ActivityRegistry) FindByTaskType(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

func (r *ActivityRegistry) find(id string) *Activity {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i]
		}
	}
	return nil
}

func (r *ActivityRegistry) Add(activity Activity) error {
	if r.find(activity.ID) != nil {
		return fmt.Errorf("%w: %s", ErrActivityExists, activity.ID)
	}
	if err := validateActivity(activity); err != nil {
		return err
	}
	r.Activities = append(r.Activities, activity)
	return nil
}

// Update sets a single scalar field on the activity with the given id.
func (r *ActivityRegistry) Update(id, field, value string) error {
	a := r.find(id)
	if a == nil {
		return fmt.Errorf("%w: %s", ErrActivityNotFound, id)
	}

	switch field {
	case "status":
		if !validStatuses[value] {
			return fmt.Errorf("invalid status %q", value)
		}
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "description":
		a.Description = value
	case "displayName":
		a.DisplayName = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		a.Timeout = value
	case "retries":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid retries %q", value)
		}
		a.Retries = n
	default:
		return fmt.Errorf("unsupported field %q", field)
	}
	return nil
}

// Validate returns one error per problem found; an empty slice means the registry is usable.
func (r *ActivityRegistry) Validate() []error {
	var problems []error
	ids := make(map[string]bool, len(r.Activities))
	taskTypes := make(map[string]bool, len(r.Activities))

	for _, a := range r.Activities {
		if ids[a.ID] {
			problems = append(problems, fmt.Errorf("duplicate id %q", a.ID))
		}
		ids[a.ID] = true
		if a.TaskType != "" && taskTypes[a.TaskType] {
			problems = append(problems, fmt.Errorf("duplicate taskType %q", a.TaskType))
		}
		taskTypes[a.TaskType] = true

		if err := validateActivity(a); err != nil {
			problems = append(problems, err)
		}
	}
	return problems
}

func validateActivity(a Activity) error {
	if a.ID == "" || a.TaskType == "" {
		return fmt.Errorf("activity %q: id and taskType are required", a.ID)
	}
	if !validCategories[a.Category] {
		return fmt.Errorf("activity %q: unknown category %q", a.ID, a.Category)
	}
	if !validStatuses[a.ImplementationStatus] {
		return fmt.Errorf("activity %q: invalid status %q", a.ID, a.ImplementationStatus)
	}
	if a.Timeout != "" {
		if _, err := time.ParseDuration(a.Timeout); err != nil {
			return fmt.Errorf("activity %q: invalid timeout %q", a.ID, a.Timeout)
		}
	}
	return nil
}
