// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"esg-retrofit-workers/pkg/registry"
)

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		err = runAdd(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	default:
		help()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	path := fs.String("path", "configs/activity-registry.json", "Path to registry file")
	id := fs.String("id", "", "Activity ID (e.g., compute-esg-scores)")
	displayName := fs.String("displayName", "", "Display name")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "", "Category (scoring, retrofit, targets, portfolio, gamification)")
	taskType := fs.String("taskType", "", "Zeebe job type")
	version := fs.String("version", "1.0.0", "Version")
	status := fs.String("status", registry.StatusPlanned, "planned, in-progress, completed or verified")
	timeout := fs.String("timeout", "10s", "Job timeout")
	retries := fs.Int("retries", 3, "Job retries")
	_ = fs.Parse(args)

	if *id == "" || *displayName == "" || *category == "" || *taskType == "" {
		fs.Usage()
		return fmt.Errorf("id, displayName, category and taskType are required")
	}

	reg, err := registry.LoadRegistry(*path)
	if os.IsNotExist(err) {
		reg, err = &registry.ActivityRegistry{Version: "1.0.0"}, nil
	}
	if err != nil {
		return err
	}

	err = reg.Add(registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		InputSchema:          map[string]interface{}{},
		OutputSchema:         map[string]interface{}{},
		ErrorCodes:           []string{},
		Timeout:              *timeout,
		Retries:              *retries,
		Workflows:            []string{},
		Tags:                 []string{},
	})
	if err != nil {
		return err
	}
	if err := registry.SaveRegistry(*path, reg, time.Now()); err != nil {
		return err
	}
	fmt.Printf("Added activity: %s\n", *id)
	return nil
}

func runUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	path := fs.String("path", "configs/activity-registry.json", "Path to registry file")
	id := fs.String("id", "", "Activity ID to update")
	field := fs.String("field", "", "status, version, description, displayName, timeout or retries")
	value := fs.String("value", "", "New value")
	_ = fs.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return fmt.Errorf("id, field and value are required")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return err
	}
	if err := reg.Update(*id, *field, *value); err != nil {
		return err
	}
	if err := registry.SaveRegistry(*path, reg, time.Now()); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", "configs/activity-registry.json", "Path to registry file")
	_ = fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return err
	}
	if len(reg.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}
	problems := reg.Validate()
	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "  - %v\n", p)
	}
	if len(problems) > 0 {
		return fmt.Errorf("registry validation failed with %d problem(s)", len(problems))
	}
	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add       Add a new activity to the registry
  update    Update an existing activity's field
  validate  Validate the registry file
  help      Show this help message

Examples:
  registry-updater add -id compute-esg-scores -displayName "Compute ESG Scores" -category scoring -taskType compute-esg-scores
  registry-updater update -id compute-esg-scores -field status -value completed
  registry-updater validate -path configs/activity-registry.json`)
}
