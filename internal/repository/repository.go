// Package repository defines the data providers the workers read the portfolio from.
package repository

import (
	"context"
	"errors"
	"fmt"

	"esg-retrofit-workers/internal/models"
)

var (
	ErrPropertyNotFound = errors.New("PROPERTY_NOT_FOUND")
	ErrUnknownAction    = errors.New("UNKNOWN_RETROFIT_ACTION")
)

type PropertyRepository interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
	GetProperty(ctx context.Context, id string) (*models.Property, error)
}

type TargetRepository interface {
	ListTargets(ctx context.Context) ([]models.Target, error)
}

type RetrofitCatalog interface {
	ListActions(ctx context.Context) ([]models.RetrofitAction, error)
}

// Portfolio is a data source serving properties, targets and the retrofit catalog.
type Portfolio interface {
	PropertyRepository
	TargetRepository
	RetrofitCatalog
}

// UnknownActionError names the selected id missing from the catalog.
type UnknownActionError struct {
	ID string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownAction.Error(), e.ID)
}

func (e *UnknownActionError) Is(target error) bool {
	return target == ErrUnknownAction
}

// SelectActions resolves selected ids against the catalog. Selection has set semantics:
// duplicates collapse and the result follows catalog order.
func SelectActions(catalog []models.RetrofitAction, ids []string) ([]models.RetrofitAction, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	selected := make([]models.RetrofitAction, 0, len(wanted))
	for _, action := range catalog {
		if wanted[action.ID] {
			selected = append(selected, action)
			delete(wanted, action.ID)
		}
	}
	for _, id := range ids {
		if wanted[id] {
			return nil, &UnknownActionError{ID: id}
		}
	}
	return selected, nil
}

// FindAction looks up one catalog entry by id.
func FindAction(catalog []models.RetrofitAction, id string) (models.RetrofitAction, error) {
	for _, action := range catalog {
		if action.ID == id {
			return action, nil
		}
	}
	return models.RetrofitAction{}, &UnknownActionError{ID: id}
}
