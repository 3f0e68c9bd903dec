// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{
				ID:                   "compute-esg-scores",
				DisplayName:          "Compute ESG Scores",
				Category:             "scoring",
				TaskType:             "compute-esg-scores",
				ImplementationStatus: StatusCompleted,
				Timeout:              "10s",
				Retries:              3,
			},
			{
				ID:                   "track-session-event",
				DisplayName:          "Track Session Event",
				Category:             "gamification",
				TaskType:             "track-session-event",
				ImplementationStatus: StatusCompleted,
				Timeout:              "5s",
				Retries:              3,
			},
		},
	}
}

// ==========================
// Lookup
// ==========================

func TestFindByTaskType(t *testing.T) {
	reg := sampleRegistry()

	a, ok := reg.FindByTaskType("track-session-event")
	require.True(t, ok)
	assert.Equal(t, "Track Session Event", a.DisplayName)

	_, ok = reg.FindByTaskType("send-invoice")
	assert.False(t, ok)
}

// ==========================
// Mutations
// ==========================

func TestAdd(t *testing.T) {
	tests := []struct {
		name     string
		activity Activity
		wantErr  bool
	}{
		{
			name: "new activity",
			activity: Activity{ID: "search-properties", TaskType: "search-properties",
				Category: "portfolio", ImplementationStatus: StatusPlanned},
		},
		{
			name: "duplicate id",
			activity: Activity{ID: "compute-esg-scores", TaskType: "other",
				Category: "scoring", ImplementationStatus: StatusPlanned},
			wantErr: true,
		},
		{
			name: "unknown category",
			activity: Activity{ID: "x", TaskType: "x",
				Category: "crm", ImplementationStatus: StatusPlanned},
			wantErr: true,
		},
		{
			name: "bad timeout",
			activity: Activity{ID: "y", TaskType: "y", Category: "targets",
				ImplementationStatus: StatusPlanned, Timeout: "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := sampleRegistry()
			err := reg.Add(tt.activity)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Len(t, reg.Activities, 2)
				return
			}
			require.NoError(t, err)
			assert.Len(t, reg.Activities, 3)
		})
	}
}

func TestUpdate(t *testing.T) {
	reg := sampleRegistry()

	require.NoError(t, reg.Update("compute-esg-scores", "status", StatusVerified))
	require.NoError(t, reg.Update("compute-esg-scores", "retries", "5"))
	require.NoError(t, reg.Update("compute-esg-scores", "timeout", "30s"))

	a, _ := reg.FindByTaskType("compute-esg-scores")
	assert.Equal(t, StatusVerified, a.ImplementationStatus)
	assert.Equal(t, 5, a.Retries)
	assert.Equal(t, "30s", a.Timeout)

	assert.ErrorIs(t, reg.Update("missing", "status", StatusPlanned), ErrActivityNotFound)
	assert.Error(t, reg.Update("compute-esg-scores", "status", "done"))
	assert.Error(t, reg.Update("compute-esg-scores", "retries", "-1"))
	assert.Error(t, reg.Update("compute-esg-scores", "taskType", "x"))
}

// ==========================
// Validation
// ==========================

func TestValidate(t *testing.T) {
	reg := sampleRegistry()
	assert.Empty(t, reg.Validate())

	reg.Activities = append(reg.Activities, Activity{
		ID: "compute-esg-scores", TaskType: "compute-esg-scores",
		Category: "scoring", ImplementationStatus: StatusPlanned,
	})
	problems := reg.Validate()
	assert.Len(t, problems, 2)
}

// ==========================
// Persistence
// ==========================

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity-registry.json")
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, SaveRegistry(path, sampleRegistry(), now))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T12:00:00Z", loaded.LastUpdated)
	assert.Len(t, loaded.Activities, 2)
}

func TestLoadRegistry_Missing(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
