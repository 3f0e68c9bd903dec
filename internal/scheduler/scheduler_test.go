package scheduler

import (
	"context"
	"errors"
	"testing"

	"esg-retrofit-workers/internal/common/metrics"
	"esg-retrofit-workers/internal/esg"
	"esg-retrofit-workers/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockSource struct{ mock.Mock }

func (m *MockSource) ListProperties(ctx context.Context) ([]models.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

type MockIndexer struct{ mock.Mock }

func (m *MockIndexer) EnsureIndex(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockIndexer) IndexProperties(ctx context.Context, properties []models.Property) error {
	return m.Called(ctx, properties).Error(0)
}

type MockCache struct{ mock.Mock }

func (m *MockCache) Set(ctx context.Context, propertyID string, scores esg.Scores) error {
	return m.Called(ctx, propertyID, scores).Error(0)
}

func portfolio() []models.Property {
	return []models.Property{
		{ID: "PROP-001", Scores: esg.Scores{Environmental: 68, Social: 82, Governance: 85, Overall: 75.6}},
		{ID: "PROP-002", Scores: esg.Scores{Environmental: 40, Social: 50, Governance: 60, Overall: 47}},
	}
}

// ==========================
// Reindex
// ==========================

func TestScheduler_Reindex(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(src *MockSource, idx *MockIndexer)
		expectErr bool
	}{
		{
			name: "indexes full portfolio",
			setup: func(src *MockSource, idx *MockIndexer) {
				src.On("ListProperties", mock.Anything).Return(portfolio(), nil)
				idx.On("EnsureIndex", mock.Anything).Return(nil)
				idx.On("IndexProperties", mock.Anything, portfolio()).Return(nil)
			},
		},
		{
			name: "source failure stops run",
			setup: func(src *MockSource, idx *MockIndexer) {
				src.On("ListProperties", mock.Anything).Return(nil, errors.New("db down"))
			},
			expectErr: true,
		},
		{
			name: "index creation failure",
			setup: func(src *MockSource, idx *MockIndexer) {
				src.On("ListProperties", mock.Anything).Return(portfolio(), nil)
				idx.On("EnsureIndex", mock.Anything).Return(errors.New("cluster red"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, idx := &MockSource{}, &MockIndexer{}
			tt.setup(src, idx)

			s := NewScheduler(Config{}, src, idx, nil, zaptest.NewLogger(t))
			err := s.Reindex(context.Background())

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			src.AssertExpectations(t)
			idx.AssertExpectations(t)
		})
	}
}

// ==========================
// WarmCache
// ==========================

func TestScheduler_WarmCache_ContinuesAfterFailedWrite(t *testing.T) {
	src, cache := &MockSource{}, &MockCache{}
	props := portfolio()
	src.On("ListProperties", mock.Anything).Return(props, nil)
	cache.On("Set", mock.Anything, "PROP-001", props[0].Scores).Return(errors.New("redis timeout"))
	cache.On("Set", mock.Anything, "PROP-002", props[1].Scores).Return(nil)

	s := NewScheduler(Config{}, src, nil, cache, zaptest.NewLogger(t))
	err := s.WarmCache(context.Background())

	assert.EqualError(t, err, "redis timeout")
	cache.AssertNumberOfCalls(t, "Set", 2)
}

func TestScheduler_RecordsRunOutcome(t *testing.T) {
	src, cache := &MockSource{}, &MockCache{}
	src.On("ListProperties", mock.Anything).Return(portfolio(), nil)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	before := testutil.ToFloat64(metrics.ESGScheduledRuns.WithLabelValues(JobWarmCache, "success"))
	NewScheduler(Config{}, src, nil, cache, nil).runWarmCache()
	after := testutil.ToFloat64(metrics.ESGScheduledRuns.WithLabelValues(JobWarmCache, "success"))

	assert.Equal(t, before+1, after)
}

// ==========================
// Registration
// ==========================

func TestScheduler_StartRegistersValidJobs(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		entries int
	}{
		{name: "both jobs", cfg: Config{ReindexCron: "*/30 * * * *", WarmCacheCron: "0 * * * *"}, entries: 2},
		{name: "invalid reindex spec skipped", cfg: Config{ReindexCron: "every now and then", WarmCacheCron: "0 * * * *"}, entries: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(tt.cfg, &MockSource{}, &MockIndexer{}, &MockCache{}, zaptest.NewLogger(t))
			s.Start()
			defer s.Stop()

			require.Equal(t, tt.entries, s.Entries())
		})
	}
}
