// cmd/tools/portfolio-seeder/main_test.go
package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"esg-retrofit-workers/internal/cache"
	"esg-retrofit-workers/internal/models"
	"esg-retrofit-workers/internal/repository/synthetic"
)

type MockSink struct {
	mock.Mock
}

func (m *MockSink) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSink) SaveProperties(ctx context.Context, properties []models.Property) error {
	return m.Called(ctx, properties).Error(0)
}

func (m *MockSink) SaveTargets(ctx context.Context, targets []models.Target) error {
	return m.Called(ctx, targets).Error(0)
}

func (m *MockSink) SaveActions(ctx context.Context, actions []models.RetrofitAction) error {
	return m.Called(ctx, actions).Error(0)
}

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) EnsureIndex(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockIndexer) IndexProperties(ctx context.Context, properties []models.Property) error {
	return m.Called(ctx, properties).Error(0)
}

func newGenerator(t *testing.T) *synthetic.Generator {
	gen, err := synthetic.New(42, 15, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return gen
}

func TestSeed_AllTargets(t *testing.T) {
	sink := new(MockSink)
	sink.On("Migrate", mock.Anything).Return(nil)
	sink.On("SaveProperties", mock.Anything, mock.MatchedBy(func(p []models.Property) bool { return len(p) == 15 })).Return(nil)
	sink.On("SaveTargets", mock.Anything, mock.Anything).Return(nil)
	sink.On("SaveActions", mock.Anything, mock.MatchedBy(func(a []models.RetrofitAction) bool { return len(a) == 8 })).Return(nil)

	indexer := new(MockIndexer)
	indexer.On("EnsureIndex", mock.Anything).Return(nil)
	indexer.On("IndexProperties", mock.Anything, mock.Anything).Return(nil)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	scores := cache.NewScoreCache(rdb, time.Hour)
	gen := newGenerator(t)
	properties, err := gen.ListProperties(context.Background())
	require.NoError(t, err)
	require.NoError(t, mr.Set(cache.Key(properties[0].ID), `{"overallScore":1}`))

	s, err := seed(context.Background(), gen, sink, indexer, scores)

	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.Key(properties[0].ID)))
	assert.Equal(t, 15, s.Evicted)
	assert.Equal(t, 15, s.Properties)
	assert.Equal(t, 9, s.Targets)
	assert.Equal(t, 8, s.Actions)
	assert.True(t, s.Indexed)
	sink.AssertExpectations(t)
	indexer.AssertExpectations(t)
}

func TestSeed_IndexOnly(t *testing.T) {
	indexer := new(MockIndexer)
	indexer.On("EnsureIndex", mock.Anything).Return(nil)
	indexer.On("IndexProperties", mock.Anything, mock.Anything).Return(nil)

	s, err := seed(context.Background(), newGenerator(t), nil, indexer, nil)

	require.NoError(t, err)
	assert.Zero(t, s.Properties)
	assert.True(t, s.Indexed)
}

func TestSeed_MigrateFailureStops(t *testing.T) {
	sink := new(MockSink)
	sink.On("Migrate", mock.Anything).Return(errors.New("permission denied"))
	indexer := new(MockIndexer)

	_, err := seed(context.Background(), newGenerator(t), sink, indexer, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate")
	sink.AssertNotCalled(t, "SaveProperties", mock.Anything, mock.Anything)
	indexer.AssertNotCalled(t, "EnsureIndex", mock.Anything)
}
