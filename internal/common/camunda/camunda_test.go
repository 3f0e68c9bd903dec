// internal/common/camunda/camunda_test.go
package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"esg-retrofit-workers/internal/common/errors"
	"esg-retrofit-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(maxRetries int) *Client {
	return &Client{config: &ClientConfig{
		ConnectionTimeout: time.Second,
		RetryConfig:       &RetryConfig{MaxRetries: maxRetries, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
	}}
}

// ==========================
// ExecuteWithRetry
// ==========================

func TestExecuteWithRetry(t *testing.T) {
	t.Run("transient error retried until success", func(t *testing.T) {
		calls := 0
		err := testClient(3).ExecuteWithRetry(context.Background(), func(context.Context) error {
			calls++
			if calls < 3 {
				return stderrors.New("rpc error: code = Unavailable desc = connection refused")
			}
			return nil
		}, "topology")

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("retry budget exhausted", func(t *testing.T) {
		calls := 0
		err := testClient(2).ExecuteWithRetry(context.Background(), func(context.Context) error {
			calls++
			return stderrors.New("context deadline exceeded")
		}, "topology")

		require.Error(t, err)
		assert.Equal(t, 3, calls)

		var stdErr *errors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, errors.ErrCodeTimeout, stdErr.Code)
	})

	t.Run("permanent error not retried", func(t *testing.T) {
		calls := 0
		err := testClient(3).ExecuteWithRetry(context.Background(), func(context.Context) error {
			calls++
			return stderrors.New("permission denied")
		}, "topology")

		assert.Equal(t, 1, calls)
		var stdErr *errors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, errors.ErrCodeAuthenticationFailed, stdErr.Code)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := testClient(5)
		c.config.RetryConfig.BaseDelay = time.Second
		err := c.ExecuteWithRetry(ctx, func(context.Context) error {
			return stderrors.New("connection reset by peer")
		}, "topology")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

// ==========================
// Instrument
// ==========================

func TestInstrument(t *testing.T) {
	const taskType = "instrument-test"
	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Type: taskType}}

	ok := Instrument(taskType, JobHandlerFunc(func(worker.JobClient, entities.Job) error { return nil }), nil)
	failing := Instrument(taskType, JobHandlerFunc(func(worker.JobClient, entities.Job) error {
		return stderrors.New("thrown")
	}), nil)

	ok(nil, job)
	ok(nil, job)
	failing(nil, job)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(taskType)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
}
