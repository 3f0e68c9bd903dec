package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"esg-retrofit-workers/internal/esg"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceScores = esg.Scores{Environmental: 68, Social: 82, Governance: 85, Overall: 75.6}

func TestScoreCache_Get(t *testing.T) {
	payload, _ := json.Marshal(referenceScores)

	tests := []struct {
		name        string
		setupMock   func(mock redismock.ClientMock)
		expectFound bool
		expectErr   bool
	}{
		{
			name: "hit",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectGet("esg:scores:PROP-001").SetVal(string(payload))
			},
			expectFound: true,
		},
		{
			name: "miss",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectGet("esg:scores:PROP-001").RedisNil()
			},
		},
		{
			name: "redis error",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectGet("esg:scores:PROP-001").SetErr(errors.New("connection refused"))
			},
			expectErr: true,
		},
		{
			name: "corrupt entry",
			setupMock: func(mock redismock.ClientMock) {
				mock.ExpectGet("esg:scores:PROP-001").SetVal("{")
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			tt.setupMock(mock)

			scores, found, err := NewScoreCache(client, time.Hour).Get(context.Background(), "PROP-001")

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectFound, found)
			if tt.expectFound {
				assert.Equal(t, referenceScores, *scores)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestScoreCache_SetAndInvalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	payload, _ := json.Marshal(referenceScores)

	mock.ExpectSet("esg:scores:PROP-001", payload, time.Hour).SetVal("OK")
	mock.ExpectDel("esg:scores:PROP-001", "esg:scores:PROP-002").SetVal(2)

	c := NewScoreCache(client, time.Hour)
	require.NoError(t, c.Set(context.Background(), "PROP-001", referenceScores))
	require.NoError(t, c.Invalidate(context.Background(), "PROP-001", "PROP-002"))
	require.NoError(t, c.Invalidate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
