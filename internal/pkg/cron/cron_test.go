package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunNowRecordsOutcome(t *testing.T) {
	s := New()
	fail := true
	s.Register(Job{Name: "flaky", Interval: time.Hour, Fn: func(context.Context) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	}})

	err := s.RunNow(context.Background(), "flaky")
	require.Error(t, err)
	status, msg, err := s.Status("flaky")
	require.NoError(t, err)
	assert.Equal(t, StatusReject, status)
	assert.Equal(t, "boom", msg)

	fail = false
	require.NoError(t, s.RunNow(context.Background(), "flaky"))
	status, _, _ = s.Status("flaky")
	assert.Equal(t, StatusFulfill, status)

	assert.Error(t, s.RunNow(context.Background(), "missing"))
}

func TestStartRunsOnInterval(t *testing.T) {
	s := New()
	var runs atomic.Int32
	s.Register(Job{Name: "tick", Interval: 10 * time.Millisecond, Fn: func(context.Context) error {
		runs.Add(1)
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
