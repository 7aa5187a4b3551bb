package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nati35/NEMO/internal/sync"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type runnerFunc func(ctx context.Context) ([]sync.Report, error)

func (f runnerFunc) RunAll(ctx context.Context) ([]sync.Report, error) { return f(ctx) }

func TestScheduleSync(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New(zap.New(core))

	calls := make(chan struct{}, 10)
	err := s.ScheduleSync(context.Background(), 20*time.Millisecond, runnerFunc(func(context.Context) ([]sync.Report, error) {
		calls <- struct{}{}
		return nil, errors.New("source offline")
	}))
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("sync ran %d times, want at least 2", i)
		}
	}
	require.Eventually(t, func() bool {
		return logs.FilterMessage("periodic sync failed").Len() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

type sweeperFunc func(maxIdle time.Duration) int

func (f sweeperFunc) EvictIdleSessions(maxIdle time.Duration) int { return f(maxIdle) }

func TestScheduleSessionSweep(t *testing.T) {
	s := New(nil)

	got := make(chan time.Duration, 10)
	err := s.ScheduleSessionSweep(20*time.Millisecond, 30*time.Minute, sweeperFunc(func(maxIdle time.Duration) int {
		got <- maxIdle
		return 0
	}))
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case maxIdle := <-got:
		require.Equal(t, 30*time.Minute, maxIdle)
	case <-time.After(2 * time.Second):
		t.Fatal("session sweep never ran")
	}
}
