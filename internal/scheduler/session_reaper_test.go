package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/silahub/site/internal/logger"
)

type fakeExpirer struct {
	calls  atomic.Int32
	maxAge atomic.Int64
	err    error
}

func (f *fakeExpirer) Expire(_ context.Context, maxAge time.Duration) (bool, error) {
	f.calls.Add(1)
	f.maxAge.Store(int64(maxAge))
	return f.err == nil, f.err
}

func TestSessionReaperRunsImmediatelyAndOnTick(t *testing.T) {
	exp := &fakeExpirer{}
	r := NewSessionReaper(exp, logger.NewNop(), 10*time.Millisecond, 12*time.Hour)

	r.Start(context.Background())
	defer r.Stop()

	if exp.calls.Load() < 1 {
		t.Fatal("Start() should reap once before returning")
	}
	if got := time.Duration(exp.maxAge.Load()); got != 12*time.Hour {
		t.Errorf("maxAge = %v, want 12h", got)
	}

	deadline := time.Now().Add(time.Second)
	for exp.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if exp.calls.Load() < 3 {
		t.Errorf("reaper ran %d times, want at least 3", exp.calls.Load())
	}
}

func TestSessionReaperSurvivesErrors(t *testing.T) {
	exp := &fakeExpirer{err: errors.New("redis down")}
	r := NewSessionReaper(exp, logger.NewNop(), time.Hour, time.Hour)

	r.Reap(context.Background())
	r.Reap(context.Background())

	if exp.calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", exp.calls.Load())
	}
}
