package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan struct{}, d time.Duration) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(d):
		t.Fatal("task did not fire in time")
	}
}

func TestAddTickerRuns(t *testing.T) {
	s := New(nil)
	defer s.Stop()

	fired := make(chan struct{}, 1)
	s.AddTicker("tick", 10*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	waitFor(t, fired, time.Second)
	assert.Equal(t, []string{"tick"}, s.ListTickers())
}

func TestAddDelayRunsOnce(t *testing.T) {
	s := New(nil)
	defer s.Stop()

	var n atomic.Int32
	done := make(chan struct{}, 1)
	s.AddDelay("once", 10*time.Millisecond, func() {
		n.Add(1)
		select {
		case done <- struct{}{}:
		default:
		}
	})
	waitFor(t, done, time.Second)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), n.Load())
}

func TestRemoveStopsTicker(t *testing.T) {
	s := New(nil)
	defer s.Stop()

	var n atomic.Int32
	started := make(chan struct{}, 1)
	s.AddTicker("tick", 10*time.Millisecond, func() {
		n.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
	})
	waitFor(t, started, time.Second)
	s.Remove("tick")
	assert.Empty(t, s.ListTickers())

	// Let any in-flight invocation finish before sampling.
	time.Sleep(20 * time.Millisecond)
	seen := n.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, seen, n.Load())
}

func TestReplaceTicker(t *testing.T) {
	s := New(nil)
	defer s.Stop()

	s.AddTicker("tick", time.Hour, func() {})
	replaced := make(chan struct{}, 1)
	s.AddTicker("tick", 10*time.Millisecond, func() {
		select {
		case replaced <- struct{}{}:
		default:
		}
	})
	require.Len(t, s.ListTickers(), 1)
	waitFor(t, replaced, time.Second)
}

func TestPanicContained(t *testing.T) {
	s := New(nil)
	defer s.Stop()

	after := make(chan struct{}, 1)
	s.AddDelay("boom", time.Millisecond, func() { panic("boom") })
	s.AddDelay("next", 20*time.Millisecond, func() {
		select {
		case after <- struct{}{}:
		default:
		}
	})
	// A panicking task must not take the scheduler down with it.
	waitFor(t, after, time.Second)
}
