package jitter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/DRSN-tech/store/pkg/jitter"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: 100 * time.Millisecond},
		{attempt: 1, want: 200 * time.Millisecond},
		{attempt: 2, want: 400 * time.Millisecond},
		{attempt: 3, want: 500 * time.Millisecond},
		{attempt: 10, want: 500 * time.Millisecond},
	}

	for _, tt := range tests {
		got := jitter.Backoff(100*time.Millisecond, 500*time.Millisecond, tt.attempt)
		qt.Assert(t, got, qt.Equals, tt.want, qt.Commentf("attempt %d", tt.attempt))
	}
}

func TestDurationRange(t *testing.T) {
	c := qt.New(t)

	for i := 0; i < 100; i++ {
		d := jitter.Duration(time.Second, jitter.DefaultJitter)
		c.Assert(d >= time.Second, qt.IsTrue)
		c.Assert(d <= 1500*time.Millisecond, qt.IsTrue)
	}
}

func TestRetrySucceedsEventually(t *testing.T) {
	c := qt.New(t)

	calls := 0
	err := jitter.Retry(context.Background(), jitter.Policy{Attempts: 3, Base: time.Millisecond, Max: time.Millisecond}, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	c.Assert(err, qt.IsNil)
	c.Assert(calls, qt.Equals, 3)
}

func TestRetryExhausted(t *testing.T) {
	c := qt.New(t)

	boom := errors.New("no such host")
	calls := 0
	err := jitter.Retry(context.Background(), jitter.Policy{Attempts: 2, Base: time.Millisecond, Max: time.Millisecond}, func(context.Context) error {
		calls++
		return boom
	})

	c.Assert(err, qt.ErrorIs, boom)
	c.Assert(calls, qt.Equals, 2)
}

func TestRetryStopsOnContext(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	err := jitter.Retry(ctx, jitter.Policy{Attempts: 5, Base: time.Hour, Max: time.Hour}, func(context.Context) error {
		cancel()
		return errors.New("i/o timeout")
	})

	c.Assert(err, qt.ErrorIs, context.Canceled)
}
