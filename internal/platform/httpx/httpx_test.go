package httpx

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type statusErr int

func (s statusErr) Error() string       { return fmt.Sprintf("status %d", int(s)) }
func (s statusErr) HTTPStatusCode() int { return int(s) }

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{statusErr(503), true},
		{statusErr(429), true},
		{statusErr(403), false},
		{fmt.Errorf("wrapped: %w", statusErr(500)), true},
		{errors.New("decode failure"), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Errorf("IsRetryableError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	if got := Backoff(base, time.Second, 1); got != base {
		t.Fatalf("attempt 1: got %v", got)
	}
	if got := Backoff(base, time.Second, 3); got != 400*time.Millisecond {
		t.Fatalf("attempt 3: got %v", got)
	}
	if got := Backoff(base, time.Second, 10); got != time.Second {
		t.Fatalf("attempt 10 should cap: got %v", got)
	}
}

func TestJitterSleepBounds(t *testing.T) {
	base := time.Second
	for i := 0; i < 50; i++ {
		d := JitterSleep(base)
		if d < 800*time.Millisecond || d > 1200*time.Millisecond {
			t.Fatalf("jitter out of bounds: %v", d)
		}
	}
}
