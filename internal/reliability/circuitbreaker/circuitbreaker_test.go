package circuitbreaker

import (
	"testing"
	"time"
)

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := New(3, 1, time.Minute)
	for i := 0; i < 2; i++ {
		b.Failure()
	}
	if b.State() != StateClosed {
		t.Fatalf("expected closed after 2 failures, got %s", b.State())
	}
	b.Failure()
	if b.State() != StateOpen {
		t.Fatalf("expected open, got %s", b.State())
	}
	if b.Allow() {
		t.Fatalf("open breaker must reject during cooldown")
	}
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b := New(2, 1, time.Minute)
	b.Failure()
	b.Success()
	b.Failure()
	if b.State() != StateClosed {
		t.Fatalf("non-consecutive failures must not open the breaker")
	}
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New(1, 2, 30*time.Second)
	b.now = func() time.Time { return now }

	var transitions []string
	b.OnStateChange(func(from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	b.Failure()
	now = now.Add(31 * time.Second)
	if !b.Allow() {
		t.Fatalf("expected probe after cooldown")
	}
	if b.State() != StateHalfOpen {
		t.Fatalf("expected half_open, got %s", b.State())
	}

	b.Success()
	if b.State() != StateHalfOpen {
		t.Fatalf("one success must not close with threshold 2")
	}
	b.Success()
	if b.State() != StateClosed {
		t.Fatalf("expected closed, got %s", b.State())
	}

	want := []string{"closed->open", "open->half_open", "half_open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", transitions, want)
		}
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New(1, 1, time.Second)
	b.now = func() time.Time { return now }

	b.Failure()
	now = now.Add(2 * time.Second)
	b.Allow()
	b.Failure()
	if b.State() != StateOpen {
		t.Fatalf("expected reopen, got %s", b.State())
	}
	if b.Allow() {
		t.Fatalf("cooldown restarts on reopen")
	}
}
