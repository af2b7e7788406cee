package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSimulatorProcess(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	s := &Simulator{now: func() time.Time { return fixed }}

	r, err := s.Process(context.Background(), 900, "UPI")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if r.Status != "completed" {
		t.Fatalf("status = %q, want completed", r.Status)
	}
	if r.Amount != 900 || r.Method != "UPI" {
		t.Fatalf("receipt = %+v", r)
	}
	if !strings.HasPrefix(r.TransactionID, "TXN") {
		t.Fatalf("transaction id = %q, want TXN prefix", r.TransactionID)
	}
	if !r.Date.Equal(fixed) {
		t.Fatalf("date = %v, want %v", r.Date, fixed)
	}
}

func TestSimulatorRejectsInvalidCharge(t *testing.T) {
	s := NewSimulator(0)
	for _, tc := range []struct {
		amount float64
		method string
	}{
		{0, "UPI"},
		{-10, "UPI"},
		{900, ""},
	} {
		if _, err := s.Process(context.Background(), tc.amount, tc.method); !errors.Is(err, ErrInvalidCharge) {
			t.Fatalf("Process(%v, %q): expected ErrInvalidCharge, got %v", tc.amount, tc.method, err)
		}
	}
}

func TestSimulatorHonorsCancellation(t *testing.T) {
	s := NewSimulator(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Process(ctx, 900, "UPI"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
