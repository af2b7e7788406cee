// Package payment is the payment collaborator. The portal does not process
// real money: the processor simulates a synchronous charge with a
// configurable latency and records the outcome. No application is ever
// created before a completed payment is observed.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCharge is returned for a non-positive amount or empty method.
var ErrInvalidCharge = errors.New("invalid charge request")

// Receipt is the outcome of a charge. Status uses the application payment
// status values ("completed" on success).
type Receipt struct {
	Status        string
	Amount        float64
	TransactionID string
	Method        string
	Date          time.Time
}

// Processor accepts a charge and returns a receipt. Implementations must be
// synchronous: the caller decides whether to persist anything based on the
// returned status.
type Processor interface {
	Process(ctx context.Context, amount float64, method string) (Receipt, error)
}

// Simulator is the default Processor. It waits Delay (standing in for
// gateway latency), then succeeds with a TXN<unix-millis> transaction id.
// A cancelled context aborts the charge before anything is recorded.
type Simulator struct {
	Delay time.Duration
	// now is swappable in tests.
	now func() time.Time
}

// NewSimulator returns a Simulator with the given artificial latency.
func NewSimulator(delay time.Duration) *Simulator {
	return &Simulator{Delay: delay, now: func() time.Time { return time.Now().UTC() }}
}

// Process implements Processor.
func (s *Simulator) Process(ctx context.Context, amount float64, method string) (Receipt, error) {
	if amount <= 0 || method == "" {
		return Receipt{}, ErrInvalidCharge
	}
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-t.C:
		}
	}
	now := s.now()
	return Receipt{
		Status:        "completed",
		Amount:        amount,
		TransactionID: fmt.Sprintf("TXN%d", now.UnixMilli()),
		Method:        method,
		Date:          now,
	}, nil
}
