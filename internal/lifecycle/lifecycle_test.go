package lifecycle

import (
	"errors"
	"testing"
)

func TestApplyAllowed(t *testing.T) {
	cases := []struct {
		from Status
		ev   Event
		want Status
	}{
		{StatusUnderReview, EventApprove, StatusApproved},
		{StatusUnderReview, EventReject, StatusRejected},
		{StatusPending, EventApprove, StatusApproved},
		{StatusPending, EventReject, StatusRejected},
	}
	for _, tc := range cases {
		got, err := Apply(tc.from, tc.ev)
		if err != nil {
			t.Fatalf("Apply(%s, %s): unexpected error %v", tc.from, tc.ev, err)
		}
		if got != tc.want {
			t.Fatalf("Apply(%s, %s) = %s, want %s", tc.from, tc.ev, got, tc.want)
		}
	}
}

func TestTerminalStatusesRejectEverything(t *testing.T) {
	for _, from := range []Status{StatusApproved, StatusRejected} {
		for _, ev := range []Event{EventApprove, EventReject} {
			if _, err := Apply(from, ev); !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("Apply(%s, %s): expected ErrInvalidTransition, got %v", from, ev, err)
			}
		}
	}
}

func TestApplyUnknownStatus(t *testing.T) {
	if _, err := Apply(Status("draft"), EventApprove); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestTerminal(t *testing.T) {
	for s, want := range map[Status]bool{
		StatusPending:     false,
		StatusUnderReview: false,
		StatusApproved:    true,
		StatusRejected:    true,
	} {
		if got := Terminal(s); got != want {
			t.Fatalf("Terminal(%s) = %v, want %v", s, got, want)
		}
	}
}
