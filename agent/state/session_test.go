package state

import (
	"errors"
	"testing"
	"time"
)

func TestSessionFinishBookingResetsAndGoesIdle(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSession("s-1", true, now)
	if err := s.Begin(IntentBooking); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	s.Slots = completeRecord()

	if err := s.FinishBooking(now.Add(time.Minute)); err != nil {
		t.Fatalf("FinishBooking() error = %v", err)
	}
	if s.Intent != IntentNone {
		t.Fatalf("Intent = %q, want idle", s.Intent)
	}
	if !s.Slots.Empty() {
		t.Fatalf("Slots = %v, want empty", s.Slots)
	}
	if !s.UpdatedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("UpdatedAt = %v", s.UpdatedAt)
	}
}

func TestSessionFinishBookingRejectsIncompleteRecord(t *testing.T) {
	t.Parallel()

	s := NewSession("s-1", false, time.Now())
	s.Slots.Merge(SlotCityName, "Kazan")

	err := s.FinishBooking(time.Now())
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("FinishBooking() error = %v, want ErrIncomplete", err)
	}
	if !s.Slots.IsSet(SlotCityName) {
		t.Fatalf("failed FinishBooking() cleared the record")
	}
}

func TestSessionBeginRejectsUnknownIntent(t *testing.T) {
	t.Parallel()

	s := NewSession("s-1", false, time.Now())
	if err := s.Begin(Intent("refund")); !errors.Is(err, ErrUnknownIntent) {
		t.Fatalf("Begin() error = %v, want ErrUnknownIntent", err)
	}
	if s.Intent != IntentNone {
		t.Fatalf("Intent = %q, want idle", s.Intent)
	}
}

func TestSessionValidateDerivedSlotsFollowTicket(t *testing.T) {
	t.Parallel()

	s := NewSession("s-1", false, time.Now())
	s.Slots[SlotPrice] = "900"
	if err := s.Validate(); !errors.Is(err, ErrDerivedMismatch) {
		t.Fatalf("Validate() error = %v, want ErrDerivedMismatch", err)
	}

	s.Slots.Reset()
	s.Slots.ApplyTicket(sampleFlight())
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestSessionCloneDoesNotShareSlots(t *testing.T) {
	t.Parallel()

	s := NewSession("s-1", false, time.Now())
	c := s.Clone()
	c.Slots.Merge(SlotEmail, "a@b.co")
	c.Intent = IntentBooking

	if s.Slots.IsSet(SlotEmail) || s.Intent != IntentNone {
		t.Fatalf("clone mutation leaked into original: %+v", s)
	}
}
