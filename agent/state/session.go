package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Intent string

const (
	IntentNone      Intent = ""
	IntentBooking   Intent = "booking"
	IntentRetrieval Intent = "retrieval"
)

func (i Intent) String() string {
	if i == IntentNone {
		return "idle"
	}
	return string(i)
}

var (
	ErrNilSession      = errors.New("nil session")
	ErrUnknownIntent   = errors.New("unknown intent")
	ErrIncomplete      = errors.New("slot record is incomplete")
	ErrDerivedMismatch = errors.New("derived slots out of sync with ticket id")
)

// Session is one conversation: the booking in progress, the active intent
// and the caller's streaming preference.
type Session struct {
	ID        string     `json:"session_id"`
	Intent    Intent     `json:"intent,omitempty"`
	Slots     SlotRecord `json:"slots,omitempty"`
	Streaming bool       `json:"streaming"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewSession(id string, streaming bool, now time.Time) *Session {
	return &Session{
		ID:        id,
		Slots:     NewSlotRecord(),
		Streaming: streaming,
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// EnsureSlots makes sure s.Slots is initialized.
func (s *Session) EnsureSlots() {
	if s.Slots == nil {
		s.Slots = NewSlotRecord()
	}
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Slots = s.Slots.Clone()
	return &out
}

func (s *Session) Begin(intent Intent) error {
	if s == nil {
		return ErrNilSession
	}
	switch intent {
	case IntentBooking, IntentRetrieval:
		s.Intent = intent
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}
}

func (s *Session) ClearIntent() {
	s.Intent = IntentNone
}

// SerializeBooking returns the memory record for a complete booking.
func (s *Session) SerializeBooking() (string, error) {
	if s == nil {
		return "", ErrNilSession
	}
	if !s.Slots.Complete() {
		return "", fmt.Errorf("%w: missing %v", ErrIncomplete, s.Slots.Missing())
	}
	raw, err := json.Marshal(s.Slots.Booking())
	if err != nil {
		return "", fmt.Errorf("marshal booking: %w", err)
	}
	return string(raw), nil
}

// FinishBooking resets a committed booking and returns to idle.
// Pre: the record is complete and was appended to memory.
// Post: every slot unset, no active intent.
func (s *Session) FinishBooking(now time.Time) error {
	if s == nil {
		return ErrNilSession
	}
	if !s.Slots.Complete() {
		return fmt.Errorf("%w: missing %v", ErrIncomplete, s.Slots.Missing())
	}
	s.Slots.Reset()
	s.ClearIntent()
	s.Touch(now)
	return nil
}

func (s *Session) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	switch s.Intent {
	case IntentNone, IntentBooking, IntentRetrieval:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntent, s.Intent)
	}

	hasTicket := s.Slots.IsSet(SlotTicketID)
	for _, slot := range DeclaredSlots {
		if slot.Derived() && s.Slots.IsSet(slot) != hasTicket {
			return fmt.Errorf("%w: %s", ErrDerivedMismatch, slot)
		}
	}
	return nil
}
