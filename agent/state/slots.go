package state

import (
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

// Slot names one booking field.
type Slot string

const (
	SlotCityName       Slot = "city_name"
	SlotDepartureDate  Slot = "departure_date"
	SlotArrivalDate    Slot = "arrival_date"
	SlotSeatPlace      Slot = "seat_place"
	SlotPrice          Slot = "price"
	SlotTicketID       Slot = "ticket_id"
	SlotClassOfService Slot = "class_of_service"
	SlotUserName       Slot = "user_name"
	SlotDocumentNumber Slot = "document_number"
	SlotGender         Slot = "gender"
	SlotBirthDate      Slot = "birth_date"
	SlotEmail          Slot = "email"
)

const DateTimeLayout = "2006-01-02 15:04:05"

// DeclaredSlots is the fixed slot order used for missing-field scans and
// for serialized bookings.
var DeclaredSlots = []Slot{
	SlotCityName,
	SlotDepartureDate,
	SlotArrivalDate,
	SlotSeatPlace,
	SlotPrice,
	SlotTicketID,
	SlotClassOfService,
	SlotUserName,
	SlotDocumentNumber,
	SlotGender,
	SlotBirthDate,
	SlotEmail,
}

// Derived reports whether the slot is only ever filled from a resolved ticket.
func (s Slot) Derived() bool {
	switch s {
	case SlotDepartureDate, SlotArrivalDate, SlotSeatPlace, SlotPrice:
		return true
	default:
		return false
	}
}

// SlotRecord is the booking in progress. Absent keys are unset slots.
type SlotRecord map[Slot]string

func NewSlotRecord() SlotRecord {
	return make(SlotRecord, len(DeclaredSlots))
}

func (r SlotRecord) Get(s Slot) (string, bool) {
	v, ok := r[s]
	return v, ok && v != ""
}

func (r SlotRecord) IsSet(s Slot) bool {
	_, ok := r.Get(s)
	return ok
}

// Merge sets an unset, non-derived slot. Set slots are never overwritten.
func (r SlotRecord) Merge(s Slot, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || s.Derived() || r.IsSet(s) {
		return false
	}
	r[s] = value
	return true
}

// ApplyTicket sets ticket_id and re-derives departure, arrival, seat and price
// from the flight. A record already holding another ticket id is left alone.
func (r SlotRecord) ApplyTicket(f contractx.Flight) bool {
	id := strconv.FormatInt(f.ID, 10)
	if cur, ok := r.Get(SlotTicketID); ok && cur != id {
		return false
	}
	r[SlotTicketID] = id
	r[SlotDepartureDate] = f.DepartureDate.Format(DateTimeLayout)
	r[SlotArrivalDate] = f.ArrivalDate.Format(DateTimeLayout)
	r[SlotSeatPlace] = f.SeatPlace
	r[SlotPrice] = strconv.FormatFloat(f.Price, 'f', -1, 64)
	return true
}

// Unset clears a non-derived slot while no ticket is chosen.
func (r SlotRecord) Unset(s Slot) bool {
	if s.Derived() || r.IsSet(SlotTicketID) || !r.IsSet(s) {
		return false
	}
	delete(r, s)
	return true
}

// Missing returns the unset non-derived slots in declared order.
func (r SlotRecord) Missing() []Slot {
	var out []Slot
	for _, s := range DeclaredSlots {
		if s.Derived() {
			continue
		}
		if !r.IsSet(s) {
			out = append(out, s)
		}
	}
	return out
}

func (r SlotRecord) Complete() bool {
	for _, s := range DeclaredSlots {
		if !r.IsSet(s) {
			return false
		}
	}
	return true
}

func (r SlotRecord) Empty() bool {
	for _, s := range DeclaredSlots {
		if r.IsSet(s) {
			return false
		}
	}
	return true
}

// Reset clears every slot in place.
func (r SlotRecord) Reset() {
	for k := range r {
		delete(r, k)
	}
}

func (r SlotRecord) Clone() SlotRecord {
	out := make(SlotRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Booking is the serialized form of a complete record, keys in declared order.
type Booking struct {
	CityName       string `json:"city_name"`
	DepartureDate  string `json:"departure_date"`
	ArrivalDate    string `json:"arrival_date"`
	SeatPlace      string `json:"seat_place"`
	Price          string `json:"price"`
	TicketID       string `json:"ticket_id"`
	ClassOfService string `json:"class_of_service"`
	UserName       string `json:"user_name"`
	DocumentNumber string `json:"document_number"`
	Gender         string `json:"gender"`
	BirthDate      string `json:"birth_date"`
	Email          string `json:"email"`
}

func (r SlotRecord) Booking() Booking {
	return Booking{
		CityName:       r[SlotCityName],
		DepartureDate:  r[SlotDepartureDate],
		ArrivalDate:    r[SlotArrivalDate],
		SeatPlace:      r[SlotSeatPlace],
		Price:          r[SlotPrice],
		TicketID:       r[SlotTicketID],
		ClassOfService: r[SlotClassOfService],
		UserName:       r[SlotUserName],
		DocumentNumber: r[SlotDocumentNumber],
		Gender:         r[SlotGender],
		BirthDate:      r[SlotBirthDate],
		Email:          r[SlotEmail],
	}
}
