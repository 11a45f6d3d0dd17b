package contract

import (
	"time"

	"github.com/cloudwego/eino/schema"
)

// Completion is the result of one generation call. Exactly one of Text and
// Stream is meaningful; Stream must be closed by whoever consumes it.
type Completion struct {
	Text   string
	Stream *schema.StreamReader[string]
}

func (c *Completion) IsStream() bool {
	return c != nil && c.Stream != nil
}

// Close releases the stream, if any.
func (c *Completion) Close() {
	if c != nil && c.Stream != nil {
		c.Stream.Close()
	}
}

type Flight struct {
	ID            int64     `json:"ticket_id"`
	CityName      string    `json:"city_name"`
	DepartureDate time.Time `json:"departure_date"`
	ArrivalDate   time.Time `json:"arrival_date"`
	SeatPlace     string    `json:"seat_place"`
	Price         float64   `json:"price"`
}

// Candidate is one memory query hit. Lower distance means more similar.
type Candidate struct {
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

// Entity is one token emitted by a named-entity tagger, BIO labelled
// (B-PER, I-PER, B-LOC, O, ...). Sub-word pieces start with "##".
type Entity struct {
	Word  string `json:"word"`
	Label string `json:"entity"`
}
