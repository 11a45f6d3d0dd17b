package contract

import "context"

// Generator is the text completion engine. With stream=true the returned
// Completion carries a stream reader instead of text.
type Generator interface {
	Generate(ctx context.Context, prompt string, stream bool, stop []string) (*Completion, error)
}

// Inventory is read access (plus append) to available flights.
// Ticket reports ok=false for unknown ids.
type Inventory interface {
	Cities(ctx context.Context) ([]string, error)
	TicketIDs(ctx context.Context, city string) ([]int64, error)
	Ticket(ctx context.Context, id int64) (Flight, bool, error)
	Flights(ctx context.Context, city string) ([]Flight, error)
	AddFlight(ctx context.Context, f Flight) (int64, error)
}

// MemoryGateway stores completed bookings and answers similarity queries
// ranked by ascending distance.
type MemoryGateway interface {
	Append(ctx context.Context, record string) error
	Query(ctx context.Context, text string, k int) ([]Candidate, error)
}

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type EntityTagger interface {
	Tag(ctx context.Context, text string) ([]Entity, error)
}
