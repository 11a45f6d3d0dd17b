package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	contractx "github.com/tanpawarit/chative-ticket-agent/agent/contract"
)

// SquaredL2 is the squared euclidean distance. Vectors of different length
// are compared over the shorter prefix plus the tail of the longer one.
func SquaredL2(a, b []float32) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		var x, y float64
		if i < len(a) {
			x = float64(a[i])
		}
		if i < len(b) {
			y = float64(b[i])
		}
		d := x - y
		sum += d * d
	}
	return sum
}

// Normalize scales v to unit length in place. Zero vectors are left alone.
func Normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

type entry struct {
	text   string
	vector []float32
}

// LocalIndex is a brute-force in-process Index.
type LocalIndex struct {
	mu      sync.RWMutex
	entries []entry
}

func NewLocalIndex() *LocalIndex {
	return &LocalIndex{}
}

func (l *LocalIndex) Add(_ context.Context, text string, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector", contractx.ErrValidation)
	}
	v := append([]float32(nil), vector...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry{text: text, vector: v})
	return nil
}

func (l *LocalIndex) Search(_ context.Context, vector []float32, k int) ([]contractx.Candidate, error) {
	l.mu.RLock()
	out := make([]contractx.Candidate, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, contractx.Candidate{Text: e.text, Distance: SquaredL2(e.vector, vector)})
	}
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if k < len(out) {
		out = out[:k]
	}
	return out, nil
}

func (l *LocalIndex) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
