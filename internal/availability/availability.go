package availability

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Slot is one time slot and whether it can be booked on the requested date.
type Slot struct {
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

// Source answers per-slot availability for a date.
type Source interface {
	Availability(ctx context.Context, date time.Time, slots []string) ([]Slot, error)
}

// RandomSource simulates a scheduling backend: each slot is independently
// unavailable with probability rate. Answers depend only on the salt and the
// date, so a slot shown as open stays open when picked and sources sharing a
// salt agree across processes.
type RandomSource struct {
	rate float64
	salt uint64
}

// NewRandomSource builds a simulated source. rate is clamped to [0, 1]; a
// zero salt is replaced with a random one, which only suits a single process.
func NewRandomSource(rate float64, salt uint64) *RandomSource {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	if salt == 0 {
		salt = rand.Uint64()
	}
	return &RandomSource{rate: rate, salt: salt}
}

// Availability implements Source.
func (s *RandomSource) Availability(ctx context.Context, date time.Time, slots []string) ([]Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := rand.New(rand.NewPCG(s.salt, dateSeed(date)))
	out := make([]Slot, len(slots))
	for i, label := range slots {
		out[i] = Slot{Label: label, Available: r.Float64() >= s.rate}
	}
	return out, nil
}

// IsAvailable looks up label in a slot list.
func IsAvailable(slots []Slot, label string) bool {
	for _, s := range slots {
		if s.Label == label {
			return s.Available
		}
	}
	return false
}

func dateSeed(date time.Time) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(date.Format("2006-01-02")))
	return h.Sum64()
}
