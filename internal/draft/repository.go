package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/grassandaxe/booking-wizard/internal/wizard"
)

// DefaultTTL is how long an untouched draft is kept.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrNotFound indicates no draft exists for the session.
	ErrNotFound = errors.New("draft: not found")

	// ErrCorrupt indicates the stored draft could not be decoded.
	ErrCorrupt = errors.New("draft: corrupt record")
)

// Repository persists one booking draft per session.
type Repository interface {
	Load(ctx context.Context, sessionID string) (wizard.BookingData, error)
	Save(ctx context.Context, sessionID string, data wizard.BookingData) error
	Clear(ctx context.Context, sessionID string) error
}

type memoryRecord struct {
	data      wizard.BookingData
	expiresAt time.Time
}

// MemoryRepository keeps drafts in process memory. Used for local development
// and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	ttl     time.Duration
	now     func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository builds an in-memory repository. A non-positive ttl uses DefaultTTL.
func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryRepository{
		records: make(map[string]memoryRecord),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *MemoryRepository) Load(ctx context.Context, sessionID string) (wizard.BookingData, error) {
	r.mu.RLock()
	rec, ok := r.records[sessionID]
	r.mu.RUnlock()
	if !ok || !r.now().Before(rec.expiresAt) {
		return wizard.BookingData{}, ErrNotFound
	}
	return rec.data, nil
}

func (r *MemoryRepository) Save(ctx context.Context, sessionID string, data wizard.BookingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[sessionID] = memoryRecord{data: data, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *MemoryRepository) Clear(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, sessionID)
	return nil
}
