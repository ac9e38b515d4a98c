package draft

import (
	"context"
	"errors"

	"github.com/grassandaxe/booking-wizard/internal/observability/metrics"
	"github.com/grassandaxe/booking-wizard/internal/wizard"
	"github.com/grassandaxe/booking-wizard/pkg/logging"
)

// Store is the wizard-facing view of a Repository. Storage failures never
// reach the customer: they are logged and counted, reads fall back to an
// empty draft and writes are dropped.
type Store struct {
	repo    Repository
	logger  *logging.Logger
	metrics *metrics.WizardMetrics
}

// NewStore wraps repo. A nil repo falls back to an in-memory repository.
func NewStore(repo Repository, logger *logging.Logger, m *metrics.WizardMetrics) *Store {
	if repo == nil {
		repo = NewMemoryRepository(DefaultTTL)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{repo: repo, logger: logger, metrics: m}
}

// Load returns the session's draft, or an empty one when none is stored or it
// cannot be read.
func (s *Store) Load(ctx context.Context, sessionID string) wizard.BookingData {
	data, err := s.repo.Load(ctx, sessionID)
	switch {
	case err == nil:
		return data
	case errors.Is(err, ErrNotFound):
		return wizard.BookingData{}
	case errors.Is(err, ErrCorrupt):
		s.logger.Warn("draft: discarding unreadable draft", "session_id", sessionID, "error", err)
	default:
		s.logger.Error("draft: load failed", "session_id", sessionID, "error", err)
	}
	s.metrics.ObserveStoreError("load")
	return wizard.BookingData{}
}

// Save writes the whole draft, logging failures.
func (s *Store) Save(ctx context.Context, sessionID string, data wizard.BookingData) {
	if err := s.repo.Save(ctx, sessionID, data); err != nil {
		s.logger.Error("draft: save failed", "session_id", sessionID, "error", err)
		s.metrics.ObserveStoreError("save")
	}
}

// Update sets one key and persists the result. Only an unknown key is
// reported to the caller.
func (s *Store) Update(ctx context.Context, sessionID, key, value string) (wizard.BookingData, error) {
	data := s.Load(ctx, sessionID)
	if err := data.Set(key, value); err != nil {
		return data, err
	}
	s.Save(ctx, sessionID, data)
	return data, nil
}

// Clear removes the session's draft, logging failures.
func (s *Store) Clear(ctx context.Context, sessionID string) {
	if err := s.repo.Clear(ctx, sessionID); err != nil {
		s.logger.Error("draft: clear failed", "session_id", sessionID, "error", err)
		s.metrics.ObserveStoreError("clear")
	}
}
