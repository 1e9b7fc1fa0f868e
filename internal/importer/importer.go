// Package importer turns external timing logs and session transcripts into
// rows of the canonical store.
package importer

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/llmlog/internal/db"
)

// Importer writes parsed logs through a Store
type Importer struct {
	store      *db.Store
	logger     *slog.Logger
	now        func() time.Time
	newBatchID func() string
}

// Option customises an Importer
type Option func(*Importer)

// WithClock replaces the clock used for import timestamps
func WithClock(now func() time.Time) Option {
	return func(imp *Importer) { imp.now = now }
}

// WithBatchIDs replaces the import batch id generator
func WithBatchIDs(gen func() string) Option {
	return func(imp *Importer) { imp.newBatchID = gen }
}

func New(store *db.Store, logger *slog.Logger, opts ...Option) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	imp := &Importer{
		store:      store,
		logger:     logger.With("component", "importer"),
		now:        time.Now,
		newBatchID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}
