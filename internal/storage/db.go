package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/workoutapi/internal/models"
	"github.com/claude/workoutapi/internal/observability"
)

// Persister loads and saves the whole document. Implementations never see
// partial updates: every Save receives both collections in full.
type Persister interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
	Close() error
}

// DB owns the authoritative in-memory document and writes it through its
// Persister after every mutation. Mutations hold the write lock for the whole
// scan, mutate and persist sequence; reads share the read lock and get copies.
type DB struct {
	mu        sync.RWMutex
	doc       *models.Document
	persister Persister
	log       *slog.Logger
}

// New loads the document from p and returns a DB serving it.
func New(ctx context.Context, p Persister, log *slog.Logger) (*DB, error) {
	doc, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	if doc == nil {
		doc = models.NewDocument()
	}
	db := &DB{doc: doc, persister: p, log: log}
	observability.SetWorkoutCount(len(doc.Workouts))
	log.Info("datastore loaded", "workouts", len(doc.Workouts), "records", len(doc.Records))
	return db, nil
}

// Close closes the underlying persister.
func (db *DB) Close() error {
	return db.persister.Close()
}

// Snapshot returns a deep copy of the current document.
func (db *DB) Snapshot() *models.Document {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.doc.Clone()
}

// ReplaceDocument swaps the whole document for doc and persists it.
// Workout names must be unique within doc.
func (db *DB) ReplaceDocument(ctx context.Context, doc *models.Document) error {
	seen := make(map[string]struct{}, len(doc.Workouts))
	for _, w := range doc.Workouts {
		if _, dup := seen[w.Name]; dup {
			return fmt.Errorf("workout with the name %q: %w", w.Name, ErrConflict)
		}
		seen[w.Name] = struct{}{}
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.doc = doc.Clone()
	return db.persist(ctx)
}

// persist writes the whole document. Caller must hold the write lock.
func (db *DB) persist(ctx context.Context) error {
	start := time.Now()
	err := db.persister.Save(ctx, db.doc)
	elapsed := time.Since(start)
	observability.RecordPersist(err, elapsed)
	observability.SetWorkoutCount(len(db.doc.Workouts))
	if err != nil {
		db.log.Error("persist failed", "error", err, "duration", elapsed.String())
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	db.log.Debug("document persisted", "workouts", len(db.doc.Workouts), "duration", elapsed.String())
	return nil
}
