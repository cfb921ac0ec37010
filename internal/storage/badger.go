package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/workoutapi/internal/models"
	"github.com/dgraph-io/badger/v3"
)

var documentKey = []byte("datastore:document")

// Badger persists the encoded document under a single key in an embedded
// Badger KV store.
type Badger struct {
	db *badger.DB
}

var _ Persister = (*Badger)(nil)

// OpenBadger opens (or creates) a Badger store in dir.
func OpenBadger(dir string) (*Badger, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("opening badger: %w", err)
	}
	return &Badger{db: db}, nil
}

// Load reads the document key. A fresh store yields an empty document.
func (b *Badger) Load(ctx context.Context) (*models.Document, error) {
	var doc *models.Document
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(documentKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			doc = models.NewDocument()
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := models.DecodeDocument(val)
			if err != nil {
				return err
			}
			doc = decoded
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return doc, nil
}

// Save overwrites the document key.
func (b *Badger) Save(ctx context.Context, doc *models.Document) error {
	data, err := models.EncodeDocument(doc)
	if err != nil {
		return err
	}
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(documentKey, data)
	}); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Close closes the store.
func (b *Badger) Close() error {
	return b.db.Close()
}
