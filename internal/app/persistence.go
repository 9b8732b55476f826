package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"trivia-board-host/internal/domain"
)

// SnapshotKey is the fixed key the live document is stored under.
const SnapshotKey = "quizState"

// SnapshotStore is an opaque key-value store (sqlite file, Redis, Postgres, memory).
// Get returns domain.ErrSnapshotNotFound when the key is absent.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Persistence mirrors the live document to a SnapshotStore.
// Load never fails: a missing or unreadable snapshot just means "start fresh".
type Persistence struct {
	store  SnapshotStore
	key    string
	logger *slog.Logger
}

func NewPersistence(store SnapshotStore, key string, logger *slog.Logger) *Persistence {
	if key == "" {
		key = SnapshotKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Persistence{store: store, key: key, logger: logger}
}

// Load returns the stored document, or false when nothing usable is stored.
func (p *Persistence) Load(ctx context.Context) (domain.Document, bool) {
	raw, err := p.store.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			p.logger.Info("no saved quiz state", "key", p.key)
		} else {
			p.logger.Error("error loading quiz state", "key", p.key, "err", err)
		}
		return domain.Document{}, false
	}
	doc, err := domain.Decode(raw)
	if err != nil {
		p.logger.Warn("discarding saved quiz state", "key", p.key, "err", err)
		return domain.Document{}, false
	}
	return doc, true
}

// LoadOrDefault seeds the session: the stored snapshot if usable, else the bundled document.
func (p *Persistence) LoadOrDefault(ctx context.Context) domain.Document {
	if doc, ok := p.Load(ctx); ok {
		return doc
	}
	return domain.MustDefault()
}

// Save writes the document. Failures are logged and reported only through the return value
// so callers that care (tests, CLI) can inspect them; the host ignores it.
func (p *Persistence) Save(ctx context.Context, doc domain.Document) error {
	data, err := json.Marshal(doc)
	if err == nil {
		err = p.store.Set(ctx, p.key, data)
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrPersistenceWrite, err)
		p.logger.Error("error saving quiz state", "key", p.key, "err", err)
		return err
	}
	return nil
}
