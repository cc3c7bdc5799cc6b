package configurator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var ErrDraftNotFound = errors.New("draft not found")

// DraftStore is a plain key-value store for encoded drafts. LoadDraft
// returns ErrDraftNotFound for a missing key.
type DraftStore interface {
	LoadDraft(ctx context.Context, key string) ([]byte, error)
	SaveDraft(ctx context.Context, key string, blob []byte) error
	DeleteDraft(ctx context.Context, key string) error
}

// DraftKeyFor scopes the well-known draft key to one owner (a chat, a
// browser id).
func DraftKeyFor(owner string) string {
	return DraftKey + ":" + owner
}

// Drafts saves and restores configurations on top of a DraftStore. Saving
// is best effort and restoring never fails: any problem falls back to the
// defaults.
type Drafts struct {
	store  DraftStore
	logger *zap.Logger
}

func NewDrafts(store DraftStore, logger *zap.Logger) *Drafts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Drafts{store: store, logger: logger}
}

func (d *Drafts) Save(ctx context.Context, owner string, cfg Configuration) error {
	blob, err := EncodeDraft(cfg)
	if err != nil {
		return err
	}
	if err := d.store.SaveDraft(ctx, DraftKeyFor(owner), blob); err != nil {
		d.logger.Warn("failed to save draft", zap.String("owner", owner), zap.Error(err))
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Restore returns the owner's draft merged over Default. found is false when
// no usable draft exists.
func (d *Drafts) Restore(ctx context.Context, owner string) (cfg Configuration, found bool) {
	blob, err := d.store.LoadDraft(ctx, DraftKeyFor(owner))
	switch {
	case errors.Is(err, ErrDraftNotFound):
		return Default(), false
	case err != nil:
		d.logger.Warn("failed to load draft", zap.String("owner", owner), zap.Error(err))
		return Default(), false
	}
	return DecodeDraft(blob, Default(), d.logger.With(zap.String("owner", owner))), true
}

func (d *Drafts) Discard(ctx context.Context, owner string) error {
	if err := d.store.DeleteDraft(ctx, DraftKeyFor(owner)); err != nil {
		return fmt.Errorf("discard draft: %w", err)
	}
	return nil
}

// MemoryDraftStore keeps drafts in a map. It backs tests and runs where no
// external store is configured.
type MemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string][]byte)}
}

func (m *MemoryDraftStore) LoadDraft(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.drafts[key]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return append([]byte(nil), blob...), nil
}

func (m *MemoryDraftStore) SaveDraft(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.drafts[key] = append([]byte(nil), blob...)
	return nil
}

func (m *MemoryDraftStore) DeleteDraft(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.drafts, key)
	return nil
}
