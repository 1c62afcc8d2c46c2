package core

import (
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/logger"
	"github.com/tharaga/propmatch/schema"
)

// weightsVersion defines the version of the persisted weights layout.
const weightsVersion = 1

// WeightsStore reads and writes score weights through a key/value store.
// It never returns an error: reads fall back to defaults and failed writes
// are logged while the merged weights are still handed back.
type WeightsStore struct {
	store contract.CacheStore
	log   *logger.Logger
	now   func() time.Time
	mu    sync.Mutex
}

// NewWeightsStore creates a weights store. A nil store behaves like an empty one.
func NewWeightsStore(store contract.CacheStore, log *logger.Logger) *WeightsStore {
	if log == nil {
		log = logger.Nop()
	}
	return &WeightsStore{store: store, log: log, now: time.Now}
}

// Get returns the persisted weights merged over the defaults.
func (w *WeightsStore) Get() schema.ScoreWeights {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.get()
}

func (w *WeightsStore) get() schema.ScoreWeights {
	defaults := schema.DefaultWeights()
	if w.store == nil {
		return defaults
	}
	data, _, _, err := w.store.Get(schema.WeightsKey)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			w.log.Warn("cannot read weights, using defaults", "error", err)
		}
		return defaults
	}
	var stored schema.WeightsUpdate
	if err := json.Unmarshal(data, &stored); err != nil {
		w.log.Warn("corrupt weights, using defaults", "error", err)
		return defaults
	}
	if err := contract.ValidateWeightsUpdate(stored); err != nil {
		w.log.Warn("invalid stored weights, using defaults", "error", err)
		return defaults
	}
	return defaults.Merge(stored)
}

// Set merges a partial update onto the current weights and persists the result.
func (w *WeightsStore) Set(upd schema.WeightsUpdate) schema.ScoreWeights {
	w.mu.Lock()
	defer w.mu.Unlock()
	merged := w.get().Merge(upd)
	w.persist(merged)
	return merged
}

// Reset persists and returns the default weights.
func (w *WeightsStore) Reset() schema.ScoreWeights {
	w.mu.Lock()
	defer w.mu.Unlock()
	defaults := schema.DefaultWeights()
	w.persist(defaults)
	return defaults
}

func (w *WeightsStore) persist(weights schema.ScoreWeights) {
	if w.store == nil {
		return
	}
	data, err := json.Marshal(weights)
	if err != nil {
		w.log.Error("cannot encode weights", "error", err)
		return
	}
	if err := w.store.Set(schema.WeightsKey, data, weightsVersion, w.now().Unix()); err != nil {
		w.log.Error("cannot persist weights, keeping them for this session only", "error", err)
	}
}
