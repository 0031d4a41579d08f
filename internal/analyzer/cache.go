package analyzer

import (
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/index"
)

// storeFor returns the open index for a session, reusing the hot cache
// when it matches and reloading from disk when it does not. Callers hold
// a.mu.
func (a *Analyzer) storeFor(sessionID string) (*index.Store, error) {
	if a.cachedID == sessionID && a.cachedStore != nil {
		return a.cachedStore, nil
	}

	sess, err := a.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	store, err := index.Open(sess.IndexPath, a.embed, a.logger)
	if err != nil {
		return nil, err
	}

	a.prime(sessionID, store)
	return store, nil
}

// prime makes store the hot index, closing whatever was cached before and
// updating the active pointer that shields the directory from sweeps.
func (a *Analyzer) prime(id string, store *index.Store) {
	if a.cachedStore != nil && a.cachedStore != store {
		a.cachedStore.Close()
	}
	a.cachedID = id
	a.cachedStore = store

	if err := a.indexes.SetActive(store.Dir()); err != nil {
		a.logger.Warn("could not record active index", zap.Error(err))
	}
}

// evict closes and forgets the hot index and clears the active pointer.
func (a *Analyzer) evict() {
	if a.cachedStore != nil {
		a.cachedStore.Close()
	}
	a.cachedID = ""
	a.cachedStore = nil

	if err := a.indexes.ClearActive(); err != nil {
		a.logger.Warn("could not clear active index pointer", zap.Error(err))
	}
}
