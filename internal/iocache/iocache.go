// Package iocache persists repository index snapshots and analysis history.
package iocache

import (
	"sync"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
)

// CacheStoreManager manages the index cache and analysis history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	index        contract.CacheStore
	analysis     contract.AnalysisStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// NewCacheStoreManager wraps already opened stores. Either may be nil.
func NewCacheStoreManager(index contract.CacheStore, analysis contract.AnalysisStore) *CacheStoreManager {
	return &CacheStoreManager{index: index, analysis: analysis}
}

// GetIndexStore returns the repository index CacheStore.
func (mgr *CacheStoreManager) GetIndexStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.index
}

// GetAnalysisStore returns the analysis AnalysisStore.
func (mgr *CacheStoreManager) GetAnalysisStore() contract.AnalysisStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}
