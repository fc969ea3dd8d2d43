// Package iocache persists the history of build runs.
package iocache

import (
	"sync"

	"github.com/huangsam/gradestat/internal/contract"
)

// RunStoreManager holds the RunStore shared by a process.
type RunStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &RunStoreManager{} // Compile-time check

// GetRunStore returns the run history store, or nil before InitStores.
func (mgr *RunStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
