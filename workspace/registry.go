package workspace

import (
	"easylog/domain/record"
	"sync"
)

// One workspace per owner. Opened at login (primed from the store), looked
// up by the REST layer, closed at logout.
var (
	registryMutex sync.RWMutex
	workspaces    = map[string]*Workspace{}

	OpenWorkspaceFunc  = OpenWorkspace
	CloseWorkspaceFunc = CloseWorkspace
	FindWorkspaceFunc  = FindWorkspace
)

func OpenWorkspace(owner string) (*Workspace, error) {
	records, err := record.QueryWorkRecordsFunc(owner)
	if err != nil {
		return nil, err
	}

	registryMutex.Lock()
	defer registryMutex.Unlock()
	w, found := workspaces[owner]
	if !found {
		w = &Workspace{Owner: owner}
		workspaces[owner] = w
	}
	w.mu.Lock()
	w.committed = records
	w.mu.Unlock()
	return w, nil
}

func CloseWorkspace(owner string) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	delete(workspaces, owner)
}

func FindWorkspace(owner string) *Workspace {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	return workspaces[owner]
}
