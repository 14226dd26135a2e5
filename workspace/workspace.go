package workspace

import (
	"easylog/bizerror"
	"easylog/domain/record"
	"sort"
	"sync"

	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

type CommitStatus string

const (
	CommitStatusPending   = CommitStatus("PENDING")
	CommitStatusCommitted = CommitStatus("COMMITTED")
	CommitStatusFailed    = CommitStatus("FAILED")
)

// StagedRecord is one not-yet-persisted entry of the pending list. TempID
// lives in its own namespace (temp- prefix) and is never sent to the store;
// RecordID is filled once the entry has been committed.
type StagedRecord struct {
	TempID   string                    `json:"tempId"`
	Creation record.WorkRecordCreation `json:"record"`

	Status        CommitStatus `json:"status"`
	FailureReason string       `json:"failureReason,omitempty"`
	RecordID      types.ID     `json:"recordId,omitempty"`
}

type CommitResult struct {
	Total     int            `json:"total"`
	Committed int            `json:"committed"`
	Ledger    []StagedRecord `json:"ledger"`
}

type MutationState string

const (
	MutationStateConfirmed  = MutationState("CONFIRMED")
	MutationStateRolledBack = MutationState("ROLLED_BACK")
)

type MutationResult struct {
	State  MutationState      `json:"state"`
	Record *record.WorkRecord `json:"record,omitempty"`
}

// Workspace is the per-owner application state: the committed-record view
// and the pending staging list. Created at login, dropped at logout. All
// exported methods are safe for concurrent handlers, though the product
// assumes a single active mutator per owner.
type Workspace struct {
	Owner string

	mu        sync.Mutex
	committed []record.WorkRecord
	staged    []StagedRecord
}

// Records returns a copy of the committed view, most recent work date first.
func (w *Workspace) Records() []record.WorkRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]record.WorkRecord{}, w.committed...)
}

// StagedRecords returns a copy of the pending list in insertion order.
func (w *Workspace) StagedRecords() []StagedRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]StagedRecord{}, w.staged...)
}

func (w *Workspace) StagedSize() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.staged)
}

// Refresh replaces the committed view with the store's authoritative set.
func (w *Workspace) Refresh() error {
	records, err := record.QueryWorkRecordsFunc(w.Owner)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.committed = records
	w.mu.Unlock()
	return nil
}

// Stage validates the candidate and appends it to the pending list with a
// fresh temporary id. No store call is made.
func (w *Workspace) Stage(creation record.WorkRecordCreation) (*StagedRecord, error) {
	if err := creation.Validate(); err != nil {
		return nil, err
	}
	creation.Hours = record.QuantizeHours(creation.Hours)
	staged := StagedRecord{
		TempID:   "temp-" + uuid.New().String(),
		Creation: creation,
		Status:   CommitStatusPending,
	}
	w.mu.Lock()
	w.staged = append(w.staged, staged)
	w.mu.Unlock()
	return &staged, nil
}

// Unstage removes the entry with the given temporary id, preserving the
// relative order of the remainder.
func (w *Workspace) Unstage(tempID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.staged {
		if w.staged[i].TempID == tempID {
			w.staged = append(w.staged[:i], w.staged[i+1:]...)
			return nil
		}
	}
	return bizerror.ErrStagedRecordNotFound
}

// CommitStaged drains the pending list into the store, strictly one insert
// at a time in insertion order, stopping at the first failure. Entries that
// committed on an earlier attempt are skipped, so a retry resubmits only
// the failed remainder and never duplicates an insert. Only when every
// entry has committed is the list cleared and the committed view re-fetched
// from the store.
func (w *Workspace) CommitStaged() (*CommitResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.staged) == 0 {
		return &CommitResult{Ledger: []StagedRecord{}}, nil
	}

	committed := 0
	var failure error
	for i := range w.staged {
		entry := &w.staged[i]
		if entry.Status == CommitStatusCommitted {
			committed++
			continue
		}
		r, err := record.CreateWorkRecordFunc(entry.Creation, w.Owner)
		if err != nil {
			entry.Status = CommitStatusFailed
			entry.FailureReason = err.Error()
			failure = err
			break
		}
		entry.Status = CommitStatusCommitted
		entry.FailureReason = ""
		entry.RecordID = r.ID
		committed++
	}

	if failure != nil {
		return nil, &bizerror.ErrBatchCommit{Ledger: append([]StagedRecord{}, w.staged...), Cause: failure}
	}

	total := len(w.staged)
	w.staged = nil

	records, err := record.QueryWorkRecordsFunc(w.Owner)
	if err != nil {
		// every insert succeeded; only the view refresh failed
		return nil, err
	}
	w.committed = records
	return &CommitResult{Total: total, Committed: committed, Ledger: []StagedRecord{}}, nil
}

// UpdateRecord applies the edit to the committed view first, then issues
// the store update. On store failure the local change is reverted and the
// caller receives the rolled-back terminal state.
func (w *Workspace) UpdateRecord(id types.ID, changes record.WorkRecordCreation) (*MutationResult, error) {
	if err := changes.Validate(); err != nil {
		return nil, err
	}
	changes.Hours = record.QuantizeHours(changes.Hours)

	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.indexOf(id)
	if idx < 0 {
		return nil, gorm.ErrRecordNotFound
	}

	prev := w.committed[idx]
	updated := prev
	updated.Date = changes.Date
	updated.Department = changes.Department
	updated.EventType = changes.EventType
	updated.Product = changes.Product
	updated.Description = changes.Description
	updated.Hours = changes.Hours
	w.committed[idx] = updated

	if err := record.UpdateWorkRecordFunc(updated); err != nil {
		w.committed[idx] = prev
		return nil, &bizerror.ErrMutationRolledBack{Cause: err}
	}

	sortByDateDesc(w.committed)
	result := updated
	return &MutationResult{State: MutationStateConfirmed, Record: &result}, nil
}

// DeleteRecord removes the record from the committed view first, then
// issues the store delete, reinstating it at its original position when the
// store call fails.
func (w *Workspace) DeleteRecord(id types.ID) (*MutationResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.indexOf(id)
	if idx < 0 {
		return nil, gorm.ErrRecordNotFound
	}

	removed := w.committed[idx]
	w.committed = append(w.committed[:idx], w.committed[idx+1:]...)

	if err := record.DeleteWorkRecordFunc(id, w.Owner); err != nil {
		w.committed = append(w.committed[:idx], append([]record.WorkRecord{removed}, w.committed[idx:]...)...)
		return nil, &bizerror.ErrMutationRolledBack{Cause: err}
	}
	return &MutationResult{State: MutationStateConfirmed}, nil
}

func (w *Workspace) indexOf(id types.ID) int {
	for i := range w.committed {
		if w.committed[i].ID == id {
			return i
		}
	}
	return -1
}

func sortByDateDesc(records []record.WorkRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
}
