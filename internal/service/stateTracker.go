package service

import (
	"sync"

	"github.com/apcaballes87/cake-genie/internal/entity"
)

// StateTracker holds the single authoritative operation state. Every write
// carries the generation of the attempt it belongs to; writes from a stale
// generation are discarded, so a slow attempt that resolves late can never
// clobber state owned by a newer one.
type StateTracker struct {
	mu         sync.Mutex
	generation uint64
	state      entity.OperationState
	errMsg     string
	errKind    entity.ErrorKind
	estimate   *entity.PriceEstimate
	record     *entity.UploadRecord
}

func NewStateTracker() *StateTracker {
	return &StateTracker{state: entity.StateIdle}
}

// NextGeneration opens a new attempt: bumps the generation, resets state to
// idle and drops results owned by older attempts.
func (t *StateTracker) NextGeneration() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.state = entity.StateIdle
	t.errMsg = ""
	t.errKind = ""
	t.estimate = nil
	t.record = nil
	return t.generation
}

// SetState transitions the phase. Returns false when gen is stale.
func (t *StateTracker) SetState(gen uint64, state entity.OperationState) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return false
	}
	t.state = state
	return true
}

func (t *StateTracker) SetRecord(gen uint64, rec *entity.UploadRecord) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return false
	}
	t.record = rec
	return true
}

func (t *StateTracker) SetEstimate(gen uint64, estimate *entity.PriceEstimate) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return false
	}
	t.estimate = estimate
	t.state = entity.StateComplete
	return true
}

func (t *StateTracker) SetError(gen uint64, kind entity.ErrorKind, msg string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return false
	}
	t.state = entity.StateError
	t.errKind = kind
	t.errMsg = msg
	return true
}

// ClearError dismisses the error display without touching results. The state
// returns to idle only if the attempt is still current and still in error.
func (t *StateTracker) ClearError(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation || t.state != entity.StateError {
		return
	}
	t.state = entity.StateIdle
	t.errMsg = ""
	t.errKind = ""
}

func (t *StateTracker) Snapshot() entity.StateSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return entity.StateSnapshot{
		State:      t.state,
		Generation: t.generation,
		Error:      t.errMsg,
		ErrorKind:  string(t.errKind),
	}
}

func (t *StateTracker) Estimate() *entity.PriceEstimate {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.estimate
}

func (t *StateTracker) Record() *entity.UploadRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record
}
