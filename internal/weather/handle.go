package weather

import (
	"go.uber.org/atomic"
)

// ModelHandle owns the process-wide CanonicalModel. Readers call Load and
// keep the returned pointer for the rest of their request; writers replace
// the model in one atomic store.
type ModelHandle struct {
	current atomic.Pointer[CanonicalModel]
}

// NewModelHandle returns a handle holding m, which may be nil.
func NewModelHandle(m *CanonicalModel) *ModelHandle {
	h := &ModelHandle{}
	if m != nil {
		h.current.Store(m)
	}
	return h
}

// Load returns the current model or nil if none has been stored.
func (h *ModelHandle) Load() *CanonicalModel {
	return h.current.Load()
}

// Swap installs m and returns the model it replaced.
func (h *ModelHandle) Swap(m *CanonicalModel) *CanonicalModel {
	return h.current.Swap(m)
}
