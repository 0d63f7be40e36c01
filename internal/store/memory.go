package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-prediction/internal/weather"
)

var (
	// ErrNotFound is returned when no run exists for a given ID.
	ErrNotFound = errors.New("no prediction run with that id")
)

// Run is a prediction kept around so clients can fetch it again by ID.
type Run struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	Prediction weather.Prediction `json:"-"`
}

// MemoryStore is a concurrency-safe in-memory store of recent prediction
// runs, oldest first.
type MemoryStore struct {
	mu sync.RWMutex

	runs  []Run
	index map[string]int // id -> position in runs

	// retention configuration
	maxHistory int           // max number of runs kept
	maxAge     time.Duration // optional max age for runs

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		index:      make(map[string]int),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save records p under a fresh ID and enforces retention.
func (s *MemoryStore) Save(p weather.Prediction) Run {
	run := Run{
		ID:         uuid.NewString(),
		CreatedAt:  s.now().UTC(),
		Prediction: p,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, run)

	drop := 0
	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.runs) > s.maxHistory {
		drop = len(s.runs) - s.maxHistory
	}
	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := run.CreatedAt.Add(-s.maxAge)
		for drop < len(s.runs) && s.runs[drop].CreatedAt.Before(cutoff) {
			drop++
		}
	}
	if drop > 0 {
		s.runs = append([]Run(nil), s.runs[drop:]...)
		s.reindex()
	} else {
		s.index[run.ID] = len(s.runs) - 1
	}
	return run
}

// Get returns the run with the given ID. Runs older than maxAge are
// reported as missing even before the next Save prunes them.
func (s *MemoryStore) Get(id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	run := s.runs[i]
	if s.maxAge > 0 && run.CreatedAt.Before(s.now().UTC().Add(-s.maxAge)) {
		return Run{}, ErrNotFound
	}
	return run, nil
}

// Len reports how many runs are retained.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

func (s *MemoryStore) reindex() {
	s.index = make(map[string]int, len(s.runs))
	for i, r := range s.runs {
		s.index[r.ID] = i
	}
}
