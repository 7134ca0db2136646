package store

import (
	"sync"

	"ipodeck/internal/model"
)

// AnalysisEntry pairs a finished analysis with the extracted deck text that
// later chat turns are grounded on.
type AnalysisEntry struct {
	Result   model.AnalysisResult
	FullText string
}

// AnalysisStore is the process-lifetime home of analysis results. Nothing
// here survives a restart; re-uploading the same deck always produces a new
// entry under a new identifier.
type AnalysisStore struct {
	mu      sync.RWMutex
	entries map[string]*AnalysisEntry
	order   []string
}

func NewAnalysisStore() *AnalysisStore {
	return &AnalysisStore{entries: make(map[string]*AnalysisEntry)}
}

func (s *AnalysisStore) Put(entry AnalysisEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.Result.AnalysisID]; !exists {
		s.order = append(s.order, entry.Result.AnalysisID)
	}
	s.entries[entry.Result.AnalysisID] = &entry
}

func (s *AnalysisStore) Get(analysisID string) (*AnalysisEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[analysisID]
	if !ok {
		return nil, false
	}
	copied := *entry
	return &copied, true
}

// List returns stored results, newest first.
func (s *AnalysisStore) List() []model.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]model.AnalysisResult, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		results = append(results, s.entries[s.order[i]].Result)
	}
	return results
}

func (s *AnalysisStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
