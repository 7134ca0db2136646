package store

import (
	"fmt"
	"sync"
	"testing"

	"ipodeck/internal/model"
)

func entryWithID(id string) AnalysisEntry {
	return AnalysisEntry{
		Result:   model.AnalysisResult{AnalysisID: id, Filename: id + ".pdf"},
		FullText: "text for " + id,
	}
}

func TestAnalysisStorePutGet(t *testing.T) {
	s := NewAnalysisStore()
	s.Put(entryWithID("a1"))

	entry, ok := s.Get("a1")
	if !ok {
		t.Fatal("expected entry for a1")
	}
	if entry.FullText != "text for a1" {
		t.Errorf("full text = %q", entry.FullText)
	}
	if _, ok := s.Get("a2"); ok {
		t.Error("unexpected entry for a2")
	}
}

func TestAnalysisStoreGetReturnsCopy(t *testing.T) {
	s := NewAnalysisStore()
	s.Put(entryWithID("a1"))

	entry, _ := s.Get("a1")
	entry.FullText = "mutated"

	again, _ := s.Get("a1")
	if again.FullText != "text for a1" {
		t.Fatal("Get must not expose internal state")
	}
}

func TestAnalysisStoreListNewestFirst(t *testing.T) {
	s := NewAnalysisStore()
	s.Put(entryWithID("a1"))
	s.Put(entryWithID("a2"))
	s.Put(entryWithID("a3"))

	results := s.List()
	if len(results) != 3 {
		t.Fatalf("list length = %d, want 3", len(results))
	}
	want := []string{"a3", "a2", "a1"}
	for i, r := range results {
		if r.AnalysisID != want[i] {
			t.Errorf("position %d = %q, want %q", i, r.AnalysisID, want[i])
		}
	}
}

func TestAnalysisStoreConcurrentAccess(t *testing.T) {
	s := NewAnalysisStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("a%d", i)
			s.Put(entryWithID(id))
			if _, ok := s.Get(id); !ok {
				t.Errorf("missing entry %s", id)
			}
			s.List()
		}(i)
	}
	wg.Wait()
	if s.Len() != 20 {
		t.Fatalf("store length = %d, want 20", s.Len())
	}
}
