package store

import (
	"sync"
	"time"

	"ipodeck/internal/model"
)

// Conversation couples the conversation state with the mutex that serializes
// chat turns on it. Callers hold the lock across the whole
// append-summarize-reply sequence so concurrent messages in one conversation
// cannot interleave.
type Conversation struct {
	mu sync.Mutex
	model.Conversation
}

func (c *Conversation) Lock()   { c.mu.Lock() }
func (c *Conversation) Unlock() { c.mu.Unlock() }

// Snapshot copies the conversation state under the lock.
func (c *Conversation) Snapshot() model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := c.Conversation
	copied.Messages = append([]model.Message(nil), c.Messages...)
	if c.Summary != nil {
		s := *c.Summary
		copied.Summary = &s
	}
	return copied
}

type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{conversations: make(map[string]*Conversation)}
}

// GetOrCreate returns the conversation under conversationID, creating it
// bound to analysisID when absent.
func (s *ConversationStore) GetOrCreate(conversationID, analysisID string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conversations[conversationID]; ok {
		return conv
	}
	now := time.Now()
	conv := &Conversation{
		Conversation: model.Conversation{
			ID:         conversationID,
			AnalysisID: analysisID,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
	s.conversations[conversationID] = conv
	return conv
}

func (s *ConversationStore) Get(conversationID string) (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[conversationID]
	return conv, ok
}

func (s *ConversationStore) ListByAnalysisID(analysisID string) []*Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Conversation
	for _, conv := range s.conversations {
		if conv.AnalysisID == analysisID {
			out = append(out, conv)
		}
	}
	return out
}

func (s *ConversationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
