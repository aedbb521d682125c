package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message is one turn in a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a demo-mode conversation kept in memory. There is no
// account system here; conversations expire instead of being owned.
type Conversation struct {
	ID         string    `json:"conversation_id"`
	Type       string    `json:"conversation_type"`
	PropertyID string    `json:"property_id,omitempty"`
	Messages   []Message `json:"messages"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store holds demo conversations in memory with an idle expiry.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	idleExpiry    time.Duration
	maxHistory    int
}

// NewStore creates a conversation store. Conversations idle longer
// than idleExpiry are removed by Sweep.
func NewStore(idleExpiry time.Duration, maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	return &Store{
		conversations: make(map[string]*Conversation),
		idleExpiry:    idleExpiry,
		maxHistory:    maxHistory,
	}
}

// GetOrCreate returns the conversation for id, creating one when id is
// empty or unknown. The returned ID is the authoritative one.
func (s *Store) GetOrCreate(id, conversationType, propertyID string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if c, ok := s.conversations[id]; ok {
			return c
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now().UTC()
	c := &Conversation{
		ID:         id,
		Type:       conversationType,
		PropertyID: propertyID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.conversations[id] = c
	return c
}

// Append records a message and trims history to the configured cap.
func (s *Store) Append(id, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok {
		return
	}
	c.Messages = append(c.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if len(c.Messages) > s.maxHistory {
		c.Messages = c.Messages[len(c.Messages)-s.maxHistory:]
	}
	c.UpdatedAt = time.Now().UTC()
}

// History returns a copy of the conversation's messages.
func (s *Store) History(id string) ([]Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[id]
	if !ok {
		return nil, false
	}
	out := make([]Message, len(c.Messages))
	copy(out, c.Messages)
	return out, true
}

// Get returns a snapshot of the conversation.
func (s *Store) Get(id string) (*Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[id]
	if !ok {
		return nil, false
	}
	snapshot := *c
	snapshot.Messages = make([]Message, len(c.Messages))
	copy(snapshot.Messages, c.Messages)
	return &snapshot, true
}

// Delete removes a conversation. Returns false when it did not exist.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return false
	}
	delete(s.conversations, id)
	return true
}

// Sweep removes conversations idle past the expiry and reports how
// many were dropped. The scheduler calls this periodically.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-s.idleExpiry)
	removed := 0
	for id, c := range s.conversations {
		if c.UpdatedAt.Before(cutoff) {
			delete(s.conversations, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
