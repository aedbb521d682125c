// Package chat implements the conversational assistant: demo-mode
// conversations in memory, property context from the warehouse, and
// completions through the configured LLM provider.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/birddog/teddy/internal/llm"
	"github.com/birddog/teddy/internal/numeric"
	"github.com/birddog/teddy/internal/warehouse"
	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/logger"
	"github.com/birddog/teddy/pkg/redis"
)

// ErrEmptyMessage rejects blank chat messages.
var ErrEmptyMessage = errors.New("chat: message is empty")

// Warehouse is the read surface the chat service needs.
type Warehouse interface {
	FetchParcelProfile(ctx context.Context, parcelID string) (*warehouse.ParcelProfile, error)
}

// Request is one inbound chat message.
type Request struct {
	ConversationID   string `json:"conversation_id,omitempty"`
	Message          string `json:"message"`
	ConversationType string `json:"conversation_type,omitempty"`
	PropertyID       string `json:"property_id,omitempty"`
}

// Response is the assistant's reply.
type Response struct {
	ConversationID string                 `json:"conversation_id"`
	Response       string                 `json:"response"`
	Suggestions    []string               `json:"suggestions"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// PropertyContext is the cached per-parcel context injected into the
// prompt when a conversation concerns a specific property.
type PropertyContext struct {
	PropertyID       string  `json:"property_id"`
	Address          string  `json:"address,omitempty"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	County           string  `json:"county,omitempty"`
	Acreage          float64 `json:"acreage,omitempty"`
	TotalValue       float64 `json:"total_value,omitempty"`
	LandValue        float64 `json:"land_value,omitempty"`
	ImprovementValue float64 `json:"improvement_value,omitempty"`
	OwnerName        string  `json:"owner_name,omitempty"`
	UseDescription   string  `json:"use_description,omitempty"`
	Zoning           string  `json:"zoning,omitempty"`
}

// Service answers chat messages.
type Service struct {
	provider  llm.Provider
	warehouse Warehouse
	cache     *redis.Cache
	store     *Store
	cfg       *config.Config
	logger    *logger.Logger
}

// NewService creates the chat service. The cache may be nil; property
// context is then fetched fresh each time.
func NewService(provider llm.Provider, wh Warehouse, cache *redis.Cache, store *Store, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		provider:  provider,
		warehouse: wh,
		cache:     cache,
		store:     store,
		cfg:       cfg,
		logger:    log,
	}
}

// Store exposes the conversation store for handlers and the sweep job.
func (s *Service) Store() *Store {
	return s.store
}

// SendMessage processes one chat turn and returns the reply with
// follow-up suggestions.
func (s *Service) SendMessage(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	if req.ConversationType == "" {
		req.ConversationType = TypeGeneral
	}

	conv := s.store.GetOrCreate(req.ConversationID, req.ConversationType, req.PropertyID)
	s.store.Append(conv.ID, "user", req.Message)

	prompt := s.buildPrompt(ctx, conv.ID, req)

	llmCtx, cancel := context.WithTimeout(ctx, s.cfg.LLM.Timeout)
	defer cancel()

	reply, err := s.provider.Complete(llmCtx, llm.Request{
		System:      systemPrompt(req.ConversationType, req.PropertyID),
		Prompt:      prompt,
		MaxTokens:   s.cfg.LLM.MaxTokens,
		Temperature: s.cfg.LLM.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: completion: %w", err)
	}

	s.store.Append(conv.ID, "assistant", reply)

	return &Response{
		ConversationID: conv.ID,
		Response:       reply,
		Suggestions:    suggestions(req.ConversationType),
		Metadata: map[string]interface{}{
			"conversation_type": req.ConversationType,
			"property_id":       req.PropertyID,
			"demo_mode":         true,
		},
	}, nil
}

// buildPrompt folds property context and recent history around the
// current message.
func (s *Service) buildPrompt(ctx context.Context, conversationID string, req Request) string {
	var sb strings.Builder

	if req.PropertyID != "" {
		if pc := s.propertyContext(ctx, req.PropertyID); pc != nil {
			sb.WriteString("PROPERTY CONTEXT:\n")
			sb.WriteString(formatPropertyContext(pc))
			sb.WriteString("\n\n")
		}
	}

	history, _ := s.store.History(conversationID)
	// The last entry is the current message; replay what precedes it.
	if len(history) > 1 {
		sb.WriteString("CONVERSATION SO FAR:\n")
		for _, m := range history[:len(history)-1] {
			sb.WriteString(fmt.Sprintf("%s: %s\n", m.Role, m.Content))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("user: ")
	sb.WriteString(req.Message)
	return sb.String()
}

// propertyContext loads the parcel profile, preferring the cache.
// Failures produce a context-free prompt, never an error.
func (s *Service) propertyContext(ctx context.Context, propertyID string) *PropertyContext {
	key := redis.PropertyContextKey(propertyID)

	var pc PropertyContext
	if s.cache != nil {
		if found, err := s.cache.Get(ctx, key, &pc); err == nil && found {
			return &pc
		}
	}

	row, err := s.warehouse.FetchParcelProfile(ctx, propertyID)
	if err != nil {
		if !errors.Is(err, warehouse.ErrNoData) {
			s.logger.WithFields(map[string]interface{}{
				"property_id": propertyID,
				"error":       err.Error(),
			}).Warn("Property context unavailable")
		}
		return nil
	}

	pc = PropertyContext{
		PropertyID:       propertyID,
		Address:          row.Address.String,
		City:             row.City.String,
		State:            row.StateCode.String,
		County:           row.CountyID.String,
		Acreage:          numeric.FloatOr(row.Acres, 0),
		TotalValue:       numeric.FloatOr(row.TotalValue, 0),
		LandValue:        numeric.FloatOr(row.LandValue, 0),
		ImprovementValue: numeric.FloatOr(row.ImprovementValue, 0),
		OwnerName:        row.OwnerName.String,
		UseDescription:   row.UseDesc.String,
		Zoning:           row.Zoning.String,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, &pc, redis.TTLLong); err != nil {
			s.logger.WithError(err).Debug("Property context cache write failed")
		}
	}
	return &pc
}

func formatPropertyContext(pc *PropertyContext) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Property %s", pc.PropertyID))
	if pc.Acreage > 0 {
		parts = append(parts, fmt.Sprintf("%.1f acres", pc.Acreage))
	}
	if pc.Address != "" {
		parts = append(parts, pc.Address)
	}
	if pc.City != "" || pc.State != "" {
		parts = append(parts, strings.TrimSpace(pc.City+" "+pc.State))
	}
	if pc.TotalValue > 0 {
		parts = append(parts, fmt.Sprintf("assessed value $%.0f", pc.TotalValue))
	}
	if pc.UseDescription != "" {
		parts = append(parts, "use: "+pc.UseDescription)
	}
	if pc.OwnerName != "" {
		parts = append(parts, "owner: "+pc.OwnerName)
	}
	return strings.Join(parts, ", ")
}

// History returns the stored conversation, or false when unknown.
func (s *Service) History(conversationID string) (*Conversation, bool) {
	return s.store.Get(conversationID)
}

// DeleteConversation removes a conversation from the store.
func (s *Service) DeleteConversation(conversationID string) bool {
	return s.store.Delete(conversationID)
}

// SweepInterval is how often stale demo conversations are collected.
const SweepInterval = 15 * time.Minute
