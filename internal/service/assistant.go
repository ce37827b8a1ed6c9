package service

import (
	"github.com/capitalize-ai/assistant-chat/internal/model"
)

// AssistantRegistry is the fixed, read-only set of assistants. It is built
// once at startup and safe for concurrent use.
type AssistantRegistry struct {
	ordered []model.Assistant
	byID    map[string]model.Assistant
}

// NewAssistantRegistry creates a registry preserving the given order. A
// later duplicate id replaces the earlier entry in place.
func NewAssistantRegistry(assistants []model.Assistant) *AssistantRegistry {
	r := &AssistantRegistry{
		ordered: make([]model.Assistant, 0, len(assistants)),
		byID:    make(map[string]model.Assistant, len(assistants)),
	}
	for _, a := range assistants {
		if _, exists := r.byID[a.ID]; exists {
			for i := range r.ordered {
				if r.ordered[i].ID == a.ID {
					r.ordered[i] = a
				}
			}
		} else {
			r.ordered = append(r.ordered, a)
		}
		r.byID[a.ID] = a
	}
	return r
}

// List returns all assistants in registration order.
func (r *AssistantRegistry) List() []model.Assistant {
	out := make([]model.Assistant, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Get returns the assistant with the given id.
func (r *AssistantRegistry) Get(id string) (model.Assistant, error) {
	a, ok := r.byID[id]
	if !ok {
		return model.Assistant{}, ErrAssistantNotFound
	}
	return a, nil
}
