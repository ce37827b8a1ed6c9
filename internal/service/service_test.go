package service

import (
	"context"
	"sync"

	"github.com/capitalize-ai/assistant-chat/internal/llm"
	"github.com/capitalize-ai/assistant-chat/internal/model"
	"github.com/capitalize-ai/assistant-chat/pkg/logger"
)

var testAssistants = []model.Assistant{
	{ID: "asst_1", Name: "Banking Assistant", SystemPrompt: "bank prompt"},
	{ID: "asst_2", Name: "Grocery Assistant", SystemPrompt: "grocery prompt"},
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.ThreadEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, event *model.ThreadEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return p.err
}

func (p *recordingPublisher) types() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeClient struct {
	mu       sync.Mutex
	requests []llm.CompletionRequest
	reply    string
	err      error
}

func (c *fakeClient) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, *req)
	if c.err != nil {
		return nil, c.err
	}
	return &llm.CompletionResponse{
		Message:   llm.ChatMessage{Role: "assistant", Content: c.reply},
		Model:     req.Model,
		TokensIn:  10,
		TokensOut: 2,
	}, nil
}

func (c *fakeClient) Name() string { return "fake" }

func newTestStore(maxThreads int, pub EventPublisher) *ThreadStore {
	return NewThreadStore(NewAssistantRegistry(testAssistants), pub, logger.NewNop(), maxThreads)
}
