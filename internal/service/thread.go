package service

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-chat/internal/model"
	"github.com/capitalize-ai/assistant-chat/pkg/logger"
	"github.com/capitalize-ai/assistant-chat/pkg/metrics"
)

// ThreadStore holds every live thread in memory for the lifetime of the
// process. When maxThreads is positive, the least recently used thread is
// evicted once the limit is exceeded.
type ThreadStore struct {
	assistants *AssistantRegistry
	events     EventPublisher
	logger     *logger.Logger
	maxThreads int
	newID      func() string

	mu      sync.Mutex
	threads map[string]*list.Element
	// recency orders *model.Thread values, most recently used at the front.
	recency *list.List
}

// NewThreadStore creates a new thread store.
func NewThreadStore(assistants *AssistantRegistry, events EventPublisher, log *logger.Logger, maxThreads int) *ThreadStore {
	if events == nil {
		events = NopPublisher{}
	}
	return &ThreadStore{
		assistants: assistants,
		events:     events,
		logger:     logger.OrGlobal(log),
		maxThreads: maxThreads,
		newID:      newThreadID,
		threads:    make(map[string]*list.Element),
		recency:    list.New(),
	}
}

func newThreadID() string {
	return "thread_" + uuid.Must(uuid.NewV7()).String()
}

// Create starts a new thread seeded with the assistant's system prompt.
func (s *ThreadStore) Create(ctx context.Context, assistantID string) (string, error) {
	assistant, err := s.assistants.Get(assistantID)
	if err != nil {
		return "", err
	}

	thread := &model.Thread{
		ID:          s.newID(),
		AssistantID: assistant.ID,
		Messages: []model.Turn{
			{Role: model.RoleSystem, Content: assistant.SystemPrompt},
		},
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.threads[thread.ID] = s.recency.PushFront(thread)
	evicted := s.evictLocked()
	active := len(s.threads)
	s.mu.Unlock()

	for _, id := range evicted {
		metrics.RecordThreadEvicted(active)
		s.logger.Debug("thread evicted", zap.String("thread_id", id))
	}
	metrics.RecordThreadCreated(assistant.ID, active)

	s.logger.Info("thread created",
		zap.String("thread_id", thread.ID),
		zap.String("assistant_id", assistant.ID),
	)

	publishEvent(ctx, s.events, s.logger, &model.ThreadEvent{
		ThreadID:    thread.ID,
		AssistantID: assistant.ID,
		Type:        model.EventTypeThreadCreated,
	})

	return thread.ID, nil
}

// AppendUserMessage appends a user turn. Content is stored verbatim.
func (s *ThreadStore) AppendUserMessage(ctx context.Context, threadID, content string) error {
	assistantID, err := s.appendTurn(threadID, model.Turn{Role: model.RoleUser, Content: content})
	if err != nil {
		return err
	}

	publishEvent(ctx, s.events, s.logger, &model.ThreadEvent{
		ThreadID:    threadID,
		AssistantID: assistantID,
		Type:        model.EventTypeMessageAppended,
		Role:        model.RoleUser,
	})

	return nil
}

// ListMessages returns a copy of the thread's turns in order.
func (s *ThreadStore) ListMessages(ctx context.Context, threadID string) ([]model.Turn, error) {
	turns, _, err := s.snapshot(threadID)
	return turns, err
}

// Exists reports whether the thread is live. It does not refresh the
// thread's recency.
func (s *ThreadStore) Exists(threadID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.threads[threadID]
	return ok
}

// Len returns the number of live threads.
func (s *ThreadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.threads)
}

// snapshot returns a copy of the thread's turns and its assistant id.
func (s *ThreadStore) snapshot(threadID string) ([]model.Turn, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.touchLocked(threadID)
	if !ok {
		return nil, "", ErrThreadNotFound
	}

	turns := make([]model.Turn, len(thread.Messages))
	copy(turns, thread.Messages)
	return turns, thread.AssistantID, nil
}

// appendTurn appends one turn and returns the thread's assistant id.
func (s *ThreadStore) appendTurn(threadID string, turn model.Turn) (string, error) {
	s.mu.Lock()
	thread, ok := s.touchLocked(threadID)
	if !ok {
		s.mu.Unlock()
		return "", ErrThreadNotFound
	}
	thread.Messages = append(thread.Messages, turn)
	assistantID := thread.AssistantID
	s.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(string(turn.Role)).Inc()
	return assistantID, nil
}

func (s *ThreadStore) touchLocked(threadID string) (*model.Thread, bool) {
	elem, ok := s.threads[threadID]
	if !ok {
		return nil, false
	}
	s.recency.MoveToFront(elem)
	return elem.Value.(*model.Thread), true
}

func (s *ThreadStore) evictLocked() []string {
	if s.maxThreads <= 0 {
		return nil
	}
	var evicted []string
	for len(s.threads) > s.maxThreads {
		oldest := s.recency.Back()
		if oldest == nil {
			break
		}
		thread := s.recency.Remove(oldest).(*model.Thread)
		delete(s.threads, thread.ID)
		evicted = append(evicted, thread.ID)
	}
	return evicted
}
