package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/assistant-chat/internal/llm"
	"github.com/capitalize-ai/assistant-chat/internal/model"
	"github.com/capitalize-ai/assistant-chat/pkg/logger"
)

func newThreadWithMessage(t *testing.T, s *ThreadStore, content string) string {
	t.Helper()
	ctx := context.Background()
	id, err := s.Create(ctx, "asst_1")
	require.NoError(t, err)
	require.NoError(t, s.AppendUserMessage(ctx, id, content))
	return id
}

func TestGatewayRunAppendsOneAssistantTurn(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s := newTestStore(0, pub)
	client := &fakeClient{reply: "We offer savings accounts."}
	g := NewCompletionGateway(s, client, "gpt-3.5-turbo", pub, logger.NewNop())

	id := newThreadWithMessage(t, s, "Hello")
	before, err := s.ListMessages(ctx, id)
	require.NoError(t, err)

	require.NoError(t, g.Run(ctx, id))

	after, err := s.ListMessages(ctx, id)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)])
	assert.Equal(t, model.Turn{Role: model.RoleAssistant, Content: "We offer savings accounts."}, after[len(after)-1])

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, "gpt-3.5-turbo", req.Model)
	assert.Equal(t, []llm.ChatMessage{
		{Role: "system", Content: "bank prompt"},
		{Role: "user", Content: "Hello"},
	}, req.Messages)

	assert.Contains(t, pub.types(), model.EventTypeRunCompleted)
}

func TestGatewayRunFailureLeavesThreadUnchanged(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s := newTestStore(0, pub)
	client := &fakeClient{err: &llm.UpstreamError{StatusCode: http.StatusTooManyRequests, Message: "Rate limit reached"}}
	g := NewCompletionGateway(s, client, "gpt-3.5-turbo", pub, logger.NewNop())

	id := newThreadWithMessage(t, s, "Hello")
	before, err := s.ListMessages(ctx, id)
	require.NoError(t, err)

	err = g.Run(ctx, id)
	var upErr *llm.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusTooManyRequests, upErr.HTTPStatus())
	assert.Equal(t, "Rate limit reached", upErr.Message)

	after, err := s.ListMessages(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	assert.Contains(t, pub.types(), model.EventTypeRunFailed)
}

func TestGatewayRunWrapsPlainErrors(t *testing.T) {
	s := newTestStore(0, nil)
	g := NewCompletionGateway(s, &fakeClient{err: errors.New("connection reset")}, "m", nil, logger.NewNop())

	id := newThreadWithMessage(t, s, "Hello")

	err := g.Run(context.Background(), id)
	var upErr *llm.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusInternalServerError, upErr.HTTPStatus())
	assert.Equal(t, "connection reset", upErr.Message)
}

func TestGatewayRunUnknownThread(t *testing.T) {
	s := newTestStore(0, nil)
	client := &fakeClient{reply: "unused"}
	g := NewCompletionGateway(s, client, "m", nil, logger.NewNop())

	err := g.Run(context.Background(), "thread_missing")
	assert.ErrorIs(t, err, ErrThreadNotFound)
	assert.Empty(t, client.requests)
}

func TestGatewayRunWithoutClient(t *testing.T) {
	s := newTestStore(0, nil)
	g := NewCompletionGateway(s, nil, "m", nil, logger.NewNop())

	id := newThreadWithMessage(t, s, "Hello")

	err := g.Run(context.Background(), id)
	var upErr *llm.UpstreamError
	require.True(t, errors.As(err, &upErr))

	turns, err := s.ListMessages(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, turns, 2)
}
