package service

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-chat/internal/llm"
	"github.com/capitalize-ai/assistant-chat/internal/model"
	"github.com/capitalize-ai/assistant-chat/pkg/logger"
	"github.com/capitalize-ai/assistant-chat/pkg/metrics"
	"github.com/capitalize-ai/assistant-chat/pkg/tracing"
)

// CompletionGateway forwards a thread's history to the completion API and
// appends the reply.
type CompletionGateway struct {
	threads *ThreadStore
	client  llm.Client
	model   string
	events  EventPublisher
	logger  *logger.Logger
	tracer  trace.Tracer
}

// NewCompletionGateway creates a new completion gateway. model is sent
// unchanged with every request.
func NewCompletionGateway(
	threads *ThreadStore,
	client llm.Client,
	model string,
	events EventPublisher,
	log *logger.Logger,
) *CompletionGateway {
	if events == nil {
		events = NopPublisher{}
	}
	return &CompletionGateway{
		threads: threads,
		client:  client,
		model:   model,
		events:  events,
		logger:  logger.OrGlobal(log),
		tracer:  tracing.Tracer("github.com/capitalize-ai/assistant-chat/internal/service"),
	}
}

// Run sends the thread's full history upstream in a single blocking call
// and appends exactly one assistant turn on success. On failure the thread
// is left untouched and an *llm.UpstreamError is returned, unless the
// thread itself is unknown (ErrThreadNotFound).
func (g *CompletionGateway) Run(ctx context.Context, threadID string) error {
	ctx, span := g.tracer.Start(ctx, "CompletionGateway.Run",
		trace.WithAttributes(
			attribute.String("thread.id", threadID),
			attribute.String("llm.model", g.model),
		),
	)
	defer span.End()

	turns, assistantID, err := g.threads.snapshot(threadID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if g.client == nil {
		err := &llm.UpstreamError{Message: "completion client is not configured"}
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	messages := lo.Map(turns, func(t model.Turn, _ int) llm.ChatMessage {
		return llm.ChatMessage{Role: string(t.Role), Content: t.Content}
	})
	span.SetAttributes(attribute.Int("thread.turns", len(messages)))

	start := time.Now()
	resp, err := g.client.Complete(ctx, &llm.CompletionRequest{
		Model:    g.model,
		Messages: messages,
	})
	duration := time.Since(start)

	if err != nil {
		upErr := asUpstreamError(err)
		metrics.RecordLLMRequest(g.client.Name(), "", "error", duration.Seconds(), 0, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, upErr.Message)

		g.logger.Error("completion request failed",
			zap.String("thread_id", threadID),
			zap.Int("upstream_status", upErr.StatusCode),
			zap.Duration("duration", duration),
			zap.Error(err),
		)

		publishEvent(ctx, g.events, g.logger, &model.ThreadEvent{
			ThreadID:    threadID,
			AssistantID: assistantID,
			Type:        model.EventTypeRunFailed,
			Reason:      upErr.Message,
			Metadata:    map[string]any{"upstream_status": upErr.StatusCode},
		})
		return upErr
	}

	metrics.RecordLLMRequest(g.client.Name(), resp.Model, "success", duration.Seconds(), resp.TokensIn, resp.TokensOut)

	reply := model.Turn{Role: model.RoleAssistant, Content: resp.Message.Content}
	if _, err := g.threads.appendTurn(threadID, reply); err != nil {
		// Evicted while the request was in flight.
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	g.logger.Info("thread run completed",
		zap.String("thread_id", threadID),
		zap.String("model", resp.Model),
		zap.Int("tokens_in", resp.TokensIn),
		zap.Int("tokens_out", resp.TokensOut),
		zap.Duration("duration", duration),
	)

	publishEvent(ctx, g.events, g.logger, &model.ThreadEvent{
		ThreadID:    threadID,
		AssistantID: assistantID,
		Type:        model.EventTypeRunCompleted,
		Role:        model.RoleAssistant,
		Metadata: map[string]any{
			"model":       resp.Model,
			"tokens_in":   resp.TokensIn,
			"tokens_out":  resp.TokensOut,
			"stop_reason": resp.StopReason,
			"latency_ms":  resp.LatencyMs,
		},
	})

	return nil
}

func asUpstreamError(err error) *llm.UpstreamError {
	var upErr *llm.UpstreamError
	if errors.As(err, &upErr) {
		return upErr
	}
	return &llm.UpstreamError{Message: err.Error(), Err: err}
}
