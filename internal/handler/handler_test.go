package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/assistant-chat/internal/llm"
	"github.com/capitalize-ai/assistant-chat/internal/middleware"
	"github.com/capitalize-ai/assistant-chat/internal/model"
	"github.com/capitalize-ai/assistant-chat/internal/service"
	"github.com/capitalize-ai/assistant-chat/pkg/logger"
)

var testAssistants = []model.Assistant{
	{ID: "asst_1", Name: "Banking Assistant", SystemPrompt: "bank prompt"},
	{ID: "asst_2", Name: "Grocery Assistant", SystemPrompt: "grocery prompt"},
}

const upstreamReply = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"model": "gpt-3.5-turbo-0125",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "We offer savings accounts."}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 20, "completion_tokens": 5, "total_tokens": 25}
}`

type testServer struct {
	srv     *httptest.Server
	threads *service.ThreadStore
}

// newTestServer wires the full router against a fake chat-completions
// upstream answering with status and body.
func newTestServer(t *testing.T, status int, body string) *testServer {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(upstream.Close)

	client, err := llm.NewOpenAIClient("sk-test", upstream.URL+"/v1")
	require.NoError(t, err)

	log := logger.NewNop()
	registry := service.NewAssistantRegistry(testAssistants)
	threads := service.NewThreadStore(registry, nil, log, 0)
	gateway := service.NewCompletionGateway(threads, client, "gpt-3.5-turbo", nil, log)

	router := NewRouter(RouterConfig{
		Assistants:     NewAssistantHandler(registry),
		Threads:        NewThreadHandler(threads, gateway, log),
		Health:         NewHealthHandler(nil),
		AllowedOrigins: []string{"*"},
		Logger:         log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, threads: threads}
}

func (s *testServer) do(t *testing.T, method, path, body string, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *testServer) createThread(t *testing.T, assistantID string) string {
	t.Helper()
	var created model.CreateThreadResponse
	status := s.do(t, http.MethodPost, "/api/threads", `{"assistant_id":"`+assistantID+`"}`, &created)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, created.ThreadID)
	return created.ThreadID
}

func TestListAssistants(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)

	var resp model.ListAssistantsResponse
	status := s.do(t, http.MethodGet, "/api/assistants", "", &resp)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Assistants, 2)
	assert.Equal(t, "asst_1", resp.Assistants[0].ID)
	assert.Equal(t, "Grocery Assistant", resp.Assistants[1].Name)
}

func TestGetAssistant(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)

	var resp model.GetAssistantResponse
	status := s.do(t, http.MethodGet, "/api/assistants/asst_1", "", &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bank prompt", resp.Assistant.SystemPrompt)

	var errResp model.ErrorResponse
	status = s.do(t, http.MethodGet, "/api/assistants/does_not_exist", "", &errResp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Assistant not found", errResp.Error)
}

func TestCreateThreadUnknownAssistant(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)

	var errResp model.ErrorResponse
	status := s.do(t, http.MethodPost, "/api/threads", `{"assistant_id":"asst_9"}`, &errResp)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Assistant not found", errResp.Error)
	assert.Zero(t, s.threads.Len())
}

func TestCreateThreadMalformedBody(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)

	var errResp model.ErrorResponse
	status := s.do(t, http.MethodPost, "/api/threads", `{not json`, &errResp)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid request body", errResp.Error)
}

func TestCreateThreadWithoutBody(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)

	var errResp model.ErrorResponse
	status := s.do(t, http.MethodPost, "/api/threads", "", &errResp)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Assistant not found", errResp.Error)
	assert.Zero(t, s.threads.Len())
}

func TestAppendMessageUnknownThreadChecksExistenceFirst(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)

	cases := map[string]string{
		"no body":   "",
		"too large": `{"message":"` + strings.Repeat("a", middleware.MaxMessageBytes+1) + `"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var errResp model.ErrorResponse
			status := s.do(t, http.MethodPost, "/api/threads/thread_missing/messages", body, &errResp)
			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, "Thread not found", errResp.Error)
		})
	}
}

func TestAppendMessageWithoutBodyStoresEmptyTurn(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)
	threadID := s.createThread(t, "asst_1")

	var ok model.SuccessResponse
	status := s.do(t, http.MethodPost, "/api/threads/"+threadID+"/messages", "", &ok)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, ok.Success)

	var list model.ListMessagesResponse
	s.do(t, http.MethodGet, "/api/threads/"+threadID+"/messages", "", &list)
	require.Len(t, list.Messages, 2)
	assert.Equal(t, model.Turn{Role: model.RoleUser, Content: ""}, list.Messages[1])
}

func TestAppendMessageTooLarge(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)
	threadID := s.createThread(t, "asst_1")

	var errResp model.ErrorResponse
	body := `{"message":"` + strings.Repeat("a", middleware.MaxMessageBytes+1) + `"}`
	status := s.do(t, http.MethodPost, "/api/threads/"+threadID+"/messages", body, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)

	turns, err := s.threads.ListMessages(context.Background(), threadID)
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}

func TestAppendAndListMessages(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)
	threadID := s.createThread(t, "asst_1")

	var ok model.SuccessResponse
	status := s.do(t, http.MethodPost, "/api/threads/"+threadID+"/messages", `{"message":"Hello"}`, &ok)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, ok.Success)

	var list model.ListMessagesResponse
	status = s.do(t, http.MethodGet, "/api/threads/"+threadID+"/messages", "", &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list.Messages, 2)
	assert.Equal(t, model.Turn{Role: model.RoleSystem, Content: "bank prompt"}, list.Messages[0])
	assert.Equal(t, model.Turn{Role: model.RoleUser, Content: "Hello"}, list.Messages[1])
}

func TestUnknownThread(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/threads/thread_missing/messages", `{"message":"Hello"}`},
		{http.MethodGet, "/api/threads/thread_missing/messages", ""},
		{http.MethodPost, "/api/threads/thread_missing/run", ""},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var errResp model.ErrorResponse
			status := s.do(t, tc.method, tc.path, tc.body, &errResp)
			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, "Thread not found", errResp.Error)
		})
	}
	assert.Zero(t, s.threads.Len())
}

func TestRunAppendsAssistantReply(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)
	threadID := s.createThread(t, "asst_1")
	s.do(t, http.MethodPost, "/api/threads/"+threadID+"/messages", `{"message":"Hello"}`, nil)

	var ok model.SuccessResponse
	status := s.do(t, http.MethodPost, "/api/threads/"+threadID+"/run", "", &ok)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, ok.Success)

	var list model.ListMessagesResponse
	s.do(t, http.MethodGet, "/api/threads/"+threadID+"/messages", "", &list)
	require.Len(t, list.Messages, 3)
	assert.Equal(t, model.Turn{Role: model.RoleAssistant, Content: "We offer savings accounts."}, list.Messages[2])
}

func TestRunMirrorsUpstreamError(t *testing.T) {
	s := newTestServer(t, http.StatusUnauthorized, `{
		"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}
	}`)
	threadID := s.createThread(t, "asst_2")
	s.do(t, http.MethodPost, "/api/threads/"+threadID+"/messages", `{"message":"Hello"}`, nil)

	var errResp model.ErrorResponse
	status := s.do(t, http.MethodPost, "/api/threads/"+threadID+"/run", "", &errResp)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Incorrect API key provided", errResp.Error)

	var list model.ListMessagesResponse
	s.do(t, http.MethodGet, "/api/threads/"+threadID+"/messages", "", &list)
	assert.Len(t, list.Messages, 2)
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)

	var body map[string]string
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", &body))
	assert.Equal(t, "healthy", body["status"])

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "", &body))
	assert.Equal(t, "ready", body["status"])
}

type notReady struct{}

func (notReady) Ready() bool { return false }

func TestReadyReportsEventStream(t *testing.T) {
	h := NewHealthHandler(notReady{})

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStaticClient(t *testing.T) {
	s := newTestServer(t, http.StatusOK, upstreamReply)

	for _, path := range []string{"/", "/scripts.js", "/styles.css"} {
		resp, err := s.srv.Client().Get(s.srv.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.NotEmpty(t, body, path)
	}

	resp, err := s.srv.Client().Get(s.srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestStaticClientDropsStaleThreadSelections(t *testing.T) {
	script, err := staticFiles.ReadFile("static/scripts.js")
	require.NoError(t, err)

	src := string(script)
	assert.Contains(t, src, "const selection = ++state.selection;")
	assert.Contains(t, src, "if (selection !== state.selection) {")
}
