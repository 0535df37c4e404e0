package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumusha/remitflow/checkpoint"
	"github.com/kumusha/remitflow/config"
	"github.com/kumusha/remitflow/core"
	"github.com/kumusha/remitflow/graph"
	"github.com/kumusha/remitflow/server"
	"github.com/kumusha/remitflow/workflow"
)

type cannedModel struct {
	reply string
}

func (m *cannedModel) Chat(ctx context.Context, system string, messages []core.Message, tools []core.ToolDefinition) (core.Message, error) {
	return core.AssistantMessage(m.reply), nil
}

type noopExecutor struct{}

func (noopExecutor) ListTools(ctx context.Context) ([]core.ToolDefinition, error) {
	return nil, nil
}

func (noopExecutor) CallTool(ctx context.Context, name string, args json.RawMessage) (*core.ToolCallResult, error) {
	return &core.ToolCallResult{}, nil
}

func newTestHandler(t *testing.T) (http.Handler, checkpoint.Store) {
	t.Helper()
	store := checkpoint.NewMemoryStore()
	g := graph.New(&cannedModel{reply: "hello from the assistant"}, noopExecutor{},
		workflow.NewRegistry(), workflow.Env{}, store, zerolog.Nop())
	srv := server.New(g, store, zerolog.Nop())
	return srv.Handler(config.ServerConfig{AllowedOrigins: []string{"*"}}), store
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestChatCreatesThreadAndReplies(t *testing.T) {
	handler, _ := newTestHandler(t)

	body := strings.NewReader(`{"message": "tell me about sending money abroad"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ThreadID string         `json:"thread_id"`
		Messages []core.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ThreadID)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "hello from the assistant", resp.Messages[1].Content)
}

func TestChatReusesThread(t *testing.T) {
	handler, _ := newTestHandler(t)

	first := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"thread_id": "thread-1", "message": "first message about rates"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"thread_id": "thread-1", "message": "and a second one"}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ThreadID string `json:"thread_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "thread-1", resp.ThreadID)
}

func TestChatRejectsBadBody(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	handler, _ := newTestHandler(t)

	chat := httptest.NewRequest(http.MethodPost, "/api/chat",
		strings.NewReader(`{"thread_id": "t-list", "message": "what are the transfer fees?"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, chat)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var threads []checkpoint.ThreadInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &threads))
	require.Len(t, threads, 1)
	assert.Equal(t, "t-list", threads[0].ThreadID)
	assert.Equal(t, "what are the transfer fees?", threads[0].Title)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/sessions/t-list", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	var after []checkpoint.ThreadInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Empty(t, after)
}
