package graph_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumusha/remitflow/checkpoint"
	"github.com/kumusha/remitflow/core"
	"github.com/kumusha/remitflow/graph"
	"github.com/kumusha/remitflow/tools"
	"github.com/kumusha/remitflow/workflow"
)

// scriptedModel returns its replies in order; repeats the last one when the
// script runs out.
type scriptedModel struct {
	replies []core.Message
	err     error
	calls   int
	systems []string
}

func (m *scriptedModel) Chat(ctx context.Context, system string, messages []core.Message, tools []core.ToolDefinition) (core.Message, error) {
	m.calls++
	m.systems = append(m.systems, system)
	if m.err != nil {
		return core.Message{}, m.err
	}
	i := m.calls - 1
	if i >= len(m.replies) {
		i = len(m.replies) - 1
	}
	return m.replies[i], nil
}

type fakeExecutor struct {
	results map[string]*core.ToolCallResult
	err     error
	calls   []struct {
		Name string
		Args json.RawMessage
	}
}

func (e *fakeExecutor) ListTools(ctx context.Context) ([]core.ToolDefinition, error) {
	return tools.Definitions(), nil
}

func (e *fakeExecutor) CallTool(ctx context.Context, name string, args json.RawMessage) (*core.ToolCallResult, error) {
	e.calls = append(e.calls, struct {
		Name string
		Args json.RawMessage
	}{name, args})
	if e.err != nil {
		return nil, e.err
	}
	if r, ok := e.results[name]; ok {
		return r, nil
	}
	return textResult("ok"), nil
}

func textResult(text string) *core.ToolCallResult {
	return &core.ToolCallResult{Content: []core.TextContent{{Type: "text", Text: text}}}
}

func newTestGraph(model *scriptedModel, exec *fakeExecutor) (*graph.Graph, checkpoint.Store) {
	store := checkpoint.NewMemoryStore()
	g := graph.New(model, exec, workflow.NewRegistry(), workflow.Env{}, store, zerolog.Nop())
	return g, store
}

func TestRunWelcomesNewThread(t *testing.T) {
	model := &scriptedModel{replies: []core.Message{core.AssistantMessage("hi")}}
	g, _ := newTestGraph(model, &fakeExecutor{})

	result, err := g.Run(context.Background(), "t1", "", "")
	require.NoError(t, err)

	require.Len(t, result.Messages, 1)
	assert.Equal(t, core.RoleAssistant, result.Messages[0].Role)
	assert.Equal(t, "How can I help you today?", result.Messages[0].Content)
	// The model is never consulted for the greeting.
	assert.Equal(t, 0, model.calls)
}

func TestRunGuidedWorkflowHandsBackToChat(t *testing.T) {
	model := &scriptedModel{replies: []core.Message{core.AssistantMessage("chat reply")}}
	g, _ := newTestGraph(model, &fakeExecutor{})

	result, err := g.Run(context.Background(), "t1", "I need a refund", "")
	require.NoError(t, err)

	require.Len(t, result.Messages, 3)
	assert.Equal(t, core.RoleUser, result.Messages[0].Role)
	summary := result.Messages[1]
	assert.Equal(t, core.RoleAssistant, summary.Role)
	assert.Contains(t, summary.Content, "refund")
	assert.Contains(t, summary.Content, "What type of refund are you looking for?")

	// Chat runs after the workflow summary with the gathered context in
	// its system prompt.
	require.Equal(t, 1, model.calls)
	assert.Contains(t, model.systems[0], "CONTEXT FROM GUIDED WORKFLOWS")
	assert.Contains(t, model.systems[0], "eligible_count")
	assert.Equal(t, "chat reply", result.Messages[2].Content)
}

func TestRunChatExecutesToolsAndLoops(t *testing.T) {
	model := &scriptedModel{replies: []core.Message{
		{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{
			{ID: "call-1", Name: "get_balance", Args: json.RawMessage(`{}`)},
		}},
		core.AssistantMessage("Your balance is 125.50 ZAR."),
	}}
	exec := &fakeExecutor{results: map[string]*core.ToolCallResult{
		"get_balance": textResult(`{"balance": 125.50}`),
	}}
	g, _ := newTestGraph(model, exec)

	result, err := g.Run(context.Background(), "t1", "What's my balance?", "my-token")
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, "get_balance", exec.calls[0].Name)

	// The caller's token is injected into tool arguments.
	var args map[string]string
	require.NoError(t, json.Unmarshal(exec.calls[0].Args, &args))
	assert.Equal(t, "my-token", args["external_token"])

	last := result.Messages[len(result.Messages)-1]
	assert.Equal(t, "Your balance is 125.50 ZAR.", last.Content)
	assert.Equal(t, 2, model.calls)
	assert.False(t, result.AwaitingConfirmation)
}

func TestRunTicketConfirmFlow(t *testing.T) {
	model := &scriptedModel{replies: []core.Message{
		{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{
			{ID: "call-1", Name: "create_ticket", Args: json.RawMessage(`{"subject": "Failed transfer", "description": "txn_7 failed"}`)},
		}},
	}}
	exec := &fakeExecutor{results: map[string]*core.ToolCallResult{
		"create_ticket": textResult(`{"ticketId": "TICKET-4711", "status": "open"}`),
	}}
	g, _ := newTestGraph(model, exec)

	result, err := g.Run(context.Background(), "t1", "Something went wrong, file a ticket", "")
	require.NoError(t, err)

	assert.True(t, result.AwaitingConfirmation)
	last := result.Messages[len(result.Messages)-1]
	assert.Contains(t, last.Content, "Failed transfer")
	assert.Contains(t, last.Content, "CONFIRM")
	// Nothing executed yet.
	assert.Empty(t, exec.calls)

	result, err = g.Run(context.Background(), "t1", "CONFIRM", "tok")
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, "create_ticket", exec.calls[0].Name)
	assert.False(t, result.AwaitingConfirmation)

	last = result.Messages[len(result.Messages)-1]
	assert.Contains(t, last.Content, "Ticket ID: TICKET-4711")
}

func TestRunTicketCancelHasNoSideEffect(t *testing.T) {
	model := &scriptedModel{replies: []core.Message{
		{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{
			{ID: "call-1", Name: "create_ticket", Args: json.RawMessage(`{"subject": "Anything"}`)},
		}},
	}}
	exec := &fakeExecutor{}
	g, _ := newTestGraph(model, exec)

	_, err := g.Run(context.Background(), "t1", "file a ticket please", "")
	require.NoError(t, err)

	result, err := g.Run(context.Background(), "t1", "CANCEL", "")
	require.NoError(t, err)

	assert.Empty(t, exec.calls)
	assert.False(t, result.AwaitingConfirmation)
	last := result.Messages[len(result.Messages)-1]
	assert.Contains(t, last.Content, "cancelled")
}

// Only tools whose listed definition carries the confirmation flag suspend
// the thread; the final transfer step runs straight through.
func TestRunExecuteTransactionRunsWithoutGate(t *testing.T) {
	model := &scriptedModel{replies: []core.Message{
		{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{
			{ID: "call-1", Name: "execute_transaction", Args: json.RawMessage(`{"transaction_id": "txn_9", "payment_method_code": "EFT"}`)},
		}},
		core.AssistantMessage("Transfer finalized."),
	}}
	exec := &fakeExecutor{results: map[string]*core.ToolCallResult{
		"execute_transaction": textResult(`{"status": "PENDING_PAYMENT"}`),
	}}
	g, _ := newTestGraph(model, exec)

	result, err := g.Run(context.Background(), "t1", "please finalize my transfer now", "")
	require.NoError(t, err)

	require.Len(t, exec.calls, 1)
	assert.Equal(t, "execute_transaction", exec.calls[0].Name)
	assert.False(t, result.AwaitingConfirmation)
	assert.Equal(t, "Transfer finalized.", result.Messages[len(result.Messages)-1].Content)
}

func TestRunOtherReplyKeepsTicketPending(t *testing.T) {
	model := &scriptedModel{replies: []core.Message{
		{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{
			{ID: "call-1", Name: "create_ticket", Args: json.RawMessage(`{"subject": "Anything"}`)},
		}},
	}}
	exec := &fakeExecutor{}
	g, _ := newTestGraph(model, exec)

	_, err := g.Run(context.Background(), "t1", "file a ticket please", "")
	require.NoError(t, err)

	// A non-CONFIRM reply re-prompts and keeps the thread suspended.
	result, err := g.Run(context.Background(), "t1", "actually, what's my balance?", "")
	require.NoError(t, err)

	assert.Empty(t, exec.calls)
	assert.True(t, result.AwaitingConfirmation)
	last := result.Messages[len(result.Messages)-1]
	assert.Contains(t, last.Content, "CONFIRM")

	// The held call still executes on a later CONFIRM.
	result, err = g.Run(context.Background(), "t1", "CONFIRM", "")
	require.NoError(t, err)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, "create_ticket", exec.calls[0].Name)
	assert.False(t, result.AwaitingConfirmation)
}

func TestRunModelFailureFallsBack(t *testing.T) {
	model := &scriptedModel{err: errors.New("model unavailable")}
	g, _ := newTestGraph(model, &fakeExecutor{})

	result, err := g.Run(context.Background(), "t1", "hello there, what can you do?", "")
	require.NoError(t, err)

	last := result.Messages[len(result.Messages)-1]
	assert.Contains(t, last.Content, "I apologize")
	assert.Contains(t, last.Content, "Show available countries")
}

func TestRunPersistsAcrossInvocations(t *testing.T) {
	model := &scriptedModel{replies: []core.Message{
		core.AssistantMessage("first"),
		core.AssistantMessage("second"),
	}}
	g, store := newTestGraph(model, &fakeExecutor{})

	_, err := g.Run(context.Background(), "t1", "tell me about exchange rates today", "")
	require.NoError(t, err)
	_, err = g.Run(context.Background(), "t1", "and tomorrow?", "")
	require.NoError(t, err)

	cp, ok, err := store.Latest(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, ok)

	var state struct {
		Messages []core.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(cp.State, &state))
	assert.Len(t, state.Messages, 4)

	// Title comes from the first user message.
	threads, err := store.Threads(context.Background())
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "tell me about exchange rates today", threads[0].Title)
}

func TestThreadTitleTruncatesOnRuneBoundary(t *testing.T) {
	model := &scriptedModel{replies: []core.Message{core.AssistantMessage("noted")}}
	g, store := newTestGraph(model, &fakeExecutor{})

	_, err := g.Run(context.Background(), "t1", strings.Repeat("é", 70), "")
	require.NoError(t, err)

	threads, err := store.Threads(context.Background())
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, strings.Repeat("é", 60), threads[0].Title)
	assert.True(t, utf8.ValidString(threads[0].Title))
}
