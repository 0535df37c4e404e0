// Package graph runs the conversation state machine: intent detection,
// guided-workflow summarization, the chat turn, tool execution, and the
// human-in-the-loop confirmation gate for ticket creation. State is
// checkpointed per thread so a conversation suspended on confirmation can
// resume in a later request.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kumusha/remitflow/checkpoint"
	"github.com/kumusha/remitflow/core"
	"github.com/kumusha/remitflow/llm"
	"github.com/kumusha/remitflow/wallet"
	"github.com/kumusha/remitflow/workflow"
)

// maxToolTurns bounds the chat/tool loop within one user turn.
const maxToolTurns = 8

// ToolExecutor invokes tools on the remote tool server.
type ToolExecutor interface {
	ListTools(ctx context.Context) ([]core.ToolDefinition, error)
	CallTool(ctx context.Context, name string, args json.RawMessage) (*core.ToolCallResult, error)
}

// Graph is the conversation state machine.
type Graph struct {
	model    llm.ChatModel
	tools    ToolExecutor
	registry *workflow.Registry
	env      workflow.Env
	store    checkpoint.Store
	logger   zerolog.Logger
}

// New creates a conversation graph.
func New(model llm.ChatModel, tools ToolExecutor, registry *workflow.Registry, env workflow.Env,
	store checkpoint.Store, logger zerolog.Logger) *Graph {
	return &Graph{
		model:    model,
		tools:    tools,
		registry: registry,
		env:      env,
		store:    store,
		logger:   logger.With().Str("component", "graph").Logger(),
	}
}

// Result is the outcome of one run: the messages produced this turn and
// whether the thread is now suspended waiting for a confirmation reply.
type Result struct {
	ThreadID             string         `json:"thread_id"`
	Messages             []core.Message `json:"messages"`
	AwaitingConfirmation bool           `json:"awaiting_confirmation"`
}

// Run processes one user message on a thread. An empty userMessage on a new
// thread produces the welcome greeting. When the thread is suspended on a
// ticket confirmation, the message is interpreted as the confirmation reply.
func (g *Graph) Run(ctx context.Context, threadID, userMessage, externalToken string) (*Result, error) {
	state, err := g.loadState(ctx, threadID)
	if err != nil {
		return nil, err
	}
	mark := len(state.Messages)

	if state.AwaitingConfirmation {
		g.resume(ctx, state, userMessage, externalToken)
	} else {
		g.runTurn(ctx, state, userMessage, externalToken)
	}

	if err := g.saveState(ctx, threadID, state); err != nil {
		return nil, err
	}

	return &Result{
		ThreadID:             threadID,
		Messages:             state.Messages[mark:],
		AwaitingConfirmation: state.AwaitingConfirmation,
	}, nil
}

func (g *Graph) runTurn(ctx context.Context, state *State, userMessage, externalToken string) {
	// Welcome a brand-new thread and wait for real input.
	if userMessage == "" && core.CountByRole(state.Messages, core.RoleUser) == 0 {
		state.Messages = append(state.Messages, core.AssistantMessage(welcomeReply))
		return
	}
	if userMessage != "" {
		state.Messages = append(state.Messages, core.UserMessage(userMessage))
	}

	g.detectIntent(state)

	// A matched workflow emits its scripted summary first, then hands the
	// turn to chat with the gathered context in scope.
	if state.CurrentWorkflow != "" && state.WorkflowStep != StepCompleted {
		g.runWorkflow(ctx, state)
	}

	g.chatLoop(ctx, state, externalToken)
}

// detectIntent runs only when no workflow is active; an active workflow owns
// the turn until it completes.
func (g *Graph) detectIntent(state *State) {
	if state.CurrentWorkflow != "" {
		return
	}
	last := core.LastUserMessage(state.Messages)
	if last == "" {
		return
	}
	if name, ok := workflow.DetectIntent(last); ok {
		g.logger.Info().Str("workflow", name).Msg("intent detected")
		state.CurrentWorkflow = name
	}
}

// runWorkflow executes the guided workflow exactly once: gather context,
// emit the scripted summary and follow-up, then mark the workflow completed
// and clear it so the next user turn re-enables intent detection.
func (g *Graph) runWorkflow(ctx context.Context, state *State) {
	wf, err := g.registry.Get(state.CurrentWorkflow)
	if err != nil {
		g.logger.Warn().Err(err).Msg("unknown workflow, falling through to chat")
		state.CurrentWorkflow = ""
		state.WorkflowStep = ""
		return
	}

	wc, err := wf.Summarize(ctx, g.env, state.recentContents(5))
	if err != nil {
		g.logger.Warn().Err(err).Str("workflow", wf.Name()).Msg("workflow summarization failed")
		wc = workflow.Context{}
	}
	state.setWorkflowContext(wf.Name(), wc)
	state.WorkflowStep = StepSummarized

	reply := wf.SummaryMessage(wc) + "\n\n" + wf.Question(wc)
	if suggestions := wf.Suggestions(wc); len(suggestions) > 0 {
		reply += "\n\n- " + strings.Join(suggestions, "\n- ")
	}
	state.Messages = append(state.Messages, core.AssistantMessage(reply))

	state.WorkflowStep = StepCompleted
	state.CurrentWorkflow = ""
}

// chatLoop alternates model turns and tool execution until the model stops
// calling tools, a confirmation gate suspends the thread, or the turn budget
// runs out.
func (g *Graph) chatLoop(ctx context.Context, state *State, externalToken string) {
	defs, err := g.tools.ListTools(ctx)
	if err != nil {
		g.logger.Warn().Err(err).Msg("tool listing failed, chatting without tools")
	}
	gated := map[string]bool{}
	for _, def := range defs {
		if def.RequiresConfirmation {
			gated[def.Name] = true
		}
	}

	for turn := 0; turn < maxToolTurns; turn++ {
		reply, err := g.model.Chat(ctx, g.buildSystemPrompt(state), state.Messages, defs)
		if err != nil {
			g.logger.Error().Err(err).Msg("model turn failed")
			state.Messages = append(state.Messages, core.AssistantMessage(fallbackReply))
			return
		}
		state.Messages = append(state.Messages, reply)

		if !reply.HasToolCalls() {
			return
		}

		// Tools flagged by the server as confirmation-gated suspend the
		// thread until the user replies.
		if call := reply.ToolCalls[0]; gated[call.Name] {
			state.PendingTicket = &call
			state.AwaitingConfirmation = true
			state.Messages = append(state.Messages, core.AssistantMessage(confirmationPrompt(call)))
			return
		}

		g.executeTools(ctx, state, reply.ToolCalls, externalToken)
	}

	g.logger.Warn().Msg("turn budget exhausted")
	state.Messages = append(state.Messages,
		core.AssistantMessage("I wasn't able to finish that in one go. Could you tell me how you'd like to proceed?"))
}

// executeTools dispatches the model's tool calls sequentially.
func (g *Graph) executeTools(ctx context.Context, state *State, calls []core.ToolCall, externalToken string) {
	for _, call := range calls {
		args := injectToken(call.Args, externalToken)

		g.logger.Info().Str("tool", call.Name).Msg("tool call")
		result, err := g.tools.CallTool(ctx, call.Name, args)
		if err != nil {
			state.Messages = append(state.Messages,
				core.ToolResultMessage(call, fmt.Sprintf("Error: %v", err), true))
			continue
		}
		state.Messages = append(state.Messages,
			core.ToolResultMessage(call, result.Text(), result.IsError))
	}
}

// resume handles the reply to a pending ticket confirmation. CONFIRM (or any
// CONFIRM-prefixed reply) executes the suspended call; CANCEL drops it; any
// other message leaves the thread suspended and re-prompts.
func (g *Graph) resume(ctx context.Context, state *State, reply, externalToken string) {
	switch {
	case reply == "CANCEL":
		state.PendingTicket = nil
		state.AwaitingConfirmation = false
		state.Messages = append(state.Messages,
			core.AssistantMessage("Ticket creation cancelled. Is there anything else I can help you with?"))

	case strings.HasPrefix(reply, "CONFIRM"):
		pending := state.PendingTicket
		state.PendingTicket = nil
		state.AwaitingConfirmation = false
		g.performTicket(ctx, state, pending, externalToken)

	default:
		if reply != "" {
			state.Messages = append(state.Messages, core.UserMessage(reply))
		}
		state.Messages = append(state.Messages,
			core.AssistantMessage("There is a ticket waiting for your confirmation. "+
				"Reply CONFIRM to create it or CANCEL to abort."))
	}
}

func (g *Graph) performTicket(ctx context.Context, state *State, call *core.ToolCall, externalToken string) {
	if call == nil {
		state.Messages = append(state.Messages,
			core.AssistantMessage("I could not find the ticket request to confirm. Please describe the issue again."))
		return
	}

	result, err := g.tools.CallTool(ctx, call.Name, injectToken(call.Args, externalToken))
	if err != nil || result.IsError {
		g.logger.Error().Err(err).Msg("ticket creation failed")
		state.Messages = append(state.Messages,
			core.AssistantMessage("I encountered an error while creating your ticket. Please try again or contact support directly."))
		return
	}

	text := result.Text()
	state.Messages = append(state.Messages, core.ToolResultMessage(*call, text, false))

	ticketID := wallet.TicketIDPattern.FindString(text)
	if ticketID == "" {
		ticketID = "N/A"
	}
	state.Messages = append(state.Messages, core.AssistantMessage(fmt.Sprintf(
		"Your support request has been successfully submitted!\n\n"+
			"Ticket ID: %s\n\n"+
			"Please save this ticket ID for your records. You can use it to track the status of your request. "+
			"Our support team will review your request and get back to you shortly. "+
			"Is there anything else I can help you with?", ticketID)))
}

func confirmationPrompt(call core.ToolCall) string {
	var args struct {
		Subject string `json:"subject"`
	}
	_ = json.Unmarshal(call.Args, &args)
	if args.Subject == "" {
		args.Subject = "your issue"
	}
	return fmt.Sprintf("I'd like to create a support ticket for: %s\n\n"+
		"Reply CONFIRM to create the ticket or CANCEL to abort.", args.Subject)
}

// injectToken adds the caller's bearer token to the tool arguments. An
// external token always wins over the tool server's managed token.
func injectToken(args json.RawMessage, externalToken string) json.RawMessage {
	if externalToken == "" {
		return args
	}
	parsed := map[string]interface{}{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &parsed); err != nil {
			return args
		}
	}
	parsed["external_token"] = strings.TrimPrefix(externalToken, "Bearer ")
	out, err := json.Marshal(parsed)
	if err != nil {
		return args
	}
	return out
}

func (g *Graph) loadState(ctx context.Context, threadID string) (*State, error) {
	cp, ok, err := g.store.Latest(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("load thread %s: %w", threadID, err)
	}
	if !ok {
		return NewState(), nil
	}
	state := NewState()
	if err := json.Unmarshal(cp.State, state); err != nil {
		return nil, fmt.Errorf("decode thread %s state: %w", threadID, err)
	}
	return state, nil
}

func (g *Graph) saveState(ctx context.Context, threadID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode thread state: %w", err)
	}
	var title string
	for _, m := range state.Messages {
		if m.Role == core.RoleUser {
			title = m.Content
			break
		}
	}
	if r := []rune(title); len(r) > 60 {
		title = string(r[:60])
	}
	if err := g.store.Put(ctx, threadID, data, title); err != nil {
		return fmt.Errorf("save thread %s: %w", threadID, err)
	}
	return nil
}
