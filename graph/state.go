package graph

import (
	"github.com/kumusha/remitflow/core"
	"github.com/kumusha/remitflow/workflow"
)

// Workflow lifecycle markers on State.WorkflowStep.
const (
	StepSummarized = "summarized"
	StepCompleted  = "completed"
)

// State is the per-thread conversation state. It is serialized to the
// checkpoint store after every run, so every field must round-trip through
// JSON.
type State struct {
	Messages []core.Message `json:"messages"`

	// CurrentWorkflow names the active guided workflow, empty when none.
	// Invariant: cleared exactly when WorkflowStep becomes completed, which
	// re-enables intent detection on the next user turn.
	CurrentWorkflow string `json:"current_workflow,omitempty"`
	WorkflowStep    string `json:"workflow_step,omitempty"`

	// WorkflowContexts keeps the facts each workflow gathered, by workflow
	// name, for the chat turn to reference after the workflow completes.
	WorkflowContexts map[string]workflow.Context `json:"workflow_contexts,omitempty"`

	// PendingTicket is the create_ticket call suspended behind user
	// confirmation. AwaitingConfirmation marks the thread as suspended; the
	// next user message is interpreted as the confirmation response.
	PendingTicket        *core.ToolCall `json:"pending_ticket,omitempty"`
	AwaitingConfirmation bool           `json:"awaiting_confirmation,omitempty"`
}

// NewState creates an empty conversation state.
func NewState() *State {
	return &State{WorkflowContexts: make(map[string]workflow.Context)}
}

func (s *State) setWorkflowContext(name string, wc workflow.Context) {
	if s.WorkflowContexts == nil {
		s.WorkflowContexts = make(map[string]workflow.Context)
	}
	s.WorkflowContexts[name] = wc
}

// recentContents returns the text of the last n messages, oldest first.
func (s *State) recentContents(n int) []string {
	start := len(s.Messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, n)
	for _, msg := range s.Messages[start:] {
		if msg.Content != "" {
			out = append(out, msg.Content)
		}
	}
	return out
}
