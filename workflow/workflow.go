// Package workflow implements the guided support workflows: keyword-routed
// strategies that summarize the user's situation, ask a scripted follow-up,
// and provide resolution guidance before the conversation returns to the
// free-form chat turn.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/kumusha/remitflow/wallet"
)

// Context carries workflow-specific facts gathered during summarization
// (transaction details, loan eligibility, card info). It is stored on the
// conversation state so the chat turn can reference it after the workflow
// completes.
type Context map[string]interface{}

// ResolutionGuide is the guidance a workflow gives for one reported issue.
type ResolutionGuide struct {
	Message    string   `json:"message"`
	Steps      []string `json:"steps"`
	Reference  string   `json:"reference,omitempty"`
	CanResolve bool     `json:"can_resolve"`
}

// TransactionSource supplies recent wallet transactions to workflows that
// need them during summarization. May be nil; workflows then fall back to
// generic context.
type TransactionSource interface {
	Recent(ctx context.Context, limit int) ([]wallet.Transaction, error)
}

// Env gives workflows access to live data during summarization.
type Env struct {
	Transactions TransactionSource
}

// Workflow is one guided support flow. Implementations are stateless; all
// per-conversation facts live in the Context they return from Summarize.
type Workflow interface {
	// Name is the unique workflow identifier used in routing and state.
	Name() string

	// Description is a short human-readable summary of what the flow covers.
	Description() string

	// Summarize gathers the workflow's context. recent holds the tail of the
	// conversation so identifiers the user mentioned can be extracted.
	Summarize(ctx context.Context, env Env, recent []string) (Context, error)

	// SummaryMessage renders the opening summary shown to the user.
	SummaryMessage(wc Context) string

	// Question is the follow-up asked after the summary.
	Question(wc Context) string

	// Suggestions are the common issues offered as quick replies.
	Suggestions(wc Context) []string

	// ResolutionGuide returns guidance for a specific reported issue.
	ResolutionGuide(issueType string, wc Context) ResolutionGuide

	// ShouldEscalate reports whether the user's message asks for a human.
	ShouldEscalate(userMessage string, wc Context) bool
}

// escalationKeywords trigger the default escalation check for every workflow.
var escalationKeywords = []string{
	"create ticket", "raise ticket", "escalate", "not resolved",
	"contacted merchant, issue not resolved", "still having problem",
	"speak to a human", "talk to an agent",
}

func defaultShouldEscalate(userMessage string) bool {
	lower := strings.ToLower(userMessage)
	for _, kw := range escalationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// TicketSubject builds the support ticket subject for an escalated issue.
func TicketSubject(w Workflow, issueType string) string {
	return fmt.Sprintf("%s - %s support request", issueType, strings.ReplaceAll(w.Name(), "_", " "))
}

// TicketBody builds the support ticket body from the issue, the workflow
// context, and the tail of the conversation.
func TicketBody(w Workflow, issueType string, wc Context, recent []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Issue type: %s\n", issueType)
	fmt.Fprintf(&b, "Workflow: %s\n\n", w.Name())
	fmt.Fprintf(&b, "Context: %v\n\n", map[string]interface{}(wc))
	b.WriteString("Conversation summary:\n")
	tail := recent
	if len(tail) > 3 {
		tail = tail[len(tail)-3:]
	}
	b.WriteString(strings.Join(tail, "\n"))
	return b.String()
}
