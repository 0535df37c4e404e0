package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumusha/remitflow/workflow"
)

func TestDetectIntent(t *testing.T) {
	cases := []struct {
		message  string
		workflow string
		matched  bool
	}{
		{"I have a transaction issue with my last transfer", "transaction_help", true},
		{"My payment to John failed", "transaction_help", true},
		{"I need a refund for my order", "refund", true},
		{"Can I get my money back?", "refund", true},
		{"I want to apply for a loan", "loan_enquiry", true},
		{"My card is blocked", "card_issue", true},
		{"Show my financial insights", "financial_insights", true},
		{"Analyze my spending please", "financial_insights", true},
		{"I have a question about fees", "general_enquiry", true},
		{"Send 500 to Zimbabwe", "", false},
		{"What is the rate today?", "", false},
	}

	for _, tc := range cases {
		name, ok := workflow.DetectIntent(tc.message)
		assert.Equal(t, tc.matched, ok, tc.message)
		assert.Equal(t, tc.workflow, name, tc.message)
	}
}

func TestDetectIntentPriorityOrder(t *testing.T) {
	// A message matching both transaction help and refund routes to the more
	// specific transaction flow.
	name, ok := workflow.DetectIntent("I have a payment problem and want a refund")
	require.True(t, ok)
	assert.Equal(t, "transaction_help", name)

	// "help" alone is the lowest-priority catch-all.
	priority := workflow.IntentPriority()
	require.NotEmpty(t, priority)
	assert.Equal(t, "transaction_help", priority[0])
	assert.Equal(t, "general_enquiry", priority[len(priority)-1])
}

func TestDetectIntentCaseInsensitive(t *testing.T) {
	name, ok := workflow.DetectIntent("I NEED A REFUND")
	require.True(t, ok)
	assert.Equal(t, "refund", name)
}
