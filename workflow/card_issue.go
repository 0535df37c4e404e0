package workflow

import (
	"context"
	"fmt"
	"strings"
)

// CardIssue handles card-related issues and enquiries.
type CardIssue struct{}

func (w *CardIssue) Name() string        { return "card_issue" }
func (w *CardIssue) Description() string { return "Handle card-related issues and enquiries" }

func (w *CardIssue) Summarize(ctx context.Context, env Env, recent []string) (Context, error) {
	return Context{
		"card_id":   "card_1",
		"card_type": "debit",
		"last_four": "1234",
		"status":    "active",
		"expiry":    "12/26",
	}, nil
}

func (w *CardIssue) SummaryMessage(wc Context) string {
	cardType, _ := wc["card_type"].(string)
	lastFour, _ := wc["last_four"].(string)
	if cardType == "" {
		return "I can help you with card-related issues. What problem are you facing?"
	}
	return fmt.Sprintf("I can see you have a %s card ending in %s. How can I help you with your card?", cardType, lastFour)
}

func (w *CardIssue) Question(wc Context) string {
	return "What issue are you experiencing with your card?"
}

func (w *CardIssue) Suggestions(wc Context) []string {
	return []string{
		"Card not working",
		"Card blocked",
		"Card declined",
		"Lost or stolen card",
		"Card activation",
		"Card limit increase",
	}
}

func (w *CardIssue) ResolutionGuide(issueType string, wc Context) ResolutionGuide {
	cardID, _ := wc["card_id"].(string)

	guides := map[string]ResolutionGuide{
		"card not working": {
			Message: "Let's troubleshoot your card. First, check if your card is activated and has sufficient balance.",
			Steps: []string{
				"Verify card is activated",
				"Check account balance",
				"Try a different merchant or ATM",
				"If still not working, we may need to block and reissue",
			},
			Reference:  cardID,
			CanResolve: true,
		},
		"card blocked": {
			Message: "Your card may be blocked due to security reasons or suspicious activity. I can help you unblock it.",
			Steps: []string{
				"Verify your identity",
				"Confirm recent transactions",
				"Unblock card if verified",
				"If fraud suspected, card will remain blocked",
			},
			Reference:  cardID,
			CanResolve: false, // security verification needed
		},
		"card declined": {
			Message: "Card declines can happen due to insufficient funds, merchant restrictions, or security checks.",
			Steps: []string{
				"Check account balance",
				"Verify transaction amount",
				"Try a different merchant",
				"Contact support if issue persists",
			},
			Reference:  cardID,
			CanResolve: true,
		},
		"lost or stolen card": {
			Message: "If your card is lost or stolen, we need to block it immediately to prevent unauthorized use.",
			Steps: []string{
				"Confirm card is lost/stolen",
				"Block card immediately",
				"Report to authorities if stolen",
				"Request new card replacement",
			},
			Reference:  cardID,
			CanResolve: false, // immediate action needed
		},
		"card activation": {
			Message: "I can help you activate your card. You'll need your card details and may need to set a PIN.",
			Steps: []string{
				"Provide card number and CVV",
				"Verify identity",
				"Set PIN if required",
				"Activate card",
			},
			Reference:  cardID,
			CanResolve: true,
		},
		"card limit increase": {
			Message: "I can help you request a card limit increase. This requires a credit check and approval.",
			Steps: []string{
				"Check current limit",
				"Review eligibility for increase",
				"Submit increase request",
				"Wait for approval (usually 24-48 hours)",
			},
			Reference:  cardID,
			CanResolve: false, // approval process needed
		},
	}

	issueLower := strings.ToLower(issueType)
	for key, guide := range guides {
		if strings.Contains(issueLower, key) || strings.Contains(key, issueLower) {
			return guide
		}
	}

	return ResolutionGuide{
		Message:    "I can help you with card issues. Please describe the specific problem you're experiencing.",
		Steps:      []string{"Describe the issue", "I'll provide specific guidance"},
		Reference:  cardID,
		CanResolve: true,
	}
}

func (w *CardIssue) ShouldEscalate(userMessage string, wc Context) bool {
	return defaultShouldEscalate(userMessage)
}
