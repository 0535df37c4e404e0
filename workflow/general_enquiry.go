package workflow

import (
	"context"
	"strings"
)

// GeneralEnquiry handles questions that fit no other category. The chat turn
// answers these with knowledge-base retrieval after the workflow hands back.
type GeneralEnquiry struct{}

func (w *GeneralEnquiry) Name() string        { return "general_enquiry" }
func (w *GeneralEnquiry) Description() string { return "Handle general enquiries and questions" }

func (w *GeneralEnquiry) Summarize(ctx context.Context, env Env, recent []string) (Context, error) {
	return Context{"account_status": "active"}, nil
}

func (w *GeneralEnquiry) SummaryMessage(wc Context) string {
	return "I'm here to help! What would you like to know?"
}

func (w *GeneralEnquiry) Question(wc Context) string {
	return "How can I assist you today?"
}

func (w *GeneralEnquiry) Suggestions(wc Context) []string {
	return []string{
		"Account information",
		"How to use features",
		"Fees and charges",
		"Security tips",
		"Contact support",
	}
}

func (w *GeneralEnquiry) ResolutionGuide(issueType string, wc Context) ResolutionGuide {
	guides := map[string]ResolutionGuide{
		"account information": {
			Message: "I can help you with account information. What specific details do you need?",
			Steps: []string{
				"Specify what information you need",
				"I'll provide the details",
				"If sensitive, I'll guide you to secure channels",
			},
			CanResolve: true,
		},
		"how to use features": {
			Message: "I can guide you through our features. Which feature would you like to learn about?",
			Steps: []string{
				"Specify the feature",
				"I'll provide step-by-step guide",
				"Answer any follow-up questions",
			},
			CanResolve: true,
		},
		"fees and charges": {
			Message: "I can explain our fees and charges. Which service are you asking about?",
			Steps: []string{
				"Specify the service",
				"I'll provide fee structure",
				"Explain when charges apply",
			},
			CanResolve: true,
		},
		"security tips": {
			Message: "Security is important! Here are some tips: Never share your PIN, enable 2FA, monitor transactions regularly.",
			Steps: []string{
				"Review security best practices",
				"Enable security features",
				"Set up transaction alerts",
			},
			CanResolve: true,
		},
		"contact support": {
			Message: "I can help you contact support. For urgent issues, you can create a support ticket or call our helpline.",
			Steps: []string{
				"Describe your issue",
				"I'll determine best support channel",
				"Connect you with appropriate support",
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
		Message:    "I'm here to help! Please tell me more about what you need.",
		Steps:      []string{"Describe your enquiry", "I'll provide information or guidance"},
		CanResolve: true,
	}
}

func (w *GeneralEnquiry) ShouldEscalate(userMessage string, wc Context) bool {
	return defaultShouldEscalate(userMessage)
}
