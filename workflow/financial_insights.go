package workflow

import (
	"context"
	"strings"
)

// FinancialInsights provides analysis of incoming, investment, and spending
// activity.
type FinancialInsights struct{}

func (w *FinancialInsights) Name() string { return "financial_insights" }

func (w *FinancialInsights) Description() string {
	return "Provide financial insights and analysis for incoming, investment, and spending"
}

func (w *FinancialInsights) Summarize(ctx context.Context, env Env, recent []string) (Context, error) {
	return Context{
		"available_categories": []string{"incoming", "investment", "spends"},
	}, nil
}

func (w *FinancialInsights) SummaryMessage(wc Context) string {
	return "I can help you analyze your financial data! I can provide insights on your incoming transactions, investments, and spending patterns."
}

func (w *FinancialInsights) Question(wc Context) string {
	return "What would you like to analyze?"
}

func (w *FinancialInsights) Suggestions(wc Context) []string {
	return []string{
		"Show cash flow",
		"Analyze incoming",
		"Analyze spends",
		"Analyze investment",
	}
}

func (w *FinancialInsights) ResolutionGuide(issueType string, wc Context) ResolutionGuide {
	guides := map[string]ResolutionGuide{
		"analyze incoming": {
			Message: "I'll analyze your incoming transactions and show you a breakdown by category.",
			Steps: []string{
				"Fetching incoming transaction data",
				"Calculating category breakdown",
				"Displaying insights with charts",
			},
			CanResolve: true,
		},
		"analyze spends": {
			Message: "I'll analyze your spending patterns and show you where your money is going.",
			Steps: []string{
				"Fetching spending transaction data",
				"Calculating spending categories",
				"Displaying insights with charts",
			},
			CanResolve: true,
		},
		"analyze investment": {
			Message: "I'll analyze your investment portfolio and show you the distribution.",
			Steps: []string{
				"Fetching investment data",
				"Calculating investment breakdown",
				"Displaying insights with charts",
			},
			CanResolve: true,
		},
		"show cash flow": {
			Message: "I'll show you a comprehensive cash flow overview with all categories.",
			Steps: []string{
				"Fetching all financial data",
				"Calculating cash flow metrics",
				"Displaying comprehensive insights",
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
		Message:    "I can help you analyze your financial data. What specific insights would you like to see?",
		Steps:      []string{"Specify what you'd like to analyze", "I'll fetch and display the insights"},
		CanResolve: true,
	}
}

func (w *FinancialInsights) ShouldEscalate(userMessage string, wc Context) bool {
	return defaultShouldEscalate(userMessage)
}
