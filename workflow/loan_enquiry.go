package workflow

import (
	"context"
	"fmt"
	"strings"
)

// LoanEnquiry handles loan enquiries, applications, and status checks.
type LoanEnquiry struct{}

func (w *LoanEnquiry) Name() string { return "loan_enquiry" }

func (w *LoanEnquiry) Description() string {
	return "Handle loan enquiries, applications, and status checks"
}

func (w *LoanEnquiry) Summarize(ctx context.Context, env Env, recent []string) (Context, error) {
	return Context{
		"active_loans": 0,
		"eligible":     true,
		"max_amount":   50000,
		"rate":         12.5,
	}, nil
}

func (w *LoanEnquiry) SummaryMessage(wc Context) string {
	if active, _ := wc["active_loans"].(int); active > 0 {
		return fmt.Sprintf("You have %d active loan(s). How can I help you with your loan?", active)
	}
	return "I can help you with loan enquiries, applications, and managing your existing loans."
}

func (w *LoanEnquiry) Question(wc Context) string {
	return "What would you like to know about loans?"
}

func (w *LoanEnquiry) Suggestions(wc Context) []string {
	return []string{
		"Apply for a loan",
		"Check loan eligibility",
		"Loan interest rates",
		"Loan repayment schedule",
		"Early repayment options",
	}
}

func (w *LoanEnquiry) ResolutionGuide(issueType string, wc Context) ResolutionGuide {
	maxAmount, _ := wc["max_amount"].(int)
	rate, _ := wc["rate"].(float64)

	guides := map[string]ResolutionGuide{
		"apply for a loan": {
			Message: fmt.Sprintf("Great! You're eligible for loans up to %d. Current interest rate: %.1f%% APR.", maxAmount, rate),
			Steps: []string{
				"Review loan terms and interest rates",
				"Choose loan amount and tenure",
				"Complete application form",
				"Submit required documents",
			},
			CanResolve: false, // application process needed
		},
		"check loan eligibility": {
			Message: fmt.Sprintf("Based on your account, you're eligible for loans up to %d with %.1f%% APR.", maxAmount, rate),
			Steps: []string{
				"Review eligibility criteria",
				"Check maximum loan amount",
				"Review interest rates",
				"Start application if interested",
			},
			CanResolve: true,
		},
		"loan interest rates": {
			Message: fmt.Sprintf("Our current loan interest rates start at %.1f%% APR. Rates vary based on loan amount, tenure, and credit profile.", rate),
			Steps: []string{
				"Review interest rate structure",
				"Calculate total interest for your loan amount",
				"Compare with other options",
				"Apply if rates are acceptable",
			},
			CanResolve: true,
		},
		"loan repayment schedule": {
			Message: "I can show you your loan repayment schedule. Please provide your loan account number or I can check your active loans.",
			Steps: []string{
				"Provide loan account number",
				"I'll fetch your repayment schedule",
				"Review upcoming payments and dates",
			},
			CanResolve: true,
		},
		"early repayment options": {
			Message: "You can make early repayments to reduce interest. There may be a small processing fee. I can help you calculate savings.",
			Steps: []string{
				"Review early repayment terms",
				"Calculate interest savings",
				"Check processing fees",
				"Initiate early repayment if desired",
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
		Message:    "I can help you with loan-related questions. What specific information do you need?",
		Steps:      []string{"Specify your loan enquiry", "I'll provide detailed information"},
		CanResolve: true,
	}
}

func (w *LoanEnquiry) ShouldEscalate(userMessage string, wc Context) bool {
	return defaultShouldEscalate(userMessage)
}
