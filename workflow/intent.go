package workflow

import "strings"

// intentRule maps a keyword set to a workflow name. Rules are evaluated in
// order; the table is sorted most specific first so that, for example, a
// message mentioning both a transaction and a refund routes to transaction
// help rather than the broader refund flow.
type intentRule struct {
	workflow string
	keywords []string
}

var intentRules = []intentRule{
	{
		workflow: "transaction_help",
		keywords: []string{
			"help with transaction", "transaction issue", "payment problem",
			"transaction to", "payment to", "help with my transaction",
			"transfer issue", "transfer problem",
		},
	},
	{
		workflow: "financial_insights",
		keywords: []string{
			"financial insights", "analyze", "analyse", "insights",
			"cash flow", "spending analysis", "incoming analysis",
			"investment analysis", "analyze incoming", "analyze spends",
			"analyze investment", "show insights", "financial overview",
			"spending breakdown",
		},
	},
	{
		workflow: "refund",
		keywords: []string{"refund", "money back", "return payment", "get refund"},
	},
	{
		workflow: "loan_enquiry",
		keywords: []string{"loan", "borrow", "credit", "apply for loan", "loan application"},
	},
	{
		workflow: "card_issue",
		keywords: []string{"card", "debit card", "credit card", "card blocked", "card not working"},
	},
	{
		workflow: "general_enquiry",
		keywords: []string{"help", "question", "enquiry", "information", "how to"},
	},
}

// DetectIntent scans a user message against each workflow's keyword set in
// priority order. Returns the matching workflow name, or false when no
// workflow matches.
func DetectIntent(userMessage string) (string, bool) {
	lower := strings.ToLower(userMessage)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.workflow, true
			}
		}
	}
	return "", false
}

// IntentPriority returns the workflow names in evaluation order.
func IntentPriority() []string {
	names := make([]string, len(intentRules))
	for i, rule := range intentRules {
		names[i] = rule.workflow
	}
	return names
}
