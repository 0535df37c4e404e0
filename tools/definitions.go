// Package tools declares the remittance assistant's tool surface: the
// definitions the chat model binds to and the JSON Schema helpers used to
// describe their inputs. Execution lives in the tool server; this package is
// declarations only.
package tools

import (
	"github.com/kumusha/remitflow/core"
)

// externalTokenProperty is accepted by every gateway-backed tool so a caller
// can supply its own bearer token instead of the managed one.
func externalTokenProperty() map[string]interface{} {
	return StringProperty("Optional: bearer token to use instead of the managed token")
}

// Definitions returns the definitions for all remittance assistant tools.
func Definitions() []core.ToolDefinition {
	return []core.ToolDefinition{
		// Token management
		{
			Name:        "generate_token",
			Description: "Authenticate against the payment gateway with the configured service credentials and store the resulting token for later tool calls.",
			InputSchema: ObjectSchema(map[string]interface{}{}),
		},
		{
			Name:        "get_token_status",
			Description: "Report whether a gateway token is currently held, its source, and a short preview. Never returns the full token.",
			InputSchema: ObjectSchema(map[string]interface{}{}),
		},
		{
			Name:        "clear_token",
			Description: "Discard the stored gateway token. The next gateway call will re-authenticate.",
			InputSchema: ObjectSchema(map[string]interface{}{}),
		},

		// Wallet reads
		{
			Name:        "get_balance",
			Description: "Get the user's wallet balance.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"external_token": externalTokenProperty(),
			}),
		},
		{
			Name:        "get_transactions",
			Description: "Get the user's recent wallet transaction history.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"page":           IntegerProperty("Page number (default: 1)"),
				"count":          IntegerProperty("Number of transactions to return (default: 10)"),
				"type":           StringEnumProperty("Filter by transaction type", "send", "receive", "deposit", "withdraw"),
				"external_token": externalTokenProperty(),
			}),
		},
		{
			Name:        "get_profile",
			Description: "Get the user's customer profile information.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"external_token": externalTokenProperty(),
			}),
		},

		// Remittance menu reads
		{
			Name:        "get_receiving_countries",
			Description: "List the countries money can be sent to from South Africa, with their currencies.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"external_token": externalTokenProperty(),
			}),
		},
		{
			Name:        "get_exchange_rate",
			Description: "Get exchange rate and delivery product options for sending money to a country. Returns one option per delivery product with rate, fees, and total payable.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"receiving_country":  StringProperty("Destination country code (e.g., 'ZW')"),
				"receiving_currency": StringProperty("Destination currency code (e.g., 'USD')"),
				"amount":             NumberProperty("Amount to send (or receive when receive=true)"),
				"receive":            BooleanProperty("Interpret amount as the receive amount instead of the send amount"),
				"external_token":     externalTokenProperty(),
			}, "receiving_country", "receiving_currency", "amount"),
		},
		{
			Name:        "get_recipient_list",
			Description: "List the user's saved recipients with their payout accounts and linked delivery products.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"page":           IntegerProperty("Page number (default: 1)"),
				"count":          IntegerProperty("Recipients per page (default: 20, max: 50)"),
				"external_token": externalTokenProperty(),
			}),
		},

		// Transfer pipeline
		{
			Name:        "calculate_remittance_quote",
			Description: "Lock the current exchange rate for a transfer (step 1 of 4). Returns a calculationId plus the rate, fees, and total payable. The lock is valid for a bounded window; generate the quote promptly.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"sending_country_id":    IntegerProperty("Sending country ID"),
				"receiving_country_id":  IntegerProperty("Receiving country ID"),
				"sending_currency_id":   IntegerProperty("Sending currency ID"),
				"receiving_currency_id": IntegerProperty("Receiving currency ID"),
				"amount":                StringProperty("Amount to send (e.g., '100.00')"),
				"product_id":            IntegerProperty("Delivery product ID from get_exchange_rate"),
				"receive":               BooleanProperty("Interpret amount as the receive amount"),
				"external_token":        externalTokenProperty(),
			}, "amount", "product_id"),
		},
		{
			Name:        "generate_quote",
			Description: "Create the transaction from a locked rate (step 2 of 4). Requires the calculationId from calculate_remittance_quote and a recipient; the recipient account matching the locked product is selected automatically. Returns a transactionId.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"calculation_id":      StringProperty("calculationId from calculate_remittance_quote"),
				"product_id":          IntegerProperty("Delivery product ID the rate was locked for"),
				"beneficiary_id":      StringProperty("Recipient's beneficiaryId from get_recipient_list"),
				"reason_for_transfer": StringProperty("Optional: reason code (default: SOWF, support of family)"),
				"source_of_funds":     StringProperty("Optional: source of funds code (default: SAL, salary)"),
				"external_token":      externalTokenProperty(),
			}, "calculation_id", "product_id", "beneficiary_id"),
		},
		{
			Name:        "get_payment_options",
			Description: "List the available payment methods for funding a transfer (step 3 of 4).",
			InputSchema: ObjectSchema(map[string]interface{}{
				"service_type":   StringProperty("Optional: payment service type (default: ZAPersonPaymentOptions)"),
				"external_token": externalTokenProperty(),
			}),
		},
		{
			Name:        "execute_transaction",
			Description: "Finalize a transfer (step 4 of 4) using the transactionId from generate_quote and a payment method code from get_payment_options. May return a payment URL the user must open to complete payment.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"transaction_id":      StringProperty("transactionId from generate_quote"),
				"payment_method_code": StringProperty("Payment method code from get_payment_options"),
				"external_token":      externalTokenProperty(),
			}, "transaction_id", "payment_method_code"),
		},

		// Support
		{
			Name:                 "create_ticket",
			Description:          "Open a support ticket with the user's issue so a human agent follows up. Returns a TICKET-<number> reference. Requires confirmation.",
			RequiresConfirmation: true,
			InputSchema: ObjectSchema(map[string]interface{}{
				"subject":        StringProperty("Short summary of the issue"),
				"description":    StringProperty("Full description of the issue including any IDs the user mentioned"),
				"external_token": externalTokenProperty(),
			}, "subject", "description"),
		},
		{
			Name:        "get_ticket",
			Description: "Look up a support ticket by its TICKET-<number> reference.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"ticket_id":      StringProperty("Ticket reference (e.g., 'TICKET-48213')"),
				"external_token": externalTokenProperty(),
			}, "ticket_id"),
		},

		// Knowledge base
		{
			Name:        "search_knowledge",
			Description: "Search the support knowledge base for help articles about fees, limits, delivery times, and app usage.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"query": StringProperty("What the user wants to know"),
				"limit": IntegerProperty("Maximum articles to return (default: 3)"),
			}, "query"),
		},
	}
}

// ByName returns the definition with the given name, or false when no tool
// has that name.
func ByName(name string) (core.ToolDefinition, bool) {
	for _, def := range Definitions() {
		if def.Name == name {
			return def, true
		}
	}
	return core.ToolDefinition{}, false
}
