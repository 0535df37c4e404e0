package toolserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kumusha/remitflow/core"
	"github.com/kumusha/remitflow/remit"
	"github.com/kumusha/remitflow/wallet"
)

func textResult(v interface{}) *core.ToolCallResult {
	var text string
	switch val := v.(type) {
	case string:
		text = val
	case json.RawMessage:
		text = string(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return errResult("marshal result: %v", err)
		}
		text = string(data)
	}
	return &core.ToolCallResult{
		Content: []core.TextContent{{Type: "text", Text: text}},
	}
}

func errResult(format string, args ...interface{}) *core.ToolCallResult {
	return &core.ToolCallResult{
		Content: []core.TextContent{{Type: "text", Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// resolveToken picks the credential for a gateway call: an explicit external
// token wins, then the managed token, then a fresh token is generated when
// the manager is enabled.
func (s *Server) resolveToken(ctx context.Context, external string) (string, error) {
	if token := s.tokens.Get(external); token != "" {
		return token, nil
	}
	if s.tokens.Enabled() && s.auth != nil {
		token, err := s.auth.GenerateToken(ctx)
		if err != nil {
			return "", fmt.Errorf("token generation failed: %w", err)
		}
		s.tokens.Set(token)
		return token.Value, nil
	}
	return "", fmt.Errorf("no gateway token available; pass external_token or enable the token manager")
}

func (s *Server) callTool(ctx context.Context, name string, args json.RawMessage) *core.ToolCallResult {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "generate_token":
		return s.handleGenerateToken(ctx)
	case "get_token_status":
		return textResult(s.tokens.Status())
	case "clear_token":
		cleared := s.tokens.Clear()
		return textResult(map[string]bool{"cleared": cleared})
	case "get_balance":
		return s.handleGetBalance(ctx, args)
	case "get_transactions":
		return s.handleGetTransactions(ctx, args)
	case "get_profile":
		return s.handleGetProfile(ctx, args)
	case "get_receiving_countries":
		return s.handleReceivingCountries(ctx, args)
	case "get_exchange_rate":
		return s.handleExchangeRate(ctx, args)
	case "get_recipient_list":
		return s.handleRecipients(ctx, args)
	case "calculate_remittance_quote":
		return s.handleLockRate(ctx, args)
	case "generate_quote":
		return s.handleGenerateQuote(ctx, args)
	case "get_payment_options":
		return s.handlePaymentOptions(ctx, args)
	case "execute_transaction":
		return s.handleExecute(ctx, args)
	case "create_ticket":
		return s.handleCreateTicket(ctx, args)
	case "get_ticket":
		return s.handleGetTicket(ctx, args)
	case "search_knowledge":
		return s.handleSearchKnowledge(ctx, args)
	default:
		return errResult("unknown tool: %s", name)
	}
}

func (s *Server) handleGenerateToken(ctx context.Context) *core.ToolCallResult {
	if s.auth == nil {
		return errResult("token generation is not configured")
	}
	token, err := s.auth.GenerateToken(ctx)
	if err != nil {
		return errResult("%v", err)
	}
	stored := s.tokens.Set(token)
	return textResult(map[string]interface{}{
		"generated": true,
		"stored":    stored,
		"source":    string(token.Source),
	})
}

type tokenArgs struct {
	ExternalToken string `json:"external_token"`
}

func (s *Server) handleGetBalance(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a tokenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}
	balance, err := s.wallet.Balance(ctx, token)
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(balance)
}

func (s *Server) handleGetTransactions(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a struct {
		tokenArgs
		Page  int    `json:"page"`
		Count int    `json:"count"`
		Type  string `json:"type"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}
	history, err := s.wallet.TransactionHistory(ctx, token, wallet.HistoryRequest{
		Page:  a.Page,
		Count: a.Count,
		Type:  a.Type,
	})
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(map[string]interface{}{"transactions": history})
}

func (s *Server) handleGetProfile(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a tokenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}
	profile, err := s.wallet.Profile(ctx, token)
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(profile)
}

func (s *Server) handleReceivingCountries(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a tokenArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}
	countries, err := s.pipeline.ReceivingCountries(ctx, token)
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(map[string]interface{}{"countries": countries})
}

func (s *Server) handleExchangeRate(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a struct {
		tokenArgs
		ReceivingCountry  string  `json:"receiving_country"`
		ReceivingCurrency string  `json:"receiving_currency"`
		Amount            float64 `json:"amount"`
		Receive           bool    `json:"receive"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}
	options, err := s.pipeline.ExchangeRates(ctx, token, a.ReceivingCountry, a.ReceivingCurrency, a.Amount, a.Receive)
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(map[string]interface{}{"options": options})
}

func (s *Server) handleRecipients(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a struct {
		tokenArgs
		Page  int `json:"page"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}
	recipients, err := s.pipeline.Recipients(ctx, token, a.Page, a.Count)
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(map[string]interface{}{"recipients": recipients})
}

func (s *Server) handleLockRate(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a struct {
		tokenArgs
		SendingCountryID    int    `json:"sending_country_id"`
		ReceivingCountryID  int    `json:"receiving_country_id"`
		SendingCurrencyID   int    `json:"sending_currency_id"`
		ReceivingCurrencyID int    `json:"receiving_currency_id"`
		Amount              string `json:"amount"`
		ProductID           int    `json:"product_id"`
		Receive             bool   `json:"receive"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}
	calc, err := s.pipeline.LockRate(ctx, token, remit.RateLockRequest{
		SendingCountryID:    a.SendingCountryID,
		ReceivingCountryID:  a.ReceivingCountryID,
		SendingCurrencyID:   a.SendingCurrencyID,
		ReceivingCurrencyID: a.ReceivingCurrencyID,
		Amount:              a.Amount,
		ProductID:           a.ProductID,
		Receive:             a.Receive,
	})
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(calc)
}

func (s *Server) handleGenerateQuote(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a struct {
		tokenArgs
		CalculationID     string `json:"calculation_id"`
		ProductID         int    `json:"product_id"`
		BeneficiaryID     string `json:"beneficiary_id"`
		ReasonForTransfer string `json:"reason_for_transfer"`
		SourceOfFunds     string `json:"source_of_funds"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}

	recipient, err := s.findRecipient(ctx, token, a.BeneficiaryID)
	if err != nil {
		return errResult("%v", err)
	}

	txn, err := s.pipeline.GenerateQuote(ctx, token, remit.QuoteRequest{
		Calculation: &remit.CalculationContext{
			CalculationID: a.CalculationID,
			ProductID:     a.ProductID,
		},
		Recipient:         recipient,
		ReasonForTransfer: a.ReasonForTransfer,
		SourceOfFunds:     a.SourceOfFunds,
	})
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(txn)
}

func (s *Server) findRecipient(ctx context.Context, token, beneficiaryID string) (*remit.Recipient, error) {
	if beneficiaryID == "" {
		return nil, fmt.Errorf("beneficiary_id is required")
	}
	recipients, err := s.pipeline.Recipients(ctx, token, 1, 50)
	if err != nil {
		return nil, err
	}
	for i := range recipients {
		if recipients[i].BeneficiaryID == beneficiaryID {
			return &recipients[i], nil
		}
	}
	return nil, fmt.Errorf("recipient %s not found", beneficiaryID)
}

func (s *Server) handlePaymentOptions(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a struct {
		tokenArgs
		ServiceType string `json:"service_type"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}
	options, err := s.pipeline.PaymentOptions(ctx, token, a.ServiceType)
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(map[string]interface{}{"payment_options": options})
}

func (s *Server) handleExecute(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a struct {
		tokenArgs
		TransactionID     string `json:"transaction_id"`
		PaymentMethodCode string `json:"payment_method_code"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}
	result, err := s.pipeline.Execute(ctx, token,
		&remit.TransactionContext{TransactionID: a.TransactionID}, a.PaymentMethodCode)
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(result)
}

func (s *Server) handleCreateTicket(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a struct {
		tokenArgs
		Subject     string `json:"subject"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}
	ticket, err := s.wallet.CreateTicket(ctx, token, a.Subject, a.Description)
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(ticket)
}

func (s *Server) handleGetTicket(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a struct {
		tokenArgs
		TicketID string `json:"ticket_id"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	token, err := s.resolveToken(ctx, a.ExternalToken)
	if err != nil {
		return errResult("%v", err)
	}
	ticket, err := s.wallet.GetTicket(ctx, token, a.TicketID)
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(ticket)
}

func (s *Server) handleSearchKnowledge(ctx context.Context, args json.RawMessage) *core.ToolCallResult {
	var a struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := json.Unmarshal(args, &a); err != nil {
		return errResult("invalid arguments: %v", err)
	}
	results, err := s.kb.Search(ctx, a.Query, a.Limit)
	if err != nil {
		return errResult("%v", err)
	}
	return textResult(map[string]interface{}{"articles": results})
}
