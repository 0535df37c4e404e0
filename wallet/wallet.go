// Package wallet covers the gateway's wallet-side operations: balance,
// transaction history, customer profile, and support tickets.
package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/kumusha/remitflow/config"
	"github.com/kumusha/remitflow/gateway"
)

// TicketIDPattern matches the reference the gateway assigns to support
// tickets, e.g. TICKET-48213.
var TicketIDPattern = regexp.MustCompile(`TICKET-\d+`)

// Service executes wallet operations against the gateway.
type Service struct {
	gw        *gateway.Client
	endpoints config.Endpoints
	logger    zerolog.Logger
}

// NewService creates a wallet service.
func NewService(gw *gateway.Client, cfg config.GatewayConfig, logger zerolog.Logger) *Service {
	return &Service{
		gw:        gw,
		endpoints: cfg.Endpoints(),
		logger:    logger.With().Str("component", "wallet").Logger(),
	}
}

// Balance returns the wallet balance payload as the gateway reports it.
func (s *Service) Balance(ctx context.Context, token string) (json.RawMessage, error) {
	resp, err := s.gw.Get(ctx, s.endpoints.WalletBalance, token, nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// HistoryRequest filters the transaction history query.
type HistoryRequest struct {
	Page  int
	Count int
	Type  string // optional: send, receive, deposit, withdraw
}

// Transaction is one wallet transaction history entry.
type Transaction struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Merchant  string `json:"merchant,omitempty"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// TransactionHistory lists recent wallet transactions.
func (s *Service) TransactionHistory(ctx context.Context, token string, req HistoryRequest) ([]Transaction, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Count < 1 {
		req.Count = 10
	}

	params := url.Values{}
	params.Set("page", fmt.Sprint(req.Page))
	params.Set("count", fmt.Sprint(req.Count))
	if req.Type != "" {
		params.Set("type", req.Type)
	}

	resp, err := s.gw.Get(ctx, s.endpoints.TransactionHistory, token, params)
	if err != nil {
		return nil, err
	}

	var body struct {
		Items []Transaction `json:"items"`
	}
	if err := resp.DecodeData(&body); err != nil {
		return nil, fmt.Errorf("decode transaction history: %w", err)
	}
	return body.Items, nil
}

// Profile returns the customer profile payload.
func (s *Service) Profile(ctx context.Context, token string) (json.RawMessage, error) {
	resp, err := s.gw.Get(ctx, s.endpoints.CustomerProfile, token, nil)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Ticket is a support ticket as the gateway reports it.
type Ticket struct {
	TicketID string `json:"ticketId"`
	Subject  string `json:"subject"`
	Status   string `json:"status"`
	Created  string `json:"created,omitempty"`
}

// CreateTicket opens a support ticket and returns its TICKET-<n> reference.
// This is a side-effecting call; the conversation layer gates it behind
// explicit user confirmation.
func (s *Service) CreateTicket(ctx context.Context, token, subject, body string) (*Ticket, error) {
	if subject == "" {
		return nil, gateway.NewValidationError("ticket subject is required")
	}

	resp, err := s.gw.Post(ctx, s.endpoints.SupportTicket, token, map[string]string{
		"subject":     subject,
		"description": body,
	})
	if err != nil {
		return nil, err
	}

	var ticket Ticket
	if err := resp.DecodeData(&ticket); err != nil {
		return nil, fmt.Errorf("decode ticket response: %w", err)
	}
	if ticket.TicketID == "" {
		return nil, fmt.Errorf("gateway returned no ticket reference")
	}

	s.logger.Info().Str("ticket_id", ticket.TicketID).Msg("support ticket created")
	return &ticket, nil
}

// GetTicket fetches a support ticket by its reference.
func (s *Service) GetTicket(ctx context.Context, token, ticketID string) (*Ticket, error) {
	if !TicketIDPattern.MatchString(ticketID) {
		return nil, gateway.NewValidationError(fmt.Sprintf("invalid ticket reference %q", ticketID))
	}

	params := url.Values{}
	params.Set("ticketId", ticketID)

	resp, err := s.gw.Get(ctx, s.endpoints.SupportTicket, token, params)
	if err != nil {
		return nil, err
	}

	var ticket Ticket
	if err := resp.DecodeData(&ticket); err != nil {
		return nil, fmt.Errorf("decode ticket response: %w", err)
	}
	return &ticket, nil
}
