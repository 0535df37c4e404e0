// Package remit implements the staged money-transfer protocol against the
// payment gateway: rate-lock, quote generation, payment-method selection,
// and execution, plus the read-side menu queries that precede a transfer.
package remit

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog"

	"github.com/kumusha/remitflow/config"
	"github.com/kumusha/remitflow/gateway"
)

// Defaults used by the gateway when the caller does not specify them.
const (
	DefaultRatePaymentMethodID  = "5"
	DefaultQuotePaymentMethodID = "10-I"
	DefaultReasonForTransfer    = "SOWF" // support of family
	DefaultSourceOfFunds        = "SAL"  // salary
	DefaultPaymentServiceType   = "ZAPersonPaymentOptions"
)

// Pipeline composes gateway calls into the four-stage transfer protocol.
//
// Stages are pure with respect to each other: each consumes the previous
// stage's context and returns a new one. The pipeline performs no retries
// and surfaces gateway errors unmodified; a failed stage's context must not
// be reused. Re-running a failed rate-lock or quote is safe (one-shot
// handles per attempt); re-running a successful execution is not and must be
// guarded by the caller.
type Pipeline struct {
	gw            *gateway.Client
	endpoints     config.Endpoints
	sourceCountry string
	cache         *ristretto.Cache
	logger        zerolog.Logger
}

// NewPipeline creates a transfer pipeline. The cache backs read-side menu
// lookups (payment options, receiving countries), never pipeline stages.
func NewPipeline(gw *gateway.Client, cfg config.GatewayConfig, logger zerolog.Logger) (*Pipeline, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 12,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create menu cache: %w", err)
	}
	return &Pipeline{
		gw:            gw,
		endpoints:     cfg.Endpoints(),
		sourceCountry: "ZA",
		cache:         cache,
		logger:        logger.With().Str("component", "pipeline").Logger(),
	}, nil
}

// RateLockRequest describes stage 1 input.
type RateLockRequest struct {
	SendingCountryID    int               `json:"sendingCountryId"`
	ReceivingCountryID  int               `json:"receivingCountryId"`
	SendingCurrencyID   int               `json:"sendingCurrencyId"`
	ReceivingCurrencyID int               `json:"receivingCurrencyId"`
	Amount              string            `json:"amount"`
	ProductID           int               `json:"productId"`
	Receive             bool              `json:"receive"`
	PaymentMethodID     string            `json:"paymentMethodId"`
	OrderID             string            `json:"spgOrderId,omitempty"`
	Notes               map[string]string `json:"notes,omitempty"`
}

// LockRate is stage 1: lock the quoted rate for the chosen delivery product
// and obtain a calculationId valid for a bounded window.
func (p *Pipeline) LockRate(ctx context.Context, token string, req RateLockRequest) (*CalculationContext, error) {
	if req.Amount == "" {
		return nil, gateway.NewValidationError("amount is required to lock a rate")
	}
	if req.ProductID == 0 {
		return nil, gateway.NewValidationError("productId is required to lock a rate")
	}
	if req.PaymentMethodID == "" {
		req.PaymentMethodID = DefaultRatePaymentMethodID
	}

	resp, err := p.gw.Post(ctx, p.endpoints.RateCalculation, token, req)
	if err != nil {
		return nil, err
	}

	var calc CalculationContext
	if err := resp.DecodeData(&calc); err != nil {
		return nil, fmt.Errorf("decode rate calculation: %w", err)
	}
	if calc.CalculationID == "" {
		return nil, gateway.NewValidationError("gateway returned no calculationId for rate lock")
	}
	calc.ProductID = req.ProductID

	p.logger.Info().
		Str("calculation_id", calc.CalculationID).
		Int("product_id", calc.ProductID).
		Str("amount_to_pay", calc.AmountToPay).
		Msg("rate locked")
	return &calc, nil
}

// QuoteRequest describes stage 2 input. The beneficiary account is resolved
// from the recipient's sub-accounts against the calculation's product ID.
type QuoteRequest struct {
	Calculation       *CalculationContext
	Recipient         *Recipient
	PaymentMethodID   string
	ReasonForTransfer string
	SourceOfFunds     string
}

// GenerateQuote is stage 2: create the transaction from a locked rate,
// producing a transactionId. Fails validation when invoked out of order
// (no calculationId) or when no recipient account matches the locked
// product.
func (p *Pipeline) GenerateQuote(ctx context.Context, token string, req QuoteRequest) (*TransactionContext, error) {
	if req.Calculation == nil || req.Calculation.CalculationID == "" {
		return nil, gateway.NewValidationError("quote generation requires a rate-lock calculationId; lock a rate first")
	}

	account, err := ResolveBeneficiaryAccount(req.Recipient, req.Calculation.ProductID)
	if err != nil {
		return nil, err
	}

	if req.PaymentMethodID == "" {
		req.PaymentMethodID = DefaultQuotePaymentMethodID
	}
	if req.ReasonForTransfer == "" {
		req.ReasonForTransfer = DefaultReasonForTransfer
	}
	if req.SourceOfFunds == "" {
		req.SourceOfFunds = DefaultSourceOfFunds
	}

	resp, err := p.gw.Post(ctx, p.endpoints.Transaction, token, map[string]string{
		"reasonForTransfer": req.ReasonForTransfer,
		"sourceOfFunds":     req.SourceOfFunds,
		"beneficiaryId":     account.ID,
		"calculationId":     req.Calculation.CalculationID,
		"paymentMethodId":   req.PaymentMethodID,
	})
	if err != nil {
		return nil, err
	}

	var txn TransactionContext
	if err := resp.DecodeData(&txn); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}
	if txn.TransactionID == "" {
		return nil, gateway.NewValidationError("gateway returned no transactionId for quote")
	}
	txn.BeneficiaryID = account.ID

	p.logger.Info().
		Str("transaction_id", txn.TransactionID).
		Str("beneficiary_id", account.ID).
		Str("expiry", txn.ExpiryDate).
		Msg("quote generated")
	return &txn, nil
}

// PaymentOptions is stage 3: list the payment methods available for the
// originating region. A read-side lookup with no pipeline state; results are
// cached briefly since the method set changes rarely.
func (p *Pipeline) PaymentOptions(ctx context.Context, token, serviceType string) ([]PaymentOption, error) {
	if serviceType == "" {
		serviceType = DefaultPaymentServiceType
	}

	cacheKey := "payment-options:" + serviceType
	if cached, ok := p.cache.Get(cacheKey); ok {
		return cached.([]PaymentOption), nil
	}

	params := urlValues("serviceType", serviceType)
	resp, err := p.gw.Get(ctx, p.endpoints.PaymentOptions, token, params)
	if err != nil {
		return nil, err
	}

	var body struct {
		Items []struct {
			Code    string `json:"code"`
			Value   string `json:"value"`
			IconURL string `json:"iconUrl"`
		} `json:"items"`
	}
	if err := resp.DecodeData(&body); err != nil {
		return nil, fmt.Errorf("decode payment options: %w", err)
	}

	options := make([]PaymentOption, 0, len(body.Items))
	for _, item := range body.Items {
		options = append(options, PaymentOption{
			Code:        item.Code,
			Name:        item.Value,
			Description: "Pay using " + item.Value,
			IconURL:     item.IconURL,
		})
	}

	p.cache.SetWithTTL(cacheKey, options, 1, menuCacheTTL)
	return options, nil
}

// Execute is stage 4: finalize the transaction. The contract is exactly two
// fields: the transactionId from stage 2 and the payment method code chosen
// in stage 3. A transactionUrl in the response means the transfer completes
// out of band and is surfaced as an explicit action-required signal.
//
// Execution is not idempotent; callers must not re-invoke it for a
// transactionId that already executed successfully.
func (p *Pipeline) Execute(ctx context.Context, token string, txn *TransactionContext, paymentMethodCode string) (*ExecutionResult, error) {
	if txn == nil || txn.TransactionID == "" {
		return nil, gateway.NewValidationError("execution requires a transactionId; generate a quote first")
	}
	if paymentMethodCode == "" {
		return nil, gateway.NewValidationError("execution requires a payment method code; list payment options first")
	}

	resp, err := p.gw.Patch(ctx, p.endpoints.Transaction, token, map[string]string{
		"transactionId":     txn.TransactionID,
		"paymentMethodCode": paymentMethodCode,
	})
	if err != nil {
		return nil, err
	}

	var body struct {
		Status         string `json:"status"`
		TransactionURL string `json:"transactionUrl"`
	}
	if err := resp.DecodeData(&body); err != nil {
		return nil, fmt.Errorf("decode execution response: %w", err)
	}

	result := &ExecutionResult{
		TransactionID:     txn.TransactionID,
		PaymentMethodCode: paymentMethodCode,
		Status:            body.Status,
	}
	if body.TransactionURL != "" {
		result.TransactionURL = body.TransactionURL
		result.ActionRequired = true
		result.ActionMessage = "Please complete your payment by opening this URL"
	}

	p.logger.Info().
		Str("transaction_id", txn.TransactionID).
		Str("payment_method", paymentMethodCode).
		Bool("action_required", result.ActionRequired).
		Msg("transaction executed")
	return result, nil
}

// Recipients lists saved beneficiaries with their payout accounts.
func (p *Pipeline) Recipients(ctx context.Context, token string, page, count int) ([]Recipient, error) {
	if page < 1 {
		page = 1
	}
	if count < 1 {
		count = 20
	}
	if count > 50 {
		count = 50
	}

	params := urlValues("page", fmt.Sprint(page))
	params.Set("count", fmt.Sprint(count))

	resp, err := p.gw.Get(ctx, p.endpoints.RecipientList, token, params)
	if err != nil {
		return nil, err
	}

	var body struct {
		Items []Recipient `json:"items"`
	}
	if err := resp.DecodeData(&body); err != nil {
		return nil, fmt.Errorf("decode recipient list: %w", err)
	}
	return body.Items, nil
}
