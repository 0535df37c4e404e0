package remit

// CalculationContext is the intermediate state produced by the rate-lock
// stage and consumed read-only by quote generation. Stages never mutate a
// context in place; each stage returns a new value layered on the last.
type CalculationContext struct {
	CalculationID   string `json:"calculationId"`
	SendingAmount   string `json:"sendingAmount"`
	RecipientAmount string `json:"recipientAmount"`
	Rate            string `json:"rate"`
	ReverseRate     string `json:"reverseRate"`
	Fees            string `json:"fees"`
	VAT             string `json:"vat"`
	AmountToPay     string `json:"amountToPay"`

	// ProductID is the delivery product the rate was locked for. Quote
	// generation must select the beneficiary account linked to this product.
	ProductID int `json:"productId"`
}

// TransactionContext is produced by quote generation and required,
// unmodified, by execution.
type TransactionContext struct {
	TransactionID     string `json:"transactionId"`
	BeneficiaryID     string `json:"beneficiaryId"`
	PaymentMethodCode string `json:"paymentMethodCode,omitempty"`
	TransactionDate   string `json:"transactionDate"`
	ExpiryDate        string `json:"expiryDate"`
	Promocode         string `json:"promocode,omitempty"`
}

// LinkedProduct ties a recipient account to a delivery product.
type LinkedProduct struct {
	ProductID   int    `json:"productId"`
	AccountName string `json:"accountName"`
}

// Account is one payout sub-account of a recipient (e.g. a mobile wallet or
// a cash-pickup account).
type Account struct {
	ID             string          `json:"id"`
	PayoutMethod   string          `json:"beneficiaryPayoutMethod"`
	LinkedProducts []LinkedProduct `json:"linkedProducts"`
}

// Recipient is a saved beneficiary with one or more payout accounts.
type Recipient struct {
	BeneficiaryID string    `json:"beneficiaryId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Accounts      []Account `json:"accounts"`
}

// ProductOption is one delivery method returned by the exchange-rate menu.
type ProductOption struct {
	ProductID       int    `json:"productId"`
	ProductName     string `json:"productName"`
	ProductType     string `json:"productType"`
	Rate            string `json:"rate"`
	Fees            string `json:"fees"`
	AmountToPay     string `json:"amountToPay"`
	ReceivingAmount string `json:"receivingAmount"`
}

// PaymentOption is one way to fund a transaction (EFT, card, cash).
type PaymentOption struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl,omitempty"`
}

// ReceivingCountry is one destination reachable from the source country.
type ReceivingCountry struct {
	CountryCode string   `json:"countryCode"`
	CountryName string   `json:"countryName"`
	Currencies  []string `json:"currencies"`
}

// ExecutionResult is the outcome of transaction finalization. When the
// gateway returns a hosted-checkout URL, ActionRequired is set and the
// transfer does not complete until the user visits TransactionURL.
type ExecutionResult struct {
	TransactionID     string `json:"transactionId"`
	PaymentMethodCode string `json:"paymentMethodCode"`
	Status            string `json:"status,omitempty"`
	TransactionURL    string `json:"transactionUrl,omitempty"`
	ActionRequired    bool   `json:"actionRequired"`
	ActionMessage     string `json:"actionMessage,omitempty"`
}
