package knowledge

import "context"

// SeedArticles returns the built-in support articles.
func SeedArticles() []Article {
	return []Article{
		{
			ID:    "fees-overview",
			Title: "Transfer fees and charges",
			Topic: "fees",
			Content: "Transfer fees depend on the destination country, the delivery " +
				"product, and the amount sent. The fee and VAT are shown before you " +
				"confirm a transfer, in the quote breakdown, together with the total " +
				"amount to pay. There are no hidden charges after confirmation.",
		},
		{
			ID:    "delivery-times",
			Title: "How long transfers take",
			Topic: "transfers",
			Content: "Mobile wallet deliveries usually complete within minutes. Bank " +
				"deposits can take one to two business days depending on the receiving " +
				"bank. Cash pickup is available as soon as the transfer is confirmed. " +
				"If a transfer shows as pending for more than 24 hours, contact support.",
		},
		{
			ID:    "rate-locks",
			Title: "Exchange rate locks",
			Topic: "rates",
			Content: "When you start a transfer the displayed exchange rate is locked " +
				"for a short window while you confirm the details. If the lock expires " +
				"before you confirm, the rate is refreshed and the new rate applies. " +
				"Locked rates are only valid for the delivery product they were quoted for.",
		},
		{
			ID:    "supported-countries",
			Title: "Where you can send money",
			Topic: "transfers",
			Content: "Transfers are sent from South Africa to supported destinations " +
				"including Zimbabwe and other countries in the region. Each destination " +
				"lists its available currencies and delivery methods such as mobile " +
				"wallet, bank deposit, and cash pickup.",
		},
		{
			ID:    "payment-methods",
			Title: "Ways to pay for a transfer",
			Topic: "payments",
			Content: "You can fund a transfer by instant EFT, card, or wallet balance. " +
				"Some payment methods redirect you to a secure payment page to complete " +
				"the payment; the transfer only completes after the payment succeeds.",
		},
		{
			ID:    "limits",
			Title: "Sending limits",
			Topic: "limits",
			Content: "Daily and monthly sending limits depend on your verification " +
				"level. Fully verified accounts have higher limits. You can check your " +
				"current limits in your profile or by asking support.",
		},
		{
			ID:    "refunds",
			Title: "Refunds for failed transfers",
			Topic: "refunds",
			Content: "If a transfer fails after payment, the amount is refunded to the " +
				"original payment method within three to five business days. If a " +
				"refund has not arrived after five business days, open a support ticket " +
				"with the transaction reference.",
		},
		{
			ID:    "account-security",
			Title: "Keeping your account safe",
			Topic: "security",
			Content: "Never share your PIN or password. Support agents will never ask " +
				"for them. If you suspect unauthorized access, change your password " +
				"immediately and contact support to freeze the account.",
		},
	}
}

// Seed indexes the built-in articles into the base.
func Seed(ctx context.Context, base *Base) error {
	for _, article := range SeedArticles() {
		if err := base.Add(ctx, article); err != nil {
			return err
		}
	}
	return nil
}
