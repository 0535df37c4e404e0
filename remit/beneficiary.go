package remit

import (
	"fmt"

	"github.com/kumusha/remitflow/gateway"
)

// ResolveBeneficiaryAccount selects the recipient sub-account whose linked
// product matches the product the rate was locked for.
//
// The gateway silently accepts any account ID, so picking the wrong
// sub-account (or the recipient's top-level beneficiaryId) creates a
// transaction against the wrong payout method. Selection is therefore a hard
// validation step: no match means no quote, never a fallback account.
func ResolveBeneficiaryAccount(recipient *Recipient, productID int) (*Account, error) {
	if recipient == nil {
		return nil, gateway.NewValidationError("recipient is required to generate a quote")
	}
	for i := range recipient.Accounts {
		account := &recipient.Accounts[i]
		for _, lp := range account.LinkedProducts {
			if lp.ProductID == productID {
				return account, nil
			}
		}
	}
	return nil, gateway.NewValidationError(fmt.Sprintf(
		"recipient %s has no account linked to product %d; cannot generate quote",
		recipient.BeneficiaryID, productID))
}
