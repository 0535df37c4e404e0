package remit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumusha/remitflow/gateway"
	"github.com/kumusha/remitflow/remit"
)

func sampleRecipient() *remit.Recipient {
	return &remit.Recipient{
		BeneficiaryID: "ben-root",
		FirstName:     "Tendai",
		LastName:      "Moyo",
		Accounts: []remit.Account{
			{
				ID:           "acc-wallet",
				PayoutMethod: "WALLET",
				LinkedProducts: []remit.LinkedProduct{
					{ProductID: 629, AccountName: "EcoCash Wallet"},
				},
			},
			{
				ID:           "acc-cash",
				PayoutMethod: "CASH",
				LinkedProducts: []remit.LinkedProduct{
					{ProductID: 12, AccountName: "Cash Pickup"},
				},
			},
		},
	}
}

func TestResolveBeneficiaryAccountMatchesLockedProduct(t *testing.T) {
	recipient := sampleRecipient()

	account, err := remit.ResolveBeneficiaryAccount(recipient, 629)
	require.NoError(t, err)
	assert.Equal(t, "acc-wallet", account.ID)

	account, err = remit.ResolveBeneficiaryAccount(recipient, 12)
	require.NoError(t, err)
	assert.Equal(t, "acc-cash", account.ID)
}

func TestResolveBeneficiaryAccountNoMatchIsHardFailure(t *testing.T) {
	recipient := sampleRecipient()

	_, err := remit.ResolveBeneficiaryAccount(recipient, 999)
	require.Error(t, err)
	assert.True(t, gateway.IsKind(err, gateway.KindValidation))
	assert.Contains(t, err.Error(), "ben-root")
	assert.Contains(t, err.Error(), "999")
}

func TestResolveBeneficiaryAccountNilRecipient(t *testing.T) {
	_, err := remit.ResolveBeneficiaryAccount(nil, 629)
	require.Error(t, err)
	assert.True(t, gateway.IsKind(err, gateway.KindValidation))
}
