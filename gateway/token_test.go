package gateway_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kumusha/remitflow/gateway"
)

func TestTokenManagerExternalOverride(t *testing.T) {
	m := gateway.NewTokenManager(true)
	m.Set(&gateway.Token{Value: "managed-token", Source: gateway.SourcePinVerify})

	assert.Equal(t, "managed-token", m.Get(""))
	assert.Equal(t, "caller-token", m.Get("caller-token"))
}

func TestTokenManagerDisabled(t *testing.T) {
	m := gateway.NewTokenManager(false)

	assert.False(t, m.Set(&gateway.Token{Value: "tok"}))
	assert.Equal(t, "", m.Get(""))
	assert.Equal(t, "external", m.Get("external"))
	assert.False(t, m.Clear())

	status := m.Status()
	assert.False(t, status.Enabled)
	assert.False(t, status.Available)
}

func TestTokenManagerClear(t *testing.T) {
	m := gateway.NewTokenManager(true)

	assert.False(t, m.Clear())

	m.Set(&gateway.Token{Value: "tok", Source: gateway.SourceRefresh})
	assert.True(t, m.Has(""))

	assert.True(t, m.Clear())
	assert.False(t, m.Has(""))
}

func TestTokenManagerStatusRedactsValue(t *testing.T) {
	m := gateway.NewTokenManager(true)
	m.Set(&gateway.Token{
		Value:     "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.payload.signature",
		Source:    gateway.SourcePinVerify,
		ExpiresIn: "3600",
	})

	status := m.Status()
	assert.True(t, status.Available)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiIs...", status.Preview)
	assert.Equal(t, "pin_verify", status.Source)
	assert.Equal(t, "3600", status.ExpiresIn)
}
