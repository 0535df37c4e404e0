package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumusha/remitflow/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "sandbox", cfg.Gateway.Environment)
	assert.Equal(t, "https://sandbox.sasaipaymentgateway.com", cfg.Gateway.BaseURL)
	assert.Equal(t, "memory", cfg.Checkpoint.Driver)
	assert.True(t, cfg.Gateway.UseTokenManager)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9100
gateway:
  environment: production
checkpoint:
  driver: postgres
  postgres_url: postgres://localhost/remitflow
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "https://api.sasaipaymentgateway.com", cfg.Gateway.BaseURL)
	assert.Equal(t, "postgres", cfg.Checkpoint.Driver)
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9100\n"), 0o644))

	t.Setenv("REMITFLOW_PORT", "9200")
	t.Setenv("SASAI_BASE_URL", "http://localhost:1234")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "http://localhost:1234", cfg.Gateway.BaseURL)
}

func TestLoadUnknownEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gateway:\n  environment: staging\n"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidateCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.Gateway.UseTokenManager = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SASAI_USERNAME")

	cfg.Auth = config.AuthConfig{
		Username:        "u",
		Password:        "p",
		PIN:             "1234",
		UserReferenceID: "ref",
	}
	assert.NoError(t, cfg.Validate())

	// The agent backend runs without credentials when the manager is off.
	cfg = config.Default()
	cfg.Gateway.UseTokenManager = false
	assert.NoError(t, cfg.Validate())
}

func TestEndpointsDerivedFromBase(t *testing.T) {
	gw := config.GatewayConfig{BaseURL: "https://gw.example"}
	ep := gw.Endpoints()

	assert.Equal(t, "https://gw.example/bff/v2/auth/token", ep.Login)
	assert.Equal(t, "https://gw.example/remittance/v1/rate/calculation", ep.RateCalculation)
	assert.Equal(t, "https://gw.example/remittance/v1/transaction", ep.Transaction)
	assert.Equal(t, "https://gw.example/bff/v1/support/ticket", ep.SupportTicket)
}
