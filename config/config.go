// Package config loads RemitFlow configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the RemitFlow agent and tool server.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Auth       AuthConfig       `yaml:"auth"`
	LLM        LLMConfig        `yaml:"llm"`
	ToolServer ToolServerConfig `yaml:"tool_server"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
}

// ServerConfig configures the HTTP surface of the agent backend.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GatewayConfig configures the payment gateway connection.
type GatewayConfig struct {
	Environment     string        `yaml:"environment"` // sandbox or production
	BaseURL         string        `yaml:"base_url"`
	ClientID        string        `yaml:"client_id"`
	TenantID        string        `yaml:"tenant_id"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	UseTokenManager bool          `yaml:"use_token_manager"`
}

// AuthConfig holds the service credentials used to generate gateway tokens.
type AuthConfig struct {
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	PIN             string `yaml:"pin"`
	UserReferenceID string `yaml:"user_reference_id"`
}

// LLMConfig configures the chat model.
type LLMConfig struct {
	Model     string `yaml:"model"`
	MaxTokens int64  `yaml:"max_tokens"`
}

// ToolServerConfig configures the websocket tool server.
type ToolServerConfig struct {
	Listen string `yaml:"listen"` // address the tool server binds to
	URL    string `yaml:"url"`    // address the agent dials
}

// CheckpointConfig selects the session checkpoint backend.
type CheckpointConfig struct {
	Driver      string `yaml:"driver"` // memory or postgres
	PostgresURL string `yaml:"postgres_url"`
}

// Endpoints is the set of gateway endpoint URLs derived from the base URL.
type Endpoints struct {
	Login              string
	PinVerify          string
	RefreshToken       string
	WalletBalance      string
	TransactionHistory string
	CustomerProfile    string
	SupportTicket      string
	Country            string
	ExchangeRate       string
	RateCalculation    string
	Transaction        string
	RecipientList      string
	PaymentOptions     string
}

// Endpoints derives the full endpoint set from the configured base URL.
func (g GatewayConfig) Endpoints() Endpoints {
	base := g.BaseURL
	return Endpoints{
		Login:              base + "/bff/v2/auth/token",
		PinVerify:          base + "/bff/v4/auth/pin/verify",
		RefreshToken:       base + "/bff/v3/user/refreshToken",
		WalletBalance:      base + "/bff/v1/wallet/profile/balance",
		TransactionHistory: base + "/bff/v1/wallet/profile/transaction-history",
		CustomerProfile:    base + "/bff/v1/wallet/profile/cust-info",
		SupportTicket:      base + "/bff/v1/support/ticket",
		Country:            base + "/remittance/v1/master/country",
		ExchangeRate:       base + "/remittance/v1/product/exchange/rate",
		RateCalculation:    base + "/remittance/v1/rate/calculation",
		Transaction:        base + "/remittance/v1/transaction",
		RecipientList:      base + "/remittance/v1/recipient/list",
		PaymentOptions:     base + "/remittance/v1/payment/options",
	}
}

var baseURLs = map[string]string{
	"sandbox":    "https://sandbox.sasaipaymentgateway.com",
	"production": "https://api.sasaipaymentgateway.com",
}

// Default returns the baseline configuration before file and env overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8000,
			AllowedOrigins: []string{"*"},
		},
		Gateway: GatewayConfig{
			Environment:     "sandbox",
			ClientID:        "sasai-pay-client",
			TenantID:        "sasai",
			RequestTimeout:  30 * time.Second,
			UseTokenManager: true,
		},
		LLM: LLMConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 4096,
		},
		ToolServer: ToolServerConfig{
			Listen: ":8001",
			URL:    "ws://localhost:8001/tools",
		},
		Checkpoint: CheckpointConfig{
			Driver: "memory",
		},
	}
}

// Load builds configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Gateway.BaseURL == "" {
		base, ok := baseURLs[cfg.Gateway.Environment]
		if !ok {
			return nil, fmt.Errorf("unknown gateway environment %q", cfg.Gateway.Environment)
		}
		cfg.Gateway.BaseURL = base
	}

	return cfg, nil
}

// Validate checks that credential-dependent settings are usable. The tool
// server requires credentials when the token manager is enabled; the agent
// backend does not.
func (c *Config) Validate() error {
	if !c.Gateway.UseTokenManager {
		return nil
	}
	missing := []string{}
	if c.Auth.Username == "" {
		missing = append(missing, "SASAI_USERNAME")
	}
	if c.Auth.Password == "" {
		missing = append(missing, "SASAI_PASSWORD")
	}
	if c.Auth.PIN == "" {
		missing = append(missing, "SASAI_PIN")
	}
	if c.Auth.UserReferenceID == "" {
		missing = append(missing, "SASAI_USER_REFERENCE_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("token manager enabled but credentials missing: %v", missing)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = envInt("REMITFLOW_PORT", c.Server.Port)
	c.Gateway.Environment = envStr("SASAI_ENVIRONMENT", c.Gateway.Environment)
	c.Gateway.BaseURL = envStr("SASAI_BASE_URL", c.Gateway.BaseURL)
	c.Gateway.ClientID = envStr("SASAI_CLIENT_ID", c.Gateway.ClientID)
	c.Gateway.TenantID = envStr("SASAI_TENANT_ID", c.Gateway.TenantID)
	c.Gateway.UseTokenManager = envBool("USE_TOKEN_MANAGER", c.Gateway.UseTokenManager)
	c.Auth.Username = envStr("SASAI_USERNAME", c.Auth.Username)
	c.Auth.Password = envStr("SASAI_PASSWORD", c.Auth.Password)
	c.Auth.PIN = envStr("SASAI_PIN", c.Auth.PIN)
	c.Auth.UserReferenceID = envStr("SASAI_USER_REFERENCE_ID", c.Auth.UserReferenceID)
	c.LLM.Model = envStr("ANTHROPIC_MODEL", c.LLM.Model)
	c.ToolServer.Listen = envStr("TOOL_SERVER_LISTEN", c.ToolServer.Listen)
	c.ToolServer.URL = envStr("TOOL_SERVER_URL", c.ToolServer.URL)
	c.Checkpoint.Driver = envStr("CHECKPOINT_DRIVER", c.Checkpoint.Driver)
	c.Checkpoint.PostgresURL = envStr("CHECKPOINT_POSTGRES_URL", c.Checkpoint.PostgresURL)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
