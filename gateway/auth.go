package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/kumusha/remitflow/config"
)

// TokenSource records which step of the auth flow produced a token.
type TokenSource string

const (
	SourceLogin     TokenSource = "login"
	SourcePinVerify TokenSource = "pin_verify"
	SourceRefresh   TokenSource = "refresh"
	SourceExternal  TokenSource = "external"
)

// Token is a bearer credential plus the metadata the auth flow produced it
// with. Tokens live only in process memory and are never persisted.
type Token struct {
	Value        string
	Source       TokenSource
	RefreshToken string
	ExpiresIn    string
}

// Authenticator runs the gateway's token generation flow:
// login -> PIN verify -> refresh fallback when the PIN step is rejected.
type Authenticator struct {
	client    *Client
	cfg       config.GatewayConfig
	auth      config.AuthConfig
	endpoints config.Endpoints
	logger    zerolog.Logger
}

// NewAuthenticator creates an authenticator for the configured credentials.
func NewAuthenticator(client *Client, cfg config.GatewayConfig, auth config.AuthConfig, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		client:    client,
		cfg:       cfg,
		auth:      auth,
		endpoints: cfg.Endpoints(),
		logger:    logger.With().Str("component", "auth").Logger(),
	}
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// GenerateToken runs the full authentication flow and returns a usable
// bearer token. The flow is idempotent; callers re-run it whenever the
// gateway reports a 401.
func (a *Authenticator) GenerateToken(ctx context.Context) (*Token, error) {
	// Step 1: login with credentials for a guest token.
	resp, err := a.client.Do(ctx, Request{
		Method:   "POST",
		Endpoint: a.endpoints.Login,
		NoAuth:   true,
		Body: map[string]string{
			"username": a.auth.Username,
			"password": a.auth.Password,
			"tenantId": a.cfg.TenantID,
			"clientId": a.cfg.ClientID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	var login loginResponse
	if err := resp.DecodeData(&login); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if login.AccessToken == "" {
		return nil, authenticationError(a.endpoints.Login, "no guest token received from login")
	}

	// Step 2: verify PIN with the guest token.
	pinParams := url.Values{}
	pinParams.Set("tenantId", a.cfg.TenantID)
	pinParams.Set("azp", a.cfg.ClientID)

	pinResp, pinErr := a.client.Do(ctx, Request{
		Method:   "POST",
		Endpoint: a.endpoints.PinVerify,
		Token:    login.AccessToken,
		Params:   pinParams,
		Body: map[string]string{
			"pin":             a.auth.PIN,
			"userReferenceId": a.auth.UserReferenceID,
		},
	})
	if pinErr == nil {
		var pin loginResponse
		if err := pinResp.DecodeData(&pin); err != nil {
			return nil, fmt.Errorf("decode pin verify response: %w", err)
		}
		if pin.AccessToken == "" {
			return nil, authenticationError(a.endpoints.PinVerify, "no access token in PIN verification response")
		}
		a.logger.Info().Msg("token generated via PIN verification")
		return &Token{
			Value:        pin.AccessToken,
			Source:       SourcePinVerify,
			RefreshToken: pin.RefreshToken,
			ExpiresIn:    login.ExpiresIn,
		}, nil
	}

	// Step 3: PIN verification failed; fall back to the refresh token from
	// the login step if one was issued.
	if login.RefreshToken == "" {
		return nil, fmt.Errorf("pin verify failed and login issued no refresh token: %w", pinErr)
	}

	a.logger.Warn().Err(pinErr).Msg("PIN verification failed, trying refresh token")

	refreshParams := url.Values{}
	refreshParams.Set("refreshToken", login.RefreshToken)
	refreshParams.Set("tenantId", a.cfg.TenantID)
	refreshParams.Set("azp", a.cfg.ClientID)

	refreshResp, err := a.client.Do(ctx, Request{
		Method:   "POST",
		Endpoint: a.endpoints.RefreshToken,
		Token:    login.AccessToken,
		Params:   refreshParams,
	})
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	var refreshed loginResponse
	if err := refreshResp.DecodeData(&refreshed); err != nil {
		return nil, fmt.Errorf("decode refresh response: %w", err)
	}
	if refreshed.AccessToken == "" {
		return nil, authenticationError(a.endpoints.RefreshToken, "no access token in refresh response")
	}

	a.logger.Info().Msg("token generated via refresh fallback")
	return &Token{
		Value:        refreshed.AccessToken,
		Source:       SourceRefresh,
		RefreshToken: refreshed.RefreshToken,
		ExpiresIn:    login.ExpiresIn,
	}, nil
}
