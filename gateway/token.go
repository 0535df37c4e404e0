package gateway

import "sync"

// TokenStatus reports the manager's current state.
type TokenStatus struct {
	Enabled   bool   `json:"enabled"`
	Available bool   `json:"available"`
	Preview   string `json:"preview,omitempty"`
	Source    string `json:"source,omitempty"`
	ExpiresIn string `json:"expires_in,omitempty"`
}

// TokenManager holds the process-wide managed bearer token.
//
// Concurrent sessions share one managed token; the external-token override
// on Get/Has is the path for callers that carry their own credential. There
// is no expiry timer: expiry is detected reactively when the gateway returns
// a 401, at which point the caller regenerates.
type TokenManager struct {
	mu      sync.RWMutex
	enabled bool
	token   *Token
}

// NewTokenManager creates a token manager. When enabled is false the manager
// never stores state and every call must supply an external token.
func NewTokenManager(enabled bool) *TokenManager {
	return &TokenManager{enabled: enabled}
}

// Enabled reports whether the manager holds tokens at all.
func (m *TokenManager) Enabled() bool {
	return m.enabled
}

// Set stores the managed token. No-op when the manager is disabled; the
// return value reports whether the token was stored.
func (m *TokenManager) Set(token *Token) bool {
	if !m.enabled || token == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return true
}

// Get returns the usable token value. An external token always wins over the
// managed one: it represents a caller-supplied, already-authenticated
// credential and must never be overridden by a stale managed token. Returns
// "" when no token is available; Get never fails.
func (m *TokenManager) Get(external string) string {
	if external != "" {
		return external
	}
	if !m.enabled {
		return ""
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return ""
	}
	return m.token.Value
}

// Has reports whether Get would return a token.
func (m *TokenManager) Has(external string) bool {
	return m.Get(external) != ""
}

// Clear drops the managed token. Returns whether a token was present; always
// false when the manager is disabled.
func (m *TokenManager) Clear() bool {
	if !m.enabled {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	had := m.token != nil
	m.token = nil
	return had
}

// Status returns a redacted summary of the manager state.
func (m *TokenManager) Status() TokenStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := TokenStatus{Enabled: m.enabled}
	if !m.enabled || m.token == nil {
		return status
	}
	status.Available = true
	status.Preview = preview(m.token.Value)
	status.Source = string(m.token.Source)
	status.ExpiresIn = m.token.ExpiresIn
	return status
}

func preview(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
