package toolserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumusha/remitflow/config"
	"github.com/kumusha/remitflow/gateway"
	"github.com/kumusha/remitflow/knowledge"
	"github.com/kumusha/remitflow/remit"
	"github.com/kumusha/remitflow/toolserver"
	"github.com/kumusha/remitflow/wallet"
)

// startToolServer stands up the full stack: a fake gateway, the tool server
// on a websocket, and a connected client.
func startToolServer(t *testing.T, gatewayHandler http.Handler) *toolserver.Client {
	t.Helper()

	gwSrv := httptest.NewServer(gatewayHandler)
	t.Cleanup(gwSrv.Close)

	cfg := config.Default()
	cfg.Gateway.BaseURL = gwSrv.URL
	cfg.Gateway.UseTokenManager = false

	logger := zerolog.Nop()
	gw := gateway.NewClient(cfg.Gateway, logger)
	tokens := gateway.NewTokenManager(false)

	pipeline, err := remit.NewPipeline(gw, cfg.Gateway, logger)
	require.NoError(t, err)
	walletSvc := wallet.NewService(gw, cfg.Gateway, logger)

	kb, err := knowledge.NewBase(knowledge.NewHashEmbedder(), logger)
	require.NoError(t, err)
	require.NoError(t, knowledge.Seed(context.Background(), kb))

	ts := toolserver.NewServer(cfg, tokens, nil, pipeline, walletSvc, kb, logger)
	wsSrv := httptest.NewServer(ts.Handler())
	t.Cleanup(wsSrv.Close)

	wsURL := "ws" + strings.TrimPrefix(wsSrv.URL, "http")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := toolserver.Dial(ctx, wsURL, logger)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestToolServerListTools(t *testing.T) {
	client := startToolServer(t, http.NotFoundHandler())

	defs, err := client.ListTools(context.Background())
	require.NoError(t, err)
	assert.Len(t, defs, 16)

	byName := map[string]bool{}
	confirmable := map[string]bool{}
	for _, def := range defs {
		byName[def.Name] = true
		if def.RequiresConfirmation {
			confirmable[def.Name] = true
		}
	}
	assert.True(t, byName["calculate_remittance_quote"])
	assert.True(t, byName["search_knowledge"])
	assert.Equal(t, map[string]bool{"create_ticket": true}, confirmable)
}

func TestClientHonorsCancelledContext(t *testing.T) {
	client := startToolServer(t, http.NotFoundHandler())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListTools(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// The connection stays usable for a live context afterwards.
	defs, err := client.ListTools(context.Background())
	require.NoError(t, err)
	assert.Len(t, defs, 16)
}

func TestToolServerCallWithExternalToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bff/v1/wallet/profile/balance", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"balance": 125.50, "currency": "ZAR"}`))
	})
	client := startToolServer(t, mux)

	result, err := client.CallTool(context.Background(), "get_balance",
		json.RawMessage(`{"external_token": "user-token"}`))
	require.NoError(t, err)

	assert.False(t, result.IsError)
	assert.Contains(t, result.Text(), "125.5")
}

func TestToolServerMissingTokenIsToolError(t *testing.T) {
	client := startToolServer(t, http.NotFoundHandler())

	result, err := client.CallTool(context.Background(), "get_balance", nil)
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, result.Text(), "no gateway token available")
}

func TestToolServerSearchKnowledgeNeedsNoToken(t *testing.T) {
	client := startToolServer(t, http.NotFoundHandler())

	result, err := client.CallTool(context.Background(), "search_knowledge",
		json.RawMessage(`{"query": "how much are transfer fees", "limit": 3}`))
	require.NoError(t, err)

	assert.False(t, result.IsError)
	assert.Contains(t, result.Text(), "articles")
}

func TestToolServerUnknownTool(t *testing.T) {
	client := startToolServer(t, http.NotFoundHandler())

	result, err := client.CallTool(context.Background(), "definitely_not_a_tool", nil)
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, result.Text(), "unknown tool")
}

func TestToolServerTokenStatusWhenDisabled(t *testing.T) {
	client := startToolServer(t, http.NotFoundHandler())

	result, err := client.CallTool(context.Background(), "get_token_status", nil)
	require.NoError(t, err)

	var status gateway.TokenStatus
	require.NoError(t, json.Unmarshal([]byte(result.Text()), &status))
	assert.False(t, status.Enabled)
	assert.False(t, status.Available)
}
