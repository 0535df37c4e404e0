package wallet_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumusha/remitflow/config"
	"github.com/kumusha/remitflow/gateway"
	"github.com/kumusha/remitflow/wallet"
)

func testService(t *testing.T, handler http.Handler) *wallet.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.GatewayConfig{BaseURL: srv.URL, RequestTimeout: 5 * time.Second}
	gw := gateway.NewClient(cfg, zerolog.Nop())
	return wallet.NewService(gw, cfg, zerolog.Nop())
}

func TestTransactionHistoryDefaultsAndFilter(t *testing.T) {
	var gotQuery map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/bff/v1/wallet/profile/transaction-history", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"items": [
			{"id": "txn_1", "type": "send", "amount": "50.00", "currency": "USD", "status": "completed", "timestamp": "2026-08-20"}
		]}`))
	})
	svc := testService(t, mux)

	history, err := svc.TransactionHistory(context.Background(), "tok", wallet.HistoryRequest{Type: "send"})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "txn_1", history[0].ID)

	assert.Equal(t, []string{"1"}, gotQuery["page"])
	assert.Equal(t, []string{"10"}, gotQuery["count"])
	assert.Equal(t, []string{"send"}, gotQuery["type"])
}

func TestCreateTicketRequiresSubject(t *testing.T) {
	svc := testService(t, http.NotFoundHandler())

	_, err := svc.CreateTicket(context.Background(), "tok", "", "details")
	require.Error(t, err)
	assert.True(t, gateway.IsKind(err, gateway.KindValidation))
}

func TestCreateTicketReturnsReference(t *testing.T) {
	var gotBody map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/bff/v1/support/ticket", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"ticketId": "TICKET-48213", "subject": "Failed transfer", "status": "open"}`))
	})
	svc := testService(t, mux)

	ticket, err := svc.CreateTicket(context.Background(), "tok", "Failed transfer", "txn_7 never arrived")
	require.NoError(t, err)

	assert.Equal(t, "TICKET-48213", ticket.TicketID)
	assert.Equal(t, "Failed transfer", gotBody["subject"])
	assert.Equal(t, "txn_7 never arrived", gotBody["description"])
	assert.True(t, wallet.TicketIDPattern.MatchString(ticket.TicketID))
}

func TestCreateTicketWithoutReferenceFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bff/v1/support/ticket", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "open"}`))
	})
	svc := testService(t, mux)

	_, err := svc.CreateTicket(context.Background(), "tok", "subject", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ticket reference")
}

func TestGetTicketValidatesReference(t *testing.T) {
	svc := testService(t, http.NotFoundHandler())

	_, err := svc.GetTicket(context.Background(), "tok", "48213")
	require.Error(t, err)
	assert.True(t, gateway.IsKind(err, gateway.KindValidation))

	_, err = svc.GetTicket(context.Background(), "tok", "ticket-48213")
	require.Error(t, err)
}

func TestGetTicket(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bff/v1/support/ticket", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TICKET-48213", r.URL.Query().Get("ticketId"))
		w.Write([]byte(`{"ticketId": "TICKET-48213", "status": "in_progress"}`))
	})
	svc := testService(t, mux)

	ticket, err := svc.GetTicket(context.Background(), "tok", "TICKET-48213")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", ticket.Status)
}
