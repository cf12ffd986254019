package payments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appconfig "nexus_pix/internal/config"
	"nexus_pix/internal/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCode = "00020126580014br.gov.bcb.pix0136example5204000053039865405129.905802BR"

func testOrder() entities.Order {
	return entities.Order{
		Identifier: "NEX_ORDER00001",
		Buyer: entities.Buyer{
			Name:     "Ana Souza",
			Email:    "ana@example.com",
			Document: "12345678909",
			Phone:    "+5511987654321",
		},
		Items: []entities.OrderItem{
			{ID: "sku-1", Name: "Camiseta Nexus", Quantity: 1, UnitPrice: decimal.RequireFromString("29.90")},
		},
		Total: decimal.RequireFromString("29.90"),
	}
}

func newTestAmploPay(t *testing.T, h http.HandlerFunc) *AmploPayGateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := NewAmploPayGateway(appconfig.AmploPay{
		BaseURL:     srv.URL + "/api/v1",
		PublicKey:   "pk_test",
		SecretKey:   "sk_test",
		ChargePath:  "/gateway/pix/receive",
		StatusPath:  "/gateway/transactions",
		CallbackURL: "https://store.example/webhook/amplopay",
	}, 2*time.Second, false)
	require.NoError(t, err)
	return g
}

func TestNewAmploPayGateway_RequiresCredentials(t *testing.T) {
	_, err := NewAmploPayGateway(appconfig.AmploPay{PublicKey: "pk"}, time.Second, false)
	assert.ErrorIs(t, err, ErrMissingAmploPayCredentials)

	g, err := NewAmploPayGateway(appconfig.AmploPay{}, time.Second, true)
	require.NoError(t, err)
	assert.True(t, g.mockMode)
}

func TestAmploPayGateway_CreateCharge_Request(t *testing.T) {
	var got amploPayChargeRequest
	g := newTestAmploPay(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/gateway/pix/receive", r.URL.Path)
		assert.Equal(t, "pk_test", r.Header.Get("x-public-key"))
		assert.Equal(t, "sk_test", r.Header.Get("x-secret-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transactionId":"tx-2990","status":"PENDING","pix":{"code":"` + testCode + `","base64":"data:image/png;base64,iVBORw0KGgo="}}`))
	})

	charge, err := g.CreateCharge(context.Background(), testOrder())
	require.NoError(t, err)

	assert.Equal(t, "NEX_ORDER00001", got.Identifier)
	assert.Equal(t, 29.90, got.Amount)
	assert.Equal(t, "12345678909", got.Client.Document)
	assert.Equal(t, "+5511987654321", got.Client.Phone)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "https://store.example/webhook/amplopay", got.CallbackURL)

	assert.Equal(t, "tx-2990", charge.TransactionID)
	assert.Equal(t, entities.ChargeStatusPending, charge.Status)
	assert.Equal(t, testCode, charge.CopyPaste)
	assert.Equal(t, "iVBORw0KGgo=", charge.QRCodeBase64, "data uri prefix is stripped")
	assert.Equal(t, "amplopay", charge.Provider)
}

func TestAmploPayGateway_CreateCharge_Responses(t *testing.T) {
	t.Run("missing id falls back to the identifier", func(t *testing.T) {
		g := newTestAmploPay(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"pix":{"code":"` + testCode + `"}},"status":"pending"}`))
		})
		charge, err := g.CreateCharge(context.Background(), testOrder())
		require.NoError(t, err)
		assert.Equal(t, "NEX_ORDER00001", charge.TransactionID)
		assert.Empty(t, charge.QRCodeBase64)
	})

	t.Run("invalid document is a rejection", func(t *testing.T) {
		g := newTestAmploPay(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Invalid document"}`))
		})
		_, err := g.CreateCharge(context.Background(), testOrder())
		require.ErrorIs(t, err, entities.ErrGatewayRejected)

		var gwErr *entities.GatewayError
		require.True(t, errors.As(err, &gwErr))
		assert.Equal(t, http.StatusUnprocessableEntity, gwErr.StatusCode)
		assert.Equal(t, "Invalid document", gwErr.Message)
		assert.JSONEq(t, `{"message":"Invalid document"}`, string(gwErr.RawPayload))
	})

	t.Run("rejection without a message", func(t *testing.T) {
		g := newTestAmploPay(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{}`))
		})
		_, err := g.CreateCharge(context.Background(), testOrder())
		var gwErr *entities.GatewayError
		require.True(t, errors.As(err, &gwErr))
		assert.Equal(t, defaultRejectedMessage, gwErr.Message)
	})

	t.Run("success without pix is malformed", func(t *testing.T) {
		g := newTestAmploPay(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"tx-1","status":"pending","data":{"foo":"bar"}}`))
		})
		_, err := g.CreateCharge(context.Background(), testOrder())
		require.ErrorIs(t, err, entities.ErrMalformedGatewayResponse)

		var gwErr *entities.GatewayError
		require.True(t, errors.As(err, &gwErr))
		assert.JSONEq(t, `{"id":"tx-1","status":"pending","data":{"foo":"bar"}}`, string(gwErr.RawPayload))
	})

	t.Run("html body is malformed", func(t *testing.T) {
		g := newTestAmploPay(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		})
		_, err := g.CreateCharge(context.Background(), testOrder())
		assert.ErrorIs(t, err, entities.ErrMalformedGatewayResponse)
	})

	t.Run("timeout", func(t *testing.T) {
		g := newTestAmploPay(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})
		g.client.Timeout = 20 * time.Millisecond

		_, err := g.CreateCharge(context.Background(), testOrder())
		assert.ErrorIs(t, err, entities.ErrGatewayTimeout)
		assert.ErrorIs(t, err, entities.ErrGatewayUnreachable)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		g, err := NewAmploPayGateway(appconfig.AmploPay{BaseURL: base, PublicKey: "pk", SecretKey: "sk"}, time.Second, false)
		require.NoError(t, err)

		_, err = g.CreateCharge(context.Background(), testOrder())
		assert.ErrorIs(t, err, entities.ErrGatewayUnreachable)
		assert.NotErrorIs(t, err, entities.ErrGatewayTimeout)
	})
}

func TestAmploPayGateway_FetchStatus(t *testing.T) {
	t.Run("nested status", func(t *testing.T) {
		g := newTestAmploPay(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v1/gateway/transactions/tx-1", r.URL.Path)
			assert.Equal(t, "sk_test", r.Header.Get("x-secret-key"))
			_, _ = w.Write([]byte(`{"data":{"transaction":{"id":"tx-1","status":"COMPLETED"}}}`))
		})
		raw, err := g.FetchStatus(context.Background(), "tx-1")
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", raw)
	})

	t.Run("not found", func(t *testing.T) {
		g := newTestAmploPay(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Transaction not found"}`))
		})
		_, err := g.FetchStatus(context.Background(), "tx-404")
		assert.ErrorIs(t, err, entities.ErrGatewayRejected)
	})

	t.Run("mock mode reports paid", func(t *testing.T) {
		g, err := NewAmploPayGateway(appconfig.AmploPay{}, time.Second, true)
		require.NoError(t, err)
		raw, err := g.FetchStatus(context.Background(), "anything")
		require.NoError(t, err)
		assert.Equal(t, entities.ChargeStatusPaid, entities.MapGatewayStatus(raw))
	})
}

func TestAmploPayGateway_MockCharge(t *testing.T) {
	g, err := NewAmploPayGateway(appconfig.AmploPay{}, time.Second, true)
	require.NoError(t, err)

	charge, err := g.CreateCharge(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, "NEX_ORDER00001", charge.TransactionID)
	assert.NotEmpty(t, charge.CopyPaste)
	assert.Equal(t, entities.ChargeStatusPending, charge.Status)
}
