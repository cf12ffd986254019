package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"nexus_pix/internal/domain/entities"

	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentClient struct {
	created   map[string]any
	createRes string
	createErr error
	getID     int
	getRes    string
	getErr    error
}

func (f *fakePaymentClient) Create(_ context.Context, req payment.Request) (*payment.Response, error) {
	b, _ := json.Marshal(req)
	_ = json.Unmarshal(b, &f.created)
	if f.createErr != nil {
		return nil, f.createErr
	}
	var resp payment.Response
	if err := json.Unmarshal([]byte(f.createRes), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (f *fakePaymentClient) Get(_ context.Context, id int) (*payment.Response, error) {
	f.getID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	var resp payment.Response
	if err := json.Unmarshal([]byte(f.getRes), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func TestNewMercadoPagoGateway_RequiresToken(t *testing.T) {
	_, err := NewMercadoPagoGateway("", "")
	assert.ErrorIs(t, err, ErrMissingMercadoPagoAccessToken)
}

func TestMercadoPagoGateway_CreateCharge(t *testing.T) {
	t.Run("pix from point of interaction", func(t *testing.T) {
		fake := &fakePaymentClient{createRes: `{"id":1234567890,"status":"pending","point_of_interaction":{"transaction_data":{"qr_code":"` + testCode + `","qr_code_base64":"iVBORw0KGgo="}}}`}
		g := &MercadoPagoGateway{client: fake, notificationURL: "https://store.example/webhook/mercadopago"}

		charge, err := g.CreateCharge(context.Background(), testOrder())
		require.NoError(t, err)

		assert.Equal(t, "1234567890", charge.TransactionID)
		assert.Equal(t, testCode, charge.CopyPaste)
		assert.Equal(t, "iVBORw0KGgo=", charge.QRCodeBase64)
		assert.Equal(t, entities.ChargeStatusPending, charge.Status)
		assert.Equal(t, "mercadopago", charge.Provider)

		assert.Equal(t, "pix", fake.created["payment_method_id"])
		assert.Equal(t, "NEX_ORDER00001", fake.created["external_reference"])
		assert.Equal(t, 29.9, fake.created["transaction_amount"])
		payer, ok := fake.created["payer"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ana@example.com", payer["email"])
	})

	t.Run("api error is a rejection", func(t *testing.T) {
		fake := &fakePaymentClient{createErr: &mperror.ResponseError{
			StatusCode: http.StatusBadRequest,
			Message:    `{"message":"invalid payer identification","error":"bad_request","status":400,"cause":[]}`,
		}}
		g := &MercadoPagoGateway{client: fake}

		_, err := g.CreateCharge(context.Background(), testOrder())
		require.ErrorIs(t, err, entities.ErrGatewayRejected)

		var gwErr *entities.GatewayError
		require.True(t, errors.As(err, &gwErr))
		assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
		assert.Equal(t, "invalid payer identification", gwErr.Message)
	})

	t.Run("rejection body without a status field keeps the response code", func(t *testing.T) {
		fake := &fakePaymentClient{createErr: &mperror.ResponseError{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    `{"message":"Invalid document"}`,
		}}
		g := &MercadoPagoGateway{client: fake}

		_, err := g.CreateCharge(context.Background(), testOrder())
		require.ErrorIs(t, err, entities.ErrGatewayRejected)
		assert.NotErrorIs(t, err, entities.ErrGatewayUnreachable)

		var gwErr *entities.GatewayError
		require.True(t, errors.As(err, &gwErr))
		assert.Equal(t, http.StatusUnprocessableEntity, gwErr.StatusCode)
		assert.Equal(t, "Invalid document", gwErr.Message)
		assert.JSONEq(t, `{"message":"Invalid document"}`, string(gwErr.RawPayload))
	})

	t.Run("non-json rejection body", func(t *testing.T) {
		fake := &fakePaymentClient{createErr: &mperror.ResponseError{StatusCode: http.StatusUnauthorized, Message: "unauthorized"}}
		g := &MercadoPagoGateway{client: fake}

		_, err := g.CreateCharge(context.Background(), testOrder())
		var gwErr *entities.GatewayError
		require.True(t, errors.As(err, &gwErr))
		assert.ErrorIs(t, err, entities.ErrGatewayRejected)
		assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
		assert.Equal(t, "unauthorized", gwErr.Message)
	})

	t.Run("transport error", func(t *testing.T) {
		g := &MercadoPagoGateway{client: &fakePaymentClient{createErr: errors.New("dial tcp: connection refused")}}
		_, err := g.CreateCharge(context.Background(), testOrder())
		assert.ErrorIs(t, err, entities.ErrGatewayUnreachable)
	})

	t.Run("not configured", func(t *testing.T) {
		var g *MercadoPagoGateway
		_, err := g.CreateCharge(context.Background(), testOrder())
		assert.ErrorIs(t, err, ErrMercadoPagoGatewayNotConfigured)
	})
}

func TestMercadoPagoGateway_FetchStatus(t *testing.T) {
	fake := &fakePaymentClient{getRes: `{"id":42,"status":"approved"}`}
	g := &MercadoPagoGateway{client: fake}

	raw, err := g.FetchStatus(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 42, fake.getID)
	assert.Equal(t, entities.ChargeStatusPaid, entities.MapGatewayStatus(raw))

	_, err = g.FetchStatus(context.Background(), "NEX_ABC")
	assert.ErrorIs(t, err, entities.ErrGatewayRejected)

	fake.getErr = &mperror.ResponseError{StatusCode: http.StatusNotFound, Message: `{"message":"Payment not found","error":"not_found"}`}
	_, err = g.FetchStatus(context.Background(), "43")
	var gwErr *entities.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusNotFound, gwErr.StatusCode)
	assert.Equal(t, "Payment not found", gwErr.Message)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("  Ana  Maria Souza ")
	assert.Equal(t, "Ana", first)
	assert.Equal(t, "Maria Souza", last)
}
