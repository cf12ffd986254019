package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"nexus_pix/internal/domain/entities"
	mock_interfaces "nexus_pix/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

const testCopyPaste = "00020126580014br.gov.bcb.pix0136example5204000053039865405129.905802BR"

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type chargeMocks struct {
	gateway   *mock_interfaces.MockIPixGateway
	repo      *mock_interfaces.MockIChargeRepository
	purchases *mock_interfaces.MockIPurchaseRecorder
	events    *mock_interfaces.MockIChargeEventPublisher
}

func newChargeUseCaseWithMocks(ctrl *gomock.Controller, broker *StatusBroker) (*ChargeUseCase, chargeMocks) {
	m := chargeMocks{
		gateway:   mock_interfaces.NewMockIPixGateway(ctrl),
		repo:      mock_interfaces.NewMockIChargeRepository(ctrl),
		purchases: mock_interfaces.NewMockIPurchaseRecorder(ctrl),
		events:    mock_interfaces.NewMockIChargeEventPublisher(ctrl),
	}
	m.gateway.EXPECT().Name().Return("amplopay").AnyTimes()

	uc := NewChargeUseCase(m.gateway, m.repo, m.purchases, m.events, broker, "")
	uc.now = func() time.Time { return fixedNow }
	return uc, m
}

func TestChargeUseCase_CreateCharge_Validation(t *testing.T) {
	t.Run("invalid order never reaches the gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, _ := newChargeUseCaseWithMocks(ctrl, nil)

		o := validOrder()
		o.Buyer.Document = "1"
		_, err := uc.CreateCharge(context.Background(), o)
		if !errors.Is(err, ErrInvalidOrder) {
			t.Fatalf("expected ErrInvalidOrder, got %v", err)
		}
	})

	t.Run("gateway not configured", func(t *testing.T) {
		uc := NewChargeUseCase(nil, nil, nil, nil, nil, "")
		_, err := uc.CreateCharge(context.Background(), validOrder())
		if !errors.Is(err, ErrPixGatewayNotConfigured) {
			t.Fatalf("expected ErrPixGatewayNotConfigured, got %v", err)
		}
	})
}

func TestChargeUseCase_CreateCharge_Gateway(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		m.gateway.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, o entities.Order) (entities.Charge, error) {
				if o.Buyer.Document != "12345678909" || o.Buyer.Phone != "+5511987654321" {
					t.Fatalf("gateway received an unnormalized order: %+v", o.Buyer)
				}
				return entities.Charge{TransactionID: "tx-2990", RawStatus: "PENDING", CopyPaste: testCopyPaste}, nil
			})
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, c entities.Charge) (entities.Charge, error) {
				if c.Status != entities.ChargeStatusPending || c.OrderID != "NEX_ORDER00001" {
					t.Fatalf("unexpected persisted charge %+v", c)
				}
				return c, nil
			})

		got, err := uc.CreateCharge(context.Background(), validOrder())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.TransactionID != "tx-2990" || got.CopyPaste != testCopyPaste {
			t.Fatalf("unexpected charge %+v", got)
		}
		if got.Status != entities.ChargeStatusPending {
			t.Fatalf("expected pending, got %s", got.Status)
		}
		if got.Provider != "amplopay" {
			t.Fatalf("expected provider from gateway name, got %q", got.Provider)
		}
		if !got.Amount.Equal(decimal.RequireFromString("29.90")) {
			t.Fatalf("unexpected amount %s", got.Amount)
		}
		if !got.CreatedAt.Equal(fixedNow) {
			t.Fatalf("unexpected created_at %s", got.CreatedAt)
		}
	})

	t.Run("gateway rejection is returned untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		rejected := entities.NewGatewayRejected(http.StatusUnprocessableEntity, "Invalid document", json.RawMessage(`{"message":"Invalid document"}`))
		m.gateway.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Return(entities.Charge{}, rejected)

		_, err := uc.CreateCharge(context.Background(), validOrder())
		if !errors.Is(err, entities.ErrGatewayRejected) {
			t.Fatalf("expected ErrGatewayRejected, got %v", err)
		}
		var gwErr *entities.GatewayError
		if !errors.As(err, &gwErr) || gwErr.StatusCode != http.StatusUnprocessableEntity || gwErr.Message != "Invalid document" {
			t.Fatalf("expected 422 Invalid document, got %#v", err)
		}
	})

	t.Run("incomplete charge is malformed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		m.gateway.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Return(entities.Charge{TransactionID: "tx-1"}, nil)

		_, err := uc.CreateCharge(context.Background(), validOrder())
		if !errors.Is(err, entities.ErrMalformedGatewayResponse) {
			t.Fatalf("expected ErrMalformedGatewayResponse, got %v", err)
		}
	})

	t.Run("repository failure does not fail the checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		m.gateway.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Return(entities.Charge{TransactionID: "tx-1", CopyPaste: testCopyPaste}, nil)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Charge{}, errors.New("dynamo down"))

		got, err := uc.CreateCharge(context.Background(), validOrder())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.TransactionID != "tx-1" {
			t.Fatalf("unexpected charge %+v", got)
		}
	})
}

func TestChargeUseCase_RefreshStatus(t *testing.T) {
	t.Run("empty id", func(t *testing.T) {
		uc := NewChargeUseCase(nil, nil, nil, nil, nil, "")
		_, err := uc.RefreshStatus(context.Background(), "  ")
		if !errors.Is(err, ErrInvalidTransactionID) {
			t.Fatalf("expected ErrInvalidTransactionID, got %v", err)
		}
	})

	t.Run("gateway error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		m.gateway.EXPECT().FetchStatus(gomock.Any(), "tx-1").Return("", entities.NewGatewayUnreachable(errors.New("dial tcp"), true))

		_, err := uc.RefreshStatus(context.Background(), "tx-1")
		if !errors.Is(err, entities.ErrGatewayTimeout) {
			t.Fatalf("expected ErrGatewayTimeout, got %v", err)
		}
	})

	t.Run("pending does not touch the repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		m.gateway.EXPECT().FetchStatus(gomock.Any(), "tx-1").Return("WAITING_PAYMENT", nil)

		got, err := uc.RefreshStatus(context.Background(), "tx-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.ChargeStatusPending || got.RawStatus != "WAITING_PAYMENT" {
			t.Fatalf("unexpected reading %+v", got)
		}
		if got.Source != entities.ReadingSourceGateway {
			t.Fatalf("unexpected source %s", got.Source)
		}
	})

	t.Run("paid settles once with purchase and event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		settled := entities.Charge{
			TransactionID: "tx-1",
			OrderID:       "NEX_ORDER00001",
			Status:        entities.ChargeStatusPaid,
			Amount:        decimal.RequireFromString("29.90"),
			BuyerEmail:    "ana@example.com",
		}
		m.gateway.EXPECT().FetchStatus(gomock.Any(), "tx-1").Return("PAID", nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "tx-1", entities.ChargeStatusPaid, "PAID").Return(settled, true, nil)
		m.purchases.EXPECT().RecordPurchase(gomock.Any(), settled).Return(nil)
		m.events.EXPECT().PublishChargeEvent(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, evt entities.ChargeEvent) error {
				if evt.EventID == "" || evt.Status != entities.ChargeStatusPaid || evt.OrderID != "NEX_ORDER00001" {
					t.Fatalf("unexpected event %+v", evt)
				}
				return nil
			})

		got, err := uc.RefreshStatus(context.Background(), "tx-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.ChargeStatusPaid {
			t.Fatalf("expected paid, got %s", got.Status)
		}
	})

	t.Run("already settled charge has no side effects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		m.gateway.EXPECT().FetchStatus(gomock.Any(), "tx-1").Return("approved", nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "tx-1", entities.ChargeStatusPaid, "approved").
			Return(entities.Charge{TransactionID: "tx-1", Status: entities.ChargeStatusPaid}, false, nil)

		if _, err := uc.RefreshStatus(context.Background(), "tx-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("failed publishes an event but records no purchase", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		m.gateway.EXPECT().FetchStatus(gomock.Any(), "tx-1").Return("expired", nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "tx-1", entities.ChargeStatusFailed, "expired").
			Return(entities.Charge{TransactionID: "tx-1", Status: entities.ChargeStatusFailed}, true, nil)
		m.events.EXPECT().PublishChargeEvent(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		got, err := uc.RefreshStatus(context.Background(), "tx-1")
		if err != nil {
			t.Fatalf("publish failure must not surface, got %v", err)
		}
		if got.Status != entities.ChargeStatusFailed {
			t.Fatalf("expected failed, got %s", got.Status)
		}
	})
}

func TestChargeUseCase_ApplyWebhook(t *testing.T) {
	t.Run("not an object", func(t *testing.T) {
		uc := NewChargeUseCase(nil, nil, nil, nil, nil, "")
		_, err := uc.ApplyWebhook(context.Background(), json.RawMessage(`[1]`))
		if !errors.Is(err, ErrInvalidWebhookPayload) {
			t.Fatalf("expected ErrInvalidWebhookPayload, got %v", err)
		}
	})

	t.Run("neither id nor status", func(t *testing.T) {
		uc := NewChargeUseCase(nil, nil, nil, nil, nil, "")
		_, err := uc.ApplyWebhook(context.Background(), json.RawMessage(`{"event":"ping"}`))
		if !errors.Is(err, ErrInvalidWebhookPayload) {
			t.Fatalf("expected ErrInvalidWebhookPayload, got %v", err)
		}
	})

	t.Run("nested paid push confirmed by the gateway settles and reaches subscribers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		broker := NewStatusBroker()
		uc, m := newChargeUseCaseWithMocks(ctrl, broker)

		sub, unsubscribe := broker.Subscribe("tx-1")
		defer unsubscribe()

		m.gateway.EXPECT().FetchStatus(gomock.Any(), "tx-1").Return("PAID", nil)
		m.repo.EXPECT().UpdateStatus(gomock.Any(), "tx-1", entities.ChargeStatusPaid, "PAID").
			Return(entities.Charge{TransactionID: "tx-1", Status: entities.ChargeStatusPaid}, true, nil)
		m.purchases.EXPECT().RecordPurchase(gomock.Any(), gomock.Any()).Return(nil)
		m.events.EXPECT().PublishChargeEvent(gomock.Any(), gomock.Any()).Return(nil)

		got, err := uc.ApplyWebhook(context.Background(), json.RawMessage(`{"data":{"transaction":{"id":"tx-1","status":"PAID"}}}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Source != entities.ReadingSourceWebhook || got.Status != entities.ChargeStatusPaid {
			t.Fatalf("unexpected reading %+v", got)
		}

		select {
		case r := <-sub:
			if r.TransactionID != "tx-1" || r.Status != entities.ChargeStatusPaid {
				t.Fatalf("unexpected broker reading %+v", r)
			}
		default:
			t.Fatalf("expected the reading to be published on the broker")
		}
	})

	t.Run("paid push not confirmed by the gateway settles nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		broker := NewStatusBroker()
		uc, m := newChargeUseCaseWithMocks(ctrl, broker)

		sub, unsubscribe := broker.Subscribe("tx-victim")
		defer unsubscribe()

		// No UpdateStatus, RecordPurchase or PublishChargeEvent expectations:
		// any of those calls fails the test.
		m.gateway.EXPECT().FetchStatus(gomock.Any(), "tx-victim").Return("PENDING", nil)

		got, err := uc.ApplyWebhook(context.Background(), json.RawMessage(`{"transactionId":"tx-victim","status":"paid"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.ChargeStatusPending || got.RawStatus != "PENDING" {
			t.Fatalf("expected the gateway status to win, got %+v", got)
		}

		select {
		case r := <-sub:
			if r.Status.IsTerminal() {
				t.Fatalf("unconfirmed push must not reach pollers as terminal, got %+v", r)
			}
		default:
		}
	})

	t.Run("push is not applied when the gateway cannot be read", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		m.gateway.EXPECT().FetchStatus(gomock.Any(), "tx-1").Return("", entities.NewGatewayUnreachable(errors.New("refused"), false))

		_, err := uc.ApplyWebhook(context.Background(), json.RawMessage(`{"id":"tx-1","status":"PAID"}`))
		if !errors.Is(err, entities.ErrGatewayUnreachable) {
			t.Fatalf("expected ErrGatewayUnreachable, got %v", err)
		}
	})

	t.Run("id-only notification is resolved with a status read", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		m.gateway.EXPECT().FetchStatus(gomock.Any(), "123456").Return("pending", nil)

		got, err := uc.ApplyWebhook(context.Background(), json.RawMessage(`{"type":"payment","action":"payment.updated","data":{"id":"123456"}}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.TransactionID != "123456" || got.Status != entities.ChargeStatusPending || got.Source != entities.ReadingSourceWebhook {
			t.Fatalf("unexpected reading %+v", got)
		}
	})

	t.Run("status without id is only reported", func(t *testing.T) {
		uc := NewChargeUseCase(nil, nil, nil, nil, nil, "")
		got, err := uc.ApplyWebhook(context.Background(), json.RawMessage(`{"status":"paid"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.ChargeStatusPaid || got.TransactionID != "" {
			t.Fatalf("unexpected reading %+v", got)
		}
	})
}

func TestChargeUseCase_GetByID(t *testing.T) {
	t.Run("repository not configured", func(t *testing.T) {
		uc := NewChargeUseCase(nil, nil, nil, nil, nil, "")
		_, err := uc.GetByID(context.Background(), "tx-1")
		if !errors.Is(err, ErrChargeRepoNotConfigured) {
			t.Fatalf("expected ErrChargeRepoNotConfigured, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		m.repo.EXPECT().GetByID(gomock.Any(), "tx-404").Return(entities.Charge{}, nil)

		_, err := uc.GetByID(context.Background(), "tx-404")
		if !errors.Is(err, ErrChargeNotFound) {
			t.Fatalf("expected ErrChargeNotFound, got %v", err)
		}
	})

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc, m := newChargeUseCaseWithMocks(ctrl, nil)

		m.repo.EXPECT().GetByID(gomock.Any(), "tx-1").Return(entities.Charge{TransactionID: "tx-1", Status: entities.ChargeStatusPaid}, nil)

		got, err := uc.GetByID(context.Background(), "tx-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != entities.ChargeStatusPaid {
			t.Fatalf("unexpected charge %+v", got)
		}
	})
}
