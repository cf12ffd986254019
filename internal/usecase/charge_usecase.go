package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"nexus_pix/internal/domain/entities"
	"nexus_pix/internal/domain/gatewaypayload"
	"nexus_pix/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrInvalidOrder         = errors.New("invalid order")
	ErrOrderWithoutItems    = fmt.Errorf("%w: at least one item is required", ErrInvalidOrder)
	ErrInvalidOrderItem     = fmt.Errorf("%w: item quantity must be positive and price non-negative", ErrInvalidOrder)
	ErrInvalidOrderTotal    = fmt.Errorf("%w: total must be positive", ErrInvalidOrder)
	ErrOrderTotalMismatch   = fmt.Errorf("%w: total does not match items", ErrInvalidOrder)
	ErrInvalidBuyerEmail    = fmt.Errorf("%w: buyer email is invalid", ErrInvalidOrder)
	ErrInvalidBuyerDocument = fmt.Errorf("%w: buyer document must have 11 or 14 digits", ErrInvalidOrder)

	ErrInvalidTransactionID    = errors.New("invalid transaction id")
	ErrChargeNotFound          = errors.New("charge not found")
	ErrInvalidWebhookPayload   = errors.New("invalid webhook payload")
	ErrPixGatewayNotConfigured = errors.New("pix gateway not configured")
	ErrChargeRepoNotConfigured = errors.New("charge repository not configured")
	ErrIncompleteGatewayCharge = errors.New("gateway returned an incomplete charge")
)

// IChargeUseCase is the PIX checkout flow.
//
//   - CreateCharge: validate the order and issue one gateway charge (no retry).
//   - RefreshStatus: one gateway status read; the first terminal reading settles the charge.
//   - ApplyWebhook: the gateway push path; each push is confirmed with a status read.
type IChargeUseCase interface {
	CreateCharge(ctx context.Context, order entities.Order) (entities.Charge, error)
	RefreshStatus(ctx context.Context, transactionID string) (entities.StatusReading, error)
	ApplyWebhook(ctx context.Context, payload json.RawMessage) (entities.StatusReading, error)
	GetByID(ctx context.Context, transactionID string) (entities.Charge, error)
}

type ChargeUseCase struct {
	gateway      interfaces.IPixGateway
	repo         interfaces.IChargeRepository
	purchases    interfaces.IPurchaseRecorder
	events       interfaces.IChargeEventPublisher
	broker       *StatusBroker
	defaultPhone string
	now          func() time.Time
}

var _ IChargeUseCase = (*ChargeUseCase)(nil)

// NewChargeUseCase wires the flow. purchases, events and broker are optional.
func NewChargeUseCase(
	gateway interfaces.IPixGateway,
	repo interfaces.IChargeRepository,
	purchases interfaces.IPurchaseRecorder,
	events interfaces.IChargeEventPublisher,
	broker *StatusBroker,
	defaultPhone string,
) *ChargeUseCase {
	return &ChargeUseCase{
		gateway:      gateway,
		repo:         repo,
		purchases:    purchases,
		events:       events,
		broker:       broker,
		defaultPhone: defaultPhone,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (u *ChargeUseCase) CreateCharge(ctx context.Context, order entities.Order) (entities.Charge, error) {
	log.Printf("[pix][usecase] create start order_id=%q items=%d", order.Identifier, len(order.Items))

	normalized, err := normalizeOrder(order, u.defaultPhone)
	if err != nil {
		log.Printf("[pix][usecase] invalid order order_id=%q err=%v", order.Identifier, err)
		return entities.Charge{}, err
	}
	if u.gateway == nil {
		log.Printf("[pix][usecase] gateway not configured order_id=%s", normalized.Identifier)
		return entities.Charge{}, ErrPixGatewayNotConfigured
	}

	log.Printf("[pix][usecase] calling gateway=%s order_id=%s amount=%s", u.gateway.Name(), normalized.Identifier, normalized.Total.StringFixed(2))
	charge, err := u.gateway.CreateCharge(ctx, normalized)
	if err != nil {
		log.Printf("[pix][usecase] gateway failed order_id=%s err=%v", normalized.Identifier, err)
		return entities.Charge{}, err
	}
	if charge.TransactionID == "" || charge.CopyPaste == "" {
		log.Printf("[pix][usecase] incomplete charge from gateway order_id=%s transaction_id=%q", normalized.Identifier, charge.TransactionID)
		return entities.Charge{}, entities.NewMalformedGatewayResponse(ErrIncompleteGatewayCharge.Error(), charge.GatewayPayloadRaw)
	}

	now := u.now()
	charge.OrderID = normalized.Identifier
	charge.Amount = normalized.Total
	charge.BuyerEmail = normalized.Buyer.Email
	charge.Status = entities.MapGatewayStatus(charge.RawStatus)
	if charge.Provider == "" {
		charge.Provider = u.gateway.Name()
	}
	charge.CreatedAt = now
	charge.UpdatedAt = now

	// The buyer already holds a payable PIX code at this point; a storage
	// failure must not turn into a failed checkout.
	if u.repo != nil {
		if _, err := u.repo.Create(ctx, charge); err != nil {
			log.Printf("[pix][usecase] charge repository create failed transaction_id=%s err=%v", charge.TransactionID, err)
		}
	}

	log.Printf("[pix][usecase] create success order_id=%s transaction_id=%s status=%s", charge.OrderID, charge.TransactionID, charge.Status)
	return charge, nil
}

func (u *ChargeUseCase) RefreshStatus(ctx context.Context, transactionID string) (entities.StatusReading, error) {
	return u.readStatus(ctx, transactionID, entities.ReadingSourceGateway)
}

// ApplyWebhook accepts the nested-or-flat gateway push. The pushed status is
// never trusted on its own: a push with a transaction id triggers one status
// read from the gateway, and only that reading can settle the charge. The
// confirmed reading is forwarded to the broker so active pollers stop early.
func (u *ChargeUseCase) ApplyWebhook(ctx context.Context, payload json.RawMessage) (entities.StatusReading, error) {
	body, err := gatewaypayload.Decode(payload)
	if err != nil {
		return entities.StatusReading{}, fmt.Errorf("%w: %v", ErrInvalidWebhookPayload, err)
	}

	id := gatewaypayload.TransactionID(body)
	raw := gatewaypayload.Status(body)
	log.Printf("[pix][webhook] received transaction_id=%q raw_status=%q", id, raw)

	if id == "" {
		if raw == "" {
			return entities.StatusReading{}, fmt.Errorf("%w: neither status nor transaction id present", ErrInvalidWebhookPayload)
		}
		// Nothing to confirm against; reported only.
		return entities.StatusReading{
			Status:    entities.MapGatewayStatus(raw),
			RawStatus: raw,
			Source:    entities.ReadingSourceWebhook,
			CheckedAt: u.now(),
		}, nil
	}

	reading, err := u.readStatus(ctx, id, entities.ReadingSourceWebhook)
	if err != nil {
		return entities.StatusReading{}, err
	}
	if raw != "" && entities.MapGatewayStatus(raw) != reading.Status {
		log.Printf("[pix][webhook] pushed status not confirmed transaction_id=%s pushed=%q gateway=%q", id, raw, reading.RawStatus)
	}
	if reading.Status == entities.ChargeStatusPaid {
		log.Printf("[pix][webhook] payment confirmed transaction_id=%s", reading.TransactionID)
	}
	if u.broker != nil {
		u.broker.Publish(reading)
	}
	return reading, nil
}

func (u *ChargeUseCase) readStatus(ctx context.Context, transactionID string, source entities.ReadingSource) (entities.StatusReading, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return entities.StatusReading{}, ErrInvalidTransactionID
	}
	if u.gateway == nil {
		return entities.StatusReading{}, ErrPixGatewayNotConfigured
	}

	raw, err := u.gateway.FetchStatus(ctx, transactionID)
	if err != nil {
		log.Printf("[pix][usecase] status fetch failed transaction_id=%s source=%s err=%v", transactionID, source, err)
		return entities.StatusReading{}, err
	}

	reading := entities.StatusReading{
		TransactionID: transactionID,
		Status:        entities.MapGatewayStatus(raw),
		RawStatus:     raw,
		Source:        source,
		CheckedAt:     u.now(),
	}
	u.settle(ctx, reading)
	return reading, nil
}

func (u *ChargeUseCase) GetByID(ctx context.Context, transactionID string) (entities.Charge, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return entities.Charge{}, ErrInvalidTransactionID
	}
	if u.repo == nil {
		return entities.Charge{}, ErrChargeRepoNotConfigured
	}

	c, err := u.repo.GetByID(ctx, transactionID)
	if err != nil {
		return entities.Charge{}, err
	}
	if c.TransactionID == "" {
		return entities.Charge{}, ErrChargeNotFound
	}
	return c, nil
}

// settle moves a stored charge out of pending. The repository update is
// conditional, so purchase recording and event publishing run at most once
// per charge no matter how many terminal readings arrive.
func (u *ChargeUseCase) settle(ctx context.Context, reading entities.StatusReading) {
	if !reading.Status.IsTerminal() || u.repo == nil {
		return
	}

	updated, transitioned, err := u.repo.UpdateStatus(ctx, reading.TransactionID, reading.Status, reading.RawStatus)
	if err != nil {
		log.Printf("[pix][usecase] status update failed transaction_id=%s status=%s err=%v", reading.TransactionID, reading.Status, err)
		return
	}
	if !transitioned {
		log.Printf("[pix][usecase] status already settled or unknown charge transaction_id=%s status=%s", reading.TransactionID, reading.Status)
		return
	}
	log.Printf("[pix][usecase] charge settled transaction_id=%s order_id=%s status=%s source=%s", updated.TransactionID, updated.OrderID, updated.Status, reading.Source)

	if updated.Status == entities.ChargeStatusPaid && u.purchases != nil {
		if err := u.purchases.RecordPurchase(ctx, updated); err != nil {
			log.Printf("[pix][usecase] purchase record failed transaction_id=%s err=%v", updated.TransactionID, err)
		}
	}
	if u.events != nil {
		evt := entities.ChargeEvent{
			EventID:       uuid.NewString(),
			TransactionID: updated.TransactionID,
			OrderID:       updated.OrderID,
			Status:        updated.Status,
			Amount:        updated.Amount,
			BuyerEmail:    updated.BuyerEmail,
			OccurredAt:    u.now(),
		}
		if err := u.events.PublishChargeEvent(ctx, evt); err != nil {
			log.Printf("[pix][usecase] event publish failed transaction_id=%s routing_key=%s err=%v", updated.TransactionID, evt.RoutingKey(), err)
		}
	}
}
