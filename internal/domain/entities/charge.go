package entities

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ChargeStatus is the local view of a PIX charge.
//
// Gateways report free-form statuses; MapGatewayStatus folds them into these three.
type ChargeStatus string

const (
	ChargeStatusPending ChargeStatus = "pending"
	ChargeStatusPaid    ChargeStatus = "paid"
	ChargeStatusFailed  ChargeStatus = "failed"
)

func (s ChargeStatus) IsTerminal() bool {
	return s == ChargeStatusPaid || s == ChargeStatusFailed
}

var (
	paidStatuses = map[string]struct{}{
		"paid": {}, "completed": {}, "approved": {}, "ok": {}, "pago": {},
	}
	failedStatuses = map[string]struct{}{
		"failed": {}, "canceled": {}, "cancelled": {}, "expired": {}, "recusado": {}, "rejected": {},
	}
)

// MapGatewayStatus maps any gateway status string to a ChargeStatus.
// Unknown values, including the empty string, are pending.
func MapGatewayStatus(raw string) ChargeStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := paidStatuses[s]; ok {
		return ChargeStatusPaid
	}
	if _, ok := failedStatuses[s]; ok {
		return ChargeStatusFailed
	}
	return ChargeStatusPending
}

// Charge is a PIX charge issued by a gateway for one order.
//
// Storage model (DynamoDB):
//   - PK: id (gateway transaction id)
//
// TransactionID, CopyPaste and QRCodeBase64 are written once at creation.
// Only Status, RawStatus and UpdatedAt change afterwards.
type Charge struct {
	TransactionID string          `json:"id"`
	OrderID       string          `json:"order_id"`
	Provider      string          `json:"provider"`
	Status        ChargeStatus    `json:"status"`
	RawStatus     string          `json:"raw_status,omitempty"`
	CopyPaste     string          `json:"copy_paste"`
	QRCodeBase64  string          `json:"qr_code_base64,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	BuyerEmail    string          `json:"buyer_email,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	GatewayPayloadRaw json.RawMessage `json:"gateway_payload_raw,omitempty"`
}

type ReadingSource string

const (
	ReadingSourcePoll    ReadingSource = "poll"
	ReadingSourceWebhook ReadingSource = "webhook"
	ReadingSourceGateway ReadingSource = "gateway"
)

// StatusReading is a single observation of a charge status.
// Each poll produces a new reading; charges are never mutated in place.
type StatusReading struct {
	TransactionID string        `json:"id"`
	Status        ChargeStatus  `json:"status"`
	RawStatus     string        `json:"raw_status,omitempty"`
	Source        ReadingSource `json:"source"`
	CheckedAt     time.Time     `json:"checked_at"`
}
