package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeEvent is published once when a charge leaves pending.
type ChargeEvent struct {
	EventID       string          `json:"event_id"`
	TransactionID string          `json:"transaction_id"`
	OrderID       string          `json:"order_id"`
	Status        ChargeStatus    `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	BuyerEmail    string          `json:"buyer_email,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// RoutingKey is charge.paid or charge.failed.
func (e ChargeEvent) RoutingKey() string {
	return "charge." + string(e.Status)
}
