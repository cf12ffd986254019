package request

import (
	"nexus_pix/internal/domain/entities"

	"github.com/shopspring/decimal"
)

type PixCustomerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Document string `json:"document" binding:"required"`
	Phone    string `json:"phone"`
}

type PixItemRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// PixChargeRequest is the checkout payload sent by the storefront. amount is
// optional; when present it must match the items.
type PixChargeRequest struct {
	OrderID  string             `json:"orderId"`
	Amount   decimal.Decimal    `json:"amount"`
	Customer PixCustomerRequest `json:"customer"`
	Items    []PixItemRequest   `json:"items" binding:"required,min=1"`
}

func (r PixChargeRequest) ToOrder() entities.Order {
	items := make([]entities.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entities.OrderItem{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}
	return entities.Order{
		Identifier: r.OrderID,
		Buyer: entities.Buyer{
			Name:     r.Customer.Name,
			Email:    r.Customer.Email,
			Document: r.Customer.Document,
			Phone:    r.Customer.Phone,
		},
		Items: items,
		Total: r.Amount,
	}
}
