package entities

import "github.com/shopspring/decimal"

// Buyer identifies who pays the PIX charge.
//
// Document is the tax id (CPF/CNPJ); it is sent to the gateway digits-only.
type Buyer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
}

type OrderItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

// Subtotal is quantity times unit price, unrounded.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the checkout request handed to the charge initiator.
//
// It is owned by the caller and never persisted by the PIX flow; only the
// resulting Charge is stored.
type Order struct {
	Identifier string          `json:"identifier"`
	Buyer      Buyer           `json:"buyer"`
	Items      []OrderItem     `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

// ItemsTotal sums every line and rounds to cents.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total.Round(2)
}
