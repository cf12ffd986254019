package request

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPixChargeRequest_ToOrder(t *testing.T) {
	body := `{
		"orderId": "NEX_ORDER00001",
		"amount": 59.8,
		"customer": {"name": "Ana", "email": "ana@example.com", "document": "123.456.789-09", "phone": "11987654321"},
		"items": [{"id": "sku-1", "name": "Camiseta", "quantity": 2, "price": "29.90"}]
	}`

	var r PixChargeRequest
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o := r.ToOrder()
	if o.Identifier != "NEX_ORDER00001" {
		t.Fatalf("unexpected identifier %q", o.Identifier)
	}
	if o.Buyer.Email != "ana@example.com" || o.Buyer.Document != "123.456.789-09" {
		t.Fatalf("unexpected buyer %+v", o.Buyer)
	}
	if len(o.Items) != 1 || o.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", o.Items)
	}
	if !o.Items[0].UnitPrice.Equal(decimal.RequireFromString("29.90")) {
		t.Fatalf("price should accept quoted decimals, got %s", o.Items[0].UnitPrice)
	}
	if !o.Total.Equal(o.ItemsTotal()) {
		t.Fatalf("expected amount %s to equal items total %s", o.Total, o.ItemsTotal())
	}
}

func TestPixChargeRequest_ToOrder_NoAmount(t *testing.T) {
	r := PixChargeRequest{Items: []PixItemRequest{{ID: "sku-1", Quantity: 1, Price: decimal.NewFromInt(10)}}}
	if o := r.ToOrder(); !o.Total.IsZero() {
		t.Fatalf("expected zero total when amount is omitted, got %s", o.Total)
	}
}
