package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"nexus_pix/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultBuyerName   = "Cliente Nexus"
	DefaultBuyerPhone  = "+5500000000000"
	orderIDPrefix      = "NEX_"
	orderIDRandomChars = 12
)

// normalizeOrder validates an order and rewrites it into the shape sent to
// the gateway. It runs before any network call.
func normalizeOrder(o entities.Order, defaultPhone string) (entities.Order, error) {
	if len(o.Items) == 0 {
		return entities.Order{}, ErrOrderWithoutItems
	}

	items := make([]entities.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		if it.Quantity <= 0 || it.UnitPrice.IsNegative() {
			return entities.Order{}, fmt.Errorf("%w: item=%q", ErrInvalidOrderItem, it.ID)
		}
		it.ID = strings.TrimSpace(it.ID)
		it.Name = strings.TrimSpace(it.Name)
		it.UnitPrice = it.UnitPrice.Round(2)
		items = append(items, it)
	}
	o.Items = items

	if o.Total.IsNegative() {
		return entities.Order{}, ErrInvalidOrderTotal
	}
	computed := o.ItemsTotal()
	if !o.Total.IsZero() && !o.Total.Round(2).Equal(computed) {
		return entities.Order{}, fmt.Errorf("%w: total=%s items=%s", ErrOrderTotalMismatch, o.Total.StringFixed(2), computed.StringFixed(2))
	}
	if !computed.GreaterThan(decimal.Zero) {
		return entities.Order{}, ErrInvalidOrderTotal
	}
	o.Total = computed

	email := strings.TrimSpace(o.Buyer.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return entities.Order{}, ErrInvalidBuyerEmail
	}
	o.Buyer.Email = email

	doc := digitsOnly(o.Buyer.Document)
	if len(doc) != 11 && len(doc) != 14 {
		return entities.Order{}, ErrInvalidBuyerDocument
	}
	o.Buyer.Document = doc

	if defaultPhone == "" {
		defaultPhone = DefaultBuyerPhone
	}
	o.Buyer.Phone = normalizePhone(o.Buyer.Phone, defaultPhone)

	o.Buyer.Name = strings.TrimSpace(o.Buyer.Name)
	if o.Buyer.Name == "" {
		o.Buyer.Name = DefaultBuyerName
	}

	o.Identifier = strings.TrimSpace(o.Identifier)
	if o.Identifier == "" {
		o.Identifier = newOrderIdentifier()
	}
	return o, nil
}

// normalizePhone returns +<digits>. Local numbers (10 or 11 digits) get the
// Brazilian country code.
func normalizePhone(raw, fallback string) string {
	digits := digitsOnly(raw)
	if digits == "" {
		return fallback
	}
	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return "+" + digits
	}
	if len(digits) == 10 || len(digits) == 11 {
		return "+55" + digits
	}
	return "+" + digits
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func newOrderIdentifier() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return orderIDPrefix + id[:orderIDRandomChars]
}
