package response

import (
	"time"

	"nexus_pix/internal/domain/entities"
)

// PixChargeResponse is what the checkout needs to render the PIX step.
type PixChargeResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	CopyPaste    string `json:"copy_paste"`
	QRCodeBase64 string `json:"qr_code_base64,omitempty"`
}

func FromCharge(c entities.Charge) PixChargeResponse {
	return PixChargeResponse{
		ID:           c.TransactionID,
		Status:       string(c.Status),
		CopyPaste:    c.CopyPaste,
		QRCodeBase64: c.QRCodeBase64,
	}
}

type PixStatusResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	RawStatus string    `json:"raw_status,omitempty"`
	Source    string    `json:"source,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

func FromStatusReading(r entities.StatusReading) PixStatusResponse {
	return PixStatusResponse{
		ID:        r.TransactionID,
		Status:    string(r.Status),
		RawStatus: r.RawStatus,
		Source:    string(r.Source),
		CheckedAt: r.CheckedAt,
	}
}

// ChargeRecordResponse is the stored charge. The gateway payload is not exposed.
type ChargeRecordResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Provider  string    `json:"provider"`
	Status    string    `json:"status"`
	RawStatus string    `json:"raw_status,omitempty"`
	Amount    string    `json:"amount"`
	CopyPaste string    `json:"copy_paste"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromChargeRecord(c entities.Charge) ChargeRecordResponse {
	return ChargeRecordResponse{
		ID:        c.TransactionID,
		OrderID:   c.OrderID,
		Provider:  c.Provider,
		Status:    string(c.Status),
		RawStatus: c.RawStatus,
		Amount:    c.Amount.StringFixed(2),
		CopyPaste: c.CopyPaste,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
