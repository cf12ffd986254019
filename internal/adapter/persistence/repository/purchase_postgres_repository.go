package repository

import (
	"context"
	"fmt"
	"log"

	"nexus_pix/internal/domain/entities"
	"nexus_pix/internal/usecase/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
)

const purchasesSchema = `
CREATE TABLE IF NOT EXISTS purchases (
	id             BIGSERIAL PRIMARY KEY,
	transaction_id TEXT NOT NULL UNIQUE,
	order_id       TEXT NOT NULL,
	buyer_email    TEXT NOT NULL DEFAULT '',
	price          NUMERIC(12,2) NOT NULL,
	provider       TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS purchases_buyer_email_idx ON purchases (buyer_email);
`

// PurchaseStatusCompleted is the label the storefront's purchase history shows.
const PurchaseStatusCompleted = "Concluído"

// PurchasePostgresRepository records paid charges in the storefront's
// purchases table. A transaction is recorded at most once.
type PurchasePostgresRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.IPurchaseRecorder = (*PurchasePostgresRepository)(nil)

func NewPurchasePostgresRepository(pool *pgxpool.Pool) *PurchasePostgresRepository {
	return &PurchasePostgresRepository{pool: pool}
}

func (r *PurchasePostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, purchasesSchema); err != nil {
		return fmt.Errorf("create purchases schema: %w", err)
	}
	return nil
}

func (r *PurchasePostgresRepository) RecordPurchase(ctx context.Context, c entities.Charge) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO purchases (transaction_id, order_id, buyer_email, price, provider, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (transaction_id) DO NOTHING`,
		c.TransactionID, c.OrderID, c.BuyerEmail, c.Amount.StringFixed(2), c.Provider, PurchaseStatusCompleted,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		log.Printf("[pix][postgres] purchase already recorded transaction_id=%s", c.TransactionID)
	}
	return nil
}
