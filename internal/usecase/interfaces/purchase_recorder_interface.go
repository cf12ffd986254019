package interfaces

import (
	"context"

	"nexus_pix/internal/domain/entities"
)

// IPurchaseRecorder writes a paid charge to the storefront purchase history.
type IPurchaseRecorder interface {
	RecordPurchase(ctx context.Context, c entities.Charge) error
}
