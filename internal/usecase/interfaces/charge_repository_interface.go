package interfaces

import (
	"context"

	"nexus_pix/internal/domain/entities"
)

// IChargeRepository abstracts DynamoDB persistence for Charge.
//
// UpdateStatus only moves a charge out of pending. transitioned is false when
// the charge is missing or already terminal, which makes racing webhook and
// poll observations safe to apply twice.

type IChargeRepository interface {
	Create(ctx context.Context, c entities.Charge) (entities.Charge, error)
	GetByID(ctx context.Context, id string) (entities.Charge, error)
	UpdateStatus(ctx context.Context, id string, status entities.ChargeStatus, rawStatus string) (updated entities.Charge, transitioned bool, err error)
}
