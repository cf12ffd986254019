package interfaces

import (
	"context"

	"nexus_pix/internal/domain/entities"
)

// IPixGateway abstracts external PIX providers (AmploPay, Mercado Pago).
//
// CreateCharge issues exactly one outbound call and returns a Charge with a
// non-empty transaction id and copy-paste code, or a *entities.GatewayError.
// FetchStatus returns the provider status verbatim; mapping is the caller's job.
type IPixGateway interface {
	Name() string
	CreateCharge(ctx context.Context, order entities.Order) (entities.Charge, error)
	FetchStatus(ctx context.Context, transactionID string) (rawStatus string, err error)
}
