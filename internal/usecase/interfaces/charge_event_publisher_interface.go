package interfaces

import (
	"context"

	"nexus_pix/internal/domain/entities"
)

type IChargeEventPublisher interface {
	PublishChargeEvent(ctx context.Context, evt entities.ChargeEvent) error
}
