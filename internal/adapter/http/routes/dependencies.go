package routes

import (
	"context"
	"log"

	"nexus_pix/internal/adapter/persistence/repository"
	"nexus_pix/internal/config"
	"nexus_pix/internal/infrastructure/database"
	"nexus_pix/internal/infrastructure/messaging"
	"nexus_pix/internal/infrastructure/payments"
	"nexus_pix/internal/usecase"
	"nexus_pix/internal/usecase/interfaces"
)

// Dependencies are the use cases the HTTP layer talks to.
type Dependencies struct {
	ChargeUseCase usecase.IChargeUseCase
	StatusWatcher usecase.IStatusWatcher
}

// buildDependencies connects every backing service. Only the gateway is
// required to issue charges; a missing store, purchase database or broker is
// logged and the flow runs without it. The returned func releases connections.
func buildDependencies(ctx context.Context, cfg config.Config) (Dependencies, func()) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	gateway := newPixGateway(cfg)

	var chargeRepo interfaces.IChargeRepository
	ddb, err := database.ConnectDynamoDB(ctx, cfg)
	if err != nil {
		log.Printf("[pix][deps] charge store disabled err=%v", err)
	} else {
		chargeRepo = repository.NewChargeDynamoRepository(ddb, cfg.ChargesTable)
	}

	var purchases interfaces.IPurchaseRecorder
	if cfg.DatabaseURL != "" {
		pool, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("[pix][deps] purchase recording disabled err=%v", err)
		} else {
			closers = append(closers, pool.Close)
			purchaseRepo := repository.NewPurchasePostgresRepository(pool)
			if err := purchaseRepo.EnsureSchema(ctx); err != nil {
				log.Printf("[pix][deps] purchases schema check failed err=%v", err)
			}
			purchases = purchaseRepo
		}
	}

	var events interfaces.IChargeEventPublisher
	if cfg.RabbitURL != "" {
		publisher, err := messaging.NewRabbitChargeEventPublisher(cfg.RabbitURL, cfg.ChargeEventsExchange)
		if err != nil {
			log.Printf("[pix][deps] charge events disabled err=%v", err)
		} else {
			closers = append(closers, func() {
				if err := publisher.Close(); err != nil {
					log.Printf("[pix][deps] rabbitmq close failed err=%v", err)
				}
			})
			events = publisher
		}
	}

	broker := usecase.NewStatusBroker()
	chargeUseCase := usecase.NewChargeUseCase(gateway, chargeRepo, purchases, events, broker, cfg.DefaultPhone)
	poller := usecase.NewStatusPoller(chargeUseCase, broker, cfg.PollInterval)

	return Dependencies{ChargeUseCase: chargeUseCase, StatusWatcher: poller}, cleanup
}

// newPixGateway picks the gateway named by PIX_GATEWAY. Mock mode always
// uses the AmploPay client without touching the network.
func newPixGateway(cfg config.Config) interfaces.IPixGateway {
	switch {
	case cfg.GatewayMock:
		gw, _ := payments.NewAmploPayGateway(cfg.AmploPay, cfg.GatewayTimeout, true)
		return gw
	case cfg.Gateway == config.GatewayMercadoPago:
		log.Printf("[pix][deps] gateway=mercadopago access_token=%s", config.MaskSecret(cfg.MercadoPago.AccessToken))
		gw, err := payments.NewMercadoPagoGateway(cfg.MercadoPago.AccessToken, cfg.MercadoPago.NotificationURL)
		if err != nil {
			log.Printf("[pix][deps] Mercado Pago gateway not configured: %v", err)
			return nil
		}
		return gw
	default:
		gw, err := payments.NewAmploPayGateway(cfg.AmploPay, cfg.GatewayTimeout, false)
		if err != nil {
			log.Printf("[pix][deps] AmploPay gateway not configured: %v", err)
			return nil
		}
		return gw
	}
}
