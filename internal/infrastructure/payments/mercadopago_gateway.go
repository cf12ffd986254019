package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"nexus_pix/internal/domain/entities"
	"nexus_pix/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

const mercadoPagoProvider = "mercadopago"

// paymentClient is the subset of the SDK client the gateway calls.
type paymentClient interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// MercadoPagoGateway issues PIX charges as Mercado Pago payments with
// payment_method_id=pix.
type MercadoPagoGateway struct {
	client          paymentClient
	notificationURL string
}

var _ interfaces.IPixGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken, notificationURL string) (*MercadoPagoGateway, error) {
	if accessToken == "" {
		log.Printf("[pix][mercadopago] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Printf("[pix][mercadopago] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[pix][mercadopago] client initialized notification_url=%q", notificationURL)

	return &MercadoPagoGateway{client: payment.NewClient(cfg), notificationURL: notificationURL}, nil
}

func (g *MercadoPagoGateway) Name() string {
	return mercadoPagoProvider
}

func (g *MercadoPagoGateway) CreateCharge(ctx context.Context, order entities.Order) (entities.Charge, error) {
	if g == nil || g.client == nil {
		return entities.Charge{}, ErrMercadoPagoGatewayNotConfigured
	}

	req, err := g.toPaymentRequest(order)
	if err != nil {
		log.Printf("[pix][mercadopago] request build failed identifier=%s err=%v", order.Identifier, err)
		return entities.Charge{}, err
	}

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		log.Printf("[pix][mercadopago] sdk create failed identifier=%s err=%v", order.Identifier, err)
		return entities.Charge{}, classifySDKError(err)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[pix][mercadopago] response marshal failed err=%v", err)
		return entities.Charge{}, entities.NewMalformedGatewayResponse("response could not be encoded", nil)
	}

	charge, err := normalizeCharge(b, order.Identifier, mercadoPagoProvider)
	if err != nil {
		return entities.Charge{}, err
	}
	log.Printf("[pix][mercadopago] charge created identifier=%s payment_id=%d status=%s", order.Identifier, resp.ID, resp.Status)
	return charge, nil
}

func (g *MercadoPagoGateway) FetchStatus(ctx context.Context, transactionID string) (string, error) {
	if g == nil || g.client == nil {
		return "", ErrMercadoPagoGatewayNotConfigured
	}

	id, err := strconv.Atoi(strings.TrimSpace(transactionID))
	if err != nil {
		return "", entities.NewGatewayRejected(http.StatusBadRequest, "mercado pago payment id must be numeric", nil)
	}

	resp, err := g.client.Get(ctx, id)
	if err != nil {
		log.Printf("[pix][mercadopago] sdk get failed payment_id=%d err=%v", id, err)
		return "", classifySDKError(err)
	}
	return resp.Status, nil
}

// toPaymentRequest builds the SDK request through its JSON shape so only the
// API field names are relied on.
func (g *MercadoPagoGateway) toPaymentRequest(o entities.Order) (payment.Request, error) {
	firstName, lastName := splitName(o.Buyer.Name)
	docType := "CPF"
	if len(o.Buyer.Document) == 14 {
		docType = "CNPJ"
	}

	body := map[string]any{
		"transaction_amount": o.Total.InexactFloat64(),
		"description":        "Pedido " + o.Identifier,
		"payment_method_id":  "pix",
		"external_reference": o.Identifier,
		"payer": map[string]any{
			"email":      o.Buyer.Email,
			"first_name": firstName,
			"last_name":  lastName,
			"identification": map[string]any{
				"type":   docType,
				"number": o.Buyer.Document,
			},
		},
	}
	if g.notificationURL != "" {
		body["notification_url"] = g.notificationURL
	}

	var req payment.Request
	raw, err := json.Marshal(body)
	if err != nil {
		return req, err
	}
	err = json.Unmarshal(raw, &req)
	return req, err
}

// classifySDKError maps SDK failures onto gateway errors. API responses
// outside 2xx come back as *mperror.ResponseError carrying the body.
func classifySDKError(err error) error {
	var respErr *mperror.ResponseError
	if errors.As(err, &respErr) {
		status := respErr.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		return entities.NewGatewayRejected(status, rejectionMessage([]byte(respErr.Message)), rawJSON([]byte(respErr.Message)))
	}
	return entities.NewGatewayUnreachable(err, isTimeout(err))
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
