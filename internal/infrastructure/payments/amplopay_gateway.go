package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	appconfig "nexus_pix/internal/config"
	"nexus_pix/internal/domain/entities"
	"nexus_pix/internal/domain/gatewaypayload"
	"nexus_pix/internal/usecase/interfaces"
)

var ErrMissingAmploPayCredentials = errors.New("missing AMPLOPAY_PUBLIC_KEY or AMPLOPAY_SECRET_KEY")

const (
	amploPayProvider = "amplopay"
	maxGatewayBody   = 1 << 20
	mockPixCode      = "00020126580014br.gov.bcb.pix0136nexus-mock-0000-0000-0000-0000000000005204000053039865802BR5913NEXUS STORE6009SAO PAULO62070503***6304ABCD"
)

type amploPayClient struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
}

type amploPayProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type amploPayChargeRequest struct {
	Identifier  string            `json:"identifier"`
	Amount      float64           `json:"amount"`
	Client      amploPayClient    `json:"client"`
	Products    []amploPayProduct `json:"products"`
	CallbackURL string            `json:"callbackUrl,omitempty"`
}

// AmploPayGateway issues PIX charges against the AmploPay REST API.
// Credentials travel only in the x-public-key / x-secret-key headers.
type AmploPayGateway struct {
	cfg      appconfig.AmploPay
	client   *http.Client
	mockMode bool
}

var _ interfaces.IPixGateway = (*AmploPayGateway)(nil)

func NewAmploPayGateway(cfg appconfig.AmploPay, timeout time.Duration, mockMode bool) (*AmploPayGateway, error) {
	if mockMode {
		log.Printf("[pix][amplopay] mock mode enabled")
		return &AmploPayGateway{cfg: cfg, mockMode: true}, nil
	}
	if cfg.PublicKey == "" || cfg.SecretKey == "" {
		log.Printf("[pix][amplopay] missing credentials public_key=%s secret_key=%s", appconfig.MaskSecret(cfg.PublicKey), appconfig.MaskSecret(cfg.SecretKey))
		return nil, ErrMissingAmploPayCredentials
	}

	log.Printf("[pix][amplopay] client initialized base_url=%s public_key=%s timeout=%s", cfg.BaseURL, appconfig.MaskSecret(cfg.PublicKey), timeout)
	return &AmploPayGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (g *AmploPayGateway) Name() string {
	return amploPayProvider
}

func (g *AmploPayGateway) CreateCharge(ctx context.Context, order entities.Order) (entities.Charge, error) {
	if g.mockMode {
		log.Printf("[pix][amplopay] mock charge identifier=%s amount=%s", order.Identifier, order.Total.StringFixed(2))
		return entities.Charge{
			TransactionID: order.Identifier,
			Provider:      amploPayProvider,
			Status:        entities.ChargeStatusPending,
			RawStatus:     "PENDING",
			CopyPaste:     mockPixCode,
		}, nil
	}

	payload, err := json.Marshal(toAmploPayRequest(order, g.cfg.CallbackURL))
	if err != nil {
		return entities.Charge{}, err
	}

	raw, status, err := g.do(ctx, http.MethodPost, g.cfg.BaseURL+g.cfg.ChargePath, payload)
	if err != nil {
		return entities.Charge{}, err
	}
	if status < 200 || status >= 300 {
		msg := rejectionMessage(raw)
		log.Printf("[pix][amplopay] charge rejected identifier=%s status=%d message=%q", order.Identifier, status, msg)
		return entities.Charge{}, entities.NewGatewayRejected(status, msg, rawJSON(raw))
	}

	charge, err := normalizeCharge(raw, order.Identifier, amploPayProvider)
	if err != nil {
		return entities.Charge{}, err
	}
	log.Printf("[pix][amplopay] charge created identifier=%s transaction_id=%s raw_status=%q", order.Identifier, charge.TransactionID, charge.RawStatus)
	return charge, nil
}

func (g *AmploPayGateway) FetchStatus(ctx context.Context, transactionID string) (string, error) {
	if g.mockMode {
		return "PAID", nil
	}

	endpoint := g.cfg.BaseURL + g.cfg.StatusPath + "/" + url.PathEscape(transactionID)
	raw, status, err := g.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", entities.NewGatewayRejected(status, rejectionMessage(raw), rawJSON(raw))
	}

	body, err := gatewaypayload.Decode(raw)
	if err != nil {
		return "", entities.NewMalformedGatewayResponse("status body is not a json object", rawJSON(raw))
	}
	return gatewaypayload.Status(body), nil
}

func (g *AmploPayGateway) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build amplopay request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("x-public-key", g.cfg.PublicKey)
	req.Header.Set("x-secret-key", g.cfg.SecretKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		timeout := isTimeout(err)
		log.Printf("[pix][amplopay] request failed method=%s path=%s timeout=%t err=%v", method, req.URL.Path, timeout, err)
		return nil, 0, entities.NewGatewayUnreachable(err, timeout)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxGatewayBody))
	if err != nil {
		return nil, resp.StatusCode, entities.NewGatewayUnreachable(err, isTimeout(err))
	}
	log.Printf("[pix][amplopay] response method=%s path=%s status=%d elapsed=%s", method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return raw, resp.StatusCode, nil
}

func toAmploPayRequest(o entities.Order, callbackURL string) amploPayChargeRequest {
	products := make([]amploPayProduct, 0, len(o.Items))
	for _, it := range o.Items {
		products = append(products, amploPayProduct{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.UnitPrice.InexactFloat64(),
		})
	}
	return amploPayChargeRequest{
		Identifier: o.Identifier,
		Amount:     o.Total.InexactFloat64(),
		Client: amploPayClient{
			Name:     o.Buyer.Name,
			Email:    o.Buyer.Email,
			Phone:    o.Buyer.Phone,
			Document: o.Buyer.Document,
		},
		Products:    products,
		CallbackURL: callbackURL,
	}
}
