package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"strings"

	"nexus_pix/internal/domain/entities"
	"nexus_pix/internal/domain/gatewaypayload"
)

const defaultRejectedMessage = "payment gateway rejected the request"

// normalizeCharge turns a successful gateway body into a Charge. Bodies
// without a PIX code are malformed. fallbackID is the identifier submitted
// with the charge and stands in when the gateway echoes no id at all.
func normalizeCharge(raw []byte, fallbackID, provider string) (entities.Charge, error) {
	body, err := gatewaypayload.Decode(raw)
	if err != nil {
		log.Printf("[pix][gateway] body is not a json object provider=%s err=%v", provider, err)
		return entities.Charge{}, entities.NewMalformedGatewayResponse("gateway body is not a json object", rawJSON(raw))
	}

	code, image, codeFrom, imageFrom := gatewaypayload.Pix(body, gatewaypayload.PixExtractors)
	if code == "" {
		log.Printf("[pix][gateway] no pix code at any known path provider=%s keys=%v", provider, topLevelKeys(body))
		return entities.Charge{}, entities.NewMalformedGatewayResponse("no pix payload in gateway response", rawJSON(raw))
	}
	log.Printf("[pix][gateway] pix extracted provider=%s code_from=%q image_from=%q", provider, codeFrom, imageFrom)

	id := gatewaypayload.TransactionID(body)
	if id == "" {
		id = fallbackID
		log.Printf("[pix][gateway] no transaction id in response, using identifier=%s", fallbackID)
	}
	if id == "" {
		return entities.Charge{}, entities.NewMalformedGatewayResponse("no transaction id in gateway response", rawJSON(raw))
	}

	rawStatus := gatewaypayload.Status(body)
	return entities.Charge{
		TransactionID:     id,
		Provider:          provider,
		Status:            entities.MapGatewayStatus(rawStatus),
		RawStatus:         rawStatus,
		CopyPaste:         code,
		QRCodeBase64:      stripDataURI(image),
		GatewayPayloadRaw: rawJSON(raw),
	}, nil
}

// rejectionMessage prefers the gateway's own message.
func rejectionMessage(raw []byte) string {
	if body, err := gatewaypayload.Decode(raw); err == nil {
		if msg := gatewaypayload.ErrorMessage(body); msg != "" {
			return msg
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" && len(s) <= 200 && !json.Valid(raw) {
		return s
	}
	return defaultRejectedMessage
}

// rawJSON keeps raw as-is when it is JSON, otherwise wraps it as a JSON string.
func rawJSON(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return json.RawMessage(raw)
	}
	b, _ := json.Marshal(string(raw))
	return b
}

func stripDataURI(image string) string {
	if strings.HasPrefix(image, "data:") {
		if i := strings.Index(image, ","); i >= 0 {
			return image[i+1:]
		}
	}
	return image
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func topLevelKeys(b gatewaypayload.Body) []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	return keys
}
