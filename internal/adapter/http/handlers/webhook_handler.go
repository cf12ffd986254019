package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	appconfig "nexus_pix/internal/config"
	"nexus_pix/internal/usecase"
	"nexus_pix/pkg"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives gateway status pushes. Once the body parses as JSON
// the gateway always gets 200; local failures are only logged.
type WebhookHandler struct {
	usecase usecase.IChargeUseCase
}

func NewWebhookHandler(uc usecase.IChargeUseCase) *WebhookHandler {
	return &WebhookHandler{usecase: uc}
}

// Receive godoc
// @Summary Gateway status push
// @Tags webhook
// @Accept json
// @Produce plain
// @Param provider path string true "Gateway name" Enums(amplopay, mercadopago)
// @Success 200 {string} string "OK"
// @Failure 400 {object} pkg.HTTPError
// @Router /webhook/{provider} [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	provider := c.Param("provider")
	if provider != appconfig.GatewayAmploPay && provider != appconfig.GatewayMercadoPago {
		c.Status(http.StatusNotFound)
		return
	}

	raw, err := c.GetRawData()
	if err != nil || !json.Valid(raw) {
		log.Printf("[pix][webhook] unparseable body provider=%s err=%v", provider, err)
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	reading, err := h.usecase.ApplyWebhook(c.Request.Context(), raw)
	if err != nil {
		log.Printf("[pix][webhook] not applied provider=%s err=%v", provider, err)
	} else {
		log.Printf("[pix][webhook] applied provider=%s transaction_id=%s status=%s", provider, reading.TransactionID, reading.Status)
	}

	c.String(http.StatusOK, "OK")
}
