package handlers

import (
	"errors"
	"log"
	"net/http"

	"nexus_pix/internal/adapter/http/dto/request"
	"nexus_pix/internal/adapter/http/dto/response"
	"nexus_pix/internal/domain/entities"
	"nexus_pix/internal/usecase"
	"nexus_pix/pkg"

	"github.com/gin-gonic/gin"
)

// PixHandler relays checkout requests to the PIX gateway.
type PixHandler struct {
	usecase usecase.IChargeUseCase
}

func NewPixHandler(uc usecase.IChargeUseCase) *PixHandler {
	return &PixHandler{usecase: uc}
}

// CreateCharge issues a PIX charge for the posted order.
// @Summary Create a PIX charge for an order
// @Tags pix
// @Accept json
// @Produce json
// @Param order body request.PixChargeRequest true "Checkout order"
// @Success 200 {object} response.PixChargeResponse
// @Failure 400 {object} pkg.HTTPError
// @Failure 429 {object} pkg.HTTPError
// @Failure 502 {object} pkg.HTTPError
// @Failure 504 {object} pkg.HTTPError
// @Router /pix [post]
func (h *PixHandler) CreateCharge(c *gin.Context) {
	var payload request.PixChargeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[pix][handler] invalid payload err=%v", err)
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[pix][handler] create start order_id=%q items=%d", payload.OrderID, len(payload.Items))

	charge, err := h.usecase.CreateCharge(c.Request.Context(), payload.ToOrder())
	if err != nil {
		log.Printf("[pix][handler] create failed order_id=%q err=%v", payload.OrderID, err)
		appErr := mapPixError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[pix][handler] create success transaction_id=%s status=%s", charge.TransactionID, charge.Status)

	c.JSON(http.StatusOK, response.FromCharge(charge))
}

// GetStatus reads the current status from the gateway.
// @Summary Current charge status from the gateway
// @Tags pix
// @Produce json
// @Param id path string true "Gateway transaction id"
// @Success 200 {object} response.PixStatusResponse
// @Failure 502 {object} pkg.HTTPError
// @Router /pix/{id} [get]
func (h *PixHandler) GetStatus(c *gin.Context) {
	id := c.Param("id")

	reading, err := h.usecase.RefreshStatus(c.Request.Context(), id)
	if err != nil {
		log.Printf("[pix][handler] status failed transaction_id=%s err=%v", id, err)
		appErr := mapPixError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromStatusReading(reading))
}

// GetCharge returns the stored charge record.
// @Summary Stored charge record
// @Tags pix
// @Produce json
// @Param id path string true "Gateway transaction id"
// @Success 200 {object} response.ChargeRecordResponse
// @Failure 404 {object} pkg.HTTPError
// @Router /charges/{id} [get]
func (h *PixHandler) GetCharge(c *gin.Context) {
	id := c.Param("id")

	charge, err := h.usecase.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[pix][handler] get charge failed transaction_id=%s err=%v", id, err)
		appErr := mapPixError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromChargeRecord(charge))
}

func mapPixError(err error) *pkg.AppError {
	var gwErr *entities.GatewayError
	switch {
	case errors.Is(err, usecase.ErrInvalidOrder):
		return pkg.NewDomainErrorSimple("INVALID_ORDER", err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidTransactionID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid transaction id", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrChargeNotFound):
		return pkg.NewDomainErrorSimple("CHARGE_NOT_FOUND", "Charge not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrGatewayRejected) && errors.As(err, &gwErr):
		status := http.StatusBadGateway
		if gwErr.StatusCode >= 400 && gwErr.StatusCode < 500 {
			status = gwErr.StatusCode
		}
		return withRawPayload(pkg.NewDomainError("GATEWAY_REJECTED", gwErr.Message, err, status), gwErr)
	case errors.Is(err, entities.ErrGatewayTimeout):
		return pkg.NewDomainError("GATEWAY_TIMEOUT", "Payment gateway timed out", err, http.StatusGatewayTimeout)
	case errors.Is(err, entities.ErrGatewayUnreachable):
		return pkg.NewDomainError("GATEWAY_UNREACHABLE", "Payment gateway unreachable", err, http.StatusBadGateway)
	case errors.Is(err, entities.ErrMalformedGatewayResponse) && errors.As(err, &gwErr):
		return withRawPayload(pkg.NewDomainError("MALFORMED_GATEWAY_RESPONSE", "Payment gateway returned no PIX data", err, http.StatusBadGateway), gwErr)
	case errors.Is(err, usecase.ErrPixGatewayNotConfigured):
		return pkg.NewDomainError("GATEWAY_NOT_CONFIGURED", "Payment gateway not configured", err, http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrChargeRepoNotConfigured):
		return pkg.NewDomainError("STORE_NOT_CONFIGURED", "Charge store not configured", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func withRawPayload(appErr *pkg.AppError, gwErr *entities.GatewayError) *pkg.AppError {
	if len(gwErr.RawPayload) == 0 {
		return appErr
	}
	return appErr.WithDetails(gwErr.RawPayload)
}
