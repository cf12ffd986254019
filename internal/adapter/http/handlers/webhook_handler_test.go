package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nexus_pix/internal/adapter/http/handlers/mocks"
	"nexus_pix/internal/domain/entities"
	"nexus_pix/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func postWebhook(h *WebhookHandler, body string) *httptest.ResponseRecorder {
	return postWebhookTo(h, "amplopay", body)
}

func postWebhookTo(h *WebhookHandler, provider, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/webhook/:provider", h.Receive)

	req := httptest.NewRequest(http.MethodPost, "/webhook/"+provider, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_Receive(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unparseable body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := NewWebhookHandler(mocks.NewMockIChargeUseCase(ctrl))

		w := postWebhook(h, "status=paid")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("applied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIChargeUseCase(ctrl)
		h := NewWebhookHandler(uc)

		body := `{"data":{"transaction":{"id":"tx-1","status":"PAID"}}}`
		uc.EXPECT().ApplyWebhook(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, raw json.RawMessage) (entities.StatusReading, error) {
				if string(raw) != body {
					t.Fatalf("payload should be forwarded untouched, got %s", raw)
				}
				return entities.StatusReading{TransactionID: "tx-1", Status: entities.ChargeStatusPaid}, nil
			})

		w := postWebhook(h, body)
		if w.Code != http.StatusOK || w.Body.String() != "OK" {
			t.Fatalf("expected 200 OK, got %d %q", w.Code, w.Body.String())
		}
	})

	t.Run("local failure is still acknowledged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIChargeUseCase(ctrl)
		h := NewWebhookHandler(uc)

		uc.EXPECT().ApplyWebhook(gomock.Any(), gomock.Any()).Return(entities.StatusReading{}, usecase.ErrInvalidWebhookPayload)

		w := postWebhook(h, `{"event":"ping"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("mercadopago notification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIChargeUseCase(ctrl)
		h := NewWebhookHandler(uc)

		uc.EXPECT().ApplyWebhook(gomock.Any(), gomock.Any()).Return(entities.StatusReading{TransactionID: "123", Status: entities.ChargeStatusPending}, nil)

		w := postWebhookTo(h, "mercadopago", `{"type":"payment","data":{"id":"123"}}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := NewWebhookHandler(mocks.NewMockIChargeUseCase(ctrl))

		w := postWebhookTo(h, "stripe", `{"id":"tx-1"}`)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
