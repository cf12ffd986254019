package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"nexus_pix/internal/adapter/http/dto/response"
	"nexus_pix/internal/usecase"
	"nexus_pix/pkg"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

// StatusStreamHandler pushes status readings to the checkout page over a
// websocket. The watch lives as long as the socket; a closed socket cancels it.
type StatusStreamHandler struct {
	watcher  usecase.IStatusWatcher
	upgrader websocket.Upgrader
}

func NewStatusStreamHandler(watcher usecase.IStatusWatcher) *StatusStreamHandler {
	return &StatusStreamHandler{
		watcher: watcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Stream godoc
// @Summary Websocket stream of status readings until the charge settles
// @Tags pix
// @Param id path string true "Gateway transaction id"
// @Success 101
// @Router /pix/{id}/stream [get]
func (h *StatusStreamHandler) Stream(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid transaction id", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[pix][stream] upgrade failed transaction_id=%s err=%v", id, err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go readPump(conn, cancel)

	log.Printf("[pix][stream] open transaction_id=%s", id)
	readings := h.watcher.Watch(ctx, id)
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case r, ok := <-readings:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
				log.Printf("[pix][stream] closed transaction_id=%s", id)
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(response.FromStatusReading(r)); err != nil {
				log.Printf("[pix][stream] write failed transaction_id=%s err=%v", id, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames and cancels the watch once the peer goes away.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
