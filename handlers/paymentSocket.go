package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	paymentRepo "sokoni/database/repository/payments"
	"sokoni/models"
	"sokoni/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PaymentSocketHandler relays the payment events of one transaction to the
// customer or provider of its booking. The socket closes after a terminal status.
func (h *PaymentHandler) PaymentSocketHandler(c *gin.Context) {
	logger := utils.GetLogger()
	ref := c.Param("ref")

	p, err := h.Payments.GetByTransactionRef(c.Request.Context(), ref)
	if errors.Is(err, paymentRepo.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Not found", "unknown transaction")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	viewer, err := bookingViewer(c, h.Providers)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.Bookings.GetBooking(c.Request.Context(), viewer, p.BookingID); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := h.Channel.Subscribe(ctx, ref)
	if err != nil {
		logger.Error("payment subscription failed", zap.String("ref", ref), zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Live updates unavailable", "")
		return
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// The current state goes first; a settled payment needs no stream.
	current := models.PaymentEvent{
		TransactionRef: p.TransactionRef,
		PaymentID:      p.ID,
		BookingID:      p.BookingID,
		Status:         p.Status,
		Description:    p.ResultDescription,
		At:             p.UpdatedAt,
	}
	if err := writeEvent(conn, current); err != nil || p.Status.IsTerminal() {
		closeSocket(conn)
		return
	}

	go readPump(conn, cancel)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-sub.Events:
			if !ok {
				closeSocket(conn)
				return
			}
			if err := writeEvent(conn, ev); err != nil {
				return
			}
			if ev.Status.IsTerminal() {
				closeSocket(conn)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// readPump drains client frames so pongs and close frames are processed.
func readPump(conn *websocket.Conn, done context.CancelFunc) {
	defer done()
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.GetLogger().Debug("payment socket read error", zap.Error(err))
			}
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, ev models.PaymentEvent) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}

func closeSocket(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "payment settled")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
