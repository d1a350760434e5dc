package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gizmohub_back_end/internal/cache"
	"gizmohub_back_end/internal/handlers"
	"gizmohub_back_end/internal/models"
	"gizmohub_back_end/internal/service"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// CartSocket pushes the full server cart to every open tab of a customer whenever it changes.
type CartSocket struct {
	carts    *service.CartService
	notifier *cache.CartNotifier
}

func NewCartSocket(carts *service.CartService, notifier *cache.CartNotifier) *CartSocket {
	return &CartSocket{carts: carts, notifier: notifier}
}

type cartMessage struct {
	Type  string      `json:"type"`
	Event string      `json:"event,omitempty"`
	Cart  models.Cart `json:"cart"`
}

// Serve is mounted behind RequireCustomerAccess("customerId").
func (h *CartSocket) Serve(c *gin.Context) {
	if h.notifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cart sync is not configured"})
		return
	}
	customerID, ok := handlers.ParseID(c, "customerId")
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.notifier.Subscribe(ctx, customerID)
	defer pubsub.Close()
	// changes made after the "connected" push must reach this socket
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("❌ Cart %d subscription failed: %v", customerID, err)
		return
	}

	// the read pump only exists to notice the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if !h.push(conn, customerID, "connected", "") {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()
	messages := pubsub.Channel()

	for {
		select {
		case <-closed:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if !h.push(conn, customerID, "cart_updated", msg.Payload) {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *CartSocket) push(conn *websocket.Conn, customerID uint, kind, event string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, err := h.carts.Get(ctx, customerID)
	if err != nil {
		log.Printf("⚠️ Cart %d reload for websocket failed: %v", customerID, err)
		return true
	}

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(cartMessage{Type: kind, Event: event, Cart: cart}); err != nil {
		log.Printf("⚠️ WebSocket write to customer %d failed: %v", customerID, err)
		return false
	}
	return true
}
