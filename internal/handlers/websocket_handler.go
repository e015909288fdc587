package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	ws "github.com/user/cryptotrack/internal/websocket"
)

// PriceFeed returns the WebSocket handler for the live price feed. Each
// connection is registered with the hub and receives every broadcast
// price update until it disconnects.
func PriceFeed(hub *ws.Hub, logger *zap.Logger) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		client := &ws.Client{
			Conn: c,
			Send: make(chan []byte, 256),
		}

		hub.Register <- client
		logger.Debug("price feed connection established",
			zap.String("remote", c.RemoteAddr().String()))

		go writePump(client)

		// Read loop runs on this goroutine so the handler does not
		// return until the client disconnects.
		readPump(client, hub)
	}
}

// writePump forwards hub messages to the connection until the send
// channel is closed.
func writePump(client *ws.Client) {
	defer client.Conn.Close()

	for message := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump consumes (and discards) client messages, unregistering the
// client when the connection drops.
func readPump(client *ws.Client, hub *ws.Hub) {
	defer func() {
		hub.Unregister <- client
		client.Conn.Close()
	}()

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
