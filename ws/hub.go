package ws

import (
	"context"

	"github.com/pitchpong/pitchpong-server/client"
	"github.com/pitchpong/pitchpong-server/logging"
	"go.uber.org/zap"
)

// Hub holds all active clients and manages centralized receiving and sending.
// It implements client.Closer for force-disconnect directives.
type Hub struct {
	// clientListener is used for notifying of new clients or unregistered ones.
	clientListener client.Listener
	// clients maps the connection handles to their websocket clients.
	clients map[*client.Client]*Client
	// register receives when a Client wants to register itself.
	register chan *Client
	// unregister receives when a Client wants to unregister itself.
	unregister chan *Client
	// kick receives connection handles whose connections are to be severed.
	kick chan *client.Client
}

// NewHub creates a new Hub. Start it with Hub.Run.
func NewHub(clientListener client.Listener) *Hub {
	return &Hub{
		clientListener: clientListener,
		clients:        make(map[*client.Client]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		kick:           make(chan *client.Client),
	}
}

// DisconnectClient severs the connection of the given client. The regular
// unregister flow follows through the failing read-pump.
func (h *Hub) DisconnectClient(c *client.Client) {
	h.kick <- c
}

// Run starts the Hub. It blocks so you need to start a goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			// Register client.
			h.clients[c.Client] = c
			logging.WSLogger.Info("client connected", zap.String("client_id", c.ID.String()))
			go h.clientListener.AcceptClient(ctx, c.Client)
		case c := <-h.unregister:
			// Unregister client.
			if _, ok := h.clients[c.Client]; ok {
				h.clientListener.SayGoodbyeToClient(ctx, c.Client)
				delete(h.clients, c.Client)
				logging.WSLogger.Info("client disconnected", zap.String("client_id", c.ID.String()))
				// Close the send-channel which leads to stopping the write-pump.
				close(c.Send)
			}
		case handle := <-h.kick:
			if c, ok := h.clients[handle]; ok {
				logging.WSLogger.Info("force-disconnecting client", zap.String("client_id", c.ID.String()))
				// Closing the connection makes the read-pump fail which unregisters the
				// client through the regular flow.
				_ = c.connection.Close()
			}
		}
	}
}
