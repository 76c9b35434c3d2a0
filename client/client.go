package client

import (
	"context"
	"github.com/google/uuid"
)

// Client holds the connection channels and is used by ws.Hub as well as the
// sessions manager. It is an opaque connection identity to everything above the
// transport layer.
type Client struct {
	// ID is a temporary id assigned to the Client.
	ID uuid.UUID
	// Send is the channel outgoing messages are passed to.
	Send chan []byte
	// Receive is the channel for incoming messages.
	Receive chan []byte
}

// Listener provides methods for accepting new clients and unregister events.
type Listener interface {
	// AcceptClient is called when a new Client connects.
	AcceptClient(ctx context.Context, client *Client)
	// SayGoodbyeToClient is called when a Client's connection has been closed.
	SayGoodbyeToClient(ctx context.Context, client *Client)
}

// Closer severs the connection of a Client. It is implemented by the transport
// layer and used for force-disconnect directives.
type Closer interface {
	// DisconnectClient closes the underlying connection of the given Client. The
	// regular unregister flow follows as if the peer had disconnected.
	DisconnectClient(client *Client)
}
