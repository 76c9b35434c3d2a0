// Package sessions binds the websocket transport to the court orchestration:
// it accepts clients, parses inbound messages, routes actions and delivers
// outward notifications.
package sessions

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pitchpong/pitchpong-server/client"
	"github.com/pitchpong/pitchpong-server/errors"
	"github.com/pitchpong/pitchpong-server/game"
	"github.com/pitchpong/pitchpong-server/logging"
	"github.com/pitchpong/pitchpong-server/messages"
	"go.uber.org/zap"
)

// Courts provides the inbound operations of the court orchestration. It is
// implemented by courts.Orchestrator.
type Courts interface {
	JoinCourt(c *client.Client, courtID int, name string, side game.Side) (game.Player, error)
	AddSpectator(c *client.Client, courtID int) (uuid.UUID, error)
	RemoveSpectator(courtID int, spectatorID uuid.UUID)
	SetReady(courtID int, playerID uuid.UUID)
	SetInput(courtID int, playerID uuid.UUID, state game.InputState)
	HandleDisconnect(c *client.Client)
	ResetCourt(courtID int) error
	Summaries() []messages.CourtSummary
	CourtVisualSeed(courtID int) (int64, error)
}

// Manager accepts clients from the transport layer and routes their messages
// to the court orchestration. It implements client.Listener as well as
// courts.Observer. Bind the collaborators with Manager.BindCourts and
// Manager.BindCloser before accepting clients.
type Manager struct {
	courts Courts
	closer client.Closer
	// m locks clients.
	m sync.RWMutex
	// clients holds all currently connected clients.
	clients map[uuid.UUID]*client.Client
}

// NewManager creates a new Manager.
func NewManager() *Manager {
	return &Manager{
		clients: make(map[uuid.UUID]*client.Client),
	}
}

// BindCourts sets the court orchestration to route actions to.
func (m *Manager) BindCourts(courts Courts) {
	m.courts = courts
}

// BindCloser sets the client.Closer used for force-disconnect directives.
func (m *Manager) BindCloser(closer client.Closer) {
	m.closer = closer
}

// AcceptClient welcomes the given client and handles its messages until the
// connection or the given context is done.
func (m *Manager) AcceptClient(ctx context.Context, c *client.Client) {
	m.m.Lock()
	m.clients[c.ID] = c
	m.m.Unlock()
	m.sendToClient(c, messages.MessageTypeWelcome, messages.MessageWelcome{ClientID: c.ID.String()})
	// Let the client populate its lobby view right away.
	m.sendToClient(c, messages.MessageTypeCourtSummaries,
		messages.MessageCourtSummaries{Courts: m.courts.Summaries()})
	for {
		select {
		case <-ctx.Done():
			return
		case raw, more := <-c.Receive:
			if !more {
				return
			}
			m.handleMessage(c, raw)
		}
	}
}

// SayGoodbyeToClient forwards the disconnect to the court orchestration.
func (m *Manager) SayGoodbyeToClient(_ context.Context, c *client.Client) {
	m.m.Lock()
	delete(m.clients, c.ID)
	m.m.Unlock()
	m.courts.HandleDisconnect(c)
}

// handleMessage parses and routes a single inbound message. Malformed or
// unrecognized messages are reported back to the originating client and
// otherwise ignored.
func (m *Manager) handleMessage(c *client.Client, raw []byte) {
	messageType, payload, err := messages.ParseMessage(raw)
	if err != nil {
		m.notifyError(c, errors.Wrap(err, "parse message", nil))
		return
	}
	switch content := payload.(type) {
	case *messages.MessageJoinCourt:
		m.handleJoinCourt(c, content)
	case *messages.MessageSpectateCourt:
		m.handleSpectateCourt(c, content)
	case *messages.MessageStopSpectating:
		spectatorID, err := parseID(string(content.SpectatorID))
		if err != nil {
			m.notifyError(c, err)
			return
		}
		m.courts.RemoveSpectator(content.CourtID, spectatorID)
	case *messages.MessageSetReady:
		playerID, err := parseID(string(content.PlayerID))
		if err != nil {
			m.notifyError(c, err)
			return
		}
		m.courts.SetReady(content.CourtID, playerID)
	case *messages.MessageSetInput:
		m.handleSetInput(c, content)
	case *messages.MessageGetCourts:
		m.sendToClient(c, messages.MessageTypeCourtSummaries,
			messages.MessageCourtSummaries{Courts: m.courts.Summaries()})
	case *messages.MessageResetCourt:
		if err := m.courts.ResetCourt(content.CourtID); err != nil {
			m.notifyError(c, err)
		}
	default:
		m.notifyError(c, errors.NewForbiddenMessageError(string(messageType), nil))
	}
}

func (m *Manager) handleJoinCourt(c *client.Client, content *messages.MessageJoinCourt) {
	if !game.ValidSide(content.Side) {
		m.notifyError(c, errors.Error{
			Code:    errors.ErrBadRequest,
			Message: fmt.Sprintf("invalid side: %s", content.Side),
			Details: errors.Details{"side": content.Side},
		})
		return
	}
	player, err := m.courts.JoinCourt(c, content.CourtID, content.Name, game.Side(content.Side))
	if err != nil {
		m.notifyError(c, err)
		return
	}
	visualSeed, _ := m.courts.CourtVisualSeed(content.CourtID)
	m.sendToClient(c, messages.MessageTypeCourtJoined, messages.MessageCourtJoined{
		CourtID:    content.CourtID,
		PlayerID:   messages.PlayerID(player.ID.String()),
		Side:       string(player.Side),
		VisualSeed: visualSeed,
	})
}

func (m *Manager) handleSpectateCourt(c *client.Client, content *messages.MessageSpectateCourt) {
	spectatorID, err := m.courts.AddSpectator(c, content.CourtID)
	if err != nil {
		m.notifyError(c, err)
		return
	}
	visualSeed, _ := m.courts.CourtVisualSeed(content.CourtID)
	m.sendToClient(c, messages.MessageTypeSpectating, messages.MessageSpectating{
		CourtID:     content.CourtID,
		SpectatorID: messages.SpectatorID(spectatorID.String()),
		VisualSeed:  visualSeed,
	})
}

func (m *Manager) handleSetInput(c *client.Client, content *messages.MessageSetInput) {
	if !game.ValidInputState(content.Input) {
		m.notifyError(c, errors.NewInvalidInputStateError(content.Input))
		return
	}
	playerID, err := parseID(string(content.PlayerID))
	if err != nil {
		m.notifyError(c, err)
		return
	}
	m.courts.SetInput(content.CourtID, playerID, game.InputState(content.Input))
}

// parseID parses the given string as uuid.UUID.
func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, errors.Error{
			Code:    errors.ErrBadRequest,
			Kind:    errors.KindMalformedID,
			Err:     err,
			Message: "parse id",
			Details: errors.Details{"was": s},
		}
	}
	return id, nil
}

// notifyError reports the given error to the originating client and logs it.
func (m *Manager) notifyError(c *client.Client, err error) {
	errors.Log(logging.SessionsLogger, err)
	m.sendToClient(c, messages.MessageTypeError, messages.MessageErrorFromError(err))
}

// sendToClient marshals the given payload and passes it to the client's
// send-channel. The send never blocks: when the client's buffer is full, the
// message is dropped so a slow connection cannot stall anything else.
func (m *Manager) sendToClient(c *client.Client, messageType messages.MessageType, payload interface{}) {
	b, err := messages.MarshalMessage(messageType, payload)
	if err != nil {
		errors.Log(logging.SessionsLogger, err)
		return
	}
	select {
	case c.Send <- b:
	default:
		logging.SessionsLogger.Warn("dropping message for slow client",
			zap.String("client_id", c.ID.String()),
			zap.String("message_type", string(messageType)))
	}
}
