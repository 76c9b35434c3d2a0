package sessions

import (
	"github.com/pitchpong/pitchpong-server/client"
	"github.com/pitchpong/pitchpong-server/errors"
	"github.com/pitchpong/pitchpong-server/logging"
	"github.com/pitchpong/pitchpong-server/messages"
	"go.uber.org/zap"
)

// The Manager implements courts.Observer: outward notifications are marshalled
// once and delivered fire-and-forget to the addressed clients.

// NotifyCourtState delivers the per-frame state snapshot of a court.
func (m *Manager) NotifyCourtState(recipients []*client.Client, courtID int, state messages.CourtState) {
	m.deliver(recipients, messages.MessageTypeCourtState, messages.MessageCourtState{
		CourtID: courtID,
		State:   state,
	})
}

// NotifyPlayerJoined delivers a player-joined notification.
func (m *Manager) NotifyPlayerJoined(recipients []*client.Client, courtID int, player messages.PlayerInfo) {
	m.deliver(recipients, messages.MessageTypePlayerJoined, messages.MessagePlayerUpdate{
		CourtID: courtID,
		Player:  player,
	})
}

// NotifyPlayerLeft delivers a player-left notification.
func (m *Manager) NotifyPlayerLeft(recipients []*client.Client, courtID int, player messages.PlayerInfo) {
	m.deliver(recipients, messages.MessageTypePlayerLeft, messages.MessagePlayerUpdate{
		CourtID: courtID,
		Player:  player,
	})
}

// NotifyPlayerReady delivers a player-ready notification.
func (m *Manager) NotifyPlayerReady(recipients []*client.Client, courtID int, player messages.PlayerInfo) {
	m.deliver(recipients, messages.MessageTypePlayerReady, messages.MessagePlayerUpdate{
		CourtID: courtID,
		Player:  player,
	})
}

// NotifyMatchFinished delivers the match-finished notification followed by the
// full final result.
func (m *Manager) NotifyMatchFinished(recipients []*client.Client, courtID int, result messages.MatchResult) {
	m.deliver(recipients, messages.MessageTypeMatchFinished, messages.MessageMatchFinished{
		CourtID: courtID,
		Winner:  result.Winner,
	})
	m.deliver(recipients, messages.MessageTypeMatchResult, messages.MessageMatchResult{
		CourtID: courtID,
		Result:  result,
	})
}

// NotifyCourtSummaries delivers the lobby view to all connected clients.
func (m *Manager) NotifyCourtSummaries(summaries []messages.CourtSummary) {
	m.m.RLock()
	recipients := make([]*client.Client, 0, len(m.clients))
	for _, c := range m.clients {
		recipients = append(recipients, c)
	}
	m.m.RUnlock()
	m.deliver(recipients, messages.MessageTypeCourtSummaries, messages.MessageCourtSummaries{Courts: summaries})
}

// CloseClients forwards the force-disconnect directive to the transport layer.
func (m *Manager) CloseClients(clients []*client.Client) {
	for _, c := range clients {
		m.closer.DisconnectClient(c)
	}
}

// deliver marshals the given payload once and sends it to all recipients
// without blocking.
func (m *Manager) deliver(recipients []*client.Client, messageType messages.MessageType, payload interface{}) {
	if len(recipients) == 0 {
		return
	}
	b, err := messages.MarshalMessage(messageType, payload)
	if err != nil {
		errors.Log(logging.SessionsLogger, err)
		return
	}
	for _, c := range recipients {
		select {
		case c.Send <- b:
		default:
			logging.SessionsLogger.Warn("dropping notification for slow client",
				zap.String("client_id", c.ID.String()),
				zap.String("message_type", string(messageType)))
		}
	}
}
