// Package messages provides basic message functionality and the outward-facing
// data transfer types for courts and matches.
package messages

import (
	"encoding/json"
	"github.com/pitchpong/pitchpong-server/errors"
)

// MessageType is the type of message and serves for using the correct parsing
// method.
type MessageType string

// PlayerID is a UUID that is used to identify a game.Player.
type PlayerID string

// SpectatorID is a UUID that is used to identify a spectator on a court.
type SpectatorID string

// MessageContainer is a container for all messages that are sent and received.
// It holds the message type as well as the actual payload.
type MessageContainer struct {
	// MessageType is the type of the message.
	MessageType MessageType `json:"message_type"`
	// Content is the actual message content.
	Content json.RawMessage `json:"content,omitempty"`
}

// All message types.
const (
	// MessageTypeError is used for error messages. The content is being set to the
	// detailed error.
	MessageTypeError MessageType = "error"
	// MessageTypeWelcome is sent to the client when he is welcomed at the server.
	// Used with MessageWelcome.
	MessageTypeWelcome MessageType = "welcome"
	// MessageTypeJoinCourt is received with MessageJoinCourt when a client wants to
	// join a court as player.
	MessageTypeJoinCourt MessageType = "join-court"
	// MessageTypeCourtJoined is sent with MessageCourtJoined as confirmation for
	// MessageTypeJoinCourt.
	MessageTypeCourtJoined MessageType = "court-joined"
	// MessageTypeSpectateCourt is received with MessageSpectateCourt when a client
	// wants to watch a court.
	MessageTypeSpectateCourt MessageType = "spectate-court"
	// MessageTypeSpectating is sent with MessageSpectating as confirmation for
	// MessageTypeSpectateCourt.
	MessageTypeSpectating MessageType = "spectating"
	// MessageTypeStopSpectating is received with MessageStopSpectating when a
	// spectator wants to leave a court without closing the connection.
	MessageTypeStopSpectating MessageType = "stop-spectating"
	// MessageTypeSetReady is received with MessageSetReady when a player reports
	// being ready for match start.
	MessageTypeSetReady MessageType = "set-ready"
	// MessageTypeSetInput is received with MessageSetInput when a player's
	// discretized input state changed.
	MessageTypeSetInput MessageType = "set-input"
	// MessageTypeGetCourts is received when a client requests the current court
	// summaries. Replied to with MessageTypeCourtSummaries.
	MessageTypeGetCourts MessageType = "get-courts"
	// MessageTypeResetCourt is received with MessageResetCourt when a court is to
	// be reset unconditionally.
	MessageTypeResetCourt MessageType = "reset-court"
	// MessageTypeCourtState is sent with MessageCourtState every frame to everybody
	// attached to a court.
	MessageTypeCourtState MessageType = "court-state"
	// MessageTypePlayerJoined is sent with MessagePlayerUpdate to everybody
	// attached to a court when a player joined.
	MessageTypePlayerJoined MessageType = "player-joined"
	// MessageTypePlayerLeft is sent with MessagePlayerUpdate to everybody attached
	// to a court when a player left.
	MessageTypePlayerLeft MessageType = "player-left"
	// MessageTypePlayerReady is sent with MessagePlayerUpdate to everybody attached
	// to a court when a player reported being ready.
	MessageTypePlayerReady MessageType = "player-ready"
	// MessageTypeMatchFinished is sent with MessageMatchFinished to everybody
	// attached to a court when the match ended.
	MessageTypeMatchFinished MessageType = "match-finished"
	// MessageTypeMatchResult is sent with MessageMatchResult right after
	// MessageTypeMatchFinished and carries the full final result.
	MessageTypeMatchResult MessageType = "match-result"
	// MessageTypeCourtSummaries is sent with MessageCourtSummaries to all connected
	// clients whenever the lobby view changed.
	MessageTypeCourtSummaries MessageType = "court-summaries"
)

// MessageError is used with MessageTypeError for errors that need to be sent to
// clients.
type MessageError struct {
	// Code is the error code from errors.Error.
	Code string `json:"code"`
	// Kind is the error kind from errors.Error.
	Kind string `json:"kind"`
	// Message is the message from errors.Error.
	Message string `json:"message"`
	// Details are error details from errors.Error.
	Details map[string]interface{} `json:"details"`
}

// MessageErrorFromError creates a MessageError from the given error. Internal
// error information is hidden for errors the user is not to blame for.
func MessageErrorFromError(err error) MessageError {
	e, _ := errors.Cast(err)
	if !errors.BlameUser(err) {
		return MessageError{
			Code:    string(errors.ErrInternal),
			Message: "internal server error",
		}
	}
	return MessageError{
		Code:    string(e.Code),
		Kind:    string(e.Kind),
		Message: e.Message,
		Details: e.Details,
	}
}

// MessageWelcome is used with MessageTypeWelcome.
type MessageWelcome struct {
	// ClientID is the temporary id that was assigned to the connection.
	ClientID string `json:"client_id"`
}
