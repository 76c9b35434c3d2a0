package errors

type Code string

const (
	ErrAborted           Code = "aborted"
	ErrBadRequest        Code = "bad-request"
	ErrCommunication     Code = "communication"
	ErrProtocolViolation Code = "protocol-violation"
	ErrFatal             Code = "fatal"
	ErrNotFound          Code = "not-found"
	ErrInternal          Code = "internal"
	ErrUnexpected        Code = "unexpected"
)

type Kind string

const (
	// KindContextAborted is used when we were currently performing an operation but
	// the context got aborted.
	KindContextAborted Kind = "context-aborted"
	// KindCourtNotFound is used when an operation addresses a court id that is not
	// part of the court pool.
	KindCourtNotFound Kind = "court-not-found"
	KindDecodeJSON    Kind = "parse-request-body-as-json"
	KindEncodeJSON    Kind = "encode-json"
	// KindForbiddenMessage is used when the protocol is being violated due to a
	// message with currently forbidden type.
	KindForbiddenMessage Kind = "protocol-violation"
	// KindInvalidInputState is used when a set-input message carries an input state
	// that is not one of the known discrete levels.
	KindInvalidInputState Kind = "invalid-input-state"
	// KindMalformedID is used when a passed ID is not in uuid.UUID format.
	KindMalformedID Kind = "malformed-id"
	// KindMatchClosed is used when a player wants to join a court whose match has
	// finished but not been reset yet.
	KindMatchClosed Kind = "match-closed"
	// KindPlayerAlreadyJoined is used when a connection wants to join or spectate a
	// court although it is already assigned to one.
	KindPlayerAlreadyJoined Kind = "player-already-joined"
	// KindSideTaken is used when a player wants to join a court side that is
	// already occupied.
	KindSideTaken  Kind = "side-taken"
	KindUnexpected Kind = "unexpected"
	// KindUnknownMessageType is used when a message with unknown type is received.
	KindUnknownMessageType Kind = "unknown-message-type"
)
