package errors

import "fmt"

// NewCourtNotFoundError returns a new ErrNotFound error with kind
// KindCourtNotFound for the given court id.
func NewCourtNotFoundError(courtID int) error {
	return Error{
		Code:    ErrNotFound,
		Kind:    KindCourtNotFound,
		Message: fmt.Sprintf("unknown court: %d", courtID),
		Details: Details{"court_id": courtID},
	}
}

// NewSideTakenError returns a new ErrBadRequest error with kind KindSideTaken.
func NewSideTakenError(courtID int, side string) error {
	return Error{
		Code:    ErrBadRequest,
		Kind:    KindSideTaken,
		Message: fmt.Sprintf("side %s already taken on court %d", side, courtID),
		Details: Details{
			"court_id": courtID,
			"side":     side,
		},
	}
}

// NewMatchClosedError returns a new ErrBadRequest error with kind
// KindMatchClosed. It is used when a court still awaits its post-match reset.
func NewMatchClosedError(courtID int) error {
	return Error{
		Code:    ErrBadRequest,
		Kind:    KindMatchClosed,
		Message: fmt.Sprintf("match on court %d is closed", courtID),
		Details: Details{"court_id": courtID},
	}
}

// NewAlreadyJoinedError returns a new ErrBadRequest error with kind
// KindPlayerAlreadyJoined.
func NewAlreadyJoinedError(message string, details Details) error {
	return Error{
		Code:    ErrBadRequest,
		Kind:    KindPlayerAlreadyJoined,
		Message: message,
		Details: details,
	}
}

// NewInvalidInputStateError returns a new ErrBadRequest error with kind
// KindInvalidInputState.
func NewInvalidInputStateError(state string) error {
	return Error{
		Code:    ErrBadRequest,
		Kind:    KindInvalidInputState,
		Message: fmt.Sprintf("invalid input state: %s", state),
		Details: Details{"state": state},
	}
}

// NewForbiddenMessageError creates a new ErrProtocolViolation error with kind
// KindForbiddenMessage.
func NewForbiddenMessageError(messageType string, details Details) error {
	return Error{
		Code:    ErrProtocolViolation,
		Kind:    KindForbiddenMessage,
		Message: fmt.Sprintf("forbidden message type: %s", messageType),
		Details: details,
	}
}

// NewInternalErrorFromErr creates a new ErrInternal error from the given one.
func NewInternalErrorFromErr(err error, message string, details Details) error {
	return Error{
		Code:    ErrInternal,
		Err:     err,
		Message: message,
		Details: details,
	}
}

// NewContextAbortedError creates a new ErrAborted error with kind
// KindContextAborted for the operation with the given name.
func NewContextAbortedError(operation string) error {
	return Error{
		Code:    ErrAborted,
		Kind:    KindContextAborted,
		Message: fmt.Sprintf("%s: context aborted", operation),
	}
}
