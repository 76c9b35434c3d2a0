package messages

import (
	"fmt"
	"github.com/pitchpong/pitchpong-server/errors"
)

// CreateMessageContainerForType creates the correct message container for a
// given inbound message type.
func CreateMessageContainerForType(msgType MessageType) (interface{}, error) {
	var res interface{}
	switch msgType {
	case MessageTypeJoinCourt:
		res = &MessageJoinCourt{}
	case MessageTypeSpectateCourt:
		res = &MessageSpectateCourt{}
	case MessageTypeStopSpectating:
		res = &MessageStopSpectating{}
	case MessageTypeSetReady:
		res = &MessageSetReady{}
	case MessageTypeSetInput:
		res = &MessageSetInput{}
	case MessageTypeGetCourts:
		res = &MessageGetCourts{}
	case MessageTypeResetCourt:
		res = &MessageResetCourt{}
	default:
		return nil, errors.Error{
			Code:    errors.ErrProtocolViolation,
			Kind:    errors.KindUnknownMessageType,
			Message: fmt.Sprintf("unknown message type: %s", msgType),
			Details: errors.Details{"message_type": msgType},
		}
	}
	return res, nil
}
