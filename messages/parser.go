package messages

import (
	"encoding/json"
	"github.com/pitchpong/pitchpong-server/errors"
)

// ParseMessage parses a given raw message and returns the message type and the
// parsed payload.
func ParseMessage(msg []byte) (MessageType, interface{}, error) {
	var container MessageContainer
	if err := json.Unmarshal(msg, &container); err != nil {
		return "", nil, errors.Error{
			Code:    errors.ErrBadRequest,
			Kind:    errors.KindDecodeJSON,
			Err:     err,
			Message: "parse message container",
		}
	}
	// Parse the payload.
	payload, err := CreateMessageContainerForType(container.MessageType)
	if err != nil {
		return "", nil, errors.Wrap(err, "get container type for message", nil)
	}
	if len(container.Content) > 0 {
		if err := json.Unmarshal(container.Content, payload); err != nil {
			return "", nil, errors.Error{
				Code:    errors.ErrBadRequest,
				Kind:    errors.KindDecodeJSON,
				Err:     err,
				Message: "parse message payload",
				Details: errors.Details{"message_type": container.MessageType},
			}
		}
	}
	// Parsing went fine.
	return container.MessageType, payload, nil
}

// MarshalMessage marshals a message with the given type and payload.
func MarshalMessage(msgType MessageType, payload interface{}) ([]byte, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Error{
			Code:    errors.ErrInternal,
			Kind:    errors.KindEncodeJSON,
			Err:     err,
			Message: "marshal message payload",
			Details: errors.Details{"message_type": msgType},
		}
	}
	b, err := json.Marshal(MessageContainer{
		MessageType: msgType,
		Content:     content,
	})
	if err != nil {
		return nil, errors.Error{
			Code:    errors.ErrInternal,
			Kind:    errors.KindEncodeJSON,
			Err:     err,
			Message: "marshal message container",
			Details: errors.Details{"message_type": msgType},
		}
	}
	return b, nil
}
