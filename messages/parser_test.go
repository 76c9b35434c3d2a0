package messages

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/pitchpong/pitchpong-server/errors"
)

func convertToRawMessage(i interface{}) json.RawMessage {
	msg, _ := json.Marshal(i)
	return msg
}

func marshalContainerMust(container MessageContainer) []byte {
	b, _ := json.Marshal(container)
	return b
}

func TestParseMessage(t *testing.T) {
	joinPayload := MessageJoinCourt{
		CourtID: 2,
		Name:    "ann",
		Side:    "left",
	}
	setInputPayload := MessageSetInput{
		CourtID:  1,
		PlayerID: "76ec22f4-8b3e-4f0a-b2f3-8f56b8bfa463",
		Input:    "high",
	}
	type args struct {
		msg []byte
	}
	tests := []struct {
		name     string
		args     args
		want     MessageType
		want1    interface{}
		wantKind errors.Kind
	}{
		{
			name: "join court",
			args: args{
				msg: marshalContainerMust(MessageContainer{
					MessageType: MessageTypeJoinCourt,
					Content:     convertToRawMessage(joinPayload),
				}),
			},
			want:  MessageTypeJoinCourt,
			want1: &joinPayload,
		},
		{
			name: "set input",
			args: args{
				msg: marshalContainerMust(MessageContainer{
					MessageType: MessageTypeSetInput,
					Content:     convertToRawMessage(setInputPayload),
				}),
			},
			want:  MessageTypeSetInput,
			want1: &setInputPayload,
		},
		{
			name: "get courts without content",
			args: args{
				msg: marshalContainerMust(MessageContainer{
					MessageType: MessageTypeGetCourts,
				}),
			},
			want:  MessageTypeGetCourts,
			want1: &MessageGetCourts{},
		},
		{
			name: "unknown message type",
			args: args{
				msg: marshalContainerMust(MessageContainer{
					MessageType: "do-the-dishes",
				}),
			},
			wantKind: errors.KindUnknownMessageType,
		},
		{
			name: "outbound-only message type",
			args: args{
				msg: marshalContainerMust(MessageContainer{
					MessageType: MessageTypeCourtState,
				}),
			},
			wantKind: errors.KindUnknownMessageType,
		},
		{
			name: "invalid json",
			args: args{
				msg: []byte("{oh no"),
			},
			wantKind: errors.KindDecodeJSON,
		},
		{
			name: "invalid payload",
			args: args{
				msg: marshalContainerMust(MessageContainer{
					MessageType: MessageTypeJoinCourt,
					Content:     json.RawMessage(`{"court_id":"not-a-number"}`),
				}),
			},
			wantKind: errors.KindDecodeJSON,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, got1, err := ParseMessage(tt.args.msg)
			if tt.wantKind != "" {
				if err == nil {
					t.Fatalf("ParseMessage() expected error of kind %v", tt.wantKind)
				}
				if !errors.Is(err, tt.wantKind) {
					t.Errorf("ParseMessage() error kind mismatch, want %v, got: %s", tt.wantKind, errors.Prettify(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMessage() unexpected error: %s", errors.Prettify(err))
			}
			if got != tt.want {
				t.Errorf("ParseMessage() got = %v, want %v", got, tt.want)
			}
			if !reflect.DeepEqual(got1, tt.want1) {
				t.Errorf("ParseMessage() got1 = %v, want %v", got1, tt.want1)
			}
		})
	}
}

func TestMarshalMessageRoundTrip(t *testing.T) {
	b, err := MarshalMessage(MessageTypeSetReady, MessageSetReady{CourtID: 0, PlayerID: "abc"})
	if err != nil {
		t.Fatalf("MarshalMessage() unexpected error: %s", errors.Prettify(err))
	}
	msgType, payload, err := ParseMessage(b)
	if err != nil {
		t.Fatalf("ParseMessage() unexpected error: %s", errors.Prettify(err))
	}
	if msgType != MessageTypeSetReady {
		t.Errorf("message type = %v, want %v", msgType, MessageTypeSetReady)
	}
	parsed, ok := payload.(*MessageSetReady)
	if !ok {
		t.Fatalf("payload has type %T, want *MessageSetReady", payload)
	}
	if parsed.PlayerID != "abc" {
		t.Errorf("player id = %v, want abc", parsed.PlayerID)
	}
}

func TestMessageErrorFromError(t *testing.T) {
	type args struct {
		err error
	}
	tests := []struct {
		name string
		args args
		want MessageError
	}{
		{
			name: "with user-blamable error",
			args: args{err: errors.NewSideTakenError(1, "left")},
			want: MessageError{
				Code:    string(errors.ErrBadRequest),
				Kind:    string(errors.KindSideTaken),
				Message: "side left already taken on court 1",
				Details: errors.Details{
					"court_id": 1,
					"side":     "left",
				},
			},
		},
		{
			name: "with internal error",
			args: args{err: errors.NewInternalErrorFromErr(nil, "secret database stuff", nil)},
			want: MessageError{
				Code:    string(errors.ErrInternal),
				Message: "internal server error",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MessageErrorFromError(tt.args.err)
			if got.Code != tt.want.Code || got.Kind != tt.want.Kind || got.Message != tt.want.Message {
				t.Errorf("MessageErrorFromError() = %v, want %v", got, tt.want)
			}
		})
	}
}
