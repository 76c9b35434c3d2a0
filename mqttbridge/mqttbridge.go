// Package mqttbridge publishes court summaries and match results to an
// MQTT-server so external scoreboards can subscribe without holding a
// websocket connection.
package mqttbridge

import (
	"context"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pitchpong/pitchpong-server/errors"
	"github.com/pitchpong/pitchpong-server/logging"
	"github.com/pitchpong/pitchpong-server/messages"
	"github.com/pitchpong/pitchpong-server/util"
	"go.uber.org/zap"
)

const mqttQOS = 0

// mqttBuffer is the buffer size for pending publishes. Further publishes are
// dropped so a slow broker cannot stall the simulation.
const mqttBuffer = 64

const (
	// summariesTopic carries the retained lobby view.
	summariesTopic = "pitchpong/courts"
	// resultsTopicFormat carries final match results per court.
	resultsTopicFormat = "pitchpong/results/%d"
)

// Config is the config for the Bridge.
type Config struct {
	// MQTTAddr is the address where the MQTT-server is found.
	MQTTAddr string
}

// Bridge publishes lobby and result updates to an MQTT-server.
type Bridge interface {
	// Run runs the Bridge. Never call it twice!
	Run(ctx context.Context) error
	// PublishCourtSummaries publishes the lobby view as retained message.
	PublishCourtSummaries(summaries []messages.CourtSummary)
	// PublishMatchResult publishes the final result of a finished match.
	PublishMatchResult(courtID int, result messages.MatchResult)
}

type mqttMessage struct {
	topic    string
	retained bool
	payload  []byte
}

// netBridge is the implementation of Bridge.
type netBridge struct {
	// config is the configuration to use for connecting.
	config  Config
	publish chan mqttMessage
}

// NewBridge creates a new Bridge. Run it with Bridge.Run.
func NewBridge(config Config) Bridge {
	return &netBridge{
		config:  config,
		publish: make(chan mqttMessage, mqttBuffer),
	}
}

func (bridge *netBridge) Run(ctx context.Context) error {
	clientOptions := mqtt.NewClientOptions().AddBroker(bridge.config.MQTTAddr).
		SetClientID("pitchpong-server")
	c := mqtt.NewClient(clientOptions)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return errors.Error{
			Code:    errors.ErrInternal,
			Err:     token.Error(),
			Message: "connect to mqtt",
			Details: errors.Details{"mqtt_addr": bridge.config.MQTTAddr},
		}
	}
	logging.MQTTLogger.Info("connected to mqtt server",
		zap.String("mqtt_addr", bridge.config.MQTTAddr))
	// Start message forwarding.
	go forwardMQTT(ctx, bridge.publish, c)
	// Wait for ctx finished.
	<-ctx.Done()
	// Wait a maximum of 5 seconds for finishing up.
	c.Disconnect(5000)
	return ctx.Err()
}

// PublishCourtSummaries publishes the lobby view as retained message.
func (bridge *netBridge) PublishCourtSummaries(summaries []messages.CourtSummary) {
	b, err := util.EncodeAsJSON(messages.MessageCourtSummaries{Courts: summaries})
	if err != nil {
		errors.Log(logging.MQTTLogger, errors.Wrap(err, "encode court summaries", nil))
		return
	}
	bridge.enqueue(mqttMessage{topic: summariesTopic, retained: true, payload: b})
}

// PublishMatchResult publishes the final result of a finished match.
func (bridge *netBridge) PublishMatchResult(courtID int, result messages.MatchResult) {
	b, err := util.EncodeAsJSON(messages.MessageMatchResult{CourtID: courtID, Result: result})
	if err != nil {
		errors.Log(logging.MQTTLogger, errors.Wrap(err, "encode match result", nil))
		return
	}
	bridge.enqueue(mqttMessage{topic: fmt.Sprintf(resultsTopicFormat, courtID), payload: b})
}

func (bridge *netBridge) enqueue(message mqttMessage) {
	select {
	case bridge.publish <- message:
	default:
		logging.MQTTLogger.Warn("dropping mqtt message due to full publish buffer",
			zap.String("message_topic", message.topic))
	}
}

// forwardMQTT pumps messages from the given channel to the mqtt.Client.
func forwardMQTT(ctx context.Context, from chan mqttMessage, to mqtt.Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-from:
			logging.MQTTLogger.Debug("publishing mqtt message",
				zap.String("message_topic", message.topic))
			token := to.Publish(message.topic, mqttQOS, message.retained, message.payload)
			token.Wait()
			if err := token.Error(); err != nil {
				errors.Log(logging.MQTTLogger, errors.NewInternalErrorFromErr(err, "publish mqtt message",
					errors.Details{"message_topic": message.topic}))
			}
		}
	}
}
