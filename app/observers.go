package app

import (
	"github.com/pitchpong/pitchpong-server/client"
	"github.com/pitchpong/pitchpong-server/messages"
	"github.com/pitchpong/pitchpong-server/mqttbridge"
	"github.com/pitchpong/pitchpong-server/sessions"
)

// observerFanout fans court notifications out to the session manager and, when
// configured, the MQTT bridge.
type observerFanout struct {
	sessions *sessions.Manager
	mqtt     mqttbridge.Bridge
}

func (f *observerFanout) NotifyCourtState(recipients []*client.Client, courtID int, state messages.CourtState) {
	f.sessions.NotifyCourtState(recipients, courtID, state)
}

func (f *observerFanout) NotifyPlayerJoined(recipients []*client.Client, courtID int, player messages.PlayerInfo) {
	f.sessions.NotifyPlayerJoined(recipients, courtID, player)
}

func (f *observerFanout) NotifyPlayerLeft(recipients []*client.Client, courtID int, player messages.PlayerInfo) {
	f.sessions.NotifyPlayerLeft(recipients, courtID, player)
}

func (f *observerFanout) NotifyPlayerReady(recipients []*client.Client, courtID int, player messages.PlayerInfo) {
	f.sessions.NotifyPlayerReady(recipients, courtID, player)
}

func (f *observerFanout) NotifyMatchFinished(recipients []*client.Client, courtID int, result messages.MatchResult) {
	f.sessions.NotifyMatchFinished(recipients, courtID, result)
	if f.mqtt != nil {
		f.mqtt.PublishMatchResult(courtID, result)
	}
}

func (f *observerFanout) NotifyCourtSummaries(summaries []messages.CourtSummary) {
	f.sessions.NotifyCourtSummaries(summaries)
	if f.mqtt != nil {
		f.mqtt.PublishCourtSummaries(summaries)
	}
}

func (f *observerFanout) CloseClients(clients []*client.Client) {
	f.sessions.CloseClients(clients)
}
