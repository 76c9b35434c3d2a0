package logging

import "go.uber.org/zap"

// Loggers.
var (
	// AppLogger is the main app.App logger.
	AppLogger = zap.NewNop()
	// CourtsLogger is the logger for the courts package.
	CourtsLogger = zap.NewNop()
	// GameLogger is used for stuff regarding match simulation.
	GameLogger = zap.NewNop()
	// SchedulingLogger is the logger for the delayed task scheduler.
	SchedulingLogger = zap.NewNop()
	// SessionsLogger is used for session management and message routing.
	SessionsLogger = zap.NewNop()
	// WebServerLogger is used for all stuff regarding web servers.
	WebServerLogger = zap.NewNop()
	// WSLogger is used for all stuff regarding websocket connections.
	WSLogger = zap.NewNop()
	// MQTTLogger is the logger for all MQTT stuff.
	MQTTLogger = zap.NewNop()
)

// ApplyToGlobalLoggers applies the given zap.Logger to all global loggers, each
// named with its topic.
func ApplyToGlobalLoggers(logger *zap.Logger) {
	AppLogger = logger.Named("app")
	CourtsLogger = logger.Named("courts")
	GameLogger = logger.Named("game")
	SchedulingLogger = logger.Named("scheduling")
	SessionsLogger = logger.Named("sessions")
	WebServerLogger = logger.Named("web-server")
	WSLogger = logger.Named("ws")
	MQTTLogger = logger.Named("mqtt")
}
