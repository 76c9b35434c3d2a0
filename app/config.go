package app

import (
	"encoding/json"
	"os"

	"github.com/gobuffalo/nulls"
	"github.com/pitchpong/pitchpong-server/errors"
	"go.uber.org/zap/zapcore"
)

// Defaults for optional config values.
const (
	defaultServeAddr    = ":8080"
	defaultCourtCount   = 4
	defaultTickRate     = 60
	defaultGracePeriodS = 7
	defaultLogMaxSize   = 50
	defaultLogKeepDays  = 28
)

// Config is the configuration needed in order to boot an App.
type Config struct {
	// ServeAddr is the address the app will listen for connections on.
	ServeAddr string `json:"serve_addr"`
	// CourtCount is the fixed number of courts to run.
	CourtCount int `json:"court_count"`
	// TickRate is the simulation rate in frames per second.
	TickRate int `json:"tick_rate"`
	// GracePeriodS is the post-match grace period in seconds before courts are
	// force-cleared and reset.
	GracePeriodS int `json:"grace_period_s"`
	// MQTTAddr is the optional address of an MQTT-server to publish lobby and
	// result updates to.
	MQTTAddr nulls.String `json:"mqtt_addr"`
	// Log is the logging configuration.
	Log LogConfig `json:"log"`
}

// LogConfig is the configuration for log outputs.
type LogConfig struct {
	// StdoutLogLevel is the minimum level for stdout logging.
	StdoutLogLevel zapcore.Level `json:"stdout_log_level"`
	// HighPriorityOutput is the optional filename for warn and above.
	HighPriorityOutput nulls.String `json:"high_priority_output"`
	// DebugOutput is the optional filename for debug logging.
	DebugOutput nulls.String `json:"debug_output"`
	// MaxSize is the maximum log file size in megabytes before rotation.
	MaxSize int `json:"max_size"`
	// KeepDays is the amount of days to keep rotated log files.
	KeepDays int `json:"keep_days"`
}

// LoadConfig reads the Config from the file at the given path and applies
// defaults for unset optional values.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.FromErr("read config file", errors.ErrFatal, err,
			errors.Details{"path": path})
	}
	var config Config
	if err := json.Unmarshal(b, &config); err != nil {
		return Config{}, errors.FromErr("parse config file", errors.ErrFatal, err,
			errors.Details{"path": path})
	}
	applyConfigDefaults(&config)
	return config, nil
}

func applyConfigDefaults(config *Config) {
	if config.ServeAddr == "" {
		config.ServeAddr = defaultServeAddr
	}
	if config.CourtCount == 0 {
		config.CourtCount = defaultCourtCount
	}
	if config.TickRate == 0 {
		config.TickRate = defaultTickRate
	}
	if config.GracePeriodS == 0 {
		config.GracePeriodS = defaultGracePeriodS
	}
	if config.Log.MaxSize == 0 {
		config.Log.MaxSize = defaultLogMaxSize
	}
	if config.Log.KeepDays == 0 {
		config.Log.KeepDays = defaultLogKeepDays
	}
}

// ValidateConfig checks the given Config for values that would not allow
// booting.
func ValidateConfig(config Config) error {
	if config.ServeAddr == "" {
		return errors.Error{
			Code:    errors.ErrFatal,
			Message: "no serve address provided",
		}
	}
	if config.CourtCount < 1 {
		return errors.Error{
			Code:    errors.ErrFatal,
			Message: "court count must be positive",
			Details: errors.Details{"court_count": config.CourtCount},
		}
	}
	if config.TickRate < 1 {
		return errors.Error{
			Code:    errors.ErrFatal,
			Message: "tick rate must be positive",
			Details: errors.Details{"tick_rate": config.TickRate},
		}
	}
	if config.GracePeriodS < 1 {
		return errors.Error{
			Code:    errors.ErrFatal,
			Message: "grace period must be positive",
			Details: errors.Details{"grace_period_s": config.GracePeriodS},
		}
	}
	return nil
}
