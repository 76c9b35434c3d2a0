package app

import (
	"context"
	"os"
	"time"

	"github.com/pitchpong/pitchpong-server/courts"
	"github.com/pitchpong/pitchpong-server/errors"
	"github.com/pitchpong/pitchpong-server/logging"
	"github.com/pitchpong/pitchpong-server/mqttbridge"
	"github.com/pitchpong/pitchpong-server/sessions"
	"github.com/pitchpong/pitchpong-server/web_server"
	"github.com/pitchpong/pitchpong-server/ws"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

// App is a complete pitchpong server instance.
type App struct {
	// config is the main config used for the App.
	config Config
	// webServer is used for http requests and websocket connections.
	webServer *web_server.WebServer
	// wsHub is the hub for websocket connections.
	wsHub *ws.Hub
	// sessionManager binds connections to the court orchestration.
	sessionManager *sessions.Manager
	// orchestrator owns the fixed court pool.
	orchestrator *courts.Orchestrator
	// mqttBridge publishes lobby updates to an MQTT-server if an address is
	// provided.
	mqttBridge mqttbridge.Bridge
}

func NewApp(config Config) *App {
	return &App{
		config: config,
	}
}

// Boot sets everything up based on the set config and boots.
func (app *App) Boot(ctx context.Context) error {
	// Validate config.
	err := ValidateConfig(app.config)
	if err != nil {
		return errors.Error{
			Code:    errors.ErrFatal,
			Err:     err,
			Message: "invalid config",
		}
	}
	// Setup logger.
	logger := setupLogging(app.config.Log)
	logging.ApplyToGlobalLoggers(logger)
	defer func(loggerToSync *zap.Logger) {
		_ = loggerToSync.Sync()
	}(logger)
	// Boot.
	err = app.boot(ctx)
	if err != nil {
		err = errors.Wrap(err, "boot", nil)
		errors.Log(logging.AppLogger, err)
		return err
	}
	return nil
}

func (app *App) boot(ctx context.Context) error {
	logging.AppLogger.Warn("booting up")
	// Create session manager.
	app.sessionManager = sessions.NewManager()
	// Create MQTT bridge if address is provided.
	if app.config.MQTTAddr.Valid {
		app.mqttBridge = mqttbridge.NewBridge(mqttbridge.Config{MQTTAddr: app.config.MQTTAddr.String})
	}
	// Create orchestrator.
	app.orchestrator = courts.NewOrchestrator(courts.Config{
		CourtCount:  app.config.CourtCount,
		TickRate:    app.config.TickRate,
		GracePeriod: time.Duration(app.config.GracePeriodS) * time.Second,
	}, &observerFanout{
		sessions: app.sessionManager,
		mqtt:     app.mqttBridge,
	})
	app.sessionManager.BindCourts(app.orchestrator)
	// Create websocket hub.
	app.wsHub = ws.NewHub(app.sessionManager)
	app.sessionManager.BindCloser(app.wsHub)
	// Create web server.
	webServer, err := web_server.NewWebServer(web_server.Config{
		ServeAddr:    app.config.ServeAddr,
		WriteTimeout: web_server.DefaultWriteTimeout,
		ReadTimeout:  web_server.DefaultReadTimeout,
	})
	if err != nil {
		return errors.Wrap(err, "create web server", nil)
	}
	app.webServer = webServer
	app.webServer.PopulateRoutes(app.wsHub, ctx)
	logging.AppLogger.Debug("setup completed. booting...")
	// Boot everything.
	g, bootCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.wsHub.Run(bootCtx)
		return nil
	})
	g.Go(func() error {
		app.orchestrator.Run(bootCtx)
		return nil
	})
	g.Go(func() error {
		return app.webServer.Run(bootCtx)
	})
	if app.mqttBridge != nil {
		g.Go(func() error {
			if err := app.mqttBridge.Run(bootCtx); err != nil && err != context.Canceled {
				// A missing MQTT-server must not take the courts down.
				errors.Log(logging.AppLogger, errors.Wrap(err, "run mqtt bridge", nil))
			}
			return nil
		})
	}
	logging.AppLogger.Warn("completed issuing boot commands")
	// Wait for exit.
	err = g.Wait()
	logging.AppLogger.Warn("shutting down")
	return err
}

func setupLogging(config LogConfig) *zap.Logger {
	encConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	cores := make([]zapcore.Core, 0)
	// Setup stdout logger with colorful level output.
	stdOutEncConfig := encConfig
	stdOutEncConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores = append(cores, zapcore.NewCore(
		zapcore.NewConsoleEncoder(stdOutEncConfig),
		zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(level zapcore.Level) bool {
			return level >= config.StdoutLogLevel
		})))
	// Setup error logger.
	cores = append(cores, zapcore.NewCore(
		zapcore.NewConsoleEncoder(encConfig),
		zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(level zapcore.Level) bool {
			return level >= zap.ErrorLevel
		})))
	// Setup high priority logger.
	if config.HighPriorityOutput.Valid {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename: config.HighPriorityOutput.String,
				MaxSize:  config.MaxSize,
				MaxAge:   config.KeepDays,
			}),
			zap.LevelEnablerFunc(func(level zapcore.Level) bool {
				return level >= zap.WarnLevel
			})))
	}
	// Setup debug logger.
	if config.DebugOutput.Valid {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename: config.DebugOutput.String,
				MaxSize:  config.MaxSize,
				MaxAge:   config.KeepDays,
			}),
			zap.LevelEnablerFunc(func(level zapcore.Level) bool {
				return level >= zap.DebugLevel
			})))
	}
	// Combine.
	return zap.New(zapcore.NewTee(cores...))
}
