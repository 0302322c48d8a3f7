// Reactor Core - recipe step execution engine.
//
// This is the main entry point for the Reactor Core node. It wires
// the hardware facade, the step runner, the telemetry sampler, and
// the HTTP/WebSocket control plane together and runs them until a
// shutdown signal arrives.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/opencell/reactor-core/migrations"

	"github.com/opencell/reactor-core/internal/api"
	_ "github.com/opencell/reactor-core/internal/hardware/dispenser"
	_ "github.com/opencell/reactor-core/internal/hardware/gcode"
	_ "github.com/opencell/reactor-core/internal/hardware/gpiochip"
	_ "github.com/opencell/reactor-core/internal/hardware/stirrer"
	_ "github.com/opencell/reactor-core/internal/hardware/tempcontrol"
	_ "github.com/opencell/reactor-core/internal/hardware/thermometer"
	"github.com/opencell/reactor-core/internal/infrastructure/config"
	"github.com/opencell/reactor-core/internal/infrastructure/database"
	"github.com/opencell/reactor-core/internal/infrastructure/influxdb"
	"github.com/opencell/reactor-core/internal/infrastructure/logging"
	"github.com/opencell/reactor-core/internal/infrastructure/mqtt"
	"github.com/opencell/reactor-core/internal/reactor"
	"github.com/opencell/reactor-core/internal/runlog"
	"github.com/opencell/reactor-core/internal/runner"
	"github.com/opencell/reactor-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Reactor Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Run history store
	runs := runlog.NewSQLiteRepository(db.DB)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT, cfg.Site.ID)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Build the rig. A failed load is not fatal: the control plane
	// keeps serving so an operator can fix the descriptor file and
	// reload over the API.
	manager := reactor.NewManager(cfg.Hardware.ConfigFile, cfg.Hardware.Speedup, reactor.RealClock(), log)
	if startErr := manager.Start(); startErr != nil {
		log.Error("hardware failed to start, waiting for reload",
			"config", cfg.Hardware.ConfigFile,
			"error", startErr,
		)
	} else {
		log.Info("hardware loaded",
			"config", cfg.Hardware.ConfigFile,
			"speedup", cfg.Hardware.Speedup,
		)
	}
	defer func() {
		log.Info("closing hardware")
		if closeErr := manager.Close(); closeErr != nil {
			log.Error("error closing hardware", "error", closeErr)
		}
	}()

	// WebSocket hub, shared by the API server, the step notifier and
	// the telemetry sampler.
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	// Step runner with MQTT and WebSocket lifecycle notifications
	topics := mqtt.Topics{Rig: cfg.Site.ID}
	notifier := &stepNotifier{mqtt: mqttClient, topics: topics, hub: hub, log: log}
	stepRunner := runner.New(runs, notifier, log)

	// Telemetry sampler
	if cfg.Telemetry.Enabled {
		var metrics telemetry.MetricsWriter
		if influxClient != nil {
			metrics = influxClient
		}
		var publisher telemetry.Publisher
		if mqttClient != nil {
			publisher = mqttClient
		}
		sampler := telemetry.New(manager, cfg.Site.ID, cfg.TelemetryInterval(),
			metrics, publisher, topics.Temperature(), hub, log)
		go sampler.Run(ctx)
		log.Info("telemetry sampler started", "interval", cfg.TelemetryInterval())
	} else {
		log.Info("telemetry disabled")
	}

	// HTTP API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		Manager:     manager,
		Runner:      stepRunner,
		Runs:        runs,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify infrastructure connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Stop any running step before the deferred teardown; all
	// actuators are off when Stop returns.
	if stopErr := stepRunner.Stop(); stopErr != nil && !errors.Is(stopErr, runner.ErrNoActiveStep) {
		log.Error("error stopping active step", "error", stopErr)
	}

	log.Info("Reactor Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses REACTOR_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("REACTOR_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// stepNotifier relays step lifecycle events to MQTT and the WebSocket
// hub. Both sinks are best-effort: a dead broker must not block a
// running step.
type stepNotifier struct {
	mqtt   *mqtt.Client
	topics mqtt.Topics
	hub    *api.Hub
	log    *logging.Logger
}

func (n *stepNotifier) StepStarted(run runlog.StepRun) {
	n.publish(run, "started")
}

func (n *stepNotifier) StepFinished(run runlog.StepRun) {
	n.publish(run, run.Status)
}

func (n *stepNotifier) publish(run runlog.StepRun, event string) {
	if n.hub != nil {
		n.hub.Broadcast(api.ChannelStepEvents, map[string]any{
			"event": event,
			"run":   run,
		})
	}

	if n.mqtt == nil {
		return
	}
	payload, err := json.Marshal(run)
	if err != nil {
		n.log.Error("marshalling step event", "run_id", run.ID, "error", err)
		return
	}
	if err := n.mqtt.Publish(n.topics.StepEvent(run.Kind, event), payload, 1, false); err != nil {
		n.log.Error("publishing step event", "run_id", run.ID, "event", event, "error", err)
	}
}
