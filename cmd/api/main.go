package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	adactor "github.com/berfenger/ariston2mqtt/internal/adapter/actor"
	"github.com/berfenger/ariston2mqtt/internal/ariston"
	"github.com/berfenger/ariston2mqtt/internal/config"
	"github.com/berfenger/ariston2mqtt/internal/core/actor"
	"github.com/berfenger/ariston2mqtt/internal/core/coordinator"
	"github.com/berfenger/ariston2mqtt/internal/core/domain"
	"github.com/berfenger/ariston2mqtt/internal/server"
	"github.com/berfenger/ariston2mqtt/internal/util/actorutil"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {

	// load and print config
	cfg, err := initConfig()
	if err != nil {
		slog.Error("config errors", "error", err)
		os.Exit(1)
	}
	safePrintConfig(*cfg)

	descriptions, err := domain.SelectDescriptions(cfg.Selects)
	if err != nil {
		slog.Error("config errors", "error", err)
		os.Exit(1)
	}

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())
	defer logger.Sync()

	// connect to the plant and load the first snapshot
	device, err := createDevice(cfg, logger)
	if err != nil {
		logger.Fatal("device", zap.Error(err))
	}
	data := coordinator.NewDeviceDataCoordinator(device,
		time.Duration(cfg.CoordinatorConfig.PollIntervalMillis)*time.Millisecond)
	energy := coordinator.NewEnergyCoordinator(device,
		time.Duration(cfg.CoordinatorConfig.EnergyPollIntervalMillis)*time.Millisecond)
	for _, c := range []*coordinator.DataCoordinator{data, energy} {
		if err := firstRefresh(c, cfg); err != nil {
			logger.Fatal("first refresh", zap.String("coordinator", c.Name()), zap.Error(err))
		}
	}
	logger.Info("plant ready", zap.String("gateway", device.GatewayId()),
		zap.Bool("metering", device.Features()[ariston.HAS_METERING]),
		zap.Bool("extra_energy_features", device.ExtraEnergyFeatures()))

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, data, energy, descriptions, mqttActorProvider(cfg, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	if err != nil {
		logger.Fatal("spawn master", zap.Error(err))
	}

	server := server.NewServer(*cfg, ctx, pid)
	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(server, done)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")

	ctx.Stop(pid)
	as.Shutdown()
}

func initConfig() (*config.Config, error) {

	// alias PORT => ARISTON2MQTT_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("ARISTON2MQTT_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("ariston2mqtt")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			viper.SetConfigFile(cfgFile)

			err = viper.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	// parse log level
	switch viper.GetString("log_level") {
	case "trace":
		cfg.LogLevel = zap.DebugLevel
	case "debug":
		cfg.LogLevel = zap.DebugLevel
	case "info":
		cfg.LogLevel = zap.InfoLevel
	case "error":
		cfg.LogLevel = zap.ErrorLevel
	case "warn":
		cfg.LogLevel = zap.WarnLevel
	case "fatal":
		cfg.LogLevel = zap.FatalLevel
	default:
		cfg.LogLevel = zap.InfoLevel
	}

	// check and fix base topic
	baseTopic, err := config.CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return nil, errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := config.CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return nil, errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	// check bounds
	if cfg.CoordinatorConfig.PollIntervalMillis < 10000 {
		return nil, errors.New("config param coordinator.poll_interval_millis should be >= 10000")
	}
	if cfg.CoordinatorConfig.EnergyPollIntervalMillis < 10000 {
		return nil, errors.New("config param coordinator.energy_poll_interval_millis should be >= 10000")
	}
	if cfg.Ariston.RequestTimeoutMillis < 1000 {
		return nil, errors.New("config param ariston.request_timeout_millis should be >= 1000")
	}
	if cfg.Ariston.FixtureFile == "" && (cfg.Ariston.Username == "" || cfg.Ariston.Password == "") {
		return nil, errors.New("config params ariston.username and ariston.password are required")
	}

	return &cfg, nil
}

func createDevice(cfg *config.Config, logger *zap.Logger) (ariston.Device, error) {
	if cfg.Ariston.FixtureFile != "" {
		logger.Warn("using fixture device, no cloud connection", zap.String("file", cfg.Ariston.FixtureFile))
		return ariston.LoadFixtureDevice(cfg.Ariston.FixtureFile)
	}

	timeout := time.Duration(cfg.Ariston.RequestTimeoutMillis) * time.Millisecond
	dev := ariston.NewCloudDevice(ariston.CloudOptions{
		BaseURL:             cfg.Ariston.BaseURL,
		Username:            cfg.Ariston.Username,
		Password:            cfg.Ariston.Password,
		Gateway:             cfg.Ariston.Gateway,
		ExtraEnergyFeatures: cfg.Ariston.ExtraEnergyFeatures,
		HTTPClient:          &http.Client{Timeout: timeout},
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 3*timeout)
	defer cancel()
	if err := dev.Connect(ctx); err != nil {
		return nil, err
	}
	return dev, nil
}

func firstRefresh(c *coordinator.DataCoordinator, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Ariston.RequestTimeoutMillis)*time.Millisecond)
	defer cancel()
	return c.Refresh(ctx)
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	return func(es *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, es, logger)
	}
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("port", 8080)
	viper.SetDefault("http_log", false)
	viper.SetDefault("ariston.base_url", ariston.DEFAULT_BASE_URL)
	viper.SetDefault("ariston.username", "")
	viper.SetDefault("ariston.password", "")
	viper.SetDefault("ariston.gateway", "")
	viper.SetDefault("ariston.extra_energy_features", false)
	viper.SetDefault("ariston.fixture_file", "")
	viper.SetDefault("ariston.request_timeout_millis", 10000)
	viper.SetDefault("coordinator.poll_interval_millis", 60000)
	viper.SetDefault("coordinator.energy_poll_interval_millis", 300000)
	viper.SetDefault("mqtt.host", "localhost")
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")
	viper.SetDefault("mqtt.ha_discovery_enable", true)
	viper.SetDefault("mqtt.base_topic", "ariston")
	viper.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
}

func safePrintConfig(cfg config.Config) {
	cfg.Ariston.Password = "*redacted*"
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	slog.Info("Using", "config", cfg)
}
