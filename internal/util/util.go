package util

import (
	"github.com/berfenger/ariston2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Ariston: config.AristonConfig{
			Username:             "user@example.com",
			Password:             "secret",
			ExtraEnergyFeatures:  true,
			RequestTimeoutMillis: 2000,
		},
		MQTT: config.MQTTConfig{
			Host:              "localhost",
			Port:              1883,
			BaseTopic:         "ariston",
			HADiscoveryEnable: true,
			HADiscoveryTopic:  "homeassistant",
		},
		CoordinatorConfig: config.CoordinatorConfig{
			PollIntervalMillis:       60000,
			EnergyPollIntervalMillis: 60000,
		},
		Port: 8080,
	}
}
