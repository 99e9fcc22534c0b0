package config

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel          zapcore.Level
	Ariston           AristonConfig     `mapstructure:"ariston"`
	MQTT              MQTTConfig        `mapstructure:"mqtt"`
	CoordinatorConfig CoordinatorConfig `mapstructure:"coordinator"`
	Selects           []SelectConfig    `mapstructure:"selects"`
	Port              uint              `mapstructure:"port"`
	HttpLog           bool              `mapstructure:"http_log"`
}

type AristonConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	Username             string
	Password             string
	Gateway              string
	ExtraEnergyFeatures  bool   `mapstructure:"extra_energy_features"`
	FixtureFile          string `mapstructure:"fixture_file"`
	RequestTimeoutMillis uint32 `mapstructure:"request_timeout_millis"`
}

type CoordinatorConfig struct {
	PollIntervalMillis       uint32 `mapstructure:"poll_interval_millis"`
	EnergyPollIntervalMillis uint32 `mapstructure:"energy_poll_interval_millis"`
}

// SelectConfig declares an extra consumption setting exposed as a select entity.
type SelectConfig struct {
	Key     string
	Name    string
	Icon    string
	Options []SelectOptionConfig
}

type SelectOptionConfig struct {
	Name  string
	Value int
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
