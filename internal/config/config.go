package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hexfront/engine/internal/combat"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/recorder"
	"github.com/spf13/viper"
)

// FileName is looked up in the config directory.
const FileName = "hexfront.cfg.json"

// GameConfig describes the match to play.
type GameConfig struct {
	MapName      string `json:"mapName" mapstructure:"mapName"`
	PlayersCount int    `json:"playersCount" mapstructure:"playersCount"`
	// GameType is hotseat or single_vs_ai.
	GameType string `json:"gameType" mapstructure:"gameType"`
	// Turns bounds a headless match.
	Turns int `json:"turns" mapstructure:"turns"`
	// Seed of the dice. Zero picks a random seed.
	Seed uint64 `json:"seed" mapstructure:"seed"`
}

// Options converts the game section into match options.
func (g GameConfig) Options() (model.Options, error) {
	gt, err := model.ParseGameType(g.GameType)
	if err != nil {
		return model.Options{}, err
	}
	return model.Options{
		MapName:      g.MapName,
		PlayersCount: g.PlayersCount,
		GameType:     gt,
	}, nil
}

type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// Config is the whole hexfront.cfg.json file.
type Config struct {
	LogLevel string          `json:"logLevel" mapstructure:"logLevel"`
	LogsDir  string          `json:"logsDir" mapstructure:"logsDir"`
	Game     GameConfig      `json:"game" mapstructure:"game"`
	Combat   combat.Config   `json:"combat" mapstructure:"combat"`
	Graylog  GraylogConfig   `json:"graylog" mapstructure:"graylog"`
	OTel     OTelConfig      `json:"otel" mapstructure:"otel"`
	Recorder recorder.Config `json:"recorder" mapstructure:"recorder"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./hexfrontlogs")

	viper.SetDefault("game.mapName", "map02")
	viper.SetDefault("game.playersCount", 2)
	viper.SetDefault("game.gameType", "hotseat")
	viper.SetDefault("game.turns", 20)
	viper.SetDefault("game.seed", 0)

	def := combat.DefaultConfig()
	viper.SetDefault("combat.ambushChance", def.AmbushChance)
	viper.SetDefault("combat.perKillSuppression", def.PerKillSuppression)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "hexfront")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)

	viper.SetDefault("recorder.type", "none")
	viper.SetDefault("recorder.memory.outputDir", "./recordings")
	viper.SetDefault("recorder.memory.compressOutput", true)
	viper.SetDefault("recorder.sql.dsn", "")
	viper.SetDefault("recorder.sql.batchSize", 100)
	viper.SetDefault("recorder.influx.url", "http://localhost:8086")
	viper.SetDefault("recorder.influx.token", "")
	viper.SetDefault("recorder.influx.org", "hexfront")
	viper.SetDefault("recorder.influx.bucket", "matches")
}

// Load reads configuration from the JSON file in configDir on top of the
// defaults. A missing file leaves the defaults in place. Secrets tagged with
// env are taken from the environment last.
func Load(configDir string) (Config, error) {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %v", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
