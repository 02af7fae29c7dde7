package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Map        MapConfig        `yaml:"map" mapstructure:"map"`
	Prediction PredictionConfig `yaml:"prediction" mapstructure:"prediction"`
	Geocode    GeocodeConfig    `yaml:"geocode" mapstructure:"geocode"`
	Notify     NotifyConfig     `yaml:"notify" mapstructure:"notify"`
	Session    SessionConfig    `yaml:"session" mapstructure:"session"`
	Circuit    CircuitConfig    `yaml:"circuit" mapstructure:"circuit"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// MapConfig configures the map surface defaults.
type MapConfig struct {
	City         string  `yaml:"city" mapstructure:"city"`
	CenterLat    float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLng    float64 `yaml:"center_lng" mapstructure:"center_lng"`
	DefaultZoom  int     `yaml:"default_zoom" mapstructure:"default_zoom"`
	AreaZoom     int     `yaml:"area_zoom" mapstructure:"area_zoom"`
	SearchZoom   int     `yaml:"search_zoom" mapstructure:"search_zoom"`
	CircleRadius float64 `yaml:"circle_radius_m" mapstructure:"circle_radius_m"`
	TileURL      string  `yaml:"tile_url" mapstructure:"tile_url"`
}

// PredictionConfig selects and tunes the prediction backend.
type PredictionConfig struct {
	Backend     string `yaml:"backend" mapstructure:"backend"`
	LatencyMs   int    `yaml:"latency_ms" mapstructure:"latency_ms"`
	Seed        uint64 `yaml:"seed" mapstructure:"seed"`
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// GeocodeConfig configures the place search client.
type GeocodeConfig struct {
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
	RateLimit    float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	CacheTTLMins int     `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
}

// NotifyConfig configures transient notifications.
type NotifyConfig struct {
	TTLMs int `yaml:"ttl_ms" mapstructure:"ttl_ms"`
}

// SessionConfig configures page sessions.
type SessionConfig struct {
	IdleTTLMins int `yaml:"idle_ttl_mins" mapstructure:"idle_ttl_mins"`
	SweepSecs   int `yaml:"sweep_secs" mapstructure:"sweep_secs"`
	AnimationMs int `yaml:"animation_ms" mapstructure:"animation_ms"`
}

// CircuitConfig configures the circuit breakers around external calls.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRAFFIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("map.city", "Hyderabad")
	v.SetDefault("map.center_lat", 17.385044)
	v.SetDefault("map.center_lng", 78.486671)
	v.SetDefault("map.default_zoom", 12)
	v.SetDefault("map.area_zoom", 15)
	v.SetDefault("map.search_zoom", 13)
	v.SetDefault("map.circle_radius_m", 2000)
	v.SetDefault("map.tile_url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("prediction.backend", "stub")
	v.SetDefault("prediction.latency_ms", 1000)
	v.SetDefault("prediction.timeout_secs", 10)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "traffic-cli/1.0")
	v.SetDefault("geocode.rate_limit", 1.0)
	v.SetDefault("geocode.timeout_secs", 15)
	v.SetDefault("geocode.cache_ttl_mins", 60)
	v.SetDefault("notify.ttl_ms", 3000)
	v.SetDefault("session.idle_ttl_mins", 30)
	v.SetDefault("session.sweep_secs", 60)
	v.SetDefault("session.animation_ms", 1000)
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return eris.New("config: server.port must be > 0")
	}
	switch c.Prediction.Backend {
	case "stub":
	case "remote":
		if c.Prediction.Endpoint == "" {
			return eris.New("config: prediction.endpoint is required for the remote backend")
		}
	default:
		return eris.Errorf("config: unknown prediction backend %q", c.Prediction.Backend)
	}
	if c.Notify.TTLMs <= 0 {
		return eris.New("config: notify.ttl_ms must be positive")
	}
	if c.Map.CircleRadius <= 0 {
		return eris.New("config: map.circle_radius_m must be positive")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
