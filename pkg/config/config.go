package config

import (
	"fmt"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"
	"github.com/spf13/viper"
)

const (
	BackendFile    = "file"
	BackendMongoDB = "mongodb"
)

type Config struct {
	Predictor PredictorConfig
	Trainer   TrainerConfig
	Network   NetworkConfig
	Models    ModelsConfig
	Realtime  RealtimeConfig
}

type PredictorConfig struct {
	Window             time.Duration
	TimetableThreshold time.Duration
	// MaxHops of 0 uses the size of the network
	MaxHops int
}

type TrainerConfig struct {
	FetchConcurrency int
	HistoryDays      int
}

type NetworkConfig struct {
	File                string
	Equivalents         map[string]string
	PlatformInsensitive []string
}

type ModelsConfig struct {
	Directory string
	Backend   string
}

type RealtimeConfig struct {
	Refresh   time.Duration
	Consumers int
	BatchSize int
}

// Load reads the optional config file at path, then applies TRAVIGO_ prefixed environment overrides
// such as TRAVIGO_PREDICTOR_WINDOW
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("TRAVIGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Predictor: PredictorConfig{
			MaxHops: v.GetInt("predictor.max_hops"),
		},
		Trainer: TrainerConfig{
			FetchConcurrency: v.GetInt("trainer.fetch_concurrency"),
			HistoryDays:      v.GetInt("trainer.history_days"),
		},
		Network: NetworkConfig{
			File:                v.GetString("network.file"),
			Equivalents:         upperKeys(v.GetStringMapString("network.equivalents")),
			PlatformInsensitive: v.GetStringSlice("network.platform_insensitive"),
		},
		Models: ModelsConfig{
			Directory: v.GetString("models.directory"),
			Backend:   strings.ToLower(v.GetString("models.backend")),
		},
		Realtime: RealtimeConfig{
			Consumers: v.GetInt("realtime.consumers"),
			BatchSize: v.GetInt("realtime.batch_size"),
		},
	}

	durations := map[string]*time.Duration{
		"predictor.window":              &cfg.Predictor.Window,
		"predictor.timetable_threshold": &cfg.Predictor.TimetableThreshold,
		"realtime.refresh":              &cfg.Realtime.Refresh,
	}
	for key, target := range durations {
		parsed, err := ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		*target = parsed
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("predictor.window", "2h")
	v.SetDefault("predictor.timetable_threshold", "15m")
	v.SetDefault("predictor.max_hops", 0)

	v.SetDefault("trainer.fetch_concurrency", 8)
	v.SetDefault("trainer.history_days", 28)

	v.SetDefault("network.file", "network.yaml")
	v.SetDefault("network.equivalents", map[string]string{})
	v.SetDefault("network.platform_insensitive", []string{})

	v.SetDefault("models.directory", "./models")
	v.SetDefault("models.backend", BackendFile)

	v.SetDefault("realtime.refresh", "30s")
	v.SetDefault("realtime.consumers", 5)
	v.SetDefault("realtime.batch_size", 200)
}

// upperKeys restores location codes used as map keys, which viper lower cases
func upperKeys(values map[string]string) map[string]string {
	upper := make(map[string]string, len(values))
	for key, value := range values {
		upper[strings.ToUpper(key)] = value
	}

	return upper
}

// ParseDuration accepts Go durations (90s, 2h) and ISO8601 durations (PT2H)
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if strings.HasPrefix(strings.ToUpper(value), "P") {
		parsed, err := iso8601.ParseISO8601(strings.ToUpper(value))
		if err != nil {
			return 0, err
		}

		reference := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
		return parsed.Shift(reference).Sub(reference), nil
	}

	return time.ParseDuration(value)
}

func (c *Config) Validate() error {
	if c.Predictor.Window <= 0 {
		return fmt.Errorf("predictor.window must be positive")
	}
	if c.Predictor.TimetableThreshold <= 0 {
		return fmt.Errorf("predictor.timetable_threshold must be positive")
	}
	if c.Predictor.MaxHops < 0 {
		return fmt.Errorf("predictor.max_hops must not be negative")
	}

	if c.Trainer.FetchConcurrency < 1 {
		return fmt.Errorf("trainer.fetch_concurrency must be at least 1")
	}
	if c.Trainer.HistoryDays < 1 {
		return fmt.Errorf("trainer.history_days must be at least 1")
	}

	if c.Network.File == "" {
		return fmt.Errorf("network.file is required")
	}

	switch c.Models.Backend {
	case BackendFile:
		if c.Models.Directory == "" {
			return fmt.Errorf("models.directory is required for the file backend")
		}
	case BackendMongoDB:
	default:
		return fmt.Errorf("models.backend must be one of: %s, %s", BackendFile, BackendMongoDB)
	}

	if c.Realtime.Refresh <= 0 {
		return fmt.Errorf("realtime.refresh must be positive")
	}
	if c.Realtime.Consumers < 1 {
		return fmt.Errorf("realtime.consumers must be at least 1")
	}
	if c.Realtime.BatchSize < 1 {
		return fmt.Errorf("realtime.batch_size must be at least 1")
	}

	return nil
}
