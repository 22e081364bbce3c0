package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type StorageConfig struct {
	Backend         string        `mapstructure:"backend"`
	FileDir         string        `mapstructure:"file_dir"`
	Namespace       string        `mapstructure:"namespace"`
	PostgresURL     string        `mapstructure:"postgres_url"`
	MongoURI        string        `mapstructure:"mongo_uri"`
	MongoDatabase   string        `mapstructure:"mongo_database"`
	MongoCollection string        `mapstructure:"mongo_collection"`
	S3Bucket        string        `mapstructure:"s3_bucket"`
	S3Region        string        `mapstructure:"s3_region"`
	S3Prefix        string        `mapstructure:"s3_prefix"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type UploadConfig struct {
	MaxBytes       int64    `mapstructure:"max_bytes"`
	AllowedFormats []string `mapstructure:"allowed_formats"`
}

type EventsConfig struct {
	Sink            string `mapstructure:"sink"`
	FilePath        string `mapstructure:"file_path"`
	Topic           string `mapstructure:"topic"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`
	AMQPURL         string `mapstructure:"amqp_url"`
	AMQPExchange    string `mapstructure:"amqp_exchange"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	Seed             int64         `mapstructure:"seed"`
	SeriesDays       int           `mapstructure:"series_days"`
	PeriodComparison string        `mapstructure:"period_comparison"`
	FixedChanges     PeriodChanges `mapstructure:"fixed_changes"`
	Storage          StorageConfig `mapstructure:"storage"`
	LLM              LLMConfig     `mapstructure:"llm"`
	Upload           UploadConfig  `mapstructure:"upload"`
	Events           EventsConfig  `mapstructure:"events"`
	Server           ServerConfig  `mapstructure:"server"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("seed", 0)
	v.SetDefault("series_days", DefaultSeriesDays)
	v.SetDefault("period_comparison", "placeholder")
	v.SetDefault("fixed_changes.revenue", 0)
	v.SetDefault("fixed_changes.profit", 0)
	v.SetDefault("fixed_changes.orders", 0)
	v.SetDefault("fixed_changes.waste", 0)

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.file_dir", "./data")
	v.SetDefault("storage.namespace", "default")
	v.SetDefault("storage.mongo_database", "menusight")
	v.SetDefault("storage.mongo_collection", "snapshots")
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("storage.timeout", "5s")

	v.SetDefault("llm.provider", "none")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("upload.max_bytes", DefaultMaxUpload)
	v.SetDefault("upload.allowed_formats", []string{FormatCSV, FormatJSON, FormatText})

	v.SetDefault("events.sink", "none")
	v.SetDefault("events.topic", "menu_changes")
	v.SetDefault("events.kafka_broker_list", "localhost:9092")
	v.SetDefault("events.amqp_exchange", "menusight")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
}

// LoadConfig reads the configuration from the given viper instance. A config
// file is optional; defaults and MENUSIGHT_* environment variables always apply.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("menusight")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if c.SeriesDays <= 0 {
		return NewValidationError("series_days", "must be positive")
	}
	if c.Upload.MaxBytes <= 0 {
		return NewValidationError("upload.max_bytes", "must be positive")
	}
	switch c.PeriodComparison {
	case "placeholder", "fixed", "none":
	default:
		return NewValidationError("period_comparison", fmt.Sprintf("unknown strategy %q", c.PeriodComparison))
	}
	switch c.Storage.Backend {
	case "memory", "file", "postgres", "mongo", "s3":
	default:
		return NewValidationError("storage.backend", fmt.Sprintf("unknown backend %q", c.Storage.Backend))
	}
	return nil
}
