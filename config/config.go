// Initializing common application configuration
package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Upload      UploadConfig      `mapstructure:"upload"`
	Compression CompressionConfig `mapstructure:"compression"`
	Pricing     PricingConfig     `mapstructure:"pricing"`
}

type ServerConfig struct {
	AppVersion  string        `mapstructure:"app_version"`
	Host        string        `mapstructure:"host"`
	Port        string        `mapstructure:"port"`
	Timeout     time.Duration `mapstructure:"timeout"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	Mode        string        `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	EstimateTTL  time.Duration `mapstructure:"estimate_ttl"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

// StorageConfig points at an S3-compatible object storage backend.
// Endpoint and AccessKey are the two values the upload pipeline cannot
// work without; their absence is reported as a configuration error.
type StorageConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type UploadConfig struct {
	MaxFileSize     int64         `mapstructure:"max_file_size"`
	MinDimension    int           `mapstructure:"min_dimension"`
	ErrorClearDelay time.Duration `mapstructure:"error_clear_delay"`
}

type CompressionConfig struct {
	MaxLongEdge  int     `mapstructure:"max_long_edge"`
	MaxBytes     int64   `mapstructure:"max_bytes"`
	QualityStart float64 `mapstructure:"quality_start"`
	QualityFloor float64 `mapstructure:"quality_floor"`
	QualityStep  float64 `mapstructure:"quality_step"`
	MaxAttempts  int     `mapstructure:"max_attempts"`
}

type PricingConfig struct {
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")
	viperInstance.AutomaticEnv()

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Upload.MaxFileSize == 0 {
		c.Upload.MaxFileSize = 10 << 20
	}
	if c.Upload.MinDimension == 0 {
		c.Upload.MinDimension = 200
	}
	if c.Upload.ErrorClearDelay == 0 {
		c.Upload.ErrorClearDelay = 5 * time.Second
	}
	if c.Compression.MaxLongEdge == 0 {
		c.Compression.MaxLongEdge = 1800
	}
	if c.Compression.MaxBytes == 0 {
		c.Compression.MaxBytes = 1_200_000
	}
	if c.Compression.QualityStart == 0 {
		c.Compression.QualityStart = 0.85
	}
	if c.Compression.QualityFloor == 0 {
		c.Compression.QualityFloor = 0.60
	}
	if c.Compression.QualityStep == 0 {
		c.Compression.QualityStep = 0.10
	}
	if c.Compression.MaxAttempts == 0 {
		c.Compression.MaxAttempts = 5
	}
	if c.Pricing.InitialDelay == 0 {
		c.Pricing.InitialDelay = 5 * time.Second
	}
	if c.Pricing.PollInterval == 0 {
		c.Pricing.PollInterval = 5 * time.Second
	}
	if c.Pricing.MaxAttempts == 0 {
		c.Pricing.MaxAttempts = 8
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
