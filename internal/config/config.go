package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Storage    Storage    `yaml:"storage"`
	StorageDB  Database   `yaml:"storage_db" env-prefix:"STORAGE_DB_"`
	AnalysisDB Database   `yaml:"analysis_db" env-prefix:"ANALYSIS_DB_"`
	Analysis   Analysis   `yaml:"analysis"`
	Kafka      Kafka      `yaml:"kafka"`
	Gateway    Gateway    `yaml:"gateway"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_SERVER_ADDRESS" env-default:"0.0.0.0:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"120s"`
	// MaxUploadSize caps multipart bodies accepted by POST /works.
	MaxUploadSize int64 `yaml:"max_upload_size" env:"HTTP_SERVER_MAX_UPLOAD_SIZE" env-default:"33554432"`
}

type Storage struct {
	// BlobType is one of "memory", "filesystem" or "s3".
	BlobType string `yaml:"blob_type" env:"STORAGE_BLOB_TYPE" env-default:"filesystem"`
	Path     string `yaml:"path" env:"STORAGE_PATH" env-default:"./storage"`
	S3       S3     `yaml:"s3"`
}

type S3 struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET" env-default:"submissions"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
}

// Database is left empty to run the service on in-memory indexes.
type Database struct {
	DSN         string `yaml:"dsn" env:"DSN"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE" env-default:"true"`
}

type Analysis struct {
	Address        string        `yaml:"address" env:"ANALYSIS_ADDRESS" env-default:"0.0.0.0:8069"`
	StorageBaseURL string        `yaml:"storage_base_url" env:"ANALYSIS_STORAGE_URL" env-default:"http://localhost:8080"`
	StorageTimeout time.Duration `yaml:"storage_timeout" env-default:"10s"`
	Summary        Summary       `yaml:"summary"`
}

type Summary struct {
	Enabled bool          `yaml:"enabled" env:"SUMMARY_ENABLED" env-default:"true"`
	BaseURL string        `yaml:"base_url" env:"SUMMARY_BASE_URL" env-default:"https://quickchart.io"`
	Timeout time.Duration `yaml:"timeout" env:"SUMMARY_TIMEOUT" env-default:"3s"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"analysis-reports"`
}

type Gateway struct {
	Address         string   `yaml:"address" env:"GATEWAY_ADDRESS" env-default:"0.0.0.0:8000"`
	StorageBaseURL  string   `yaml:"storage_base_url" env:"GATEWAY_STORAGE_URL" env-default:"http://localhost:8080"`
	AnalysisBaseURL string   `yaml:"analysis_base_url" env:"GATEWAY_ANALYSIS_URL" env-default:"http://localhost:8069"`
	AllowedOrigins  []string `yaml:"allowed_origins" env:"GATEWAY_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	// ClientTimeout bounds each upstream call. Analysis waits on storage
	// and the summary service, so keep it above their timeouts combined.
	ClientTimeout time.Duration `yaml:"client_timeout" env:"GATEWAY_CLIENT_TIMEOUT" env-default:"30s"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	config, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config %s: %v", configPath, err)
	}
	return config
}

// Load reads the YAML file at path and applies env overrides. A missing file
// falls back to env and defaults only.
func Load(path string) (*Config, error) {
	var config Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&config); err != nil {
			return nil, err
		}
		return &config, nil
	}
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}
