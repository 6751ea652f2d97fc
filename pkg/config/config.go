// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Server, Corpus, Index, Search, Redis, Kafka, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// CorpusConfig locates the source archive and the directory its documents are
// extracted into.
type CorpusConfig struct {
	Archive    string   `yaml:"archive"`
	Dir        string   `yaml:"dir"`
	Extensions []string `yaml:"extensions"`
}

// IndexConfig locates the persisted index blob and its checksum file.
type IndexConfig struct {
	StorePath    string `yaml:"storePath"`
	ChecksumPath string `yaml:"checksumPath"`
}

// SearchConfig controls result limits and the verification worker pool.
type SearchConfig struct {
	MaxResults  int           `yaml:"maxResults"`
	Workers     int           `yaml:"workers"`
	TaskTimeout time.Duration `yaml:"taskTimeout"`
	ReadRetries int           `yaml:"readRetries"`
}

// RedisConfig holds Redis connection and result-caching parameters.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Enabled bool        `yaml:"enabled"`
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	IndexRebuilt string `yaml:"indexRebuilt"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with defaults for any missing
// values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	return defaultConfig()
}

// Validate rejects settings the search path cannot run with.
func (c *Config) Validate() error {
	if c.Search.MaxResults < 1 {
		return fmt.Errorf("search.maxResults must be positive, got %d", c.Search.MaxResults)
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("search.workers must be positive, got %d", c.Search.Workers)
	}
	if c.Corpus.Dir == "" {
		return fmt.Errorf("corpus.dir must be set")
	}
	if c.Index.StorePath == "" || c.Index.ChecksumPath == "" {
		return fmt.Errorf("index.storePath and index.checksumPath must be set")
	}
	if len(c.Corpus.Extensions) == 0 {
		return fmt.Errorf("corpus.extensions must list at least one extension")
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Corpus: CorpusConfig{
			Archive:    "Archive.zip",
			Dir:        "extracted_files",
			Extensions: []string{".txt"},
		},
		Index: IndexConfig{
			StorePath:    "inverted_index.psix",
			ChecksumPath: "checksum.txt",
		},
		Search: SearchConfig{
			MaxResults:  5,
			Workers:     runtime.NumCPU(),
			ReadRetries: 3,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
			CacheTTL: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topics: KafkaTopics{
				IndexRebuilt: "index.rebuilt",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads PS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PS_CORPUS_ARCHIVE"); v != "" {
		cfg.Corpus.Archive = v
	}
	if v := os.Getenv("PS_CORPUS_DIR"); v != "" {
		cfg.Corpus.Dir = v
	}
	if v := os.Getenv("PS_CORPUS_EXTENSIONS"); v != "" {
		cfg.Corpus.Extensions = strings.Split(v, ",")
	}
	if v := os.Getenv("PS_INDEX_STORE_PATH"); v != "" {
		cfg.Index.StorePath = v
	}
	if v := os.Getenv("PS_INDEX_CHECKSUM_PATH"); v != "" {
		cfg.Index.ChecksumPath = v
	}
	if v := os.Getenv("PS_SEARCH_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxResults = n
		}
	}
	if v := os.Getenv("PS_SEARCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.Workers = n
		}
	}
	if v := os.Getenv("PS_REDIS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Redis.Enabled = b
		}
	}
	if v := os.Getenv("PS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("PS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("PS_KAFKA_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Kafka.Enabled = b
		}
	}
	if v := os.Getenv("PS_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("PS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
