package config

import (
	"errors"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataDir         string
	TableSuffix     string
	LookupFile      string
	AquiferFile     string
	DefinitionsFile string
	InputSorted     bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration

	// Optional publication of every built document.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	inputSorted, err := parseBool("INPUT_SORTED", false)
	if err != nil {
		return nil, err
	}

	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:         EnvOrDefault("DATA_DIR", "data"),
		TableSuffix:     EnvOrDefault("TABLE_SUFFIX", "_01.txt"),
		LookupFile:      EnvOrDefault("LOOKUP_FILE", "well_construction_lookup.json"),
		AquiferFile:     envOrDefaultAllowEmpty("AQUIFER_FILE", "aqfr_cd_query.txt"),
		DefinitionsFile: EnvOrDefault("DEFINITIONS_FILE", ""),
		InputSorted:     inputSorted,

		HTTPAddr:        EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		RequestTimeout:  requestTimeout,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: ParseBrokers(EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   EnvOrDefault("KAFKA_TOPIC", "well-construction-documents"),
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.LookupFile == "" {
		return nil, errors.New("LOOKUP_FILE is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

// TableFile returns the file name of an NWIS extract relative to DataDir,
// e.g. "gw_cons" -> gw_cons_01.txt.
func (c *Config) TableFile(table string) string {
	return table + c.TableSuffix
}
