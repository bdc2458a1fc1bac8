package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Graph growth constraints
	Graph GraphConfig `mapstructure:"graph"`

	// UMLS terminology service configuration
	UMLS UMLSConfig `mapstructure:"umls"`

	// PubMed literature search configuration
	PubMed PubMedConfig `mapstructure:"pubmed"`

	// Expansion orchestrator configuration
	Expansion ExpansionConfig `mapstructure:"expansion"`

	// CircuitBreaker configuration for external collaborators
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Export configuration
	Export ExportConfig `mapstructure:"export"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// GraphConfig holds the global graph growth constraints. These are supplied
// at store construction and are not mutable mid-session.
type GraphConfig struct {
	MaxDepth     int `mapstructure:"max_depth"`
	MaxNodes     int `mapstructure:"max_nodes"`
	MinCitations int `mapstructure:"min_citations"`
}

// UMLSConfig holds terminology service configuration
type UMLSConfig struct {
	APIKey    string  `mapstructure:"api_key"`
	BaseURL   string  `mapstructure:"base_url"`
	Version   string  `mapstructure:"version"`
	CachePath string  `mapstructure:"cache_path"`
	Threshold float64 `mapstructure:"threshold"`
}

// PubMedConfig holds literature search configuration
type PubMedConfig struct {
	Email             string  `mapstructure:"email"`
	APIKey            string  `mapstructure:"api_key"`
	Tool              string  `mapstructure:"tool"`
	BaseURL           string  `mapstructure:"base_url"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	MaxResults        int     `mapstructure:"max_results"`
}

// ExpansionConfig holds orchestrator configuration
type ExpansionConfig struct {
	MaxCycles   int  `mapstructure:"max_cycles"`
	FanOut      int  `mapstructure:"fan_out"`
	UseConcepts bool `mapstructure:"use_concepts"`
}

// CircuitBreakerConfig holds configuration for circuit breaking around the
// terminology and literature collaborators
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// ExportConfig holds result-file serialization configuration
type ExportConfig struct {
	OutputDir     string `mapstructure:"output_dir"`
	Neo4jURI      string `mapstructure:"neo4j_uri"`
	Neo4jUser     string `mapstructure:"neo4j_user"`
	Neo4jPassword string `mapstructure:"neo4j_password"`
	Neo4jDatabase string `mapstructure:"neo4j_database"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Graph constraint defaults, per the original study setup
	viper.SetDefault("graph.max_depth", 2)
	viper.SetDefault("graph.max_nodes", 30)
	viper.SetDefault("graph.min_citations", 2)

	// UMLS defaults
	viper.SetDefault("umls.base_url", "https://uts-ws.nlm.nih.gov/rest")
	viper.SetDefault("umls.version", "current")
	viper.SetDefault("umls.threshold", 0.6)

	// PubMed defaults (NCBI asks for ~3 req/sec without an API key)
	viper.SetDefault("pubmed.tool", "medgraph")
	viper.SetDefault("pubmed.base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	viper.SetDefault("pubmed.requests_per_second", 3.0)
	viper.SetDefault("pubmed.max_results", 20)

	// Expansion defaults
	viper.SetDefault("expansion.max_cycles", 3)
	viper.SetDefault("expansion.fan_out", 4)
	viper.SetDefault("expansion.use_concepts", true)

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.medgraph/telemetry", home))
		viper.SetDefault("umls.cache_path", fmt.Sprintf("%s/.medgraph/umls_cache", home))
		viper.SetDefault("export.output_dir", fmt.Sprintf("%s/.medgraph/exports", home))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if key := os.Getenv("UMLS_API_KEY"); key != "" {
		config.UMLS.APIKey = key
	}
	if email := os.Getenv("PUBMED_EMAIL"); email != "" {
		config.PubMed.Email = email
	}
	if key := os.Getenv("PUBMED_API_KEY"); key != "" {
		config.PubMed.APIKey = key
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if parsed, err := strconv.Atoi(port); err == nil {
			config.Server.Port = parsed
		}
	}

	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Export.Neo4jURI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Export.Neo4jUser = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Export.Neo4jPassword = pass
	}

	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
