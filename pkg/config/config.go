package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Extraction modes
const (
	ModeLocal   = "local"
	ModeBedrock = "bedrock"
	ModeGroq    = "groq"
)

// Due-date precedence policies
const (
	PrecedenceResolverWins = "resolver_wins"
	PrecedenceUpstreamWins = "upstream_wins"
)

// Config holds application configuration
type Config struct {
	Server  ServerConfig  `envconfig:"SERVER"`
	Extract ExtractConfig `envconfig:"EXTRACT"`
	Bedrock BedrockConfig `envconfig:"BEDROCK"`
	Groq    GroqConfig    `envconfig:"GROQ"`
	Redis   RedisConfig   `envconfig:"REDIS"`
	Storage StorageConfig `envconfig:"STORAGE"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `split_words:"true" default:"8080"`
	Host            string   `split_words:"true" default:"0.0.0.0"`
	Environment     string   `split_words:"true" default:"development"`
	AllowedOrigins  []string `split_words:"true" default:"http://localhost:3000"`
	ShutdownTimeout int      `split_words:"true" default:"10"`
	// requests per second per client IP on extraction endpoints, 0 disables
	RateLimit float64 `split_words:"true" default:"10"`
}

// ExtractConfig controls the extraction pipeline
type ExtractConfig struct {
	Mode               string        `split_words:"true" default:"local"`
	PromptPath         string        `split_words:"true" default:"content/prompts/extractor_system.txt"`
	PromptObject       string        `split_words:"true"`
	Timeout            time.Duration `split_words:"true" default:"60s"`
	DatePrecedence     string        `split_words:"true" default:"resolver_wins"`
	Timezone           string        `split_words:"true" default:"UTC"`
	MaxTranscriptBytes int           `split_words:"true" default:"1048576"`
	ResultTTL          time.Duration `split_words:"true" default:"24h"`
}

// BedrockConfig holds AWS Bedrock runtime settings
type BedrockConfig struct {
	Region          string  `split_words:"true" default:"us-east-1"`
	ModelID         string  `split_words:"true" default:"amazon.nova-micro-v1:0"`
	Endpoint        string  `split_words:"true"`
	AccessKeyID     string  `split_words:"true"`
	SecretAccessKey string  `split_words:"true"`
	SessionToken    string  `split_words:"true"`
	MaxTokens       int     `split_words:"true" default:"4000"`
	RateLimit       float64 `split_words:"true" default:"5"`
}

// GroqConfig holds Groq chat completion settings
type GroqConfig struct {
	APIKey      string  `split_words:"true"`
	BaseURL     string  `split_words:"true" default:"https://api.groq.com"`
	Model       string  `split_words:"true" default:"llama-3.1-70b-versatile"`
	MaxTokens   int     `split_words:"true" default:"4000"`
	Temperature float64 `split_words:"true" default:"0.3"`
	RateLimit   float64 `split_words:"true" default:"5"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `split_words:"true" default:"false"`
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

// StorageConfig holds object storage configuration for prompt resources
type StorageConfig struct {
	Enabled         bool   `split_words:"true" default:"false"`
	Endpoint        string `split_words:"true" default:"localhost:9000"`
	AccessKeyID     string `split_words:"true" default:"minioadmin"`
	SecretAccessKey string `split_words:"true" default:"minioadmin"`
	BucketName      string `split_words:"true" default:"followupsync"`
	UseSSL          bool   `split_words:"true" default:"false"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	// plain MODE is still honoured for older deployments
	if _, ok := os.LookupEnv("EXTRACT_MODE"); !ok {
		if mode := os.Getenv("MODE"); mode != "" {
			cfg.Extract.Mode = mode
		}
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Extract.Mode = strings.ToLower(strings.TrimSpace(c.Extract.Mode))
	// "aws" is the historical name for the Bedrock mode
	if c.Extract.Mode == "aws" {
		c.Extract.Mode = ModeBedrock
	}
	c.Extract.DatePrecedence = strings.ToLower(strings.TrimSpace(c.Extract.DatePrecedence))
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Extract.Mode {
	case ModeLocal:
	case ModeBedrock:
		if c.Bedrock.Region == "" || c.Bedrock.ModelID == "" {
			return fmt.Errorf("BEDROCK_REGION and BEDROCK_MODEL_ID are required in %s mode", ModeBedrock)
		}
	case ModeGroq:
		if c.Groq.APIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required in %s mode", ModeGroq)
		}
	default:
		return fmt.Errorf("unsupported EXTRACT_MODE %q", c.Extract.Mode)
	}

	switch c.Extract.DatePrecedence {
	case PrecedenceResolverWins, PrecedenceUpstreamWins:
	default:
		return fmt.Errorf("unsupported EXTRACT_DATE_PRECEDENCE %q", c.Extract.DatePrecedence)
	}

	if _, err := time.LoadLocation(c.Extract.Timezone); err != nil {
		return fmt.Errorf("invalid EXTRACT_TIMEZONE: %w", err)
	}
	if c.Extract.Timeout <= 0 {
		return fmt.Errorf("EXTRACT_TIMEOUT must be positive")
	}
	if c.Storage.Enabled && c.Extract.PromptObject == "" {
		return fmt.Errorf("EXTRACT_PROMPT_OBJECT is required when storage is enabled")
	}
	return nil
}

// Location returns the time zone used to compute the reference date
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Extract.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
