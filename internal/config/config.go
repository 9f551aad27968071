package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Cache        CacheConfig
	Queue        QueueConfig
	Detection    DetectionConfig
	Alerting     AlertingConfig
	Response     ResponseConfig
	Training     TrainingConfig
	Fleet        FleetConfig
	Probe        ProbeConfig
	Simulation   SimulationConfig
	Logging      LoggingConfig
	Integrations IntegrationsConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	Environment     string
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// CacheConfig contains the Redis-compatible cache configuration
type CacheConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// QueueConfig contains event bus configuration
type QueueConfig struct {
	Enabled bool
	Brokers []string
}

// DetectionConfig contains detection pipeline configuration
type DetectionConfig struct {
	ZScoreThreshold     float64
	MovingAvgWindow     int
	MovingAvgMultiplier float64
	ForestTrees         int
	ForestSubsampleSize int
	ForestContamination float64
	BoundaryNu          float64
	SequenceLength      int
	EnsembleVoteRatio   float64
}

// AlertingConfig contains alert lifecycle configuration
type AlertingConfig struct {
	QuietPeriod            time.Duration
	AllowSeverityDowngrade bool
}

// ResponseConfig contains automated response configuration
type ResponseConfig struct {
	AutoResponseEnabled bool
	RequireApprovalP0   bool
	RequireApprovalP1   bool
	PolicyFile          string
}

// TrainingConfig contains model training configuration
type TrainingConfig struct {
	DefaultSamples   int
	BootstrapSamples int
	RetrainSchedule  string
	RetrainSamples   int
}

// FleetConfig contains fleet monitoring configuration
type FleetConfig struct {
	MonitorEnabled  bool
	MonitorInterval time.Duration
	HistorySize     int
}

// ProbeConfig contains network probe configuration
type ProbeConfig struct {
	Timeout   time.Duration
	PingCount int
}

// SimulationConfig contains sector simulator configuration
type SimulationConfig struct {
	DevicesPerSector int
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string
	Format     string // json or console
	OutputPath string
}

// IntegrationsConfig contains outbound integration configuration
type IntegrationsConfig struct {
	SlackWebhookURL string
	SlackChannel    string
	OpenAIAPIKey    string
	OpenAIModel     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "smoothop"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./smoothop.db"),
		},
		Cache: CacheConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Queue: QueueConfig{
			Enabled: getEnvAsBool("KAFKA_ENABLED", false),
			Brokers: getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
		},
		Detection: DetectionConfig{
			ZScoreThreshold:     getEnvAsFloat("DETECT_ZSCORE_THRESHOLD", 3.0),
			MovingAvgWindow:     getEnvAsInt("DETECT_MOVING_AVG_WINDOW", 20),
			MovingAvgMultiplier: getEnvAsFloat("DETECT_MOVING_AVG_MULTIPLIER", 2.5),
			ForestTrees:         getEnvAsInt("DETECT_FOREST_TREES", 100),
			ForestSubsampleSize: getEnvAsInt("DETECT_FOREST_SUBSAMPLE", 256),
			ForestContamination: getEnvAsFloat("DETECT_FOREST_CONTAMINATION", 0.1),
			BoundaryNu:          getEnvAsFloat("DETECT_BOUNDARY_NU", 0.1),
			SequenceLength:      getEnvAsInt("DETECT_SEQUENCE_LENGTH", 50),
			EnsembleVoteRatio:   getEnvAsFloat("DETECT_ENSEMBLE_VOTE_RATIO", 0.5),
		},
		Alerting: AlertingConfig{
			QuietPeriod:            getEnvAsDuration("ALERT_QUIET_PERIOD", 60*time.Second),
			AllowSeverityDowngrade: getEnvAsBool("ALERT_ALLOW_SEVERITY_DOWNGRADE", false),
		},
		Response: ResponseConfig{
			AutoResponseEnabled: getEnvAsBool("AUTO_RESPONSE_ENABLED", true),
			RequireApprovalP0:   getEnvAsBool("REQUIRE_APPROVAL_P0", true),
			RequireApprovalP1:   getEnvAsBool("REQUIRE_APPROVAL_P1", true),
			PolicyFile:          getEnv("RESPONSE_POLICY_FILE", ""),
		},
		Training: TrainingConfig{
			DefaultSamples:   getEnvAsInt("TRAIN_SAMPLES", 1000),
			BootstrapSamples: getEnvAsInt("TRAIN_BOOTSTRAP_SAMPLES", 50),
			RetrainSchedule:  getEnv("RETRAIN_SCHEDULE", "0 3 * * *"),
			RetrainSamples:   getEnvAsInt("RETRAIN_SAMPLES", 500),
		},
		Fleet: FleetConfig{
			MonitorEnabled:  getEnvAsBool("MONITOR_ENABLED", false),
			MonitorInterval: getEnvAsDuration("MONITOR_INTERVAL", 10*time.Second),
			HistorySize:     getEnvAsInt("FLEET_HISTORY_SIZE", 20),
		},
		Probe: ProbeConfig{
			Timeout:   getEnvAsDuration("PROBE_TIMEOUT", 2*time.Second),
			PingCount: getEnvAsInt("PROBE_PING_COUNT", 3),
		},
		Simulation: SimulationConfig{
			DevicesPerSector: getEnvAsInt("SIM_DEVICES_PER_SECTOR", 10),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", ""),
		},
		Integrations: IntegrationsConfig{
			SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
			SlackChannel:    getEnv("SLACK_CHANNEL", "#alerts"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Detection.MovingAvgWindow < 2 {
		return fmt.Errorf("moving average window must be at least 2, got %d", c.Detection.MovingAvgWindow)
	}

	if c.Detection.SequenceLength < 2 {
		return fmt.Errorf("sequence length must be at least 2, got %d", c.Detection.SequenceLength)
	}

	if c.Alerting.QuietPeriod <= 0 {
		return fmt.Errorf("alert quiet period must be positive, got %s", c.Alerting.QuietPeriod)
	}

	if c.Fleet.MonitorInterval < time.Second {
		return fmt.Errorf("monitor interval must be at least 1s, got %s", c.Fleet.MonitorInterval)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
