package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Database struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type Workflow struct {
	// LeaveEscalationAfter is how long a leave request may stay pending
	// before the scheduler escalates it.
	LeaveEscalationAfter time.Duration
	EscalationInterval   time.Duration
	EffectsBatchSize     int
}

type Config struct {
	Port               string
	Database           Database
	RedisAddr          string
	KafkaBroker        string
	JWTSecret          string
	RBACModelPath      string
	OutboxPollInterval time.Duration
	ConnectRetries     int
	Workflow           Workflow
}

// Load reads configuration from the environment. Callers load .env first
// with godotenv.
func Load() (Config, error) {
	cfg := Config{
		Port: getEnv("PORT", "3000"),
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RBACModelPath: getEnv("RBAC_MODEL_PATH", "internal/rbac/infra/model.conf"),
	}

	var err error
	if cfg.OutboxPollInterval, err = getDuration("OUTBOX_POLL_INTERVAL", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Workflow.LeaveEscalationAfter, err = getDuration("LEAVE_ESCALATION_AFTER", 72*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Workflow.EscalationInterval, err = getDuration("ESCALATION_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.Workflow.EffectsBatchSize, err = getInt("WORKFLOW_EFFECTS_BATCH", 50); err != nil {
		return Config{}, err
	}
	if cfg.ConnectRetries, err = getInt("CONNECT_RETRIES", 5); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
