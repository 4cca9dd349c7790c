package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host        string
	User        string
	Password    string
	Name        string
	Port        string
	SSLMode     string
	AutoMigrate bool
}

// PolicyConfig carries the behaviour switches that services read at construction time.
type PolicyConfig struct {
	// PayrollManageAtomic writes the employee salary base and the payroll row in one transaction.
	PayrollManageAtomic bool
	// LeaveAllowReopen lets approved or rejected leaves move again.
	LeaveAllowReopen bool
}

type Config struct {
	Port        string
	Env         string
	DB          DatabaseConfig
	RedisAddr   string
	KafkaBroker string
	JWTSecret   string
	JWTTTL      time.Duration
	CORSOrigins []string
	Policy      PolicyConfig
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env when present and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getString("PORT", "3000"),
		Env:  getString("APP_ENV", "development"),
		DB: DatabaseConfig{
			Host:        getString("DB_HOST", "localhost"),
			User:        getString("DB_USER", "postgres"),
			Password:    os.Getenv("DB_PASSWORD"),
			Name:        getString("DB_NAME", "staffly"),
			Port:        getString("DB_PORT", "5432"),
			SSLMode:     getString("DB_SSLMODE", "disable"),
			AutoMigrate: getBool("DB_AUTO_MIGRATE", false),
		},
		RedisAddr:   getString("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      getDuration("JWT_TTL", 24*time.Hour),
		CORSOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		Policy: PolicyConfig{
			PayrollManageAtomic: getBool("PAYROLL_MANAGE_ATOMIC", true),
			LeaveAllowReopen:    getBool("LEAVE_ALLOW_REOPEN", false),
		},
	}
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getList(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
