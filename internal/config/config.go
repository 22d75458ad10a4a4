package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // clinic timezone must resolve on hosts without zoneinfo
)

// Reminder orphan policies applied when an appointment is cancelled or deleted.
const (
	OrphanPolicyKeep   = "keep"
	OrphanPolicyDelete = "delete"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	LogLevel                  string
	Database                  DatabaseConfig
	Reminders                 ReminderConfig
	Auth                      AuthConfig
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// ReminderConfig controls how appointment reminders are scheduled and listed.
type ReminderConfig struct {
	Location          *time.Location
	WhatsAppBaseURL   string
	CountryCode       string
	ListLimit         int
	QueryLimit        int
	UpcomingWindow    time.Duration
	AtomicPair        bool
	OrphanPolicy      string
	ReconcileSchedule string
}

// AuthConfig holds staff authentication settings.
type AuthConfig struct {
	Enabled       bool
	AdminEmail    string
	AdminPassword string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "podologia"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	reminders, err := loadReminderConfig()
	if err != nil {
		return nil, err
	}

	authEnabled, err := strconv.ParseBool(getEnv("AUTH_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_ENABLED: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	jwtRefreshSecret := getEnv("JWT_REFRESH_SECRET", "")
	if authEnabled && (jwtSecret == "" || jwtRefreshSecret == "") {
		return nil, fmt.Errorf("AUTH_ENABLED requires JWT_SECRET and JWT_REFRESH_SECRET")
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	return &Config{
		Port:        getEnv("PORT", "8001"),
		Origin:      getEnv("ORIGIN", "*"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database:    dbConfig,
		Reminders:   reminders,
		Auth: AuthConfig{
			Enabled:       authEnabled,
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		JWTSecret:                 jwtSecret,
		JWTRefreshSecret:          jwtRefreshSecret,
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
	}, nil
}

func loadReminderConfig() (ReminderConfig, error) {
	tz := getEnv("CLINIC_TIMEZONE", "America/Sao_Paulo")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return ReminderConfig{}, fmt.Errorf("invalid CLINIC_TIMEZONE %q: %w", tz, err)
	}

	listLimit, err := strconv.Atoi(getEnv("REMINDER_LIST_LIMIT", "1000"))
	if err != nil || listLimit <= 0 {
		return ReminderConfig{}, fmt.Errorf("invalid REMINDER_LIST_LIMIT: must be a positive integer")
	}

	queryLimit, err := strconv.Atoi(getEnv("REMINDER_QUERY_LIMIT", "100"))
	if err != nil || queryLimit <= 0 {
		return ReminderConfig{}, fmt.Errorf("invalid REMINDER_QUERY_LIMIT: must be a positive integer")
	}

	windowHours, err := strconv.Atoi(getEnv("REMINDER_UPCOMING_WINDOW_HOURS", "24"))
	if err != nil || windowHours <= 0 {
		return ReminderConfig{}, fmt.Errorf("invalid REMINDER_UPCOMING_WINDOW_HOURS: must be a positive integer")
	}

	atomicPair, err := strconv.ParseBool(getEnv("REMINDER_ATOMIC_PAIR", "false"))
	if err != nil {
		return ReminderConfig{}, fmt.Errorf("invalid REMINDER_ATOMIC_PAIR: %w", err)
	}

	policy := strings.ToLower(getEnv("REMINDER_ORPHAN_POLICY", OrphanPolicyKeep))
	if policy != OrphanPolicyKeep && policy != OrphanPolicyDelete {
		return ReminderConfig{}, fmt.Errorf("invalid REMINDER_ORPHAN_POLICY %q: want %q or %q", policy, OrphanPolicyKeep, OrphanPolicyDelete)
	}

	return ReminderConfig{
		Location:          loc,
		WhatsAppBaseURL:   getEnv("WHATSAPP_BASE_URL", "https://wa.me/"),
		CountryCode:       getEnv("WHATSAPP_COUNTRY_CODE", "55"),
		ListLimit:         listLimit,
		QueryLimit:        queryLimit,
		UpcomingWindow:    time.Duration(windowHours) * time.Hour,
		AtomicPair:        atomicPair,
		OrphanPolicy:      policy,
		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", ""),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
