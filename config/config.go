package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultRecoveryPath is the Android shared Downloads folder
const DefaultRecoveryPath = "/storage/emulated/0/Download"

// Config holds all configuration for the agent
type Config struct {
	// Server settings
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Security
	AllowedOrigins []string
	RateLimitRPS   int

	// Logging
	LogLevel string

	// Scanning
	ScanLimit                 int
	ScanMaxEntries            int
	ScanTimeout               time.Duration
	CaseInsensitiveExtensions bool
	Extensions                Extensions

	// Recovery
	RelocateOnServer    bool
	DefaultRecoveryPath string

	EnvFile string
}

// Extensions lists the recognized file suffixes per category
type Extensions struct {
	Images    []string
	Videos    []string
	Documents []string
}

// DefaultExtensions returns the built-in suffix lists
func DefaultExtensions() Extensions {
	return Extensions{
		Images:    []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"},
		Videos:    []string{".mp4", ".mkv", ".avi", ".mov", ".flv"},
		Documents: []string{".pdf", ".doc", ".docx", ".txt", ".xls", ".ppt"},
	}
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	envFile := getEnvFile()

	// Load .env file if it exists
	_ = godotenv.Load(envFile)

	cfg := &Config{
		Port:                      getEnvInt("PORT", 5000),
		Host:                      getEnv("HOST", "0.0.0.0"),
		ReadTimeout:               time.Duration(getEnvInt("READ_TIMEOUT_SECONDS", 30)) * time.Second,
		WriteTimeout:              time.Duration(getEnvInt("WRITE_TIMEOUT_SECONDS", 60)) * time.Second,
		AllowedOrigins:            getEnvSlice("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:              getEnvInt("RATE_LIMIT_RPS", 100),
		LogLevel:                  getEnv("LOG_LEVEL", "info"),
		ScanLimit:                 getEnvInt("SCAN_LIMIT", 50),
		ScanMaxEntries:            getEnvInt("SCAN_MAX_ENTRIES", 100000),
		ScanTimeout:               time.Duration(getEnvInt("SCAN_TIMEOUT_SECONDS", 30)) * time.Second,
		CaseInsensitiveExtensions: getEnvBool("CASE_INSENSITIVE_EXTENSIONS", false),
		Extensions:                DefaultExtensions(),
		RelocateOnServer:          getEnvBool("RELOCATE_ON_SERVER", true),
		DefaultRecoveryPath:       getEnv("DEFAULT_RECOVERY_PATH", DefaultRecoveryPath),
		EnvFile:                   envFile,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that numeric settings are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.ScanLimit <= 0 {
		return fmt.Errorf("SCAN_LIMIT must be positive, got %d", c.ScanLimit)
	}
	if c.ScanMaxEntries <= 0 {
		return fmt.Errorf("SCAN_MAX_ENTRIES must be positive, got %d", c.ScanMaxEntries)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %d", c.RateLimitRPS)
	}
	return nil
}

// getEnvFile returns the path to the .env file
func getEnvFile() string {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		return envFile
	}

	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}

	// Fall back to the executable's directory
	exe, err := os.Executable()
	if err == nil {
		dir := strings.TrimSuffix(exe, "/rescuedeck-agent")
		envPath := dir + "/.env"
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	return ".env"
}

// LoadWithDefaults loads config with defaults for testing
func LoadWithDefaults() *Config {
	return &Config{
		Port:                5000,
		Host:                "0.0.0.0",
		ReadTimeout:         30 * time.Second,
		WriteTimeout:        60 * time.Second,
		AllowedOrigins:      []string{"*"},
		RateLimitRPS:        100,
		LogLevel:            "info",
		ScanLimit:           50,
		ScanMaxEntries:      100000,
		ScanTimeout:         30 * time.Second,
		Extensions:          DefaultExtensions(),
		RelocateOnServer:    true,
		DefaultRecoveryPath: DefaultRecoveryPath,
	}
}

// Addr returns the server address string
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
