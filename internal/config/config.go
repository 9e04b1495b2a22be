package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DatabaseConfig holds connection settings for the content database.
// Driver is "pgx" (PostgreSQL) or "sqlite"; Path is only used by sqlite.
type DatabaseConfig struct {
	Driver             string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	Path               string
	TablePrefix        string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MediaConfig describes where uploaded attachment files live.
// Backend is "local" (UploadsDir on disk) or "minio" (the MinIO bucket).
type MediaConfig struct {
	Backend    string
	UploadsDir string
	UploadsURL string
}

// AuthConfig holds admin session and action token settings.
type AuthConfig struct {
	JWTSecret     string
	SessionCookie string
	SessionTTL    time.Duration
	ActionTTL     time.Duration
}

// ExportConfig bounds a single export job.
// MaxRows of 0 means unlimited; SoftTimeout of 0 disables the deadline.
type ExportConfig struct {
	MaxRows     int
	SoftTimeout time.Duration
	ScratchDir  string
}

// LogConfig controls service logs and the export diagnostics file.
type LogConfig struct {
	Level           string
	Format          string
	DebugFile       string
	DebugMaxSizeMB  int
	DebugMaxBackups int
	DebugMaxAgeDays int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost       string
	Port          string
	SiteURL       string
	ContentDir    string
	Permalinks    string
	PostTypesFile string
	Database      DatabaseConfig
	Media         MediaConfig
	MinIO         MinIOConfig
	Auth          AuthConfig
	Export        ExportConfig
	Log           LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	contentDir := getEnv("CONTENT_DIR", "wp-content")
	siteURL := getEnv("SITE_URL", "http://localhost:8080")

	return &AppConfig{
		AppHost:       getEnv("APP_HOST", "localhost:8080"),
		Port:          getEnv("PORT", "8080"),
		SiteURL:       siteURL,
		ContentDir:    contentDir,
		Permalinks:    getEnv("PERMALINK_STRUCTURE", "plain"),
		PostTypesFile: getEnv("POST_TYPES_FILE", ""),
		Database: DatabaseConfig{
			Driver:             getEnv("DB_DRIVER", "pgx"),
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			Path:               getEnv("DB_PATH", "urlexport.db"),
			TablePrefix:        getEnv("DB_TABLE_PREFIX", "wp_"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Media: MediaConfig{
			Backend:    getEnv("MEDIA_BACKEND", "local"),
			UploadsDir: getEnv("UPLOADS_DIR", filepath.Join(contentDir, "uploads")),
			UploadsURL: getEnv("UPLOADS_URL", siteURL+"/wp-content/uploads"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("AUTH_JWT_SECRET", ""),
			SessionCookie: getEnv("AUTH_SESSION_COOKIE", "urlexport_session"),
			SessionTTL:    getEnvDuration("AUTH_SESSION_TTL", 12*time.Hour),
			ActionTTL:     getEnvDuration("AUTH_ACTION_TTL", 24*time.Hour),
		},
		Export: ExportConfig{
			MaxRows:     getEnvInt("EXPORT_MAX_ROWS", 0),
			SoftTimeout: getEnvDuration("EXPORT_SOFT_TIMEOUT", 5*time.Minute),
			ScratchDir:  getEnv("EXPORT_SCRATCH_DIR", os.TempDir()),
		},
		Log: LogConfig{
			Level:           getEnv("LOG_LEVEL", "info"),
			Format:          getEnv("LOG_FORMAT", "json"),
			DebugFile:       getEnv("EXPORT_DEBUG_LOG", filepath.Join(contentDir, "export-debug.log")),
			DebugMaxSizeMB:  getEnvInt("EXPORT_DEBUG_LOG_MAX_SIZE_MB", 10),
			DebugMaxBackups: getEnvInt("EXPORT_DEBUG_LOG_MAX_BACKUPS", 3),
			DebugMaxAgeDays: getEnvInt("EXPORT_DEBUG_LOG_MAX_AGE_DAYS", 28),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("90s", "5m") or a bare number of seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return def
}
