package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"paper-extractor/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort     string
	UploadPath     string
	MaxFileSize    int64
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string

	GCPProjectID          string
	GCPLocation           string
	GoogleCredentialsFile string
	TranscriptionModel    string
	ExtractionModel       string

	RasterScale    float64
	MaxPages       int
	RequestTimeout time.Duration

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
	SignedURLTTL   int
}

const defaultModel = "gemini-2.5-pro"

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return Load()
}

// Load reads the configuration from the environment. Callers that override
// individual settings (the CLI) work on the returned struct directly.
func Load() *AppConfig {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:  getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		UploadPath:  getEnvOrDefault("UPLOAD_PATH", "./uploads"),
		MaxFileSize: getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "text"),
		AllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173", // Vite dev server
			"http://localhost:4173", // Vite preview
			"http://localhost:3000",
		}),

		GCPProjectID:          getEnvOrDefault("GCP_PROJECT_ID", getEnvOrDefault("GOOGLE_CLOUD_PROJECT", "")),
		GCPLocation:           getEnvOrDefault("GCP_LOCATION", "us-central1"),
		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", ""),
		TranscriptionModel:    getEnvOrDefault("TRANSCRIPTION_MODEL", defaultModel),
		ExtractionModel:       getEnvOrDefault("EXTRACTION_MODEL", defaultModel),

		RasterScale:    getEnvFloatOrDefault("RASTER_SCALE", 2.0),
		MaxPages:       int(getEnvInt64OrDefault("MAX_PAGES", 0)),
		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 10*time.Minute),

		SupabaseURL:    getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:    getEnvOrDefault("SUPABASE_SERVICE_KEY", ""),
		SupabaseBucket: getEnvOrDefault("SUPABASE_BUCKET", "documents"),
		SignedURLTTL:   int(getEnvInt64OrDefault("SIGNED_URL_TTL", 600)),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetUploadPath returns the directory holding in-flight uploads
func (c *AppConfig) GetUploadPath() string {
	return c.UploadPath
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogFormat returns "text" or "json"
func (c *AppConfig) GetLogFormat() string {
	return c.LogFormat
}

// GetAllowedOrigins returns the CORS origins
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetGCPProjectID returns the Google Cloud project used for Vertex AI
func (c *AppConfig) GetGCPProjectID() string {
	return c.GCPProjectID
}

// GetGCPLocation returns the Vertex AI region
func (c *AppConfig) GetGCPLocation() string {
	return c.GCPLocation
}

// GetGoogleCredentialsFile returns an optional service account key path
func (c *AppConfig) GetGoogleCredentialsFile() string {
	return c.GoogleCredentialsFile
}

// GetTranscriptionModel returns the vision model used for transcription
func (c *AppConfig) GetTranscriptionModel() string {
	return c.TranscriptionModel
}

// GetExtractionModel returns the text model used for field extraction
func (c *AppConfig) GetExtractionModel() string {
	return c.ExtractionModel
}

// GetRasterScale returns the page render scale (1.0 = 72 DPI)
func (c *AppConfig) GetRasterScale() float64 {
	return c.RasterScale
}

// GetMaxPages returns the page limit; 0 disables it
func (c *AppConfig) GetMaxPages() int {
	return c.MaxPages
}

// GetRequestTimeout returns the deadline spanning the whole pipeline
func (c *AppConfig) GetRequestTimeout() time.Duration {
	return c.RequestTimeout
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase service key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetSupabaseBucket returns the storage bucket for in-flight documents
func (c *AppConfig) GetSupabaseBucket() string {
	return c.SupabaseBucket
}

// GetSignedURLTTL returns the lifetime of signed document URLs in seconds
func (c *AppConfig) GetSignedURLTTL() int {
	return c.SignedURLTTL
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
