package domain

import "time"

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetUploadPath() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetLogFormat() string
	GetAllowedOrigins() []string

	GetGCPProjectID() string
	GetGCPLocation() string
	GetGoogleCredentialsFile() string
	GetTranscriptionModel() string
	GetExtractionModel() string

	GetRasterScale() float64
	GetMaxPages() int
	GetRequestTimeout() time.Duration

	GetSupabaseURL() string
	GetSupabaseKey() string
	GetSupabaseBucket() string
	GetSignedURLTTL() int
}
