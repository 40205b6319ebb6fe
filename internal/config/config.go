package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Batch    BatchConfig
	Export   ExportConfig
	S3       S3Config
	Textract TextractConfig
	Email    EmailConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// LLMConfig holds settings for the chat-completion endpoint.
// APIKey is only read by the CLI; the HTTP API takes the credential per request.
type LLMConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	Model       string `mapstructure:"model"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// BatchConfig holds batch orchestrator settings.
type BatchConfig struct {
	Concurrency        int    `mapstructure:"concurrency"`
	MaxFiles           int    `mapstructure:"max_files"`
	EmptyContentPolicy string `mapstructure:"empty_content_policy"`
}

// ExportConfig holds workbook export settings.
type ExportConfig struct {
	Archive bool `mapstructure:"archive"`
}

// S3Config holds AWS S3 settings for the export archive.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// TextractConfig holds document-analysis settings.
type TextractConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	MaxBodyMB  int64  `mapstructure:"max_body_mb"`
	ExtractPDF bool   `mapstructure:"extract_pdf"`
}

// EmailConfig holds run summary delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	OperatorTo  string `mapstructure:"operator_to"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the SUPPLIERX_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SUPPLIERX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "10m")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 50)

	// LLM defaults
	v.SetDefault("llm.endpoint", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("llm.model", "gpt-4")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout_secs", 120)

	// Batch defaults
	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("batch.max_files", 50)
	v.SetDefault("batch.empty_content_policy", "fail")

	// Export defaults
	v.SetDefault("export.archive", false)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "supplierx-exports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Textract defaults
	v.SetDefault("textract.enabled", true)
	v.SetDefault("textract.region", "us-east-1")
	v.SetDefault("textract.endpoint", "")
	v.SetDefault("textract.max_body_mb", 10)
	v.SetDefault("textract.extract_pdf", false)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@supplierx.local")
	v.SetDefault("email.from_name", "Supplier Extractor")
	v.SetDefault("email.operator_to", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "SUPPLIERX_SERVER_PORT",
		"server.read_timeout":        "SUPPLIERX_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "SUPPLIERX_SERVER_WRITE_TIMEOUT",
		"server.environment":         "SUPPLIERX_SERVER_ENVIRONMENT",
		"server.max_upload_mb":       "SUPPLIERX_SERVER_MAX_UPLOAD_MB",
		"llm.endpoint":               "SUPPLIERX_LLM_ENDPOINT",
		"llm.model":                  "SUPPLIERX_LLM_MODEL",
		"llm.api_key":                "SUPPLIERX_LLM_API_KEY",
		"llm.timeout_secs":           "SUPPLIERX_LLM_TIMEOUT_SECS",
		"batch.concurrency":          "SUPPLIERX_BATCH_CONCURRENCY",
		"batch.max_files":            "SUPPLIERX_BATCH_MAX_FILES",
		"batch.empty_content_policy": "SUPPLIERX_BATCH_EMPTY_CONTENT_POLICY",
		"export.archive":             "SUPPLIERX_EXPORT_ARCHIVE",
		"s3.region":                  "SUPPLIERX_S3_REGION",
		"s3.bucket":                  "SUPPLIERX_S3_BUCKET",
		"s3.endpoint":                "SUPPLIERX_S3_ENDPOINT",
		"s3.access_key":              "SUPPLIERX_S3_ACCESS_KEY",
		"s3.secret_key":              "SUPPLIERX_S3_SECRET_KEY",
		"s3.presign_expiry":          "SUPPLIERX_S3_PRESIGN_EXPIRY",
		"textract.enabled":           "SUPPLIERX_TEXTRACT_ENABLED",
		"textract.region":            "SUPPLIERX_TEXTRACT_REGION",
		"textract.endpoint":          "SUPPLIERX_TEXTRACT_ENDPOINT",
		"textract.access_key":        "SUPPLIERX_TEXTRACT_ACCESS_KEY",
		"textract.secret_key":        "SUPPLIERX_TEXTRACT_SECRET_KEY",
		"textract.max_body_mb":       "SUPPLIERX_TEXTRACT_MAX_BODY_MB",
		"textract.extract_pdf":       "SUPPLIERX_TEXTRACT_EXTRACT_PDF",
		"email.provider":             "SUPPLIERX_EMAIL_PROVIDER",
		"email.region":               "SUPPLIERX_EMAIL_REGION",
		"email.from_address":         "SUPPLIERX_EMAIL_FROM_ADDRESS",
		"email.from_name":            "SUPPLIERX_EMAIL_FROM_NAME",
		"email.operator_to":          "SUPPLIERX_EMAIL_OPERATOR_TO",
		"cors.allowed_origins":       "SUPPLIERX_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SUPPLIERX_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SUPPLIERX_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.LLM = LLMConfig{
		Endpoint:    v.GetString("llm.endpoint"),
		Model:       v.GetString("llm.model"),
		APIKey:      v.GetString("llm.api_key"),
		TimeoutSecs: v.GetInt("llm.timeout_secs"),
	}
	cfg.Batch = BatchConfig{
		Concurrency:        v.GetInt("batch.concurrency"),
		MaxFiles:           v.GetInt("batch.max_files"),
		EmptyContentPolicy: v.GetString("batch.empty_content_policy"),
	}
	cfg.Export = ExportConfig{
		Archive: v.GetBool("export.archive"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Textract = TextractConfig{
		Enabled:    v.GetBool("textract.enabled"),
		Region:     v.GetString("textract.region"),
		Endpoint:   v.GetString("textract.endpoint"),
		AccessKey:  v.GetString("textract.access_key"),
		SecretKey:  v.GetString("textract.secret_key"),
		MaxBodyMB:  v.GetInt64("textract.max_body_mb"),
		ExtractPDF: v.GetBool("textract.extract_pdf"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		OperatorTo:  v.GetString("email.operator_to"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}

// Timeout returns the HTTP client timeout for completion calls. Zero disables it.
func (l *LLMConfig) Timeout() time.Duration {
	if l.TimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(l.TimeoutSecs) * time.Second
}

// MaxBodyBytes returns the proxy request body cap in bytes.
func (t *TextractConfig) MaxBodyBytes() int64 {
	if t.MaxBodyMB <= 0 {
		return 10 * 1024 * 1024
	}
	return t.MaxBodyMB * 1024 * 1024
}
