package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers understood by the document store factory.
const (
	StoreDriverMemory   = "memory"
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

// CSV confirmed-column modes.
const (
	CSVConfirmedLiteral        = "literal"
	CSVConfirmedLegacyInverted = "legacy_inverted"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Admin    AdminConfig
	Gemini   GeminiConfig
	Feedback FeedbackConfig
	CSV      CSVConfig
	Share    ShareConfig
	PDF      PDFConfig
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver    string
	Namespace string
	FileDir   string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AdminCredential is a plaintext credential entry read from the environment.
type AdminCredential struct {
	Username string
	Password string
	Name     string
}

// AdminConfig lists administrator accounts. The first entry comes from
// ADMIN_USERNAME/ADMIN_PASSWORD/ADMIN_NAME, the rest from ADMIN_EXTRA_CREDENTIALS.
type AdminConfig struct {
	Credentials []AdminCredential
}

// GeminiConfig configures the generative text provider.
type GeminiConfig struct {
	APIKey          string
	BaseURL         string
	APIVersion      string
	PrimaryModel    string
	FallbackModel   string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
}

// FeedbackConfig tunes the asynchronous feedback worker.
type FeedbackConfig struct {
	Workers int
}

// CSVConfig pins roster CSV import semantics.
type CSVConfig struct {
	ConfirmedMode string
}

// ShareConfig configures signed portfolio share links.
type ShareConfig struct {
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// PDFConfig points at an optional UTF-8 TTF font used for portfolio exports.
type PDFConfig struct {
	FontPath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		Namespace: v.GetString("STORE_NAMESPACE"),
		FileDir:   v.GetString("STORE_FILE_DIR"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	admins := []AdminCredential{{
		Username: v.GetString("ADMIN_USERNAME"),
		Password: v.GetString("ADMIN_PASSWORD"),
		Name:     v.GetString("ADMIN_NAME"),
	}}
	cfg.Admin = AdminConfig{Credentials: append(admins, parseCredentials(v.GetString("ADMIN_EXTRA_CREDENTIALS"))...)}

	cfg.Gemini = GeminiConfig{
		APIKey:          v.GetString("GEMINI_API_KEY"),
		BaseURL:         strings.TrimRight(v.GetString("GEMINI_BASE_URL"), "/"),
		APIVersion:      v.GetString("GEMINI_API_VERSION"),
		PrimaryModel:    v.GetString("GEMINI_PRIMARY_MODEL"),
		FallbackModel:   v.GetString("GEMINI_FALLBACK_MODEL"),
		Temperature:     v.GetFloat64("GEMINI_TEMPERATURE"),
		MaxOutputTokens: v.GetInt("GEMINI_MAX_OUTPUT_TOKENS"),
		Timeout:         parseDuration(v.GetString("GEMINI_TIMEOUT"), time.Minute),
	}

	cfg.Feedback = FeedbackConfig{Workers: v.GetInt("FEEDBACK_WORKERS")}

	mode := strings.ToLower(v.GetString("CSV_CONFIRMED_MODE"))
	if mode != CSVConfirmedLegacyInverted {
		mode = CSVConfirmedLiteral
	}
	cfg.CSV = CSVConfig{ConfirmedMode: mode}

	cfg.Share = ShareConfig{
		SignedURLSecret: v.GetString("SHARE_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("SHARE_SIGNED_URL_TTL"), 72*time.Hour),
	}

	cfg.PDF = PDFConfig{FontPath: v.GetString("PDF_FONT_PATH")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", StoreDriverMemory)
	v.SetDefault("STORE_NAMESPACE", "roadmap")
	v.SetDefault("STORE_FILE_DIR", "./data")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "career_roadmap")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "career-roadmap-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin1234")
	v.SetDefault("ADMIN_NAME", "관리자")
	v.SetDefault("ADMIN_EXTRA_CREDENTIALS", "")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GEMINI_API_VERSION", "v1beta")
	v.SetDefault("GEMINI_PRIMARY_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_FALLBACK_MODEL", "gemini-2.0-flash")
	v.SetDefault("GEMINI_TEMPERATURE", 0.7)
	v.SetDefault("GEMINI_MAX_OUTPUT_TOKENS", 1024)
	v.SetDefault("GEMINI_TIMEOUT", "60s")

	v.SetDefault("FEEDBACK_WORKERS", 2)
	v.SetDefault("CSV_CONFIRMED_MODE", CSVConfirmedLiteral)

	v.SetDefault("SHARE_SIGNED_URL_SECRET", "dev_share_secret")
	v.SetDefault("SHARE_SIGNED_URL_TTL", "72h")
	v.SetDefault("PDF_FONT_PATH", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// parseCredentials reads "user:pass:name;user2:pass2" lists. Entries without a
// password are skipped; the display name defaults to the username.
func parseCredentials(raw string) []AdminCredential {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []AdminCredential
	for _, entry := range strings.Split(raw, ";") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		cred := AdminCredential{Username: parts[0], Password: parts[1], Name: parts[0]}
		if len(parts) == 3 && parts[2] != "" {
			cred.Name = parts[2]
		}
		out = append(out, cred)
	}
	return out
}
