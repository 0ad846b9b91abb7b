package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Raushanritik30891/zyro-sub000/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string

	// Empty DBURL selects the in-memory repository tier.
	DBURL                   string
	DBDisablePreparedBinary bool

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	AdminUserIDs []string

	ExportWorkers int

	IdentityBaseURL               string
	IdentityIntrospectPath        string
	IdentityTimeout               time.Duration
	IdentityCircuitEnabled        bool
	IdentityCircuitFailureCount   int
	IdentityCircuitOpenTimeout    time.Duration
	IdentityCircuitHalfOpenMaxReq int

	VisionEnabled               bool
	VisionBaseURL               string
	VisionAPIKey                string
	VisionExtractPath           string
	VisionTimeout               time.Duration
	VisionMaxRetries            int
	VisionCircuitEnabled        bool
	VisionCircuitFailureCount   int
	VisionCircuitOpenTimeout    time.Duration
	VisionCircuitHalfOpenMaxReq int

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                 appEnv,
		ServiceName:            getEnv("APP_SERVICE_NAME", "tournament-ledger-api"),
		ServiceVersion:         getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:               getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                  strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:     splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminUserIDs:           splitCSV(getEnv("ADMIN_USER_IDS", "")),
		IdentityBaseURL:        getEnv("IDENTITY_BASE_URL", "http://localhost:8081"),
		IdentityIntrospectPath: getEnv("IDENTITY_INTROSPECT_PATH", "/v1/auth/introspect"),
		LogLevel:               parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout

	exportWorkers, err := getEnvAsInt("EXPORT_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse EXPORT_WORKERS: %w", err)
	}
	if exportWorkers < 1 {
		return Config{}, fmt.Errorf("EXPORT_WORKERS must be >= 1")
	}
	cfg.ExportWorkers = exportWorkers

	identityTimeout, err := time.ParseDuration(getEnv("IDENTITY_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_TIMEOUT: %w", err)
	}
	cfg.IdentityTimeout = identityTimeout

	identityCircuitEnabled, err := strconv.ParseBool(getEnv("IDENTITY_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_CIRCUIT_ENABLED: %w", err)
	}
	cfg.IdentityCircuitEnabled = identityCircuitEnabled

	identityCircuitFailureCount, err := getEnvAsInt("IDENTITY_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if identityCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("IDENTITY_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.IdentityCircuitFailureCount = identityCircuitFailureCount

	identityCircuitOpenTimeout, err := time.ParseDuration(getEnv("IDENTITY_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if identityCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("IDENTITY_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfg.IdentityCircuitOpenTimeout = identityCircuitOpenTimeout

	identityCircuitHalfOpenMaxReq, err := getEnvAsInt("IDENTITY_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if identityCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("IDENTITY_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.IdentityCircuitHalfOpenMaxReq = identityCircuitHalfOpenMaxReq

	visionEnabled, err := strconv.ParseBool(getEnv("VISION_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VISION_ENABLED: %w", err)
	}
	cfg.VisionEnabled = visionEnabled
	cfg.VisionBaseURL = strings.TrimSpace(getEnv("VISION_BASE_URL", ""))
	cfg.VisionAPIKey = strings.TrimSpace(getEnv("VISION_API_KEY", ""))
	cfg.VisionExtractPath = strings.TrimSpace(getEnv("VISION_EXTRACT_PATH", "/v1/scoreboard:extract"))
	if visionEnabled {
		if cfg.VisionBaseURL == "" {
			return Config{}, fmt.Errorf("VISION_BASE_URL is required when VISION_ENABLED=true")
		}
		if cfg.VisionAPIKey == "" {
			return Config{}, fmt.Errorf("VISION_API_KEY is required when VISION_ENABLED=true")
		}
	}

	visionTimeout, err := time.ParseDuration(getEnv("VISION_TIMEOUT", "25s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VISION_TIMEOUT: %w", err)
	}
	if visionTimeout <= 0 {
		return Config{}, fmt.Errorf("VISION_TIMEOUT must be > 0")
	}
	cfg.VisionTimeout = visionTimeout

	visionMaxRetries, err := getEnvAsInt("VISION_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse VISION_MAX_RETRIES: %w", err)
	}
	if visionMaxRetries < 0 {
		return Config{}, fmt.Errorf("VISION_MAX_RETRIES must be >= 0")
	}
	cfg.VisionMaxRetries = visionMaxRetries

	visionCircuitEnabled, err := strconv.ParseBool(getEnv("VISION_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VISION_CIRCUIT_ENABLED: %w", err)
	}
	cfg.VisionCircuitEnabled = visionCircuitEnabled

	visionCircuitFailureCount, err := getEnvAsInt("VISION_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse VISION_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if visionCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("VISION_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.VisionCircuitFailureCount = visionCircuitFailureCount

	visionCircuitOpenTimeout, err := time.ParseDuration(getEnv("VISION_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VISION_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if visionCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("VISION_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfg.VisionCircuitOpenTimeout = visionCircuitOpenTimeout

	visionCircuitHalfOpenMaxReq, err := getEnvAsInt("VISION_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse VISION_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if visionCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("VISION_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.VisionCircuitHalfOpenMaxReq = visionCircuitHalfOpenMaxReq

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = pprofAddr

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = uptraceDSN

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = pyroscopeServerAddress
	cfg.PyroscopeUploadRate = pyroscopeUploadRate
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
