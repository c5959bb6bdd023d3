package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// ServerConfig configures the booking server.
type ServerConfig struct {
	IsProduction   bool
	ProdOrigins    string
	HTTPAddr       string
	DBDSN          string
	DBMaxConns     int
	MetricsEnabled bool
}

// GatewayConfig configures the validating gateway.
type GatewayConfig struct {
	IsProduction  bool
	ProdOrigins   string
	HTTPAddr      string
	ServerURL     string
	ServerTimeout time.Duration
	JWTSecret     string
	JWTTTL        time.Duration
}

// LoadServer loads the server configuration.
func LoadServer() (*ServerConfig, error) {
	src, err := newSource()
	if err != nil {
		return nil, err
	}

	cfg := &ServerConfig{}
	cfg.IsProduction = src.get("APP_ENV", "dev") == PROD_STRING
	cfg.ProdOrigins = src.get("PROD_ORIGINS", "")
	cfg.HTTPAddr = src.get("HTTP_ADDR", ":9090")

	// Database DSN is required
	cfg.DBDSN = src.get("DB_DSN", "")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	if cfg.DBMaxConns, err = src.getInt("DB_MAX_CONNS", 0); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled, err = src.getBool("METRICS_ENABLED", true); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadGateway loads the gateway configuration.
func LoadGateway() (*GatewayConfig, error) {
	src, err := newSource()
	if err != nil {
		return nil, err
	}

	cfg := &GatewayConfig{}
	cfg.IsProduction = src.get("APP_ENV", "dev") == PROD_STRING
	cfg.ProdOrigins = src.get("PROD_ORIGINS", "")
	cfg.HTTPAddr = src.get("HTTP_ADDR", ":8080")
	cfg.ServerURL = src.get("SERVER_URL", "http://localhost:9090")

	if cfg.ServerTimeout, err = src.getDuration("SERVER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	// Empty secret disables bearer tokens; callers must then send X-Sharer-User-Id.
	cfg.JWTSecret = src.get("JWT_SECRET", "")
	if cfg.JWTTTL, err = src.getDuration("JWT_ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

// source resolves a key from the environment first, then from the optional TOML file
// named by CONFIG_FILE, whose top-level keys use the same names as the variables.
type source struct {
	file map[string]string
}

func newSource() (*source, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	src := &source{file: map[string]string{}}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		return src, nil
	}

	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	for k, v := range raw {
		src.file[k] = fmt.Sprint(v)
	}
	return src, nil
}

// get returns the value for key, or defaultValue when neither env nor file sets it.
func (s *source) get(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	if v, ok := s.file[key]; ok {
		return v
	}
	return defaultValue
}

func (s *source) getInt(key string, defaultValue int) (int, error) {
	valStr := s.get(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}
	return val, nil
}

func (s *source) getBool(key string, defaultValue bool) (bool, error) {
	valStr := s.get(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid bool: %w", key, valStr, err)
	}
	return val, nil
}

func (s *source) getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := s.get(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}
	return val, nil
}
