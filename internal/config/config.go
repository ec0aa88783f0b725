package config

import "os"

type Config struct {
	ListenAddr       string
	DBPath           string
	ScanPath         string
	ExtractBackend   string
	ClaudeAPIKey     string
	ClaudeModel      string
	TessdHost        string
	StripeSecretKey  string
	StripePublicKey  string
	Currency         string
	AllowedOrigin    string
	LogLevel         string
	LogFile          string
}

func Load() *Config {
	return &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		DBPath:          getEnv("DB_PATH", "/data/autosplit.db"),
		ScanPath:        getEnv("SCAN_LOCAL_PATH", "/data/scans"),
		ExtractBackend:  getEnv("EXTRACT_BACKEND", "tessd"),
		ClaudeAPIKey:    getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:     getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
		TessdHost:       getEnv("TESSD_HOST", "http://localhost:8884"),
		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		StripePublicKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		Currency:        getEnv("CURRENCY", "INR"),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "*"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
