package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	AdminEmail     string
	AdminPass      string
	AllowedOrigins []string
	CookieSecure   bool
	S3Bucket       string
	S3Region       string
	S3AccessKeyID  string
	S3SecretKey    string
	MaxUploadMB    int64
	LimiterEnabled bool
	LimiterRPS     float64
	LimiterBurst   int
}

func Load() (*Config, error) {
	maxMB := int64(5)
	if v := getEnv("MAX_UPLOAD_MB", "5"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxMB = n
		}
	}
	rps := 2.0
	if v := getEnv("RATE_LIMIT_RPS", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			rps = f
		}
	}
	burst := 4
	if v := getEnv("RATE_LIMIT_BURST", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			burst = n
		}
	}

	return &Config{
		Port:           getEnv("PORT", "5000"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("MONGODB_DB", "movies"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key"),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@techbridges.com"),
		AdminPass:      getEnv("ADMIN_PASSWORD", "admin123"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		CookieSecure:   getEnv("NODE_ENV", "") == "production" || getEnv("COOKIE_SECURE", "") == "true",
		S3Bucket:       getEnv("AWS_S3_BUCKET", ""),
		S3Region:       getEnv("AWS_REGION", "us-east-1"),
		S3AccessKeyID:  getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		MaxUploadMB:    maxMB,
		LimiterEnabled: getEnv("RATE_LIMIT_ENABLED", "false") == "true",
		LimiterRPS:     rps,
		LimiterBurst:   burst,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
