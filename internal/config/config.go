package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port      string
	JWTSecret string

	UserStore string // mongo | postgres | memory
	PostStore string // mongo | memory

	PostgresDSN string
	MongoURI    string
	MongoDB     string

	RedisAddr     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	WritesPerMinute int
	CORSOrigins     []string
}

// Load reads the environment, after merging in a .env file if one exists.
// Variables already set in the environment win over the file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getenv("PORT", "8080"),
		JWTSecret:       getenv("JWT_SECRET", ""),
		UserStore:       strings.ToLower(getenv("USER_STORE", "mongo")),
		PostStore:       strings.ToLower(getenv("POST_STORE", "mongo")),
		PostgresDSN:     getenv("POSTGRES_DSN", ""),
		MongoURI:        getenv("MONGO_URI", ""),
		MongoDB:         getenv("MONGO_DB", "devconnector"),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:   getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey:  getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:  getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:     getenv("MINIO_BUCKET", "deleted-posts"),
		MinioUseSSL:     getenv("MINIO_USE_SSL", "false") == "true",
		WritesPerMinute: getenvInt("RATE_LIMIT_WRITES_PER_MIN", 60),
		CORSOrigins:     splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
