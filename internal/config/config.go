// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime settings.  Required values are enforced by must()
// at startup; optional collaborators (Redis, RabbitMQ) have empty/zero
// defaults and the app degrades without them.
type Config struct {
	Env          string // application environment (dev/test/prod)
	Port         string // HTTP port to listen on
	MongoURI     string // MongoDB connection string
	MongoDB      string // database holding the Events/Bookings/Users containers
	JWTSecret    string // secret used to sign access tokens
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing
	AMQPURL      string // RabbitMQ URL; empty disables notifications
	CacheTTLSec  int    // catalog cache TTL in seconds; 0 disables caching
	RateLimit    int    // requests per minute per IP on booking routes; 0 disables
}

// Load reads the environment into a Config.  Missing required variables are
// fatal.
func Load() Config {
	return Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         must("APP_PORT"),
		MongoURI:     must("MONGO_URI"),
		MongoDB:      must("MONGO_DB"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: getint("ACCESS_TOKEN_TTL_MIN", 30),
		BcryptCost:   getint("BCRYPT_COST", 10),
		AMQPURL:      os.Getenv("RABBITMQ_URL"),
		CacheTTLSec:  getint("CACHE_TTL_SEC", 30),
		RateLimit:    getint("RATE_LIMIT_PER_MIN", 0),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or the given default.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getint is like getenv for integers; a malformed value is fatal.
func getint(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
