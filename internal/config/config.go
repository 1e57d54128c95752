package config // package config loads application configuration from environment variables

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The types reflect how the values are used
// in the application: strings for identifiers and secrets, ints and
// durations for windows and timeouts.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days

	BotToken       string        // Telegram bot token, used for login verification and notifications
	TelegramMaxAge time.Duration // freshness window for Telegram auth payloads
	NotifyTimeout  time.Duration // HTTP timeout for outbound Telegram sends

	RabbitURL      string        // amqp:// URL assembled from the queue credentials
	OnlineQueue    string        // queue for venues bookable online
	CallQueue      string        // queue for venues that require a phone call
	PublishTimeout time.Duration // bound on the broker handshake per publish

	SuccessCode string // outcome code the workers report for a confirmed booking
	FailureCode string // outcome code the workers report for a failed booking

	InternalToken string // shared secret for service-to-service endpoints

	ReconcileInterval time.Duration // how often the dispatch reconciler sweeps
	ReconcileMinAge   time.Duration // minimum booking age before the sweep picks it up
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	rabbitHost := must("RABBITMQ_HOST")
	rabbitPort := getenvDefault("RABBITMQ_PORT", "5672")
	rabbitUser := must("RABBITMQ_USER")
	rabbitPass := must("RABBITMQ_PASS")

	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),

		BotToken:       must("BOT_TOKEN"),
		TelegramMaxAge: durDefault("TELEGRAM_AUTH_MAX_AGE", 24*time.Hour),
		NotifyTimeout:  durDefault("NOTIFY_TIMEOUT", 10*time.Second),

		RabbitURL: fmt.Sprintf("amqp://%s:%s@%s:%s/",
			rabbitUser, rabbitPass, rabbitHost, rabbitPort),
		OnlineQueue:    getenvDefault("ONLINE_QUEUE", "booking.online"),
		CallQueue:      getenvDefault("CALL_QUEUE", "booking.call"),
		PublishTimeout: durDefault("PUBLISH_TIMEOUT", 5*time.Second),

		SuccessCode: must("BOOKING_SUCCESS_STATE"),
		FailureCode: must("BOOKING_FAILURE_STATE"),

		InternalToken: must("INTERNAL_TOKEN"),

		ReconcileInterval: durDefault("RECONCILE_INTERVAL", time.Minute),
		ReconcileMinAge:   durDefault("RECONCILE_MIN_AGE", 2*time.Minute),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer. If conversion fails, the application logs a fatal error and
// exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durDefault(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, s)
	}
	return d
}
