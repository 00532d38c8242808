package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
// Hold duration and gateway credentials are injected into the booking
// service at construction rather than read ad hoc, so tests can vary
// them deterministically.
type Config struct {
	Env               string // application environment (e.g. "dev", "prod")
	Port              string // HTTP port to listen on
	DBUser            string // database username
	DBPass            string // database password (optional)
	DBHost            string // database host address
	DBPort            string // database port number
	DBName            string // database name
	JWTSecret         string // secret used to sign JWTs
	AccessTTLMin      int    // access token time‑to‑live in minutes
	RefreshTTLDays    int    // refresh token time‑to‑live in days
	BcryptCost        int    // bcrypt cost for password hashing
	RazorpayKeyID     string // Razorpay API key id (also returned to clients for checkout)
	RazorpayKeySecret string // Razorpay API key secret; signs payment signatures
	Currency          string // ISO currency code for payment orders
	HoldDurationMin   int    // minutes a HOLD booking blocks its slot before expiring
	ReaperIntervalSec int    // seconds between expiry reaper sweeps
	AMQPURL           string // RabbitMQ URL for booking events (optional)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),                                 // environment (dev/test/prod)
		Port:              must("APP_PORT"),                                // port to bind the HTTP server
		DBUser:            must("DB_USER"),                                 // database user
		DBPass:            os.Getenv("DB_PASS"),                            // database password (empty allowed)
		DBHost:            must("DB_HOST"),                                 // database host
		DBPort:            must("DB_PORT"),                                 // database port
		DBName:            must("DB_NAME"),                                 // database name
		JWTSecret:         must("JWT_SECRET"),                              // secret used for signing JWTs
		AccessTTLMin:      mustInt("ACCESS_TOKEN_TTL_MIN"),                 // TTL for access tokens in minutes
		RefreshTTLDays:    mustInt("REFRESH_TOKEN_TTL_DAYS"),               // TTL for refresh tokens in days
		BcryptCost:        mustInt("BCRYPT_COST"),                          // bcrypt cost factor
		RazorpayKeyID:     must("RAZORPAY_KEY_ID"),                         // gateway key id
		RazorpayKeySecret: must("RAZORPAY_KEY_SECRET"),                     // gateway key secret
		Currency:          getenvDefault("CURRENCY", "INR"),                // payment currency
		HoldDurationMin:   intDefault("BOOKING_HOLD_DURATION_MINUTES", 10), // hold window
		ReaperIntervalSec: intDefault("EXPIRY_REAPER_INTERVAL_SEC", 60),    // reaper cadence
		AMQPURL:           os.Getenv("RABBITMQ_URL"),                       // broker URL (empty disables events)
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// getenvDefault returns the env value or def when unset.
func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intDefault returns the env value as int or def when unset/invalid.
func intDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
