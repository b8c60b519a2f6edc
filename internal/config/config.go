// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"time"
)

// Amadeus test environment endpoints. Overridable so tests and self-hosted
// mocks can point the client elsewhere.
const (
	defaultTokenURL  = "https://test.api.amadeus.com/v1/security/oauth2/token"
	defaultOffersURL = "https://test.api.amadeus.com/v2"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Required server variables are enforced by must()
// and abort startup when missing; the Amadeus credentials are deliberately
// read without enforcement so that the upstream client constructor can
// report a proper configuration error before any network call is attempted.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	AmadeusClientID     string // upstream API client id
	AmadeusClientSecret string // upstream API client secret
	AmadeusTokenURL     string // token endpoint URL
	AmadeusBaseURL      string // offer-search API base URL

	SessionSecret string        // secret used to sign session tokens
	SessionTTL    time.Duration // how long an idle reservation session survives

	LedgerBackend string // "csv" or "mysql"
	LedgerPath    string // path of the CSV ledger file (csv backend)
	AirportsPath  string // path of the airports reference data file

	DBUser string // database username (mysql backend only)
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name
}

// Load reads configuration values from environment variables and returns a
// Config. Missing required variables cause the program to exit with a fatal
// log message.
func Load() Config {
	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		AmadeusClientID:     os.Getenv("AMADEUS_CLIENT_ID"),
		AmadeusClientSecret: os.Getenv("AMADEUS_CLIENT_SECRET"),
		AmadeusTokenURL:     getenv("AMADEUS_TOKEN_URL", defaultTokenURL),
		AmadeusBaseURL:      getenv("AMADEUS_BASE_URL", defaultOffersURL),

		SessionSecret: must("SESSION_SECRET"),
		SessionTTL:    parseDur(getenv("SESSION_TTL", "30m")),

		LedgerBackend: getenv("LEDGER_BACKEND", "csv"),
		LedgerPath:    getenv("LEDGER_PATH", "reservations.csv"),
		AirportsPath:  getenv("AIRPORTS_PATH", "airports.dat"),

		DBUser: os.Getenv("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: os.Getenv("DB_HOST"),
		DBPort: os.Getenv("DB_PORT"),
		DBName: os.Getenv("DB_NAME"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
