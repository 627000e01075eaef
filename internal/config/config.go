package config // package config loads application configuration from environment variables

import (
	"encoding/json" // json decodes the ADMINS credential map
	"log"           // log is used to report configuration errors and halt execution
	"os"            // os provides access to environment variables
	"strconv"       // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The token secrets come in pairs: one for the
// user principal and one for the admin principal.  Tokens signed with one
// secret are never accepted by surfaces expecting the other.
type Config struct {
	Env            string            // application environment (e.g. "dev", "prod")
	Port           string            // HTTP port to listen on
	DBUser         string            // database username
	DBPass         string            // database password (optional)
	DBHost         string            // database host address
	DBPort         string            // database port number
	DBName         string            // database name
	UserJWTSecret  string            // secret used to sign user tokens
	AdminJWTSecret string            // secret used to sign admin tokens
	TokenTTLMin    int               // token time-to-live in minutes (both kinds)
	BcryptCost     int               // bcrypt cost for password hashing
	Admins         map[string]string // admin username -> bcrypt password digest
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		UserJWTSecret:  must("USER_JWT_SECRET"),
		AdminJWTSecret: must("ADMIN_JWT_SECRET"),
		TokenTTLMin:    mustInt("TOKEN_TTL_MIN"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		Admins:         mustAdmins("ADMINS"),
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

// mustAdmins parses a JSON object of admin usernames to bcrypt digests,
// e.g. ADMINS={"root":"$2a$10$..."}.  Admin accounts live only in the
// environment; they are never stored in the database.
func mustAdmins(key string) map[string]string {
	s := must(key)
	m := map[string]string{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		log.Fatalf("invalid JSON for %s: %v", key, err)
	}
	if len(m) == 0 {
		log.Fatalf("%s must contain at least one admin entry", key)
	}
	return m
}
