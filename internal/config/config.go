package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The types reflect how the values are used
// in the application: strings for identifiers and secrets, ints for
// durations and costs.
type Config struct {
    Env          string // application environment (e.g. "dev", "prod")
    Port         string // HTTP port to listen on
    DBUser       string // database username
    DBPass       string // database password (optional)
    DBHost       string // database host address
    DBPort       string // database port number
    DBName       string // database name
    JWTSecret    string // secret used to sign JWTs
    AccessTTLMin int    // access token time-to-live in minutes
    BcryptCost   int    // bcrypt cost for password hashing
    MediaDir     string // directory backing the blob store
    WorkflowURL  string // workflow trigger webhook; empty disables forwarding
    WorkflowKey  string // optional bearer key for the webhook
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message;
// the rest fall back to defaults.
func Load() Config {
    return Config{
        Env:          getenv("APP_ENV", "dev"),
        Port:         getenv("APP_PORT", "5001"),
        DBUser:       must("DB_USER"),
        DBPass:       os.Getenv("DB_PASS"), // empty allowed
        DBHost:       must("DB_HOST"),
        DBPort:       must("DB_PORT"),
        DBName:       must("DB_NAME"),
        JWTSecret:    must("JWT_SECRET"),
        AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 24*60), // tokens live 24h by default
        BcryptCost:   envInt("BCRYPT_COST", 12),
        MediaDir:     getenv("MEDIA_DIR", "media"),
        WorkflowURL:  os.Getenv("WORKFLOW_URL"),
        WorkflowKey:  os.Getenv("WORKFLOW_KEY"),
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

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    if n, err := strconv.Atoi(v); err == nil {
        return n
    }
    return def
}
