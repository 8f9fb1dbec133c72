package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Sync profiles. Both run the same job; they differ in target table and in
// whether fund codes are resolved to ids.
const (
	ProfileFundIDs = "fund_ids"
	ProfileCodes   = "codes"
)

type Config struct {
	// Store
	StoreURL string
	StoreKey string

	// Job
	Profile        string
	TargetTable    string
	FundsTable     string
	ResolveFundIDs bool

	// Source
	TefasURL    string
	FundKind    string
	HTTPTimeout time.Duration

	// Process
	LogEnv     string
	ServerPort int
	ScheduleAt string
}

// Load reads the optional .env file and the process environment once. It
// fails only on values that cannot be parsed; missing keys are left to
// Validate so callers decide when they become fatal.
func Load() (Config, error) {
	_ = godotenv.Load()

	var errs []string
	httpTimeout, err := envDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		errs = append(errs, err.Error())
	}
	serverPort, err := envInt("SERVER_PORT", 8080)
	if err != nil {
		errs = append(errs, err.Error())
	}

	profile := envStr("SYNC_PROFILE", ProfileFundIDs)
	target, resolve := profileDefaults(profile)

	cfg := Config{
		StoreURL: envStr("STORE_URL", ""),
		StoreKey: envStr("STORE_KEY", ""),

		Profile:        profile,
		TargetTable:    envStr("TARGET_TABLE", target),
		FundsTable:     envStr("FUNDS_TABLE", "funds"),
		ResolveFundIDs: resolve,

		TefasURL:    envStr("TEFAS_URL", "https://www.tefas.gov.tr"),
		FundKind:    envStr("TEFAS_FUND_KIND", "YAT"),
		HTTPTimeout: httpTimeout,

		LogEnv:     envStr("LOG_ENV", envStr("APP_ENV", "development")),
		ServerPort: serverPort,
		ScheduleAt: envStr("SCHEDULE_AT", "19:00"),
	}

	if len(errs) > 0 {
		return cfg, fmt.Errorf("config load failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return cfg, nil
}

func profileDefaults(profile string) (table string, resolve bool) {
	switch profile {
	case ProfileCodes:
		return "prices", false
	default:
		return "price_history", true
	}
}

func (c Config) Validate() error {
	var errs []string

	if c.StoreURL == "" {
		errs = append(errs, "STORE_URL is required")
	}
	if c.StoreKey == "" {
		errs = append(errs, "STORE_KEY is required")
	}
	if c.Profile != ProfileFundIDs && c.Profile != ProfileCodes {
		errs = append(errs, fmt.Sprintf("SYNC_PROFILE must be %q or %q, got %q", ProfileFundIDs, ProfileCodes, c.Profile))
	}
	if c.TargetTable == "" {
		errs = append(errs, "TARGET_TABLE must not be empty")
	}
	if c.ResolveFundIDs && c.FundsTable == "" {
		errs = append(errs, "FUNDS_TABLE must not be empty when fund ids are resolved")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// ScheduleClock parses ScheduleAt ("HH:MM").
func (c Config) ScheduleClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.ScheduleAt)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid SCHEDULE_AT %q: %w", c.ScheduleAt, err)
	}
	return t.Hour(), t.Minute(), nil
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a duration such as 30s, got %q", key, v)
	}
	return d, nil
}
