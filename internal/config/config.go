package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// DelayRange bounds the randomized politeness delay applied between fetches.
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// Sender identifies the party on whose behalf outreach messages are generated.
type Sender struct {
	Name    string
	Company string
	Email   string
	Phone   string
	Website string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL       string
	JWTSecret         string
	Port              string
	City              string
	Industries        []string
	MaxPerIndustry    int
	RequestDelay      DelayRange
	CheckTimeout      time.Duration
	OutputDir         string
	OutputFormat      string
	RulesFile         string
	SheetsSpreadsheet string
	AdminEmail        string
	AdminPasswordHash string
	RateLimitScan     RateLimitConfig
	TokenTTL          time.Duration
	Sender            Sender
}

var defaultIndustries = []string{
	"restauracje",
	"kawiarnie",
	"kancelarie prawne",
	"fryzjerzy",
	"salony kosmetyczne",
	"mechanicy samochodowi",
	"dentyści",
	"weterynarze",
	"piekarnie",
	"kwiaciarnie",
	"fotografowie",
	"biura rachunkowe",
	"agencje nieruchomości",
	"firmy sprzątające",
	"usługi remontowe",
	"elektrycy",
	"hydraulicy",
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret"),
		Port:              getEnv("PORT", "8080"),
		City:              getEnv("CITY", "Szczecin"),
		MaxPerIndustry:    parseInt(getEnv("MAX_RESULTS_PER_INDUSTRY", "20"), 20),
		CheckTimeout:      parseDuration(getEnv("WEBSITE_CHECK_TIMEOUT", "10s"), 10*time.Second),
		OutputDir:         getEnv("OUTPUT_DIR", "output"),
		OutputFormat:      strings.ToLower(getEnv("OUTPUT_FORMAT", "csv")),
		RulesFile:         os.Getenv("RULES_FILE"),
		SheetsSpreadsheet: os.Getenv("SHEETS_SPREADSHEET_ID"),
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@localhost"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		TokenTTL:          parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		Sender: Sender{
			Name:    getEnv("SENDER_NAME", "Jan Kowalski"),
			Company: getEnv("SENDER_COMPANY", "WebStudio Szczecin"),
			Email:   getEnv("SENDER_EMAIL", "kontakt@webstudio.pl"),
			Phone:   getEnv("SENDER_PHONE", "+48 123 456 789"),
			Website: getEnv("SENDER_WEBSITE", "https://webstudio.pl"),
		},
	}

	cfg.Industries = splitList(getEnv("INDUSTRIES", ""))
	if len(cfg.Industries) == 0 {
		cfg.Industries = defaultIndustries
	}

	delay, err := parseDelayRange(getEnv("REQUEST_DELAY", "2s-5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_DELAY value: %w", err)
	}
	cfg.RequestDelay = delay

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SCAN", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SCAN value: %w", err)
	}
	cfg.RateLimitScan = rl

	return cfg, nil
}

func parseDelayRange(value string) (DelayRange, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return DelayRange{}, fmt.Errorf("expected format <min>-<max>, got %q", value)
	}
	min, err := time.ParseDuration(strings.TrimSpace(parts[0]))
	if err != nil {
		return DelayRange{}, fmt.Errorf("invalid minimum delay: %v", parts[0])
	}
	max, err := time.ParseDuration(strings.TrimSpace(parts[1]))
	if err != nil {
		return DelayRange{}, fmt.Errorf("invalid maximum delay: %v", parts[1])
	}
	if min < 0 || max < min {
		return DelayRange{}, fmt.Errorf("delay range %q is not ordered", value)
	}
	return DelayRange{Min: min, Max: max}, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseInt(input string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
