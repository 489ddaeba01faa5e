package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// Supported chat platforms.
const (
	PlatformDiscord  = "discord"
	PlatformTelegram = "telegram"
)

// Supported verse sources.
const (
	SourceAPI    = "api"
	SourceStatic = "static"
)

const (
	DefaultVerseAPIURL    = "https://beta.ourmanna.com/api/v1/get?format=json&order=daily"
	DefaultVerseStaticURL = "https://www.bible.com/verse-of-the-day"
	DefaultFetchTimeout   = 10 * time.Second
	DefaultSendTime       = "08:00"
	DefaultUTCOffset      = "-06:00"
	DefaultPort           = 10000
)

// Error is a fatal configuration problem with a single variable.
type Error struct {
	Var    string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Var, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Var, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// AppConfig holds all configuration for the application
type AppConfig struct {
	Platform       string
	BotToken       string
	ChannelID      int64
	CommandPrefix  string
	VerseSource    string
	VerseAPIURL    string
	VerseStaticURL string
	FetchTimeout   time.Duration
	SendHour       int
	SendMinute     int
	Location       *time.Location // fixed-offset reference zone
	Port           int
	LogLevel       string
	Environment    string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.Platform = strings.ToLower(os.Getenv("BOT_PLATFORM"))
	if cfg.Platform == "" {
		cfg.Platform = PlatformDiscord
	}

	var tokenVar, channelVar string
	switch cfg.Platform {
	case PlatformDiscord:
		tokenVar, channelVar = "DISCORD_TOKEN", "DISCORD_CHANNEL_ID"
	case PlatformTelegram:
		tokenVar, channelVar = "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID"
	default:
		return nil, &Error{Var: "BOT_PLATFORM", Reason: fmt.Sprintf("must be %q or %q, got %q", PlatformDiscord, PlatformTelegram, cfg.Platform)}
	}

	cfg.BotToken = strings.TrimSpace(os.Getenv(tokenVar))
	if cfg.BotToken == "" {
		return nil, &Error{Var: tokenVar, Reason: "is not set"}
	}

	channelStr := strings.TrimSpace(os.Getenv(channelVar))
	if channelStr == "" {
		return nil, &Error{Var: channelVar, Reason: "is not set"}
	}
	cfg.ChannelID, err = strconv.ParseInt(channelStr, 10, 64)
	if err != nil {
		return nil, &Error{Var: channelVar, Reason: "is invalid", Err: err}
	}
	if cfg.ChannelID == 0 {
		return nil, &Error{Var: channelVar, Reason: "must be non-zero"}
	}

	cfg.CommandPrefix = os.Getenv("COMMAND_PREFIX")
	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = "!"
	}

	cfg.VerseSource = strings.ToLower(os.Getenv("VERSE_SOURCE"))
	if cfg.VerseSource == "" {
		cfg.VerseSource = SourceAPI
	}
	if cfg.VerseSource != SourceAPI && cfg.VerseSource != SourceStatic {
		return nil, &Error{Var: "VERSE_SOURCE", Reason: fmt.Sprintf("must be %q or %q, got %q", SourceAPI, SourceStatic, cfg.VerseSource)}
	}

	cfg.VerseAPIURL = os.Getenv("VERSE_API_URL")
	if cfg.VerseAPIURL == "" {
		cfg.VerseAPIURL = DefaultVerseAPIURL
	}
	cfg.VerseStaticURL = os.Getenv("VERSE_STATIC_URL")
	if cfg.VerseStaticURL == "" {
		cfg.VerseStaticURL = DefaultVerseStaticURL
	}

	cfg.FetchTimeout = DefaultFetchTimeout
	if v := os.Getenv("VERSE_FETCH_TIMEOUT"); v != "" {
		cfg.FetchTimeout, err = time.ParseDuration(v)
		if err != nil || cfg.FetchTimeout <= 0 {
			return nil, &Error{Var: "VERSE_FETCH_TIMEOUT", Reason: "must be a positive duration", Err: err}
		}
	}

	sendTime := os.Getenv("VOTD_SEND_TIME")
	if sendTime == "" {
		sendTime = DefaultSendTime
	}
	cfg.SendHour, cfg.SendMinute, err = ParseClock(sendTime)
	if err != nil {
		return nil, &Error{Var: "VOTD_SEND_TIME", Reason: "is invalid", Err: err}
	}

	offset := os.Getenv("VOTD_UTC_OFFSET")
	if offset == "" {
		offset = DefaultUTCOffset
	}
	cfg.Location, err = ParseOffset(offset)
	if err != nil {
		return nil, &Error{Var: "VOTD_UTC_OFFSET", Reason: "is invalid", Err: err}
	}

	cfg.Port = DefaultPort
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port, err = strconv.Atoi(v)
		if err != nil || cfg.Port <= 0 || cfg.Port > 65535 {
			return nil, &Error{Var: "PORT", Reason: "must be a valid TCP port", Err: err}
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("expected HH:MM: %w", err)
	}
	return t.Hour(), t.Minute(), nil
}

// ParseOffset parses a fixed UTC offset such as "-06:00" or "+05:30" into a
// location without daylight-saving rules.
func ParseOffset(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("-07:00", s)
	if err != nil {
		return nil, fmt.Errorf("expected ±HH:MM: %w", err)
	}
	_, secs := t.Zone()
	return time.FixedZone("UTC"+s, secs), nil
}
