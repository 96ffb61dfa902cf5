package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Accounting
	RequiredDailyHours float64

	// Database
	SQLiteDBPath string

	// Backend selection
	DataBackend string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Telegram reminders
	TelegramToken  string
	TelegramChatID int64

	// Google Sheets export
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Worker
	ReminderTime    string // HH:MM, local time of the daily unreported check
	ConsumeInterval time.Duration
	MaxConcurrency  int
}

func Load() *Config {
	return &Config{
		RequiredDailyHours: getEnvFloat("REQUIRED_DAILY_HOURS", 8),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/ore.db"),
		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ore"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "day_changes"),

		TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Summaries"),

		ReminderTime:    getEnv("REMINDER_TIME", "09:00"),
		ConsumeInterval: getEnvDuration("CONSUME_INTERVAL", 30*time.Second),
		MaxConcurrency:  getEnvInt("MAX_CONCURRENCY", 4),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if c.RequiredDailyHours <= 0 || c.RequiredDailyHours > 24 {
		errs = append(errs, fmt.Sprintf("invalid required daily hours %v: must be in (0, 24]", c.RequiredDailyHours))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [sqlite memory]", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		errs = append(errs, "TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	if _, err := parseClock(c.ReminderTime); err != nil {
		errs = append(errs, err.Error())
	}

	if c.ConsumeInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid consume interval %v: must be at least 1 second", c.ConsumeInterval))
	}
	if c.MaxConcurrency < 1 {
		errs = append(errs, fmt.Sprintf("invalid max concurrency %d: must be at least 1", c.MaxConcurrency))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// ReminderClock returns the reminder time as hour and minute.
func (c *Config) ReminderClock() (hour, minute int) {
	hm, err := parseClock(c.ReminderTime)
	if err != nil {
		return 9, 0
	}
	return hm[0], hm[1]
}

func parseClock(s string) ([2]int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return [2]int{}, fmt.Errorf("invalid reminder time %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return [2]int{}, fmt.Errorf("invalid hour in reminder time %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return [2]int{}, fmt.Errorf("invalid minute in reminder time %q", s)
	}
	return [2]int{hour, minute}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
