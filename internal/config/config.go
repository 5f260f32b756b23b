// Package config provides configuration loading and validation for the
// weather bot. It reads from a YAML file with BOT_* environment variable
// overrides, applies defaults, and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components:
// logging, the Telegram transport, the database, the forecast API,
// and user-facing reply texts.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Messages Messages       `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot transport settings.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// DatabaseConfig holds the SQLite database settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ForecastConfig holds the Open-Meteo API endpoints and request timeout.
type ForecastConfig struct {
	BaseURL      string        `mapstructure:"base_url"      validate:"url"`
	GeocodingURL string        `mapstructure:"geocoding_url" validate:"url"`
	Timeout      time.Duration `mapstructure:"timeout"       validate:"min=1s,max=2m"`
}

// Messages holds every user-facing reply text.
type Messages struct {
	Welcome               string `mapstructure:"welcome"`
	Help                  string `mapstructure:"help"`
	UnknownCommand        string `mapstructure:"unknown_command"`
	EnterPlace            string `mapstructure:"enter_place"`
	ChoosePeriod          string `mapstructure:"choose_period"`
	UnknownPeriod         string `mapstructure:"unknown_period"`
	EnterReminderTime     string `mapstructure:"enter_reminder_time"`
	WrongTimeFormat       string `mapstructure:"wrong_time_format"`
	ReminderAdded         string `mapstructure:"reminder_added"`
	ReminderUpdated       string `mapstructure:"reminder_updated"`
	ReminderDeleted       string `mapstructure:"reminder_deleted"`
	NoReminders           string `mapstructure:"no_reminders"`
	EnterPositionToDelete string `mapstructure:"enter_position_to_delete"`
	EnterPositionToEdit   string `mapstructure:"enter_position_to_edit"`
	NotANumber            string `mapstructure:"not_a_number"`
	NoReminderAtPosition  string `mapstructure:"no_reminder_at_position"`
	EnterNewPlace         string `mapstructure:"enter_new_place"`
	EnterNewTime          string `mapstructure:"enter_new_time"`
	Cancelled             string `mapstructure:"cancelled"`
	PlaceNotFound         string `mapstructure:"place_not_found"`
	GeneralError          string `mapstructure:"general_error"`
}

// LoadConfig reads configuration from the given YAML file, applies defaults
// for optional fields and BOT_* environment overrides, and validates the
// result. A missing config file is not an error; defaults and environment
// variables are used instead.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	// An empty default keeps the key visible to viper so the BOT_TELEGRAM_TOKEN
	// environment override is picked up during Unmarshal; validation still
	// rejects an empty token.
	v.SetDefault("telegram.token", "")

	v.SetDefault("database.path", "storage.db")

	v.SetDefault("forecast.base_url", "https://api.open-meteo.com")
	v.SetDefault("forecast.geocoding_url", "https://geocoding-api.open-meteo.com")
	v.SetDefault("forecast.timeout", 10*time.Second)

	v.SetDefault("messages.welcome", "Hi! I can tell you the weather and remind you about it daily. Send /help to see what I understand.")
	v.SetDefault("messages.help", "Commands:\n/weather - forecast for a place and period\n/today <place> - today's forecast\n/week <place> - 7-day forecast\n/subscribe - daily forecast reminder\n/reminders - list your reminders\n/edit - edit a reminder\n/delete - delete a reminder\n/cancel - abort the current action")
	v.SetDefault("messages.unknown_command", "I don't understand that. Send /help to see available commands.")
	v.SetDefault("messages.enter_place", "Please enter a place name.")
	v.SetDefault("messages.choose_period", "Choose a period: today, tomorrow or week.")
	v.SetDefault("messages.unknown_period", "Please pick one of: today, tomorrow, week.")
	v.SetDefault("messages.enter_reminder_time", "At what time should I send the forecast? Use 24-hour HH:MM (UTC).")
	v.SetDefault("messages.wrong_time_format", "That doesn't look like a valid time. Use 24-hour HH:MM, for example 08:00.")
	v.SetDefault("messages.reminder_added", "Done! I'll send the forecast every day.")
	v.SetDefault("messages.reminder_updated", "Reminder updated.")
	v.SetDefault("messages.reminder_deleted", "Reminder deleted.")
	v.SetDefault("messages.no_reminders", "You have no reminders yet. Use /subscribe to add one.")
	v.SetDefault("messages.enter_position_to_delete", "Which reminder should I delete? Send its number from /reminders.")
	v.SetDefault("messages.enter_position_to_edit", "Which reminder should I edit? Send its number from /reminders.")
	v.SetDefault("messages.not_a_number", "Please send a number.")
	v.SetDefault("messages.no_reminder_at_position", "There is no reminder at that position.")
	v.SetDefault("messages.enter_new_place", "Send the new place name.")
	v.SetDefault("messages.enter_new_time", "Send the new time as 24-hour HH:MM (UTC).")
	v.SetDefault("messages.cancelled", "Cancelled.")
	v.SetDefault("messages.place_not_found", "I couldn't find that place. Please check the spelling.")
	v.SetDefault("messages.general_error", "Something went wrong. Please try again later.")
}
