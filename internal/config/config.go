package config

import (
	"fmt"
	"strings"
	"time"

	lperrors "github.com/schubergphilis/lastpassreportingcli/internal/errors"
	"github.com/schubergphilis/lastpassreportingcli/internal/logging"
	"github.com/schubergphilis/lastpassreportingcli/internal/metrics"
	"github.com/schubergphilis/lastpassreportingcli/internal/validation"
)

// DefaultCutoffDate is the day of the Lastpass security incident, the
// reference point for deciding whether a secret counts as rotated.
const DefaultCutoffDate = "2022-09-22"

// Settings holds the option values as resolved from command line flags
// and environment variables, before validation.
type Settings struct {
	LogLevel         string
	LogConfigFile    string
	Username         string
	Password         string
	OTP              string
	WarningWhitelist []string
	CutoffDate       string
	NonInteractive   bool
	NoColor          bool
}

// Config holds the runtime configuration shared by all commands.
type Config struct {
	Logger         *logging.Logger
	Cutoff         time.Time
	Whitelist      metrics.Whitelist
	Username       string
	Password       string
	OTP            string
	NonInteractive bool
	NoColor        bool
}

// Load validates the resolved settings and fills the runtime
// configuration. The logger is built first so a broken logging setup
// fails before any other work, and the whitelist is checked here so bad
// ids are rejected before the vault is ever contacted.
func (c *Config) Load(s Settings) error {
	logger, err := buildLogger(s)
	if err != nil {
		return err
	}

	cutoff, err := parseCutoff(s.CutoffDate)
	if err != nil {
		return err
	}

	whitelist, err := buildWhitelist(s.WarningWhitelist)
	if err != nil {
		return err
	}

	c.Logger = logger
	c.Cutoff = cutoff
	c.Whitelist = whitelist
	c.Username = s.Username
	c.Password = s.Password
	c.OTP = s.OTP
	c.NonInteractive = s.NonInteractive
	c.NoColor = s.NoColor
	return nil
}

func buildLogger(s Settings) (*logging.Logger, error) {
	if s.LogConfigFile != "" {
		cfg, err := logging.LoadConfig(s.LogConfigFile)
		if err != nil {
			return nil, lperrors.UserError{
				Message:    fmt.Sprintf("File \"%s\" is not valid json, cannot continue.", s.LogConfigFile),
				Details:    err.Error(),
				Suggestion: "Fix the logging configuration file or drop --log-config to log to stderr",
				Err:        err,
			}
		}
		logger, err := logging.NewFromConfig(cfg, s.NoColor)
		if err != nil {
			return nil, lperrors.UserError{
				Message:    "Failed to set up logging",
				Details:    err.Error(),
				Suggestion: "Check that the configured log file location is writable",
				Err:        err,
			}
		}
		return logger, nil
	}

	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, lperrors.ConfigError{
			Field:      "log-level",
			Value:      s.LogLevel,
			Message:    "unknown log level",
			Suggestion: "Choose one of: debug, info, warning, error, critical",
		}
	}
	return logging.New(level, s.NoColor), nil
}

func parseCutoff(value string) (time.Time, error) {
	if value == "" {
		value = DefaultCutoffDate
	}
	cutoff, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, lperrors.ConfigError{
			Field:      "cutoff-date",
			Value:      value,
			Message:    "not a valid date",
			Suggestion: "Use the YYYY-MM-DD format, for example 2022-09-22",
		}
	}
	return cutoff, nil
}

func buildWhitelist(ids []string) (metrics.Whitelist, error) {
	result := validation.SecretIDWhitelist(ids)
	if !result.Valid {
		return nil, lperrors.UserError{
			Message:    fmt.Sprintf("%s are not valid ids.", strings.Join(result.Invalid, ", ")),
			Details:    strings.Join(result.Errors, ", "),
			Suggestion: "Secret ids are numbers of 18 or 19 digits, separated by commas",
		}
	}
	return metrics.NewWhitelist(ids), nil
}
