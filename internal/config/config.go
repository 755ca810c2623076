// Package config loads punchclock settings from a YAML file, PUNCHCLOCK_*
// environment variables and flags, and validates them into a Config.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"punchclock/internal/hrclient"
	"punchclock/internal/punchlog"
)

const (
	// DefaultConfigName is looked up in the working and home directories.
	DefaultConfigName = "punchclock"

	envPrefix = "PUNCHCLOCK"

	DefaultCheckInURL  = "https://people.zoho.com/xebiacom/AttendanceAction.zp?mode=punchIn"
	DefaultCheckOutURL = "https://people.zoho.com/xebiacom/AttendanceAction.zp?mode=punchOut"
	DefaultReferer     = "https://people.zoho.com/xebiacom/zp"
	DefaultURLMode     = "myspace"
)

var (
	errConfigIsNotSet     = errors.New("configuration is not set")
	errCheckInURLRequired = errors.New("checkin_url must be provided")
	errCheckOutURLMissing = errors.New("checkout_url must be provided")
	errUnknownPayload     = errors.New("payload must be multipart or json")
)

// Form holds the vendor form field values.
type Form struct {
	Conreqcsr string `mapstructure:"conreqcsr"`
	URLMode   string `mapstructure:"url_mode"`
	Latitude  string `mapstructure:"latitude"`
	Longitude string `mapstructure:"longitude"`
	Accuracy  string `mapstructure:"accuracy"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Config struct {
	CheckInURL  string            `mapstructure:"checkin_url"`
	CheckOutURL string            `mapstructure:"checkout_url"`
	Payload     string            `mapstructure:"payload"`
	Form        Form              `mapstructure:"form"`
	Referer     string            `mapstructure:"referer"`
	Headers     map[string]string `mapstructure:"headers"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	JournalPath string            `mapstructure:"journal_path"`
	Log         Log               `mapstructure:"log"`
	MetricsAddr string            `mapstructure:"metrics_addr"`
}

// DefaultLogFile is ~/.punchclock/logs/punchclock.log, or empty without a home directory.
func DefaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".punchclock", "logs", "punchclock.log")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("checkin_url", DefaultCheckInURL)
	v.SetDefault("checkout_url", DefaultCheckOutURL)
	v.SetDefault("payload", string(hrclient.PayloadMultipart))
	v.SetDefault("form.conreqcsr", "")
	v.SetDefault("form.url_mode", DefaultURLMode)
	v.SetDefault("form.latitude", "")
	v.SetDefault("form.longitude", "")
	v.SetDefault("form.accuracy", "")
	v.SetDefault("referer", DefaultReferer)
	v.SetDefault("headers", map[string]string{})
	v.SetDefault("timeout", hrclient.DefaultTimeout)
	v.SetDefault("journal_path", punchlog.MemoryPath)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", DefaultLogFile())
	v.SetDefault("metrics_addr", "")
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads cfgFile, or the first punchclock.yaml found in the working
// directory or home directory. A missing default file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".punchclock"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decoderOption()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func decoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// Validate checks required fields and fills zero values with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.CheckInURL == "" {
		return errCheckInURLRequired
	}
	if cfg.CheckOutURL == "" {
		return errCheckOutURLMissing
	}
	if _, err := url.ParseRequestURI(cfg.CheckInURL); err != nil {
		return fmt.Errorf("invalid checkin_url: %w", err)
	}
	if _, err := url.ParseRequestURI(cfg.CheckOutURL); err != nil {
		return fmt.Errorf("invalid checkout_url: %w", err)
	}

	switch hrclient.Payload(strings.ToLower(cfg.Payload)) {
	case "":
		cfg.Payload = string(hrclient.PayloadMultipart)
	case hrclient.PayloadMultipart, hrclient.PayloadJSON:
		cfg.Payload = strings.ToLower(cfg.Payload)
	default:
		return fmt.Errorf("%w: %q", errUnknownPayload, cfg.Payload)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = hrclient.DefaultTimeout
	}
	if cfg.JournalPath == "" {
		cfg.JournalPath = punchlog.MemoryPath
	}

	return nil
}

// HRClient returns the submitter configuration.
func (c *Config) HRClient() hrclient.Config {
	headers := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		headers[k] = v
	}

	return hrclient.Config{
		CheckInURL:  c.CheckInURL,
		CheckOutURL: c.CheckOutURL,
		Payload:     hrclient.Payload(c.Payload),
		Form: hrclient.Form{
			Conreqcsr: c.Form.Conreqcsr,
			URLMode:   c.Form.URLMode,
			Latitude:  c.Form.Latitude,
			Longitude: c.Form.Longitude,
			Accuracy:  c.Form.Accuracy,
		},
		Referer: c.Referer,
		Headers: headers,
		Timeout: c.Timeout,
	}
}
