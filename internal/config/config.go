// Package config resolves client settings from flags, FAMILYFIT_* env vars
// and an optional config file in the state directory.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/familyfit/familyfit/pkg/session"
)

// Settings keys.
const (
	KeyAPIURL      = "api_url"
	KeyWebURL      = "web_url"
	KeyToken       = "token"
	KeyEnforceAuth = "enforce_auth"
	KeyStateDir    = "state_dir"
	KeyLogFile     = "log_file"
)

// Default values.
const (
	DefaultAPIURL      = "http://localhost:8000"
	DefaultWebURL      = "http://localhost:5173"
	DefaultEnforceAuth = true
	EnvPrefix          = "FAMILYFIT"
)

// Config is the resolved client configuration.
type Config struct {
	APIURL      string
	WebURL      string
	Token       string // FAMILYFIT_TOKEN override; empty means use the token file
	EnforceAuth bool
	StateDir    string
	LogFile     string // empty disables logging
}

// New returns a viper instance with defaults and env binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyWebURL, DefaultWebURL)
	v.SetDefault(KeyEnforceAuth, DefaultEnforceAuth)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags registers the persistent flags and binds them to v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String("api-url", DefaultAPIURL, "FamilyFit API server origin")
	fs.String("web-url", DefaultWebURL, "FamilyFit web app origin (for open)")
	fs.Bool("enforce-auth", DefaultEnforceAuth, "require a session for protected pages")
	fs.String("state-dir", "", "session and config directory (default ~/.familyfit)")
	fs.String("log-file", "", "log file (default <state-dir>/familyfit.log, \"-\" disables)")

	for key, flag := range map[string]string{
		KeyAPIURL:      "api-url",
		KeyWebURL:      "web-url",
		KeyEnforceAuth: "enforce-auth",
		KeyStateDir:    "state-dir",
		KeyLogFile:     "log-file",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("config.BindFlags: %s: %w", flag, err)
		}
	}
	return nil
}

// Load reads the optional config.yaml from the state directory and resolves
// the final Config.
func Load(v *viper.Viper) (*Config, error) {
	stateDir := v.GetString(KeyStateDir)
	if stateDir == "" {
		dir, err := session.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
		stateDir = dir
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(stateDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
	}

	logFile := v.GetString(KeyLogFile)
	switch logFile {
	case "":
		logFile = filepath.Join(stateDir, "familyfit.log")
	case "-":
		logFile = ""
	}

	cfg := &Config{
		APIURL:      strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		WebURL:      strings.TrimRight(v.GetString(KeyWebURL), "/"),
		Token:       strings.TrimSpace(v.GetString(KeyToken)),
		EnforceAuth: v.GetBool(KeyEnforceAuth),
		StateDir:    stateDir,
		LogFile:     logFile,
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("config.Load: %s is empty", KeyAPIURL)
	}
	return cfg, nil
}
