// Package config loads and merges the runner configuration: config-file
// discovery, environment overrides, and profile selection.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/hubworks-io/hubrun/internal/constants"
)

// ErrUnknownProfile reports a --profile value with no matching profile
// section in the configuration.
var ErrUnknownProfile = errors.New("unknown profile")

// Load reads configuration from the given file, or from the standard search
// locations when configPath is empty, applies environment overrides, and
// merges the selected profile on top of the defaults. An empty profile falls
// back to the configured default_profile; no profile at all is fine.
func Load(configPath, profile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".hubrun"))
		}

		v.AddConfigPath("/etc/hubrun/")
	}

	v.SetEnvPrefix("HUBRUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about; binding the
	// credential keys explicitly makes HUBRUN_AUTH_TOKEN and friends work
	// without a config file entry or default.
	for _, key := range []string{"auth.token", "auth.username", "auth.password", "default_profile", "debug"} {
		_ = v.BindEnv(key)
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file is acceptable: flags and environment can carry
		// everything the runner needs.
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if profile == "" {
		profile = cfg.DefaultProfile
	}

	if profile != "" {
		err = cfg.applyProfile(profile)
		if err != nil {
			return nil, err
		}
	}

	err = validate(&cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", constants.DefaultAPIEndpoint)
	v.SetDefault("api.accept", constants.DefaultAccept)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("scripts.dirs", defaultScriptDirs())
}

// defaultScriptDirs returns the standard script lookup path: the working
// directory's scripts/ folder first, then the per-user one.
func defaultScriptDirs() []string {
	dirs := []string{"scripts"}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".hubrun", "scripts"))
	}

	return dirs
}

// applyProfile overlays the named profile's non-empty fields on top of the
// top-level settings.
func (c *Config) applyProfile(name string) error {
	prof, ok := c.Profiles[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}

	if prof.API.URL != "" {
		c.API.URL = prof.API.URL
	}

	if prof.API.Accept != "" {
		c.API.Accept = prof.API.Accept
	}

	if prof.API.NoForwardAuth {
		c.API.NoForwardAuth = true
	}

	if prof.Auth.Token != "" {
		c.Auth.Token = prof.Auth.Token
	}

	if prof.Auth.Username != "" {
		c.Auth.Username = prof.Auth.Username
	}

	if prof.Auth.Password != "" {
		c.Auth.Password = prof.Auth.Password
	}

	c.Profile = name

	return nil
}

// validate checks if the configuration is usable.
func validate(cfg *Config) error {
	if cfg.API.URL == "" {
		return errors.New("api.url is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("unknown logging level %q", cfg.Logging.Level)
	}

	return nil
}

// Settings flattens the configuration into the map handed to scripts.
// Credential values are included: scripts are trusted local code.
func (c *Config) Settings() map[string]interface{} {
	return map[string]interface{}{
		"api_url":     c.API.URL,
		"accept":      c.API.Accept,
		"token":       c.Auth.Token,
		"username":    c.Auth.Username,
		"password":    c.Auth.Password,
		"profile":     c.Profile,
		"debug":       c.Debug,
		"script_dirs": append([]string(nil), c.Scripts.Dirs...),
	}
}
