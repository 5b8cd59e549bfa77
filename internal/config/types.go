package config

// Config is the complete resolved configuration for one process run.
type Config struct {
	API            APIConfig          `mapstructure:"api"`
	Auth           AuthConfig         `mapstructure:"auth"`
	Scripts        ScriptsConfig      `mapstructure:"scripts"`
	Logging        LoggingConfig      `mapstructure:"logging"`
	Debug          bool               `mapstructure:"debug"`
	DefaultProfile string             `mapstructure:"default_profile"`
	Profiles       map[string]Profile `mapstructure:"profiles"`

	// Profile is the name of the profile that was applied, if any.
	Profile string `mapstructure:"-"`
}

// APIConfig holds the API endpoint settings.
type APIConfig struct {
	URL           string `mapstructure:"url"`
	Accept        string `mapstructure:"accept"`
	NoForwardAuth bool   `mapstructure:"no_forward_auth"`
}

// AuthConfig holds credentials. Username selects Basic auth and takes
// priority over Token.
type AuthConfig struct {
	Token    string `mapstructure:"token"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ScriptsConfig lists the directories scanned for script files, in lookup
// order.
type ScriptsConfig struct {
	Dirs []string `mapstructure:"dirs"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// Profile is a named bundle of endpoint and credential overrides selected at
// runtime. Empty fields inherit the top-level value.
type Profile struct {
	API  APIConfig  `mapstructure:"api"`
	Auth AuthConfig `mapstructure:"auth"`
}
