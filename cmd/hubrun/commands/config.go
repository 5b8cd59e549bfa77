package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubworks-io/hubrun/internal/constants"
)

// ErrUnknownConfigKey reports a key the config subcommands do not know.
var ErrUnknownConfigKey = errors.New("unknown configuration key")

// settableKeys lists the keys the set subcommand accepts. Credentials go
// through login, which also restricts file permissions.
var settableKeys = map[string]bool{
	"api.url":             true,
	"api.accept":          true,
	"api.no_forward_auth": true,
	"default_profile":     true,
	"logging.level":       true,
	"logging.format":      true,
	"logging.color":       true,
}

// NewConfigCommand creates the config command with its subcommands.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and modify configuration",
	}

	cmd.AddCommand(newConfigListCommand())
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the resolved configuration",
		Long:  "Show the configuration after file, environment, and profile merging. Secrets are masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			settings := cfg.Settings()
			for _, secret := range []string{"token", "password"} {
				if value, ok := settings[secret].(string); ok && value != "" {
					settings[secret] = Masked
				}
			}

			format := outputFormat(cmd)
			if format != OutputFormatTable {
				return renderPayload(os.Stdout, format, settings)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Key", "Value")

			for _, key := range sortedKeys(settings) {
				_ = table.Append(key, fmt.Sprint(settings[key]))
			}

			_ = table.Render()

			return nil
		},
	}
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print one resolved configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			settings := cfg.Settings()

			value, ok := settings[args[0]]
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnknownConfigKey, args[0])
			}

			fmt.Println(value)

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Persist one configuration value",
		Long:  "Write a configuration value to the config file. Credential fields cannot be set here; use login.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if !settableKeys[key] {
				return fmt.Errorf("%w: %q (settable: %s)", ErrUnknownConfigKey, key, strings.Join(sortedSettableKeys(), ", "))
			}

			cfgFile, _ := cmd.Flags().GetString("config")

			path, err := resolveConfigFile(cfgFile)
			if err != nil {
				return err
			}

			v := viper.New()
			v.SetConfigFile(path)

			if _, err := os.Stat(path); err == nil {
				err = v.ReadInConfig()
				if err != nil {
					return fmt.Errorf("reading existing config: %w", err)
				}
			}

			v.Set(key, value)

			err = v.WriteConfigAs(path)
			if err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Printf("Set %s in %s\n", key, path)

			return nil
		},
	}
}

func sortedSettableKeys() []string {
	keys := make(map[string]interface{}, len(settableKeys))
	for key := range settableKeys {
		keys[key] = true
	}

	return sortedKeys(keys)
}

// resolveConfigFile picks the file set writes to: the explicit --config
// value, or the per-user default location.
func resolveConfigFile(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	dir := filepath.Join(home, ".hubrun")

	err = os.MkdirAll(dir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return filepath.Join(dir, "config.yml"), nil
}
