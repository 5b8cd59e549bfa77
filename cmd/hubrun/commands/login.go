package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/hubworks-io/hubrun/internal/constants"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store credentials in the configuration file",
		Long: `Prompt for credentials and write them to the configuration file. A username
selects Basic auth; leaving it blank prompts for a token instead. With
--profile the credentials land in that profile's section.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			fmt.Print("Username (blank for token auth): ")

			username, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading username: %w", err)
			}

			username = strings.TrimSpace(username)

			var password, token string

			if username != "" {
				fmt.Print("Password: ")

				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}

				password = string(bytePassword)

				fmt.Println()
			} else {
				fmt.Print("Token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("reading token: %w", err)
				}

				token = string(byteToken)

				fmt.Println()
			}

			cfgFile, _ := cmd.Flags().GetString("config")
			profile, _ := cmd.Flags().GetString("profile")

			path, err := persistCredentials(cfgFile, profile, username, password, token)
			if err != nil {
				return err
			}

			fmt.Printf("Credentials saved to %s\n", path)

			return nil
		},
	}
}

// persistCredentials writes the credentials into the config file, creating
// it when necessary, and returns the file path used.
func persistCredentials(cfgFile, profile, username, password, token string) (string, error) {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("finding home directory: %w", err)
		}

		dir := filepath.Join(home, ".hubrun")

		err = os.MkdirAll(dir, constants.ConfigDirPerm)
		if err != nil {
			return "", fmt.Errorf("creating config directory: %w", err)
		}

		path = filepath.Join(dir, "config.yml")
	}

	v := viper.New()
	v.SetConfigFile(path)

	if _, err := os.Stat(path); err == nil {
		err = v.ReadInConfig()
		if err != nil {
			return "", fmt.Errorf("reading existing config: %w", err)
		}
	}

	prefix := "auth."
	if profile != "" {
		prefix = "profiles." + profile + ".auth."
	}

	if username != "" {
		v.Set(prefix+"username", username)
		v.Set(prefix+"password", password)
	} else {
		v.Set(prefix+"token", token)
	}

	err := v.WriteConfigAs(path)
	if err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	err = os.Chmod(path, constants.ConfigFilePerm)
	if err != nil {
		return "", fmt.Errorf("restricting config permissions: %w", err)
	}

	return path, nil
}
