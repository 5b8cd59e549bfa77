package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hubworks-io/hubrun/cmd/hubrun/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "hubrun",
	Short: "GitHub API script runner",
	Long: `hubrun discovers user-supplied script files and invokes each one with an
authenticated REST client for the GitHub API, the parsed configuration, and
the remaining command-line arguments.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.hubrun/config.yml)")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "configuration profile to apply")
	rootCmd.PersistentFlags().StringP("output", "o", "json", "output format (json, yaml, table)")
	rootCmd.PersistentFlags().Bool("debug", false, "log requests and responses (credentials redacted)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewScriptsCommand())
	rootCmd.AddCommand(commands.NewRequestCommand())
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, commands.RenderError(err))
		os.Exit(1)
	}
}
