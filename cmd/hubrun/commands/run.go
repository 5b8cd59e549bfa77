package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hubworks-io/hubrun/internal/script"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run NAME [ARGS...]",
		Short: "Run a script",
		Long: `Locate the named script in the configured script directories, compile it,
and invoke it with the API client, the remaining arguments, and the resolved
configuration. The script's result is printed in the selected output format.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			entry, err := script.Find(cfg.Scripts.Dirs, args[0])
			if err != nil {
				return err
			}

			compiled, err := script.Compile(entry)
			if err != nil {
				return err
			}

			logger := newLogger(cfg)
			api := newAPIClient(cfg, logger)

			env := &script.Env{
				Client: script.NewClient(cmd.Context(), api),
				Args:   args[1:],
				Config: cfg.Settings(),
			}

			payload, err := compiled.Run(env)
			if err != nil {
				return err
			}

			if payload == nil {
				return nil
			}

			return renderPayload(os.Stdout, outputFormat(cmd), payload)
		},
	}
}
