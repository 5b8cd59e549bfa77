package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hubworks-io/hubrun/internal/script"
)

// NewScriptsCommand creates the scripts command.
func NewScriptsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "List discovered scripts",
		Long:  "List every script found in the configured script directories, in lookup order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			entries, err := script.Discover(cfg.Scripts.Dirs)
			if err != nil {
				return err
			}

			format := outputFormat(cmd)
			if format != OutputFormatTable {
				listing := make([]interface{}, 0, len(entries))
				for _, entry := range entries {
					listing = append(listing, map[string]interface{}{
						"name": entry.Name,
						"path": entry.Path,
					})
				}

				return renderPayload(os.Stdout, format, listing)
			}

			if len(entries) == 0 {
				_, _ = fmt.Fprintln(os.Stdout, "No scripts found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Name", "Path")

			for _, entry := range entries {
				_ = table.Append(entry.Name, entry.Path)
			}

			_ = table.Render()

			return nil
		},
	}
}
