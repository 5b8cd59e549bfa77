package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hubworks-io/hubrun/internal/config"
	apihttp "github.com/hubworks-io/hubrun/internal/http"
	"github.com/hubworks-io/hubrun/pkg/hubrun"
)

// Output formats.
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"

	// Masked replaces secret values in rendered configuration.
	Masked = "***"
)

// loadConfig resolves configuration from the persistent flags: config file,
// profile selection, and debug/color overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	profile, _ := cmd.Flags().GetString("profile")

	cfg, err := config.Load(cfgFile, profile)
	if err != nil {
		return nil, err
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		cfg.Logging.Color = false
	}

	return cfg, nil
}

// newLogger configures the zerolog logger from the logging config.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if cfg.Logging.Format == "json" {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Logging.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// loggerAdapter adapts zerolog to the hubrun.Logger interface consumed by
// the transport.
type loggerAdapter struct {
	log zerolog.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn().Fields(fields).Msg(msg)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.log.Error().Fields(fields).Msg(msg)
}

// newAPIClient builds the authenticated API client from resolved
// configuration.
func newAPIClient(cfg *config.Config, logger zerolog.Logger) *apihttp.Client {
	return apihttp.NewClientFromConfig(&hubrun.Config{
		BaseURL:       cfg.API.URL,
		Token:         cfg.Auth.Token,
		Username:      cfg.Auth.Username,
		Password:      cfg.Auth.Password,
		Accept:        cfg.API.Accept,
		NoForwardAuth: cfg.API.NoForwardAuth,
		Debug:         cfg.Debug,
		Logger:        &loggerAdapter{log: logger},
	})
}

// outputFormat reads the persistent --output flag.
func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		return OutputFormatJSON
	}

	return format
}

// renderPayload writes a payload in the requested format. Tables are only
// attempted for lists of objects and single objects; anything else falls
// back to JSON.
func renderPayload(out io.Writer, format string, payload interface{}) error {
	switch format {
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(out)

		err := encoder.Encode(payload)
		if err != nil {
			return fmt.Errorf("encoding payload as YAML: %w", err)
		}

		return nil
	case OutputFormatTable:
		if rendered := renderTable(out, payload); rendered {
			return nil
		}

		fallthrough
	default:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(payload)
		if err != nil {
			return fmt.Errorf("encoding payload as JSON: %w", err)
		}

		return nil
	}
}

// renderTable attempts a tabular rendering and reports whether it applied.
func renderTable(out io.Writer, payload interface{}) bool {
	switch value := payload.(type) {
	case []interface{}:
		return renderListTable(out, value)
	case map[string]interface{}:
		table := tablewriter.NewWriter(out)
		table.Header("Property", "Value")

		for _, key := range sortedKeys(value) {
			_ = table.Append(key, fmt.Sprint(value[key]))
		}

		_ = table.Render()

		return true
	default:
		return false
	}
}

func renderListTable(out io.Writer, list []interface{}) bool {
	if len(list) == 0 {
		_, _ = fmt.Fprintln(out, "No results")

		return true
	}

	first, ok := list[0].(map[string]interface{})
	if !ok {
		return false
	}

	keys := sortedKeys(first)

	table := tablewriter.NewWriter(out)
	table.Header(anyRow(keys)...)

	for _, item := range list {
		row, ok := item.(map[string]interface{})
		if !ok {
			return false
		}

		cells := make([]string, 0, len(keys))
		for _, key := range keys {
			cells = append(cells, fmt.Sprint(row[key]))
		}

		_ = table.Append(anyRow(cells)...)
	}

	_ = table.Render()

	return true
}

// anyRow widens a string row for tablewriter's variadic API.
func anyRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}

	return row
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// RenderError produces the top-level rendering of a failed run. Structured
// server failures use their multi-line form; everything else prints the
// error string with a trailing newline.
func RenderError(err error) string {
	structured := &hubrun.StructuredError{}
	if errors.As(err, &structured) {
		return structured.Render()
	}

	return err.Error() + "\n"
}
