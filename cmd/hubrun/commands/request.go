package commands

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apihttp "github.com/hubworks-io/hubrun/internal/http"
)

// NewRequestCommand creates the request command.
func NewRequestCommand() *cobra.Command {
	var single bool

	cmd := &cobra.Command{
		Use:   "request METHOD PATH [KEY=VALUE... | VALUE...]",
		Short: "Issue one ad-hoc API call",
		Long: `Send a single logical request through the full pipeline. KEY=VALUE pairs
become keyword arguments (a query string for HEAD/GET/DELETE, a JSON object
body otherwise); bare VALUEs become a JSON array body. Mixing both forms is
rejected. Pagination is followed unless --single is given.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := apihttp.ParseMethod(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			keyword, positional := parseCallArgs(args[2:])

			req := &apihttp.Request{
				Method:     method,
				Path:       args[1],
				Positional: positional,
			}
			if len(keyword) > 0 {
				req.Keyword = keyword
			}

			logger := newLogger(cfg)
			api := newAPIClient(cfg, logger)

			var payload interface{}

			if single {
				resp, err := api.Do(cmd.Context(), req)
				if err != nil {
					return err
				}

				if len(resp.Body) > 0 {
					err = json.Unmarshal(resp.Body, &payload)
					if err != nil {
						// Not all endpoints answer with JSON; fall back to
						// the raw text.
						payload = string(resp.Body)
					}
				}
			} else {
				result, err := api.Execute(cmd.Context(), req)
				if err != nil {
					return err
				}

				payload = result.Payload
			}

			if payload == nil {
				return nil
			}

			return renderPayload(os.Stdout, outputFormat(cmd), payload)
		},
	}

	cmd.Flags().BoolVar(&single, "single", false, "stop after the first page instead of following pagination")

	return cmd
}

// parseCallArgs splits trailing arguments into keyword pairs and positional
// values. Values parse as JSON when possible and stay strings otherwise, so
// count=3 becomes a number while name=dev stays text.
func parseCallArgs(args []string) (map[string]interface{}, []interface{}) {
	keyword := make(map[string]interface{})

	var positional []interface{}

	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if found && key != "" {
			keyword[key] = parseValue(value)
		} else {
			positional = append(positional, parseValue(arg))
		}
	}

	return keyword, positional
}

func parseValue(raw string) interface{} {
	var value interface{}

	err := json.Unmarshal([]byte(raw), &value)
	if err != nil {
		return raw
	}

	return value
}
