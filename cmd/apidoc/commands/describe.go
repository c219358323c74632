package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/porticus-lab/go-apidoc-pdf/describe"
)

// NewDescribeCommand creates the describe command
func NewDescribeCommand() *cobra.Command {
	var in describe.Input
	var requestFile, responseFile string
	var showPrompt bool
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Generate a description of an endpoint",
		Long: `Ask the configured OpenAI model for a description of one endpoint.
Request and response examples are read from JSON files. The API key comes
from OPENAI_API_KEY or openai.api_key.`,
		Example: `  apidoc describe --method POST --endpoint /users --request req.json --response resp.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.RequestBody, err = readJSONFile(requestFile); err != nil {
				return err
			}
			if in.ResponseData, err = readJSONFile(responseFile); err != nil {
				return err
			}
			if showPrompt {
				fmt.Fprintln(cmd.OutOrStdout(), describe.Prompt(in))
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			text, err := newDescriber(cfg, log).Describe(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Endpoint, "endpoint", "", "endpoint path or URL")
	cmd.Flags().StringVar(&in.Method, "method", "GET", "HTTP method")
	cmd.Flags().StringVar(&requestFile, "request", "", "JSON file with an example request body")
	cmd.Flags().StringVar(&responseFile, "response", "", "JSON file with an example response")
	cmd.Flags().BoolVar(&showPrompt, "prompt", false, "print the prompt instead of calling the API")
	_ = cmd.MarkFlagRequired("endpoint")
	return cmd
}

func readJSONFile(path string) (json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s: not valid JSON", path)
	}
	return json.RawMessage(data), nil
}
