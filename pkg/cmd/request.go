package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mediadl/dlctl/pkg/cmd/utils"
	"github.com/mediadl/dlctl/rest"
)

var (
	requestMethod string
	requestData   []string
	requestText   bool
	requestFile   string
)

func parseData(pairs []string) (url.Values, error) {
	data := url.Values{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid data %q, expected key=value", p)
		}
		data.Add(k, v)
	}
	return data, nil
}

// requestCmd sends a single request through the adapter.
var requestCmd = &cobra.Command{
	Use:   "request <url>",
	Short: "Send a request to the web UI and print the response",
	Long: `Sends one request to the web UI and prints the parsed JSON response.

Relative URLs are resolved against the configured base URL. Data given with -d
is form encoded into the query string for GET and HEAD and into the body
otherwise.`,
	Example: `  dlctl request /get_download_list -d already_down=true
  dlctl request /set_download_state?state=pause -X post --text
  echo '{"already_down": true}' | dlctl request /get_download_list -f -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseData(requestData)
		if err != nil {
			return err
		}
		var payload any
		switch {
		case requestFile != "" && len(data) > 0:
			return errors.New("--data and --file are mutually exclusive")
		case requestFile != "":
			if payload, err = utils.ReadPayload(requestFile, cmd.InOrStdin()); err != nil {
				return err
			}
		case len(data) > 0:
			payload = data
		}

		c, err := newSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		a := c.Adapter()
		method := rest.Method(strings.ToLower(requestMethod))

		var p *rest.Promise
		if requestText {
			p = a.RequestText(args[0], method, payload)
		} else {
			p = a.Request(args[0], method, payload)
		}
		v, err := p.Await(cmd.Context())
		if err != nil {
			return fmt.Errorf("request %s: %w", args[0], err)
		}

		if s, ok := v.(string); ok && requestText {
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		}
		return printJSON(cmd.OutOrStdout(), v)
	},
}

func init() {
	requestCmd.Flags().StringVarP(&requestMethod, "request", "X", "", "HTTP method to use (default get)")
	requestCmd.Flags().StringArrayVarP(&requestData, "data", "d", nil, "key=value pair to send, may be repeated")
	requestCmd.Flags().StringVarP(&requestFile, "file", "f", "", "YAML or JSON file with the data to send, - for stdin")
	requestCmd.Flags().BoolVar(&requestText, "text", false, "expect a plain text response")
	rootCmd.AddCommand(requestCmd)
}
