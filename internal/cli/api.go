package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cfkit/cfkit/pkg/cloudflare"
)

// ErrRequestFailed signals that an API call completed but the provider
// reported failure. The envelope has already been printed; main only
// needs the non-zero exit code.
var ErrRequestFailed = errors.New("api request failed")

// apiCommand creates the api command for raw authenticated calls.
func (c *CLI) apiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "api <METHOD> <path> [json-body]",
		Short: "Make an authenticated Cloudflare API call",
		Long: `Make an authenticated Cloudflare API call.

Requires CLOUDFLARE_API_TOKEN (or CLOUDFLARE_API_KEY + CLOUDFLARE_EMAIL)
in the environment. The path is joined to the base API URL; override it
with CLOUDFLARE_BASE_URL or the config file.

Examples:
  cfkit api GET /zones
  cfkit api GET "/zones?name=example.com"
  cfkit api POST /zones '{"name":"example.com","account":{"id":"..."}}'
  cfkit api DELETE /zones/023e105f4ecef8ad9ca31a8372d0c353`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := args[0]
			if !cloudflare.ValidMethod(method) {
				return fmt.Errorf("unknown method %q (supported: %s)", method, strings.Join(cloudflare.Methods, ", "))
			}

			var body []byte
			if len(args) == 3 {
				body = []byte(args[2])
				if !json.Valid(body) {
					return fmt.Errorf("invalid JSON body")
				}
			}

			env, err := c.newAPIClient().Do(cmd.Context(), method, args[1], body)
			if err != nil {
				return err
			}
			return printEnvelope(env)
		},
	}
}

// verifyCommand creates the verify command for checking credentials.
func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify the configured API credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := cloudflare.CredentialsFromEnv()
			if !creds.Configured() {
				printError("%s", creds.Describe())
				return cloudflare.ErrNoCredentials
			}
			printInfo("%s", creds.Describe())

			env, err := c.newAPIClient().Verify(cmd.Context())
			if err != nil {
				return err
			}
			return printEnvelope(env)
		},
	}
}

// printEnvelope writes the envelope JSON to stdout and its summary
// lines to stderr, returning ErrRequestFailed on provider failure.
func printEnvelope(env *cloudflare.Envelope) error {
	fmt.Println(env.PrettyJSON())

	for _, line := range env.Summary() {
		if env.Success {
			fmt.Fprintln(os.Stderr, styleIconSuccess.Render(line))
		} else {
			fmt.Fprintln(os.Stderr, styleIconError.Render(line))
		}
	}

	if !env.Success {
		return ErrRequestFailed
	}
	return nil
}
