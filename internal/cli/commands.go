package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newExchangeCmd(opts *rootOptions) *cobra.Command {
	var (
		resource     string
		subjectToken string
		asOAuth2     bool
	)

	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Exchange a subject token for an access token scoped to a resource",
		Long: `Exchange sends an RFC 8693 token exchange request to <base-url>/token and
prints the authorization server's response as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if resource == "" {
				return errEmptyFlag("resource")
			}
			if subjectToken == "" {
				return errEmptyFlag("subject-token")
			}

			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}

			resp, err := client.ExchangeToken(cmd.Context(), resource, subjectToken)
			if err != nil {
				return err
			}

			if asOAuth2 {
				return writeJSON(cmd.OutOrStdout(), resp.Token(time.Now()))
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&resource, "resource", "", "target resource the new token is scoped to")
	cmd.Flags().StringVar(&subjectToken, "subject-token", "", "access token to exchange")
	cmd.Flags().BoolVar(&asOAuth2, "oauth2-token", false, "print an oauth2 token with an absolute expiry instead of the raw response")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("subject-token")

	return cmd
}

func newIntrospectCmd(opts *rootOptions) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "introspect",
		Short: "Ask the authorization server whether a token is active",
		Long: `Introspect sends an RFC 7662 introspection request to <base-url>/introspect
and prints the authorization server's response as JSON. An inactive token
is not an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return errEmptyFlag("token")
			}

			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}

			resp, err := client.IntrospectToken(cmd.Context(), token)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "token to introspect")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newBasicAuthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "basic-auth",
		Short: "Print the HTTP Basic credential for the configured client",
		Long: `Prints base64(client_id:client_secret), the value sent after "Basic " in
the Authorization header of every request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), client.BasicAuth())
			return err
		},
	}
}

// newVersionCmd creates the command for displaying the CLI version
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of authclient",
		Long:  `All software has versions. This is authclient's.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "authclient version %s\n", version)
		},
	}
}
