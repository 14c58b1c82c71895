package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/authclient"
)

// Exit codes for CLI commands
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (invalid arguments, configuration, transport).
	ExitCodeError = 1
	// ExitCodeClientError indicates the authorization server answered with a 4xx status.
	ExitCodeClientError = 2
	// ExitCodeServerError indicates the authorization server answered with a 5xx status.
	ExitCodeServerError = 3
)

const defaultTimeout = 30 * time.Second

var version = "dev"

// SetVersion sets the version reported by the CLI.
// It is called from the main package to inject the version at build time.
func SetVersion(v string) {
	version = v
}

// rootOptions holds the global flags shared by all subcommands
type rootOptions struct {
	configFile       string
	baseURL          string
	clientID         string
	clientSecretFile string
	timeout          time.Duration
	debug            bool
}

// newRootCmd creates the base command with all subcommands attached
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "authclient",
		Short: "Exchange and introspect tokens against an OAuth authorization server",
		Long: `authclient calls an authorization server's token exchange (RFC 8693) and
token introspection (RFC 7662) endpoints, authenticating with HTTP Basic
client credentials.

Settings are taken from flags, then AUTHCLIENT_* environment variables,
then the YAML file given with --config.`,
		Version: version,
		// Errors are printed by cobra; usage on every failed request is noise.
		SilenceUsage: true,
	}
	cmd.SetVersionTemplate(`{{printf "authclient version %s\n" .Version}}`)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	flags.StringVar(&opts.baseURL, "base-url", "", "authorization server base URL")
	flags.StringVar(&opts.clientID, "client-id", "", "client ID for HTTP Basic authentication")
	flags.StringVar(&opts.clientSecretFile, "client-secret-file", "", "file holding the client secret, re-read on every request")
	flags.DurationVar(&opts.timeout, "timeout", defaultTimeout, "HTTP request timeout")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging on stderr")

	cmd.AddCommand(newExchangeCmd(opts))
	cmd.AddCommand(newIntrospectCmd(opts))
	cmd.AddCommand(newBasicAuthCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the CLI and exits with a code derived from the returned error
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps an error to the exit code documented for scripting
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	if httpErr, ok := authclient.AsHTTPError(err); ok {
		switch {
		case httpErr.IsServerError():
			return ExitCodeServerError
		case httpErr.IsClientError():
			return ExitCodeClientError
		}
	}

	return ExitCodeError
}

// settings merges file, environment and flag values in increasing precedence
func (o *rootOptions) settings() (FileConfig, error) {
	fileCfg, err := LoadConfig(o.configFile)
	if err != nil {
		return FileConfig{}, err
	}

	return fileCfg.overlay(envConfig()).overlay(FileConfig{
		BaseURL:          o.baseURL,
		ClientID:         o.clientID,
		ClientSecretFile: o.clientSecretFile,
	}), nil
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newClient builds an authclient.Client from the merged settings
func (o *rootOptions) newClient(cmd *cobra.Command) (*authclient.Client, error) {
	settings, err := o.settings()
	if err != nil {
		return nil, err
	}

	logger := o.logger(cmd.ErrOrStderr())
	cfg, err := settings.ClientConfig(logger)
	if err != nil {
		return nil, err
	}
	cfg.HTTPClient = &http.Client{Timeout: o.timeout}

	return authclient.New(cfg)
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// errEmptyFlag reports a required flag left empty
func errEmptyFlag(name string) error {
	return errors.New("--" + name + " must not be empty")
}
