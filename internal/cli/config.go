package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/giantswarm/authclient"
)

// Environment variables consulted when neither a flag nor the config file sets a value
const (
	EnvBaseURL      = "AUTHCLIENT_BASE_URL"
	EnvClientID     = "AUTHCLIENT_CLIENT_ID"
	EnvClientSecret = "AUTHCLIENT_CLIENT_SECRET"
)

// ErrMissingSetting is returned when a required setting has no value from any source
var ErrMissingSetting = errors.New("missing required setting")

// FileConfig is the YAML configuration file layout.
//
//	base_url: https://auth.example.com
//	client_id: my-service
//	client_secret_file: /var/run/secrets/authclient/secret
type FileConfig struct {
	BaseURL          string `yaml:"base_url"`
	ClientID         string `yaml:"client_id"`
	ClientSecret     string `yaml:"client_secret"`
	ClientSecretFile string `yaml:"client_secret_file"`
}

// LoadConfig reads a FileConfig from path. An empty path yields an empty config.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return cfg, nil
}

// envConfig collects settings from the environment
func envConfig() FileConfig {
	return FileConfig{
		BaseURL:      os.Getenv(EnvBaseURL),
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
	}
}

// overlay returns c with every non-empty field of o applied on top.
// Setting either secret source in o replaces both secret sources of c.
func (c FileConfig) overlay(o FileConfig) FileConfig {
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.ClientID != "" {
		c.ClientID = o.ClientID
	}
	if o.ClientSecret != "" {
		c.ClientSecret = o.ClientSecret
		c.ClientSecretFile = ""
	}
	if o.ClientSecretFile != "" {
		c.ClientSecretFile = o.ClientSecretFile
		c.ClientSecret = ""
	}
	return c
}

// Validate checks that every required setting has a value
func (c FileConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL (--base-url, %s or base_url): %w", EnvBaseURL, ErrMissingSetting)
	}
	if c.ClientID == "" {
		return fmt.Errorf("client ID (--client-id, %s or client_id): %w", EnvClientID, ErrMissingSetting)
	}
	if c.ClientSecret == "" && c.ClientSecretFile == "" {
		return fmt.Errorf("client secret (--client-secret-file, %s, client_secret or client_secret_file): %w",
			EnvClientSecret, ErrMissingSetting)
	}
	return nil
}

// ClientConfig turns c into an authclient.Config. A configured secret file is read
// once here to fail early, then re-read on every request.
func (c FileConfig) ClientConfig(logger *slog.Logger) (authclient.Config, error) {
	if err := c.Validate(); err != nil {
		return authclient.Config{}, err
	}

	secret := authclient.Static(c.ClientSecret)
	if c.ClientSecretFile != "" {
		sf, err := newSecretFile(c.ClientSecretFile, logger)
		if err != nil {
			return authclient.Config{}, err
		}
		secret = sf.Value
	}

	return authclient.Config{
		BaseURL:      authclient.Static(strings.TrimRight(c.BaseURL, "/")),
		ClientID:     authclient.Static(c.ClientID),
		ClientSecret: secret,
		Logger:       logger,
	}, nil
}

// secretFile resolves a client secret from a file on every call, so a mounted
// secret can be rotated without restarting. If the file becomes unreadable the
// last successfully read value is kept.
type secretFile struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	last string
}

func newSecretFile(path string, logger *slog.Logger) (*secretFile, error) {
	sf := &secretFile{path: path, logger: logger}
	v, err := sf.read()
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret file: %w", err)
	}
	sf.last = v
	return sf, nil
}

func (s *secretFile) read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// Value returns the current secret
func (s *secretFile) Value() string {
	v, err := s.read()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Failed to re-read client secret file, using last known value",
			"path", s.path, "error", err)
		return s.last
	}
	s.last = v
	return v
}
