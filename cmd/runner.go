package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tfx/internal/auth"
	"github.com/desertthunder/tfx/internal/services"
	"github.com/desertthunder/tfx/internal/shared"
	"github.com/desertthunder/tfx/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// TokenProvider is the slice of [auth.Provider] the commands depend on,
// extracted so tests can substitute a stub.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
	Login(ctx context.Context) (*oauth2.Token, error)
	Cached() (*oauth2.Token, error)
	Logout() error
}

// ServiceFactory builds a track service around an access token.
type ServiceFactory func(token string) services.TrackService

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	provider   TokenProvider
	newService ServiceFactory
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	palette    *ui.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Provider   TokenProvider
	NewService ServiceFactory
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		provider:   opts.Provider,
		newService: opts.NewService,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    ui.DefaultPalette(),
	}

	if r.newService == nil {
		r.newService = func(token string) services.TrackService {
			return services.NewSpotifyService(services.SpotifyOpts{
				Token:      token,
				HTTPClient: r.httpClient,
				Logger:     shared.WithLogger(r.logger, "service", "spotify"),
			})
		}
	}

	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		fetchCommand, authCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the effective configuration for a command: the config
// file named by the flag (when present), overlaid with environment
// variables. Credentials are not validated here; network commands validate
// before any call.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	config := r.config

	if path := cmd.String("config"); path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := shared.LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}
	if config == nil {
		config = shared.DefaultConfig()
	}

	if err := config.LoadEnv(cmd.String("env-file")); err != nil {
		return nil, err
	}

	r.config = config
	return config, nil
}

// providerFor returns the injected token provider, or builds one backed by
// the on-disk token cache.
func (r *Runner) providerFor(config *shared.Config) (TokenProvider, error) {
	if r.provider != nil {
		return r.provider, nil
	}

	store, err := auth.NewFileStore(config.Cache.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	provider := auth.NewProvider(auth.ProviderOpts{
		Credentials: config.Credentials.Spotify,
		Store:       store,
		Logger:      shared.WithLogger(r.logger, "component", "auth"),
		Output:      r.output,
	})

	r.provider = provider
	return provider, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
