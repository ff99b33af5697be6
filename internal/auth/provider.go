package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tfx/internal/server"
	"github.com/desertthunder/tfx/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultLoginTimeout bounds the interactive browser flow.
	DefaultLoginTimeout = 2 * time.Minute
)

// Scopes requested during authorization, matching the original tool.
var Scopes = []string{
	"playlist-read-private",
	"playlist-read-collaborative",
	"user-read-private",
	"user-top-read",
}

// Provider implements the OAuth2 authorization-code flow with a persistent
// token cache. AccessToken resolves, in order: a valid cached token, a
// transparent refresh of an expired one, and finally the interactive
// browser flow.
type Provider struct {
	config      *oauth2.Config
	store       TokenStore
	logger      *log.Logger
	output      io.Writer
	openBrowser shared.BrowserOpener
	timeout     time.Duration
}

// ProviderOpts contains configuration options for creating a [Provider].
type ProviderOpts struct {
	Credentials shared.SpotifyConfig
	Store       TokenStore
	Logger      *log.Logger
	Output      io.Writer
	OpenBrowser shared.BrowserOpener
	Timeout     time.Duration

	// Endpoint overrides the Spotify endpoints, for tests.
	Endpoint *oauth2.Endpoint
}

// NewProvider creates a Provider with the given options, defaulting the
// store to in-memory, the browser opener to [shared.OpenBrowser] and the
// interactive timeout to [DefaultLoginTimeout].
func NewProvider(opts ProviderOpts) *Provider {
	endpoint := oauth2.Endpoint{AuthURL: spotifyAuthURL, TokenURL: spotifyTokenURL}
	if opts.Endpoint != nil {
		endpoint = *opts.Endpoint
	}
	if opts.Store == nil {
		opts.Store = &MemoryStore{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultLoginTimeout
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     opts.Credentials.ClientID,
			ClientSecret: opts.Credentials.ClientSecret,
			RedirectURL:  opts.Credentials.RedirectURI,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		store:       opts.Store,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
		timeout:     opts.Timeout,
	}
}

// AccessToken blocks until a valid access token is available and returns it.
// Cached and refreshed tokens never require user interaction; only a cold
// cache (or one without a refresh token) triggers the browser flow.
func (p *Provider) AccessToken(ctx context.Context) (string, error) {
	cached, err := p.store.Load()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if cached != nil && cached.Valid() {
		p.logger.Debug("using cached access token")
		return cached.AccessToken, nil
	}

	if cached != nil && cached.RefreshToken != "" {
		p.logger.Debug("cached token expired, refreshing")
		token, err := p.refresh(ctx, cached)
		if err != nil {
			return "", err
		}
		return token.AccessToken, nil
	}

	p.logger.Debug("no cached token, starting interactive login")
	token, err := p.Login(ctx)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// Cached returns the stored token without triggering any flow. Returns
// (nil, nil) when the cache is empty.
func (p *Provider) Cached() (*oauth2.Token, error) {
	return p.store.Load()
}

// Logout removes the cached token.
func (p *Provider) Logout() error {
	return p.store.Clear()
}

// refresh exchanges the refresh token for a new access token and persists
// the result.
func (p *Provider) refresh(ctx context.Context, cached *oauth2.Token) (*oauth2.Token, error) {
	token, err := p.config.TokenSource(ctx, cached).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	// Spotify does not always rotate the refresh token; keep the old one.
	if token.RefreshToken == "" {
		token.RefreshToken = cached.RefreshToken
	}

	if err := p.store.Save(token); err != nil {
		p.logger.Warnf("failed to persist refreshed token: %v", err)
	}

	return token, nil
}

// Login runs the full interactive authorization-code flow: it starts a
// local listener on the redirect URI, opens the consent page in the user's
// browser, waits (bounded by the provider timeout and ctx) for the
// redirect, exchanges the code and persists the token pair.
func (p *Provider) Login(ctx context.Context) (*oauth2.Token, error) {
	redirect, err := url.Parse(p.config.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redirect URI %q: %v", shared.ErrAuthFailed, p.config.RedirectURL, err)
	}

	state := shared.GenerateState()
	authURL := p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	handler := server.NewCallbackHandler(redirect.Path, state)
	srv := &http.Server{
		Addr:    redirect.Host,
		Handler: server.NewMux(handler),
	}

	serverErrors := make(chan error, 1)
	go func() {
		p.logger.Debugf("listening for OAuth callback at %s", redirect.Host)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	defer p.shutdown(srv)

	fmt.Fprintf(p.output, "→ Opening browser for Spotify authorization...\n")
	if err := p.openBrowser(authURL); err != nil {
		p.logger.Warnf("failed to open browser automatically: %v", err)
		fmt.Fprintf(p.output, "Please open this URL in your browser:\n%s\n", authURL)
	}
	fmt.Fprintf(p.output, "→ Waiting for authorization (%s timeout)...\n", p.timeout)

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	var result server.Result
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("%w: callback server: %v", shared.ErrAuthFailed, err)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, ctx.Err())
	case <-timer.C:
		return nil, fmt.Errorf("%w: no authorization after %s", shared.ErrTimeout, p.timeout)
	}

	if result.Err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Err)
	}

	token, err := p.config.Exchange(ctx, result.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
	}

	if err := p.store.Save(token); err != nil {
		p.logger.Warnf("failed to persist token: %v", err)
	}

	return token, nil
}

func (p *Provider) shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		p.logger.Warnf("error shutting down callback server: %v", err)
	}
}
