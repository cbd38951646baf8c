package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/desertthunder/scx/internal/server"
	"github.com/desertthunder/scx/internal/services"
	"github.com/desertthunder/scx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the authorization code flow: it serves the redirect URI locally,
// opens the browser on the authorize page and waits for the callback.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	if !r.config.Credentials.SoundCloud.Valid() {
		return fmt.Errorf("%w: client_id and client_secret must be set in %s", shared.ErrMissingCredentials, r.configFile())
	}

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if err := r.authorize(ctx, svc, ln, cmd.Duration("timeout"), shared.OpenBrowser); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	return r.writePlainln("You can now use: scx stream")
}

// authorize serves the OAuth callback on ln until one callback arrives or timeout passes.
// open is handed the authorize URL.
func (r *Runner) authorize(ctx context.Context, svc *services.SoundCloudService, ln net.Listener, timeout time.Duration, open func(string) error) error {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := svc.AuthURL(state)
	oauthHandler := server.NewOAuthHandler(svc, state, r.config.Credentials.SoundCloud.RedirectURI)
	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.Logging(r.logger))
	router.Handler(oauthHandler)

	httpServer := server.New(ln.Addr().String(), router)
	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server at %v", ln.Addr())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	r.writePlainln("→ Opening browser for SoundCloud authorization...")
	if err := open(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-oauthHandler.Result():
		if err := result.Error(); err != nil {
			return fmt.Errorf("authorization failed: %w", err)
		}
		return nil
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AuthRefresh trades the stored refresh token for a new token pair.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	if err := svc.Refresh(ctx); err != nil {
		if errors.Is(err, shared.ErrNoRefreshToken) {
			return fmt.Errorf("%w: run 'scx auth login' first", err)
		}
		return err
	}
	return r.writePlainln("✓ Tokens refreshed")
}

// AuthLogout forgets both stored tokens.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	if err := svc.Logout(); err != nil {
		return err
	}
	return r.writePlainln("✓ Logged out")
}

// AuthStatus reports whether an access token is stored.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command, svc *services.SoundCloudService) error {
	status := map[string]any{
		"service":       svc.Name(),
		"authenticated": svc.Authenticated(),
		"refreshable":   svc.Session().RefreshToken() != "",
		"liked_tracks":  svc.Liked().Len(),
	}
	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}

	r.writePlain("Service: %s\n", svc.Name())
	if svc.Authenticated() {
		r.writePlainln("Authentication: ✓ Authenticated")
	} else {
		r.writePlainln("Authentication: ✗ Not authenticated")
	}
	if status["refreshable"] == true {
		r.writePlainln("Refresh token: ✓ Stored")
	}
	return r.writePlain("Known liked tracks: %d\n", svc.Liked().Len())
}
