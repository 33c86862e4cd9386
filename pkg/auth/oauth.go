package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// ClientSecretsFile is the Google client credentials downloaded from the
	// Cloud console, placed in the config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile caches the user's access and refresh token.
	TokenFile = "token.json"

	// LocalhostAuthPort receives the OAuth redirect.
	LocalhostAuthPort = "6789"

	authTimeout = 5 * time.Minute
)

// Scopes needed to manage events on the user's calendars.
var Scopes = []string{calendar.CalendarEventsScope, calendar.CalendarReadonlyScope}

// GetConfig reads the client secrets from dir.
func GetConfig(dir string, scopes []string) (*oauth2.Config, error) {
	path := filepath.Join(dir, ClientSecretsFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", path, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = localRedirect(config.RedirectURL)
	return config, nil
}

// localRedirect points the redirect URL at the local listener. Out of band
// and portless localhost URLs are rewritten; anything else is kept.
func localRedirect(raw string) string {
	if raw == "" || raw == "urn:ietf:wg:oauth:2.0:oob" {
		return fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
	}
	u, err := url.Parse(raw)
	if err != nil {
		log.Printf("Warning: could not parse RedirectURL %q: %v. Using it as is.", raw, err)
		return raw
	}
	if u.Hostname() != "localhost" && u.Hostname() != "127.0.0.1" {
		log.Printf("Warning: RedirectURL %s is not a localhost callback", raw)
		return raw
	}
	if u.Port() != LocalhostAuthPort {
		u.Host = net.JoinHostPort(u.Hostname(), LocalhostAuthPort)
	}
	return u.String()
}

// GetClient returns an HTTP client authorised for scopes. A cached token is
// used when present, otherwise the browser flow runs. Refreshed tokens are
// written back to the cache.
func GetClient(ctx context.Context, dir string, scopes []string) (*http.Client, error) {
	config, err := GetConfig(dir, scopes)
	if err != nil {
		return nil, err
	}

	tokenFile := filepath.Join(dir, TokenFile)
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		log.Printf("No existing token found at %s. Initiating web authorization flow...", tokenFile)
		tok, err = getTokenFromWeb(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := saveToken(tokenFile, tok); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	src := &savingSource{
		base: config.TokenSource(ctx, tok),
		path: tokenFile,
		last: tok,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// Reset removes the cached token so the next GetClient re-authorises.
func Reset(dir string) error {
	err := os.Remove(filepath.Join(dir, TokenFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not delete token file: %w", err)
	}
	return nil
}

// GetCalendarService creates an authenticated Google Calendar service.
func GetCalendarService(ctx context.Context, dir string) (*calendar.Service, error) {
	client, err := GetClient(ctx, dir, Scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client for Calendar API: %w", err)
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google Calendar service: %w", err)
	}
	return srv, nil
}

// savingSource persists every token that differs from the previous one.
type savingSource struct {
	base oauth2.TokenSource
	path string

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken || tok.RefreshToken != s.last.RefreshToken {
		if err := saveToken(s.path, tok); err != nil {
			log.Printf("Warning: %v", err)
		}
		s.last = tok
	}
	return tok, nil
}

// getTokenFromWeb runs the authorization code flow, catching the redirect on
// a local HTTP server.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				select {
				case errCh <- errors.New("authorization code not found in redirect URL"):
				default:
				}
				return
			}
			fmt.Fprintln(w, "Authentication successful! You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case errCh <- fmt.Errorf("HTTP server error: %w", err):
			default:
			}
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open the following URL in your browser to authorize todo:\n%s\n", authURL)

	select {
	case code := <-codeCh:
		exCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(exCtx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, errors.New("authorization timed out, please try again")
	}
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
