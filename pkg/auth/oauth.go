package auth

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

const xdgAppName = "todoist-organizer"

// GetClient returns an *http.Client that sends the given API token as an
// OAuth2 bearer token on every request. Todoist personal tokens never expire,
// so a static token source is enough; there is no refresh or web flow.
func GetClient(ctx context.Context, token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return oauth2.NewClient(ctx, src)
}

// GetXdgHome returns ~/.config/todoist-organizer.
func GetXdgHome() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName), nil
}
