package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/viper"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUser is the slice of the userinfo profile the app cares about.
type GoogleUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type GoogleClient struct {
	cfg *oauth2.Config
}

func NewGoogleClient() *GoogleClient {
	return &GoogleClient{
		cfg: &oauth2.Config{
			ClientID:     viper.GetString("google.client_id"),
			ClientSecret: viper.GetString("google.client_secret"),
			RedirectURL:  viper.GetString("google.redirect_url"),
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthCodeURL returns the consent page URL carrying the anti-CSRF state.
func (g *GoogleClient) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// FetchUser exchanges the authorization code for an access token and reads
// the userinfo profile with it. A profile without an email claim is rejected
// here so no malformed account can be provisioned from it.
func (g *GoogleClient) FetchUser(ctx context.Context, code string) (*GoogleUser, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed, %w", err)
	}

	resp, err := g.cfg.Client(ctx, token).Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info, %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint answered %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info, %w", err)
	}

	var user GoogleUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user info, %w", err)
	}

	if user.Email == "" {
		return nil, errors.New("google profile carries no email claim")
	}

	return &user, nil
}
