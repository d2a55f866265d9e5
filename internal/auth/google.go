package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrStateMismatch is returned when the callback state does not match
// the one issued at login start.
var ErrStateMismatch = errors.New("oauth state mismatch")

// GoogleConfig carries the provider credentials.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Authenticator runs the Google OAuth code flow as an explicit
// two-step protocol: BeginLogin hands out a redirect target and a
// state token, CompleteLogin turns the provider response into a
// Principal.
type Authenticator struct {
	oauth       *oauth2.Config
	userInfoURL string
	client      *http.Client
}

// NewAuthenticator creates an Authenticator for the Google provider.
func NewAuthenticator(cfg GoogleConfig) *Authenticator {
	return &Authenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// BeginLogin returns a fresh state token and the consent URL the
// browser should be redirected to.
func (a *Authenticator) BeginLogin() (state, redirectURL string) {
	state = uuid.NewString()
	redirectURL = a.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("prompt", "select_account"))
	return state, redirectURL
}

// CompleteLogin verifies the state, exchanges the authorization code,
// and resolves the provider profile into a Principal.
func (a *Authenticator) CompleteLogin(ctx context.Context, wantState, gotState, code string) (Principal, error) {
	if wantState == "" || gotState != wantState {
		return Principal{}, ErrStateMismatch
	}

	if a.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client)
	}

	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return Principal{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	return a.fetchProfile(ctx, token)
}

func (a *Authenticator) fetchProfile(ctx context.Context, token *oauth2.Token) (Principal, error) {
	client := a.oauth.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userInfoURL, nil)
	if err != nil {
		return Principal{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return Principal{}, fmt.Errorf("fetch user profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Principal{}, fmt.Errorf("fetch user profile: status %d", resp.StatusCode)
	}

	var profile struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Principal{}, fmt.Errorf("decode user profile: %w", err)
	}
	if profile.ID == "" {
		return Principal{}, errors.New("provider profile has no id")
	}

	return Principal{
		ID:    profile.ID,
		Name:  profile.Name,
		Email: profile.Email,
		Photo: profile.Picture,
	}, nil
}
