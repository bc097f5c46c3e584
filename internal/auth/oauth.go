package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

// LoginFlow drives the provider's authorization-code flow for the
// browser-facing login pages. The API itself only ever consumes bearer
// tokens; this flow exists so users can obtain one and get registered.
type LoginFlow struct {
	oauth       *oauth2.Config
	userinfoURL string
	logoutURL   string
	clientID    string
}

// NewLoginFlow configures the flow against an Auth0-style provider domain.
func NewLoginFlow(providerDomain, clientID, clientSecret, baseURL string) *LoginFlow {
	return &LoginFlow{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/callback",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  fmt.Sprintf("https://%s/authorize", providerDomain),
				TokenURL: fmt.Sprintf("https://%s/oauth/token", providerDomain),
			},
		},
		userinfoURL: fmt.Sprintf("https://%s/userinfo", providerDomain),
		logoutURL:   fmt.Sprintf("https://%s/v2/logout", providerDomain),
		clientID:    clientID,
	}
}

// AuthCodeURL returns the provider page to redirect the browser to.
func (f *LoginFlow) AuthCodeURL(state string) string {
	return f.oauth.AuthCodeURL(state)
}

// Exchange trades the callback code for tokens.
func (f *LoginFlow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return f.oauth.Exchange(ctx, code)
}

// Userinfo fetches the subject id and display name for the token's user.
func (f *LoginFlow) Userinfo(ctx context.Context, token *oauth2.Token) (subject, name string, err error) {
	client := f.oauth.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.userinfoURL, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info struct {
		Sub  string `json:"sub"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", err
	}
	if info.Sub == "" {
		return "", "", fmt.Errorf("userinfo response missing sub")
	}
	return info.Sub, info.Name, nil
}

// LogoutURL builds the provider's logout redirect.
func (f *LoginFlow) LogoutURL(returnTo string) string {
	q := url.Values{}
	q.Set("returnTo", returnTo)
	q.Set("client_id", f.clientID)
	return f.logoutURL + "?" + q.Encode()
}
