package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// GoTrueProvider implements IdentityProvider against a Supabase GoTrue server.
type GoTrueProvider struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewGoTrueProvider creates a GoTrueProvider for the project at baseURL.
func NewGoTrueProvider(baseURL, apiKey string, client *http.Client) *GoTrueProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &GoTrueProvider{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: client,
	}
}

// SendMagicLink requests an email OTP link from /auth/v1/otp.
func (g *GoTrueProvider) SendMagicLink(ctx context.Context, email, redirectTo string, createUser bool) error {
	endpoint := g.BaseURL + "/auth/v1/otp"
	if redirectTo != "" {
		endpoint += "?" + url.Values{"redirect_to": {redirectTo}}.Encode()
	}

	body, err := json.Marshal(otpRequest{Email: email, CreateUser: createUser})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	g.authorize(req, g.APIKey)

	_, err = g.do(req)
	return err
}

// GetUser resolves accessToken through /auth/v1/user.
func (g *GoTrueProvider) GetUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	g.authorize(req, accessToken)

	body, err := g.do(req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

// SignOut revokes the session behind accessToken through /auth/v1/logout.
func (g *GoTrueProvider) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	g.authorize(req, accessToken)

	_, err = g.do(req)
	return err
}

// authorize sets the project API key and the bearer the call runs as.
func (g *GoTrueProvider) authorize(req *http.Request, bearer string) {
	req.Header.Set("apikey", g.APIKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
}

func (g *GoTrueProvider) do(req *http.Request) ([]byte, error) {
	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		msg := eb.text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &Error{StatusCode: resp.StatusCode, Message: msg}
	}
	return body, nil
}
