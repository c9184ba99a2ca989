package social

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"golang.org/x/oauth2"
)

const maxResponseBytes = 1 << 20

// bearerClient returns a client that sends accessToken as a Bearer credential.
func bearerClient(ctx context.Context, base *http.Client, accessToken string) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
}

func postJSON(ctx context.Context, client *http.Client, provider, endpoint string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, appErrors.Wrapf(appErrors.ErrProviderCallFailed, provider, err, "encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrapf(appErrors.ErrProviderCallFailed, provider, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return send(client, req, provider)
}

func postForm(ctx context.Context, client *http.Client, provider, endpoint string, form url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, appErrors.Wrapf(appErrors.ErrProviderCallFailed, provider, err, "build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return send(client, req, provider)
}

// send performs req and returns the provider's body. Non-2xx responses become ProviderCallFailed.
func send(client *http.Client, req *http.Request, provider string) (json.RawMessage, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, appErrors.NewProviderError(appErrors.ErrProviderCallFailed, provider, err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, appErrors.NewProviderError(appErrors.ErrProviderCallFailed, provider, err.Error(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, appErrors.Wrapf(appErrors.ErrProviderCallFailed, provider, nil, "status %d: %s", resp.StatusCode, body)
	}
	return asJSON(body), nil
}

// asJSON passes JSON through untouched and wraps anything else as a JSON string.
func asJSON(body []byte) json.RawMessage {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage(`{}`)
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}

func joinURL(base string, elems ...string) string {
	u := strings.TrimRight(base, "/")
	for _, e := range elems {
		u += "/" + strings.TrimLeft(e, "/")
	}
	return u
}
