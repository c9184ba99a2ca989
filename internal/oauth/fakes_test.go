package oauth

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	"github.com/Gkemhcs/socialbridge-backend/internal/oauth/pending"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
	"github.com/Gkemhcs/socialbridge-backend/internal/utils"
)

type stubResolver map[string]string

func (s stubResolver) Resolve(credential string) (string, bool) {
	id, ok := s[credential]
	return id, ok
}

var testResolver = stubResolver{
	"cred-alice": "alice",
	"cred-bob":   "bob",
}

func newTestDeps(t *testing.T) (Deps, *pending.MemoryStore, *tokenstore.MemoryStore) {
	t.Helper()
	pend := pending.NewMemoryStore(time.Minute)
	tokens := tokenstore.NewMemoryStore()
	return Deps{
		Resolver:   testResolver,
		Pending:    pend,
		Tokens:     tokens,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		Logger:     utils.NewDiscardLogger(),
	}, pend, tokens
}

// fakeOAuth1Provider is a minimal OAuth 1.0a server that verifies HMAC-SHA1 signatures.
type fakeOAuth1Provider struct {
	*httptest.Server
	consumerKey    string
	consumerSecret string

	mu            sync.Mutex
	requestTokens map[string]string // token -> secret
	calls         int
}

func newFakeOAuth1Provider(t *testing.T) *fakeOAuth1Provider {
	t.Helper()
	f := &fakeOAuth1Provider{
		consumerKey:    "consumer-key",
		consumerSecret: "consumer-secret",
		requestTokens:  make(map[string]string),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/request_token", f.handleRequestToken)
	mux.HandleFunc("/oauth/access_token", f.handleAccessToken)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeOAuth1Provider) providerConfig() config.ProviderConfig {
	return config.ProviderConfig{
		Name:            "twitter",
		Protocol:        config.ProtocolOAuth1,
		ClientID:        f.consumerKey,
		ClientSecret:    f.consumerSecret,
		RedirectURL:     "http://localhost:8080/api/twitter/callback",
		AuthURL:         f.URL + "/oauth/authorize",
		RequestTokenURL: f.URL + "/oauth/request_token",
		AccessTokenURL:  f.URL + "/oauth/access_token",
	}
}

func (f *fakeOAuth1Provider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeOAuth1Provider) handleRequestToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	params, ok := f.verify(r, "")
	if !ok || params["oauth_callback"] == "" {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	n := len(f.requestTokens) + 1
	token := fmt.Sprintf("request-token-%d", n)
	secret := fmt.Sprintf("request-secret-%d", n)
	f.requestTokens[token] = secret

	w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
	fmt.Fprintf(w, "oauth_token=%s&oauth_token_secret=%s&oauth_callback_confirmed=true", token, secret)
}

func (f *fakeOAuth1Provider) handleAccessToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	header := parseOAuthHeader(r.Header.Get("Authorization"))
	token := header["oauth_token"]
	secret, issued := f.requestTokens[token]
	if !issued {
		http.Error(w, "unknown request token", http.StatusUnauthorized)
		return
	}
	params, ok := f.verify(r, secret)
	if !ok {
		http.Error(w, `{"errors":[{"code":32,"message":"Could not authenticate you."}]}`, http.StatusUnauthorized)
		return
	}
	if params["oauth_verifier"] != "verifier-"+token {
		http.Error(w, "invalid verifier", http.StatusUnauthorized)
		return
	}
	delete(f.requestTokens, token)

	w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
	fmt.Fprintf(w, "oauth_token=access-%s&oauth_token_secret=access-secret-%s&user_id=42&screen_name=alice", token, token)
}

// verify recomputes the HMAC-SHA1 signature of r with the given token secret.
func (f *fakeOAuth1Provider) verify(r *http.Request, tokenSecret string) (map[string]string, bool) {
	header := parseOAuthHeader(r.Header.Get("Authorization"))
	if header["oauth_consumer_key"] != f.consumerKey || header["oauth_signature_method"] != "HMAC-SHA1" {
		return nil, false
	}
	if header["oauth_nonce"] == "" || header["oauth_timestamp"] == "" {
		return nil, false
	}
	expected := oauth1Signature(r, header, f.consumerSecret, tokenSecret)
	return header, hmac.Equal([]byte(expected), []byte(header["oauth_signature"]))
}

func parseOAuthHeader(h string) map[string]string {
	out := make(map[string]string)
	h = strings.TrimPrefix(h, "OAuth ")
	for _, part := range strings.Split(h, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		v, err := url.PathUnescape(strings.Trim(kv[1], `"`))
		if err != nil {
			continue
		}
		out[kv[0]] = v
	}
	return out
}

func oauth1Signature(r *http.Request, header map[string]string, consumerSecret, tokenSecret string) string {
	var pairs []string
	for k, v := range header {
		if k == "oauth_signature" || k == "realm" {
			continue
		}
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
	}
	for k, vs := range r.URL.Query() {
		for _, v := range vs {
			pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
		}
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		_ = r.ParseForm()
		for k, vs := range r.PostForm {
			for _, v := range vs {
				pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
			}
		}
	}
	sort.Strings(pairs)

	baseURL := "http://" + strings.ToLower(r.Host) + r.URL.EscapedPath()
	base := strings.ToUpper(r.Method) + "&" + percentEncode(baseURL) + "&" + percentEncode(strings.Join(pairs, "&"))
	key := percentEncode(consumerSecret) + "&" + percentEncode(tokenSecret)

	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// fakeOAuth2Provider serves a token endpoint and a profile endpoint.
type fakeOAuth2Provider struct {
	*httptest.Server
	clientID     string
	clientSecret string
	headerAuth   bool

	mu          sync.Mutex
	challenges  map[string]string // code -> S256 challenge
	tokenCalls  int
	lastForm    url.Values
	tokenStatus int
	tokenBody   map[string]interface{}
	profileBody string
}

func newFakeOAuth2Provider(t *testing.T, headerAuth bool) *fakeOAuth2Provider {
	t.Helper()
	f := &fakeOAuth2Provider{
		clientID:     "client-id",
		clientSecret: "client-secret",
		headerAuth:   headerAuth,
		challenges:   make(map[string]string),
		tokenStatus:  http.StatusOK,
		tokenBody: map[string]interface{}{
			"access_token":  "A",
			"refresh_token": "R",
			"expires_in":    3600,
			"token_type":    "bearer",
		},
		profileBody: `{"id":"li-123","localizedFirstName":"Alice"}`,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", f.handleToken)
	mux.HandleFunc("/me", f.handleProfile)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeOAuth2Provider) expectChallenge(code, challenge string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.challenges[code] = challenge
}

func (f *fakeOAuth2Provider) respondWith(status int, body map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenStatus = status
	f.tokenBody = body
}

func (f *fakeOAuth2Provider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenCalls
}

func (f *fakeOAuth2Provider) handleToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenCalls++

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	f.lastForm = r.PostForm

	id, secret, basic := r.BasicAuth()
	if !basic {
		id, secret = r.PostForm.Get("client_id"), r.PostForm.Get("client_secret")
	}
	if basic != f.headerAuth || id != f.clientID || secret != f.clientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"error": "invalid_client"})
		return
	}

	if r.PostForm.Get("grant_type") == "authorization_code" {
		if challenge, ok := f.challenges[r.PostForm.Get("code")]; ok {
			sum := sha256.Sum256([]byte(r.PostForm.Get("code_verifier")))
			if base64.RawURLEncoding.EncodeToString(sum[:]) != challenge {
				writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid_grant", "error_description": "code_verifier mismatch"})
				return
			}
		}
	}

	writeJSON(w, f.tokenStatus, f.tokenBody)
}

func (f *fakeOAuth2Provider) form() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastForm
}

func (f *fakeOAuth2Provider) setProfile(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileBody = body
}

func (f *fakeOAuth2Provider) handleProfile(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	body := f.profileBody
	f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer A" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
