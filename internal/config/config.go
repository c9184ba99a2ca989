package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Protocol identifies which OAuth variant a provider speaks.
type Protocol string

const (
	ProtocolOAuth1     Protocol = "oauth1"
	ProtocolOAuth2     Protocol = "oauth2"
	ProtocolOAuth2PKCE Protocol = "oauth2_pkce"
)

// State binding modes for the OAuth2 authorization-code flow.
const (
	StateBindingNonce      = "nonce"
	StateBindingCredential = "credential"
)

// Begin response modes for /request-token.
const (
	BeginResponseRedirect = "redirect"
	BeginResponseJSON     = "json"
)

// Client authentication styles at the token endpoint.
const (
	AuthStyleParams = "params"
	AuthStyleHeader = "header"
)

// ProviderConfig is the full, explicit configuration of one social provider.
// It is built once at start-up and handed to the adapter for that provider.
type ProviderConfig struct {
	Name         string   // Route name, e.g. "twitter2"
	Protocol     Protocol // Which OAuth variant the provider speaks
	ClientID     string   // OAuth client id / OAuth1 consumer key
	ClientSecret string   // OAuth client secret / OAuth1 consumer secret
	RedirectURL  string   // Callback URL registered with the provider

	AuthURL         string // Authorization (OAuth2) or authorize (OAuth1) endpoint
	TokenURL        string // OAuth2 token endpoint
	RequestTokenURL string // OAuth1 request-token endpoint
	AccessTokenURL  string // OAuth1 access-token endpoint
	ProfileURL      string // Optional "who am I" endpoint used after the exchange
	ProfileIDField  string // JSON field holding the account id in the profile response
	APIBaseURL      string // Base URL for outbound comment/post calls

	Scopes        []string
	AuthParams    map[string]string // Extra authorization URL parameters
	AuthStyle     string            // AuthStyleParams or AuthStyleHeader
	StateBinding  string            // StateBindingNonce or StateBindingCredential
	BeginResponse string            // BeginResponseRedirect or BeginResponseJSON
}

// Enabled reports whether client credentials were supplied for the provider.
func (p ProviderConfig) Enabled() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// Config holds all configuration values for the application, loaded from environment variables or config files.
type Config struct {
	Port string // HTTP server port
	Env  string // Application environment (e.g., development, production)

	DBUser            string // Database user
	DBPort            string // Database port
	DBHost            string // Database host
	DBName            string // Database name
	DBPassword        string // Database password
	DBMaxOpenConns    int    // Maximum open connections in the pool
	DBMaxIdleConns    int    // Maximum idle connections in the pool
	DBConnMaxLifetime int    // Connection max lifetime in minutes
	DBConnMaxIdleTime int    // Connection max idle time in minutes

	IdentityJWTSecret string // Shared secret used to verify internal credentials
	SupabaseURL       string // Identity service base URL
	SupabaseKey       string // Identity service API key
	SignupRedirectURL string // Magic-link target after signup
	SigninRedirectURL string // Magic-link target after signin
	AppRedirectURL    string // Where the browser lands after a successful provider callback

	TokenEncryptionKey string        // base64 32-byte key for provider tokens at rest
	TokenStoreDriver   string        // postgres or memory
	PendingStoreDriver string        // memory or postgres
	PendingTTL         time.Duration // Maximum lifetime of a pending authorization
	HTTPClientTimeout  time.Duration // Timeout for outbound provider calls

	CORSAllowedOrigins []string

	Providers []ProviderConfig
}

// UsesPostgres reports whether any store needs a database connection.
func (c *Config) UsesPostgres() bool {
	return c.TokenStoreDriver == "postgres" || c.PendingStoreDriver == "postgres"
}

// Provider returns the configuration of the named provider.
func (c *Config) Provider(name string) (ProviderConfig, bool) {
	for _, p := range c.Providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

// Load reads configuration from the .env file (when present) and environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DB_USER", "socialbridge")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PASSWORD", "socialbridge")
	viper.SetDefault("DB_NAME", "socialbridge")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 30)
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", 5)
	viper.SetDefault("APP_REDIRECT_URL", "https://vite-vue-topaz-one.vercel.app/profile")
	viper.SetDefault("SIGNUP_REDIRECT_URL", "https://vite-vue-topaz-one.vercel.app/login")
	viper.SetDefault("SIGNIN_REDIRECT_URL", "https://vite-vue-topaz-one.vercel.app/profile")
	viper.SetDefault("TOKEN_STORE", "postgres")
	viper.SetDefault("PENDING_STORE", "memory")
	viper.SetDefault("PENDING_TTL", "10m")
	viper.SetDefault("HTTP_CLIENT_TIMEOUT", "15s")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	if err := viper.ReadInConfig(); err != nil {
		// The .env file is optional; plain environment variables are enough.
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	cfg := &Config{
		Port:               viper.GetString("PORT"),
		Env:                viper.GetString("ENV"),
		DBUser:             viper.GetString("DB_USER"),
		DBPort:             viper.GetString("DB_PORT"),
		DBHost:             viper.GetString("DB_HOST"),
		DBName:             viper.GetString("DB_NAME"),
		DBPassword:         viper.GetString("DB_PASSWORD"),
		DBMaxOpenConns:     viper.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:     viper.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime:  viper.GetInt("DB_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime:  viper.GetInt("DB_CONN_MAX_IDLE_TIME"),
		IdentityJWTSecret:  firstSet("IDENTITY_JWT_SECRET", "SUPABASE_JWT_SECRET"),
		SupabaseURL:        strings.TrimRight(viper.GetString("SUPABASE_URL"), "/"),
		SupabaseKey:        viper.GetString("SUPABASE_KEY"),
		SignupRedirectURL:  viper.GetString("SIGNUP_REDIRECT_URL"),
		SigninRedirectURL:  viper.GetString("SIGNIN_REDIRECT_URL"),
		AppRedirectURL:     viper.GetString("APP_REDIRECT_URL"),
		TokenEncryptionKey: viper.GetString("TOKEN_ENCRYPTION_KEY"),
		TokenStoreDriver:   strings.ToLower(viper.GetString("TOKEN_STORE")),
		PendingStoreDriver: strings.ToLower(viper.GetString("PENDING_STORE")),
		PendingTTL:         viper.GetDuration("PENDING_TTL"),
		HTTPClientTimeout:  viper.GetDuration("HTTP_CLIENT_TIMEOUT"),
		CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS"), ","),
	}

	for _, def := range defaultProviders() {
		cfg.Providers = append(cfg.Providers, loadProvider(def))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.IdentityJWTSecret == "" {
		return errors.New("IDENTITY_JWT_SECRET (or SUPABASE_JWT_SECRET) is required")
	}
	switch c.TokenStoreDriver {
	case "postgres":
		if c.TokenEncryptionKey == "" {
			return errors.New("TOKEN_ENCRYPTION_KEY is required when TOKEN_STORE=postgres")
		}
	case "memory":
	default:
		return errors.New("TOKEN_STORE must be postgres or memory")
	}
	switch c.PendingStoreDriver {
	case "memory", "postgres":
	default:
		return errors.New("PENDING_STORE must be memory or postgres")
	}
	if c.PendingStoreDriver == "postgres" && c.TokenEncryptionKey == "" {
		return errors.New("TOKEN_ENCRYPTION_KEY is required when PENDING_STORE=postgres")
	}
	if c.PendingTTL <= 0 {
		return errors.New("PENDING_TTL must be positive")
	}
	for _, p := range c.Providers {
		if p.StateBinding != StateBindingNonce && p.StateBinding != StateBindingCredential {
			return errors.New(strings.ToUpper(p.Name) + "_STATE_BINDING must be nonce or credential")
		}
	}
	return nil
}

// loadProvider overlays environment values on a provider's defaults.
// Keys follow <NAME>_CLIENT_ID style; the names used by earlier deployments are accepted as aliases.
func loadProvider(def providerDefaults) ProviderConfig {
	p := def.ProviderConfig
	prefix := strings.ToUpper(p.Name)

	p.ClientID = firstSet(append([]string{prefix + "_CLIENT_ID"}, def.clientIDAliases...)...)
	p.ClientSecret = firstSet(append([]string{prefix + "_CLIENT_SECRET"}, def.clientSecretAliases...)...)
	if v := firstSet(append([]string{prefix + "_REDIRECT_URL"}, def.redirectAliases...)...); v != "" {
		p.RedirectURL = v
	}
	if v := viper.GetString(prefix + "_AUTH_URL"); v != "" {
		p.AuthURL = v
	}
	if v := viper.GetString(prefix + "_TOKEN_URL"); v != "" {
		p.TokenURL = v
	}
	if v := viper.GetString(prefix + "_REQUEST_TOKEN_URL"); v != "" {
		p.RequestTokenURL = v
	}
	if v := viper.GetString(prefix + "_ACCESS_TOKEN_URL"); v != "" {
		p.AccessTokenURL = v
	}
	if v := viper.GetString(prefix + "_PROFILE_URL"); v != "" {
		p.ProfileURL = v
	}
	if v := viper.GetString(prefix + "_API_BASE_URL"); v != "" {
		p.APIBaseURL = v
	}
	if v := viper.GetString(prefix + "_SCOPES"); v != "" {
		p.Scopes = splitList(v, " ")
	}
	if v := viper.GetString(prefix + "_STATE_BINDING"); v != "" {
		p.StateBinding = strings.ToLower(v)
	}
	if v := viper.GetString(prefix + "_BEGIN_RESPONSE"); v != "" {
		p.BeginResponse = strings.ToLower(v)
	}
	return p
}

func firstSet(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(viper.GetString(k)); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
