package config

type providerDefaults struct {
	ProviderConfig
	clientIDAliases     []string
	clientSecretAliases []string
	redirectAliases     []string
}

// defaultProviders lists every provider the service knows how to talk to.
// Endpoint URLs can be overridden per provider through the environment.
func defaultProviders() []providerDefaults {
	return []providerDefaults{
		{
			ProviderConfig: ProviderConfig{
				Name:            "twitter",
				Protocol:        ProtocolOAuth1,
				RedirectURL:     "http://localhost:8080/api/twitter/callback",
				AuthURL:         "https://api.twitter.com/oauth/authorize",
				RequestTokenURL: "https://api.twitter.com/oauth/request_token",
				AccessTokenURL:  "https://api.twitter.com/oauth/access_token",
				APIBaseURL:      "https://api.twitter.com",
				StateBinding:    StateBindingNonce,
				BeginResponse:   BeginResponseJSON,
			},
			clientIDAliases:     []string{"TWITTER_API_KEY"},
			clientSecretAliases: []string{"TWITTER_API_SECRET_KEY"},
			redirectAliases:     []string{"TWITTER_CALLBACK_URL"},
		},
		{
			ProviderConfig: ProviderConfig{
				Name:          "twitter2",
				Protocol:      ProtocolOAuth2PKCE,
				RedirectURL:   "http://localhost:8080/api/twitter2/callback",
				AuthURL:       "https://twitter.com/i/oauth2/authorize",
				TokenURL:      "https://api.twitter.com/2/oauth2/token",
				APIBaseURL:    "https://api.twitter.com",
				Scopes:        []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
				AuthStyle:     AuthStyleHeader,
				StateBinding:  StateBindingNonce,
				BeginResponse: BeginResponseJSON,
			},
			clientIDAliases:     []string{"TWITTER_API_KEY"},
			clientSecretAliases: []string{"TWITTER_API_SECRET_KEY"},
			redirectAliases:     []string{"TWITTER_REDIRECT_URI"},
		},
		{
			ProviderConfig: ProviderConfig{
				Name:        "youtube",
				Protocol:    ProtocolOAuth2,
				RedirectURL: "http://localhost:8080/api/youtube/callback",
				AuthURL:     "https://accounts.google.com/o/oauth2/v2/auth",
				TokenURL:    "https://oauth2.googleapis.com/token",
				APIBaseURL:  "https://youtube.googleapis.com/",
				Scopes:      []string{"https://www.googleapis.com/auth/youtube.force-ssl"},
				AuthParams: map[string]string{
					"access_type": "offline",
					"prompt":      "consent",
				},
				AuthStyle:     AuthStyleParams,
				StateBinding:  StateBindingCredential,
				BeginResponse: BeginResponseRedirect,
			},
			redirectAliases: []string{"YOUTUBE_REDIRECT_URI"},
		},
		{
			ProviderConfig: ProviderConfig{
				Name:           "linkedin",
				Protocol:       ProtocolOAuth2,
				RedirectURL:    "http://localhost:8080/api/linkedin/callback",
				AuthURL:        "https://www.linkedin.com/oauth/v2/authorization",
				TokenURL:       "https://www.linkedin.com/oauth/v2/accessToken",
				ProfileURL:     "https://api.linkedin.com/v2/me",
				ProfileIDField: "id",
				APIBaseURL:     "https://api.linkedin.com",
				Scopes:         []string{"r_liteprofile", "r_emailaddress", "w_member_social"},
				AuthStyle:      AuthStyleParams,
				StateBinding:   StateBindingCredential,
				BeginResponse:  BeginResponseRedirect,
			},
			redirectAliases: []string{"LINKEDIN_REDIRECT_URI"},
		},
		{
			ProviderConfig: ProviderConfig{
				Name:           "instagram",
				Protocol:       ProtocolOAuth2,
				RedirectURL:    "http://localhost:8080/api/instagram/callback",
				AuthURL:        "https://api.instagram.com/oauth/authorize",
				TokenURL:       "https://api.instagram.com/oauth/access_token",
				ProfileURL:     "https://graph.instagram.com/me?fields=id",
				ProfileIDField: "id",
				APIBaseURL:     "https://graph.facebook.com/v12.0",
				Scopes:         []string{"user_profile", "user_media", "comments"},
				AuthStyle:      AuthStyleParams,
				StateBinding:   StateBindingCredential,
				BeginResponse:  BeginResponseRedirect,
			},
			redirectAliases: []string{"INSTAGRAM_REDIRECT_URI"},
		},
	}
}
