package provider

import (
	"time"

	"github.com/Gkemhcs/socialbridge-backend/internal/config"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
)

// BeginResponse is the JSON form of a started authorization.
type BeginResponse struct {
	AuthURL    string `json:"authUrl"`
	OAuthToken string `json:"oauth_token,omitempty"` // OAuth1 request token
}

// CommentRequest is the body of POST /api/:provider/comment.
type CommentRequest struct {
	PostID           string `json:"postId"`
	Comment          string `json:"comment"`
	InReplyToTweetID string `json:"in_reply_to_tweet_id,omitempty"`
}

// ConnectionResponse describes a stored provider connection. Credentials are never included.
type ConnectionResponse struct {
	Provider          string     `json:"provider"`
	Connected         bool       `json:"connected"`
	ProviderAccountID string     `json:"provider_account_id,omitempty"`
	HasRefreshToken   bool       `json:"has_refresh_token"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	ConnectedAt       time.Time  `json:"connected_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ProviderSummary is one entry of GET /api/providers.
type ProviderSummary struct {
	Name       string          `json:"name"`
	Protocol   config.Protocol `json:"protocol"`
	Refreshing bool            `json:"supports_refresh"`
}

func toConnectionResponse(t *tokenstore.ProviderToken) *ConnectionResponse {
	resp := &ConnectionResponse{
		Provider:          t.Provider,
		Connected:         true,
		ProviderAccountID: t.ProviderAccountID,
		HasRefreshToken:   t.HasRefreshToken(),
		ConnectedAt:       t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
	if !t.ExpiresAt.IsZero() {
		expires := t.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}
