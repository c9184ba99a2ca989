package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
)

// LinkedInPoster comments on a share through the socialActions API.
// The actor is the member id captured from /v2/me when the account was connected.
type LinkedInPoster struct {
	apiBase string
	client  *http.Client
}

// NewLinkedInPoster creates a LinkedInPoster.
func NewLinkedInPoster(apiBase string, client *http.Client) *LinkedInPoster {
	return &LinkedInPoster{apiBase: apiBase, client: client}
}

type linkedInComment struct {
	Actor   string              `json:"actor"`
	Message linkedInCommentText `json:"message"`
}

type linkedInCommentText struct {
	Text string `json:"text"`
}

func (p *LinkedInPoster) Comment(ctx context.Context, token *tokenstore.ProviderToken, req CommentRequest) (json.RawMessage, error) {
	if token.ProviderAccountID == "" {
		return nil, appErrors.NewProviderError(appErrors.ErrProviderCallFailed, "linkedin", "no member id stored for this connection, reconnect the account", nil)
	}

	payload := linkedInComment{
		Actor:   "urn:li:person:" + token.ProviderAccountID,
		Message: linkedInCommentText{Text: req.Comment},
	}
	endpoint := joinURL(p.apiBase, "v2/socialActions", url.QueryEscape(req.PostID), "comments")

	client := bearerClient(ctx, p.client, token.AccessToken)
	return postJSON(ctx, client, "linkedin", endpoint, payload)
}
