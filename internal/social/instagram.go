package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
)

// InstagramPoster comments on a media object through the Graph API.
type InstagramPoster struct {
	apiBase string
	client  *http.Client
}

// NewInstagramPoster creates an InstagramPoster.
func NewInstagramPoster(apiBase string, client *http.Client) *InstagramPoster {
	return &InstagramPoster{apiBase: apiBase, client: client}
}

func (p *InstagramPoster) Comment(ctx context.Context, token *tokenstore.ProviderToken, req CommentRequest) (json.RawMessage, error) {
	payload := map[string]string{"message": req.Comment}
	endpoint := joinURL(p.apiBase, url.PathEscape(req.PostID), "comments")

	client := bearerClient(ctx, p.client, token.AccessToken)
	return postJSON(ctx, client, "instagram", endpoint, payload)
}
