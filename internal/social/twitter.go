package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
)

// RequestSigner produces OAuth 1.0a signing clients. Implemented by oauth.OAuth1Adapter.
type RequestSigner interface {
	SignedClient(ctx context.Context, token *tokenstore.ProviderToken) *http.Client
}

// TwitterPoster replies to a tweet through the v1.1 statuses API with an OAuth1-signed request.
type TwitterPoster struct {
	apiBase string
	signer  RequestSigner
}

// NewTwitterPoster creates a TwitterPoster.
func NewTwitterPoster(apiBase string, signer RequestSigner) *TwitterPoster {
	return &TwitterPoster{apiBase: apiBase, signer: signer}
}

func (p *TwitterPoster) Comment(ctx context.Context, token *tokenstore.ProviderToken, req CommentRequest) (json.RawMessage, error) {
	form := url.Values{}
	form.Set("status", req.Comment)
	form.Set("in_reply_to_status_id", req.PostID)

	client := p.signer.SignedClient(ctx, token)
	return postForm(ctx, client, "twitter", joinURL(p.apiBase, "1.1/statuses/update.json"), form)
}

// Twitter2Poster creates tweets through the v2 API with the PKCE bearer token.
type Twitter2Poster struct {
	apiBase string
	client  *http.Client
}

// NewTwitter2Poster creates a Twitter2Poster.
func NewTwitter2Poster(apiBase string, client *http.Client) *Twitter2Poster {
	return &Twitter2Poster{apiBase: apiBase, client: client}
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type createTweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

func (p *Twitter2Poster) Comment(ctx context.Context, token *tokenstore.ProviderToken, req CommentRequest) (json.RawMessage, error) {
	payload := createTweetRequest{Text: req.Comment}

	replyTo := req.InReplyToTweetID
	if replyTo == "" {
		replyTo = req.PostID
	}
	if replyTo != "" {
		payload.Reply = &tweetReply{InReplyToTweetID: replyTo}
	}

	client := bearerClient(ctx, p.client, token.AccessToken)
	return postJSON(ctx, client, "twitter2", joinURL(p.apiBase, "2/tweets"), payload)
}
