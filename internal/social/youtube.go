package social

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/Gkemhcs/socialbridge-backend/internal/errors"
	"github.com/Gkemhcs/socialbridge-backend/internal/tokenstore"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubePoster starts a top-level comment thread on a video.
type YouTubePoster struct {
	endpoint string
	client   *http.Client
}

// NewYouTubePoster creates a YouTubePoster. An empty endpoint uses the library default.
func NewYouTubePoster(endpoint string, client *http.Client) *YouTubePoster {
	return &YouTubePoster{endpoint: endpoint, client: client}
}

func (p *YouTubePoster) Comment(ctx context.Context, token *tokenstore.ProviderToken, req CommentRequest) (json.RawMessage, error) {
	opts := []option.ClientOption{option.WithHTTPClient(bearerClient(ctx, p.client, token.AccessToken))}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}

	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, appErrors.Wrapf(appErrors.ErrProviderCallFailed, "youtube", err, "create client: %v", err)
	}

	thread := &youtube.CommentThread{
		Snippet: &youtube.CommentThreadSnippet{
			VideoId: req.PostID,
			TopLevelComment: &youtube.Comment{
				Snippet: &youtube.CommentSnippet{TextOriginal: req.Comment},
			},
		},
	}

	created, err := svc.CommentThreads.Insert([]string{"snippet"}, thread).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, appErrors.Wrapf(appErrors.ErrProviderCallFailed, "youtube", err, "status %d: %s", gerr.Code, gerr.Message)
		}
		return nil, appErrors.NewProviderError(appErrors.ErrProviderCallFailed, "youtube", err.Error(), err)
	}

	body, err := created.MarshalJSON()
	if err != nil {
		return nil, appErrors.Wrapf(appErrors.ErrProviderCallFailed, "youtube", err, "encode response")
	}
	return body, nil
}
