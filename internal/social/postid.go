package social

import (
	"regexp"
	"strings"
)

var (
	tweetIDPattern    = regexp.MustCompile(`status(?:es)?/(\d+)`)
	videoIDPattern    = regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?(?:youtube\.com/(?:[^/\s]+/\S+/|(?:v|e(?:mbed)?|shorts|live)/|.*[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	mediaIDPattern    = regexp.MustCompile(`/(?:p|tv|reel)/([\w-]+)`)
	linkedInIDPattern = regexp.MustCompile(`/posts/([a-zA-Z0-9_-]+)`)
)

// NormalizePostID reduces a post URL to the id the provider's API expects.
// Values that are not URLs, or that no pattern matches, are returned trimmed.
func NormalizePostID(provider, raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "/") {
		return raw
	}

	var pattern *regexp.Regexp
	switch provider {
	case "twitter", "twitter2":
		pattern = tweetIDPattern
	case "youtube":
		pattern = videoIDPattern
	case "instagram":
		pattern = mediaIDPattern
	case "linkedin":
		pattern = linkedInIDPattern
	default:
		return raw
	}

	if m := pattern.FindStringSubmatch(raw); len(m) == 2 {
		return m[1]
	}
	return raw
}
