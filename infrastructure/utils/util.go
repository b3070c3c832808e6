package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

const (
	youtubeBaseURL = "https://www.youtube.com"
	listingSuffix  = "/videos"
)

var channelIDRegex = regexp.MustCompile(`^UC[\w-]{22}$`)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// NormalizeChannelReference returns the canonical listing URL for a channel reference.
// Bare handles (@name) and channel ids (UC...) are expanded to full URLs, trailing
// slashes are trimmed and the /videos tab is appended when missing. Empty input, and
// input that starts with "-" (it would read as a command-line flag), yields "".
func NormalizeChannelReference(raw string) string {
	ref := strings.TrimSpace(raw)
	ref = strings.TrimRight(ref, "/")
	if ref == "" || strings.HasPrefix(ref, "-") {
		return ""
	}

	switch {
	case strings.HasPrefix(ref, "@"):
		ref = youtubeBaseURL + "/" + ref
	case channelIDRegex.MatchString(ref):
		ref = youtubeBaseURL + "/channel/" + ref
	}

	if !strings.HasSuffix(ref, listingSuffix) {
		ref += listingSuffix
	}
	return ref
}

// CacheKey returns the hex SHA-256 digest identifying a normalized reference
func CacheKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// VideoURL builds the watch URL for a video id
func VideoURL(videoID string) string {
	return youtubeBaseURL + "/watch?v=" + videoID
}
