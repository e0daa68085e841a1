package dearrow

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashPrefixLen is a protocol constant: the branding API sizes its
// k-anonymity sets around a 4-hex-char (16 bit) prefix, so the length
// is deliberately not configurable.
const hashPrefixLen = 4

const brandingPath = "/api/branding/"

// HashPrefix computes the routing prefix for a video id: the first
// hashPrefixLen lowercase hex characters of the SHA-256 digest over
// the raw id bytes. The prefix is computed fresh per request and is
// shared by many possible ids, so the server never learns which exact
// video was requested.
func HashPrefix(videoID string) string {
	sum := sha256.Sum256([]byte(videoID))
	return hex.EncodeToString(sum[:])[:hashPrefixLen]
}

// BrandingURL builds the branding lookup URL for a hash prefix.
func BrandingURL(baseURL, prefix string) string {
	return strings.TrimSuffix(baseURL, "/") + brandingPath + prefix
}
