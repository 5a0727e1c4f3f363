package storage

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// pathSegmentRegex matches characters that are not safe for path segments.
var pathSegmentRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// keyHashSep joins a rewritten key to the hash of its raw form. It never
// survives sanitizing, so a key that needed no rewriting cannot contain it.
const keyHashSep = "~"

// sanitizePathSegment removes potentially dangerous characters from path segments.
// Cache names are caller-chosen, so they are never trusted as raw paths.
func sanitizePathSegment(segment string) string {
	segment = strings.Trim(segment, " /\\")
	segment = strings.ReplaceAll(segment, "..", "")
	segment = pathSegmentRegex.ReplaceAllString(segment, "_")
	return url.PathEscape(segment)
}

// blobName maps a caller key to a safe path segment. Keys that are already
// safe are used as is; any other key keeps a readable sanitized form plus
// the xxhash of the raw key, so "user:products" and "user_products" land in
// different blobs.
func blobName(key string) string {
	clean := sanitizePathSegment(key)
	if clean == key || clean == "" {
		return clean
	}
	return clean + keyHashSep + strconv.FormatUint(xxhash.Sum64String(key), 16)
}

// joinKey builds "{prefix}/{key}" with both parts made safe.
// Returns ErrInvalidKey if key sanitizes to nothing.
func joinKey(prefix, key string) (string, error) {
	k := blobName(key)
	if k == "" {
		return "", ErrInvalidKey
	}
	if p := sanitizePathSegment(prefix); p != "" {
		return p + "/" + k, nil
	}
	return k, nil
}
