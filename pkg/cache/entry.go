package cache

import (
	"slices"
	"time"
)

// Entry is a single cached value with its write time, expiration and tags.
// Timestamps are Unix milliseconds.
type Entry[V any] struct {
	Key       string   `json:"key" msgpack:"key"`
	Value     V        `json:"value" msgpack:"value"`
	WrittenAt int64    `json:"timestamp" msgpack:"timestamp"`
	ExpireAt  *int64   `json:"expireTime,omitempty" msgpack:"expireTime,omitempty"`
	Tags      []string `json:"tags,omitempty" msgpack:"tags,omitempty"`
	Version   string   `json:"version,omitempty" msgpack:"version,omitempty"`

	// seq orders entries written within the same millisecond.
	seq uint64
}

// Expired reports whether the entry's expiration is at or before now.
// Entries without ExpireAt never expire.
func (e *Entry[V]) Expired(now time.Time) bool {
	return e.ExpireAt != nil && *e.ExpireAt <= now.UnixMilli()
}

// HasTag reports whether the entry carries tag.
func (e *Entry[V]) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// older reports whether e was written before o.
func (e *Entry[V]) older(o *Entry[V]) bool {
	if e.WrittenAt != o.WrittenAt {
		return e.WrittenAt < o.WrittenAt
	}
	return e.seq < o.seq
}

// SetOption configures a single Set call.
type SetOption func(*setOptions)

type setOptions struct {
	ttl      time.Duration
	hasTTL   bool
	noExpiry bool
	tags     []string
	version  string
}

// WithTTL sets the entry lifetime. Zero or negative values produce an entry
// that is already expired when it is written.
func WithTTL(d time.Duration) SetOption {
	return func(o *setOptions) {
		o.ttl = d
		o.hasTTL = true
		o.noExpiry = false
	}
}

// WithNoExpiry stores an entry that never time-expires.
// It can still be removed by eviction or invalidation.
func WithNoExpiry() SetOption {
	return func(o *setOptions) {
		o.noExpiry = true
		o.hasTTL = false
	}
}

// WithTags attaches labels used by DeleteByTag.
func WithTags(tags ...string) SetOption {
	return func(o *setOptions) {
		o.tags = append(o.tags, tags...)
	}
}

// WithVersion records an opaque version string on the entry.
func WithVersion(v string) SetOption {
	return func(o *setOptions) {
		o.version = v
	}
}
