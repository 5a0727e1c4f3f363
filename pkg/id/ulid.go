package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a 26-character ULID in Crockford base32.
// IDs created in later milliseconds sort after earlier ones.
func NewULID() string {
	return ulidAt(time.Now())
}

func ulidAt(t time.Time) string {
	var entropy [10]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		binary.BigEndian.PutUint64(entropy[2:], uint64(t.UnixNano()))
	}

	var out [26]byte
	encode(out[0:10], uint64(t.UnixMilli())&(1<<48-1))
	encode(out[10:18], uint40(entropy[0:5]))
	encode(out[18:26], uint40(entropy[5:10]))
	return string(out[:])
}

// encode writes v into dst as len(dst) base32 digits, most significant first.
func encode(dst []byte, v uint64) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = alphabet[v&0x1F]
		v >>= 5
	}
}

func uint40(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
