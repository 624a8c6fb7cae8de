package utils

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest returns the hex blake3 digest of data
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DigestString is Digest for strings
func DigestString(s string) string {
	return Digest([]byte(s))
}

// ShortDigest returns the first n hex characters of the digest of parts.
// Parts are length-prefixed so ("ab","c") and ("a","bc") differ.
func ShortDigest(n int, parts ...string) string {
	hasher := blake3.New()
	for _, p := range parts {
		var prefix [8]byte
		l := uint64(len(p))
		for i := 0; i < 8; i++ {
			prefix[i] = byte(l >> (8 * i))
		}
		_, _ = hasher.Write(prefix[:])
		_, _ = hasher.Write([]byte(p))
	}
	digest := hex.EncodeToString(hasher.Sum(nil))
	if n <= 0 || n > len(digest) {
		return digest
	}
	return digest[:n]
}
