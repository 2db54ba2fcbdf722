package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// urlDigest is the sha256 of url. It keeps indexes and keys bounded in size
// however long the url is.
func urlDigest(url string) []byte {
	h := sha256.Sum256([]byte(url))

	return h[:]
}

func hashURL(url string) string {
	return hex.EncodeToString(urlDigest(url))
}
