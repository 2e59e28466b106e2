package bbb

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strings"
)

// ChecksumAlgorithm selects the digest used to sign requests
type ChecksumAlgorithm string

const (
	ChecksumSHA1   ChecksumAlgorithm = "sha1"
	ChecksumSHA256 ChecksumAlgorithm = "sha256"
)

func (a ChecksumAlgorithm) newHash() hash.Hash {
	if a == ChecksumSHA256 {
		return sha256.New()
	}
	return sha1.New()
}

// Sum returns the lowercase hex digest of method + query + secret.
func (a ChecksumAlgorithm) Sum(method, query, secret string) string {
	h := a.newHash()
	h.Write([]byte(method + query + secret))
	return hex.EncodeToString(h.Sum(nil))
}

// BuildRequest returns base?query&checksum=<digest>. An empty query still
// yields "?&checksum=", which the server accepts.
func (a ChecksumAlgorithm) BuildRequest(baseURL, method, query, secret string) string {
	return baseURL + "?" + query + "&checksum=" + a.Sum(method, query, secret)
}

// Checksum is the SHA-1 request checksum.
func Checksum(method, query, secret string) string {
	return ChecksumSHA1.Sum(method, query, secret)
}

// BuildRequest signs query with SHA-1 and appends it to baseURL.
func BuildRequest(baseURL, method, query, secret string) string {
	return ChecksumSHA1.BuildRequest(baseURL, method, query, secret)
}

// VerifyChecksum reports whether checksum signs method + query under secret.
// The algorithm is picked from the digest length.
func VerifyChecksum(method, query, secret, checksum string) bool {
	if secret == "" || checksum == "" {
		return false
	}
	algorithm := ChecksumSHA1
	if len(checksum) == hex.EncodedLen(sha256.Size) {
		algorithm = ChecksumSHA256
	}
	expected := algorithm.Sum(method, query, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(checksum))) == 1
}

// StripChecksum splits a raw query string into the signed part and the
// checksum value. ok is false when no checksum parameter is present.
func StripChecksum(rawQuery string) (query, checksum string, ok bool) {
	const param = "checksum="
	idx := strings.LastIndex(rawQuery, param)
	if idx < 0 || (idx > 0 && rawQuery[idx-1] != '&') {
		return rawQuery, "", false
	}
	checksum = rawQuery[idx+len(param):]
	if amp := strings.IndexByte(checksum, '&'); amp >= 0 {
		return rawQuery, "", false
	}
	query = rawQuery[:idx]
	query = strings.TrimSuffix(query, "&")
	return query, checksum, true
}
