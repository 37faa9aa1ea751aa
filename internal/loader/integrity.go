package loader

import (
	"crypto/sha512"
	"encoding/base64"
)

// IntegrityPrefix tags digests produced by Digest.
const IntegrityPrefix = "sha384-"

// Digest returns the subresource-integrity string for data:
// "sha384-" followed by the standard base64 encoding of its SHA-384 sum.
func Digest(data []byte) string {
	sum := sha512.Sum384(data)
	return IntegrityPrefix + base64.StdEncoding.EncodeToString(sum[:])
}

// Verify compares the digest of data with expected, byte for byte.
// It returns the computed digest, and an *IntegrityError on mismatch.
func Verify(src string, data []byte, expected string) (string, error) {
	actual := Digest(data)
	if actual != expected {
		return actual, &IntegrityError{Src: src, Expected: expected, Actual: actual}
	}
	return actual, nil
}
