package utils

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// NewHash returns the digest for an algorithm identifier as it appears in a
// structural document (e.g. "SHA-256"). The match ignores case and dashes.
func NewHash(algorithm string) (hash.Hash, error) {
	switch strings.ToLower(strings.ReplaceAll(algorithm, "-", "")) {
	case "md5":
		return md5.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("unsupported checksum algorithm: %s", algorithm)
	}
}

// CalculateChecksum streams a file through the given digest in a single pass
func CalculateChecksum(path, algorithm string) (string, error) {
	h, err := NewHash(algorithm)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChecksumsEqual compares two hex digests, ignoring case
func ChecksumsEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}
