package hashalg

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// ID identifies one of the supported hash algorithms.
type ID string

const (
	MD5     ID = "md5"
	SHA1    ID = "sha1"
	SHA256  ID = "sha256"
	SHA512  ID = "sha512"
	SHA3256 ID = "sha3_256"
	Blake2s ID = "blake2s"
	Blake2b ID = "blake2b"
	Blake3  ID = "blake3"
)

// All returns the closed set of supported algorithms in canonical order.
func All() []ID {
	return []ID{MD5, SHA1, SHA256, SHA512, SHA3256, Blake2s, Blake2b, Blake3}
}

// Parse converts a user-supplied name into an ID.
func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range All() {
		if id == known {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown hash algorithm: %q", s)
}

// New returns a fresh hash.Hash for the given algorithm.
func New(id ID) (hash.Hash, error) {
	switch id {
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA3256:
		return sha3.New256(), nil
	case Blake2s:
		h, err := blake2s.New256(nil)
		if err != nil {
			return nil, fmt.Errorf("blake2s init: %w", err)
		}
		return h, nil
	case Blake2b:
		h, err := blake2b.New512(nil)
		if err != nil {
			return nil, fmt.Errorf("blake2b init: %w", err)
		}
		return h, nil
	case Blake3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm: %q", id)
	}
}

// Capability returns an opaque chunk-hashing function for the algorithm.
// The returned function reuses a single hash state (reset per call) and is
// therefore not safe for concurrent use; each worker builds its own.
func Capability(id ID) (func([]byte) []byte, error) {
	h, err := New(id)
	if err != nil {
		return nil, err
	}
	sum := make([]byte, 0, h.Size())
	return func(chunk []byte) []byte {
		h.Reset()
		h.Write(chunk)
		return h.Sum(sum[:0])
	}, nil
}
