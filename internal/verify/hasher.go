package verify

import (
	"context"
	"crypto/md5"  // #nosec G501 -- used for file integrity verification only
	"crypto/sha1" // #nosec G505 -- used for file integrity verification only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

func newHasher(algorithm string) (hash.Hash, error) {
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case "SHA256", "SHA-256":
		return sha256.New(), nil
	case "SHA1", "SHA-1":
		return sha1.New(), nil // #nosec G401 -- used for file integrity verification only
	case "SHA512", "SHA-512":
		return sha512.New(), nil
	case "SHA384", "SHA-384":
		return sha512.New384(), nil
	case "MD5":
		return md5.New(), nil // #nosec G401 -- used for file integrity verification only
	default:
		return nil, fmt.Errorf("unsupported algorithm: %q", algorithm)
	}
}

// HexLen is the length of a hex digest produced by algorithm.
func HexLen(algorithm string) (int, error) {
	h, err := newHasher(algorithm)
	if err != nil {
		return 0, err
	}
	return h.Size() * 2, nil
}

// FileHashHex streams path through the hash in chunkSize reads and returns
// the lowercase hex digest. ctx is checked between reads.
func FileHashHex(ctx context.Context, path string, algorithm string, chunkSize int, onProgress func(n int64)) (string, error) {
	h, err := newHasher(algorithm)
	if err != nil {
		return "", err
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return "", werr
			}
			if onProgress != nil {
				onProgress(int64(n))
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", rerr
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
