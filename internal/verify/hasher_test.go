package verify

import (
	"bytes"
	"context"
	"crypto/md5"  // #nosec G401
	"crypto/sha1" // #nosec G401
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectedHex(algorithm string, content []byte) string {
	switch strings.ToUpper(algorithm) {
	case "SHA1":
		h := sha1.Sum(content)
		return hex.EncodeToString(h[:])
	case "SHA512":
		h := sha512.Sum512(content)
		return hex.EncodeToString(h[:])
	case "SHA384":
		h := sha512.Sum384(content)
		return hex.EncodeToString(h[:])
	case "MD5":
		h := md5.Sum(content)
		return hex.EncodeToString(h[:])
	default:
		h := sha256.Sum256(content)
		return hex.EncodeToString(h[:])
	}
}

func TestFileHashHex_TableDriven(t *testing.T) {
	dir := t.TempDir()

	makeFile := func(name string, content []byte) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, content, 0o600))
		return p
	}

	contentSmall := []byte("hello world")
	contentLarge := bytes.Repeat([]byte("A"), 2<<20+17) // not a multiple of the chunk size

	tests := []struct {
		name      string
		algorithm string
		chunkSize int
		content   []byte
		missing   bool
		wantErr   bool
	}{
		{"sha256 small", "SHA256", 0, contentSmall, false, false},
		{"sha256 large default chunk", "SHA256", 0, contentLarge, false, false},
		{"sha256 large tiny chunk", "sha-256", 7, contentLarge, false, false},
		{"sha256 empty", "SHA256", 0, []byte{}, false, false},
		{"sha1", "SHA1", 0, contentSmall, false, false},
		{"sha512", "SHA512", 0, contentSmall, false, false},
		{"sha384", "SHA384", 0, contentSmall, false, false},
		{"md5", "MD5", 0, contentSmall, false, false},
		{"unsupported algorithm", "BLAKE3", 0, contentSmall, false, true},
		{"file missing", "SHA256", 0, contentSmall, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			if tt.missing {
				path = filepath.Join(dir, "does-not-exist.bin")
			} else {
				path = makeFile(tt.name+".bin", tt.content)
			}

			var progressed int64
			got, err := FileHashHex(context.Background(), path, tt.algorithm, tt.chunkSize, func(n int64) {
				progressed += n
			})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, expectedHex(tt.algorithm, tt.content), got)
			assert.Equal(t, strings.ToLower(got), got)
			assert.Equal(t, int64(len(tt.content)), progressed)
		})
	}
}

func TestFileHashHex_KnownDigests(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"hello": "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		"world": "486ea46224d1bb4fb680f34f7c9ad96a8f24ec88be73ea8e5a6c65260e9cb8a7",
		"":      "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
	}
	for content, want := range cases {
		p := filepath.Join(dir, "f"+content)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

		got, err := FileHashHex(context.Background(), p, DefaultAlgorithm, DefaultChunkSize, nil)
		require.NoError(t, err)
		assert.Equal(t, want, got, "content %q", content)
	}
}

func TestFileHashHex_CancelledContext(t *testing.T) {
	p := filepath.Join(t.TempDir(), "f.bin")
	require.NoError(t, os.WriteFile(p, []byte("data"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FileHashHex(ctx, p, DefaultAlgorithm, 0, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHexLen(t *testing.T) {
	n, err := HexLen("SHA256")
	require.NoError(t, err)
	assert.Equal(t, 64, n)

	n, err = HexLen("md5")
	require.NoError(t, err)
	assert.Equal(t, 32, n)

	_, err = HexLen("crc32")
	require.Error(t, err)
}
