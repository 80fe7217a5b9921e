package analysis

import (
	"testing"

	"antiplagiarism/internal/storage"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	fixtures := [][]byte{
		[]byte("hello"),
		[]byte("hello "),
		[]byte("Hello"),
		{0x00, 0xff, 0x10},
		{0x00, 0xff, 0x11},
		[]byte("a"),
	}

	seen := make(map[string]int)
	for i, c := range fixtures {
		fp := Fingerprint(c)
		assert.Len(t, fp, 64)
		assert.Equal(t, fp, Fingerprint(append([]byte(nil), c...)), "equal bytes must fingerprint equally")
		if j, ok := seen[fp]; ok {
			t.Errorf("fixtures %d and %d collide", j, i)
		}
		seen[fp] = i
	}
}

func TestFingerprint_MatchesStoredChecksum(t *testing.T) {
	content := []byte("the quick brown fox")
	assert.Equal(t, storage.Checksum(content), Fingerprint(content))
}
