package blob

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutGetCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	content := []byte("data")
	require.NoError(t, m.Put(ctx, "k", content))
	content[0] = 'X'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	got[0] = 'Y'
	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), again)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, "k", []byte("data")))
	require.NoError(t, m.Delete(ctx, "k"))

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			assert.NoError(t, m.Put(ctx, key, []byte(key)))
			_, err := m.Get(ctx, key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	s, err := NewFromConfig(ctx, Config{Type: TypeMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = NewFromConfig(ctx, Config{Type: TypeFileSystem, Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileSystem{}, s)

	_, err = NewFromConfig(ctx, Config{Type: TypeFileSystem})
	assert.Error(t, err)

	_, err = NewFromConfig(ctx, Config{Type: TypeS3})
	assert.Error(t, err)

	_, err = NewFromConfig(ctx, Config{Type: "tape"})
	assert.Error(t, err)
}
