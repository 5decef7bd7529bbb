package pebble

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/sigchain/chainstore"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir, true)
	assert.NoError(t, err)

	assert.NoError(t, s.Put(ctx, "rig-b", []byte(`{"version":1}`)))
	assert.NoError(t, s.Put(ctx, "rig-a", []byte(`{}`)))
	assert.True(t, errors.Is(s.Put(ctx, "../escape", nil), chainstore.ErrInvalidName))

	v, err := s.Get(ctx, "rig-b")
	assert.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(v))

	_, err = s.Get(ctx, "missing")
	assert.True(t, errors.Is(err, chainstore.ErrNotFound))

	names, err := s.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"rig-a", "rig-b"}, names)

	assert.NoError(t, s.Delete(ctx, "rig-a"))
	assert.NoError(t, s.Delete(ctx, "never-there"))
	assert.NoError(t, s.Close())

	reopened, err := Open(dir, false)
	assert.NoError(t, err)
	defer reopened.Close()
	names, err = reopened.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"rig-b"}, names)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("chain0"), prefixEnd([]byte("chain/")))
	assert.Equal(t, []byte{0x02}, prefixEnd([]byte{0x01, 0xff}))
	assert.Zero(t, prefixEnd([]byte{0xff}))
}
