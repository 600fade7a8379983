package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		c := NewMemoryCache(0)
		require.NoError(t, c.Set(ctx, KeyArtists, []item{{ID: 1, Name: "Brel"}}))

		var got []item
		ok, err := c.Get(ctx, KeyArtists, &got)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []item{{ID: 1, Name: "Brel"}}, got)
	})

	t.Run("missing key", func(t *testing.T) {
		c := NewMemoryCache(0)
		var got []item
		ok, err := c.Get(ctx, "nope", &got)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }

		require.NoError(t, c.Set(ctx, KeySongs, []item{{ID: 1}}))

		now = now.Add(59 * time.Second)
		var got []item
		ok, _ := c.Get(ctx, KeySongs, &got)
		assert.True(t, ok, "entry should live until the ttl")

		now = now.Add(time.Second)
		ok, _ = c.Get(ctx, KeySongs, &got)
		assert.False(t, ok, "entry should expire at the ttl")
		assert.Equal(t, 0, c.Len())
	})

	t.Run("delete", func(t *testing.T) {
		c := NewMemoryCache(0)
		require.NoError(t, c.Set(ctx, KeyArtists, 1))
		require.NoError(t, c.Set(ctx, KeySongs, 2))
		require.NoError(t, c.Delete(ctx, KeyArtists, KeySongs, "absent"))
		assert.Equal(t, 0, c.Len())
	})

	t.Run("decode mismatch", func(t *testing.T) {
		c := NewMemoryCache(0)
		require.NoError(t, c.Set(ctx, KeyArtists, "text"))
		var got []item
		_, err := c.Get(ctx, KeyArtists, &got)
		assert.Error(t, err)
	})

	t.Run("unencodable value", func(t *testing.T) {
		c := NewMemoryCache(0)
		assert.Error(t, c.Set(ctx, KeyArtists, make(chan int)))
	})
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("loads once then hits", func(t *testing.T) {
		c := NewMemoryCache(0)
		calls := 0
		load := func(context.Context) ([]item, error) {
			calls++
			return []item{{ID: 7}}, nil
		}

		for range 3 {
			got, err := Fetch(ctx, c, KeySongs, load)
			require.NoError(t, err)
			assert.Equal(t, int64(7), got[0].ID)
		}
		assert.Equal(t, 1, calls)
	})

	t.Run("load error is not cached", func(t *testing.T) {
		c := NewMemoryCache(0)
		boom := errors.New("boom")
		_, err := Fetch(ctx, c, KeySongs, func(context.Context) ([]item, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("nil cache always loads", func(t *testing.T) {
		calls := 0
		for range 2 {
			_, err := Fetch(ctx, nil, KeySongs, func(context.Context) (int, error) {
				calls++
				return 1, nil
			})
			require.NoError(t, err)
		}
		assert.Equal(t, 2, calls)
	})
}

func TestArtistSongsKey(t *testing.T) {
	assert.Equal(t, "artists:42:songs", ArtistSongsKey(42))
}

func TestNewRedisCache(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not a url", time.Minute)
	assert.Error(t, err)
}
