package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_Basic(t *testing.T) {
	c := NewLRU(100)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", make([]byte, 10))
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Len(t, v, 10)
	assert.Equal(t, int64(10), c.Size())

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU(30)
	c.Set("img000000.dat", make([]byte, 10))
	c.Set("img000001.dat", make([]byte, 10))
	c.Set("img000002.dat", make([]byte, 10))

	// Touch the oldest so the middle one becomes the eviction victim.
	_, ok := c.Get("img000000.dat")
	require.True(t, ok)

	c.Set("img000003.dat", make([]byte, 10))

	_, ok = c.Get("img000001.dat")
	assert.False(t, ok, "least recently used entry should be evicted")
	for _, k := range []string{"img000000.dat", "img000002.dat", "img000003.dat"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
	assert.Equal(t, int64(30), c.Size())
	assert.Equal(t, 3, c.Len())
}

func TestLRU_EdgeCases(t *testing.T) {
	c := NewLRU(50)

	c.Set("big", make([]byte, 60))
	_, ok := c.Get("big")
	assert.False(t, ok, "item larger than capacity should not be cached")

	c.Set("k", make([]byte, 10))
	c.Set("k", make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())
	c.Set("k", make([]byte, 5))
	assert.Equal(t, int64(5), c.Size())

	c.Set("k", make([]byte, 60))
	_, ok = c.Get("k")
	assert.False(t, ok, "oversized update should drop the entry")
	assert.Equal(t, int64(0), c.Size())

	c.Set("x", make([]byte, 40))
	c.Set("y", make([]byte, 5))
	c.Set("x", make([]byte, 48))
	_, ok = c.Get("y")
	assert.False(t, ok, "growing an entry should evict others to fit")
	assert.Equal(t, int64(48), c.Size())

	c.Remove("x")
	assert.Equal(t, int64(0), c.Size())
	c.Remove("missing")

	c.Set("p", make([]byte, 1))
	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Size())
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU(1 << 10)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := fmt.Sprintf("b%d", (g+i)%16)
				if _, ok := c.Get(k); !ok {
					c.Set(k, make([]byte, 64))
				}
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Size(), int64(1<<10))
}
