package wire

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/eluv-io/errors-go"
)

// CachingReader wraps a Reader and retains recently decoded messages, so
// that multiple consumers working off the same stream can revisit a message
// by its ordinal without re-parsing. The stream itself remains forward-only:
// a message that was never reached cannot be fetched, and one evicted from
// the cache is gone.
type CachingReader struct {
	r     *Reader
	cache *lru.Cache
}

// NewCachingReader creates a caching reader retaining up to size decoded
// messages.
func NewCachingReader(r *Reader, size int) (*CachingReader, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.E("create caching reader", errors.K.Invalid, err, "size", size)
	}
	return &CachingReader{r: r, cache: cache}, nil
}

// Next decodes and caches the next message. See Reader.Next.
func (c *CachingReader) Next() (*Decoded, error) {
	d, err := c.r.Next()
	if err != nil {
		return nil, err
	}
	c.cache.Add(d.Ordinal(), d)
	return d, nil
}

// Message returns the cached message with the given ordinal, or false if it
// was never decoded or has been evicted.
func (c *CachingReader) Message(ordinal int) (*Decoded, bool) {
	d, ok := c.cache.Get(ordinal)
	if !ok {
		return nil, false
	}
	return d.(*Decoded), true
}
