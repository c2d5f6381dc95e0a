package helpers

import (
	"context"
	"sync"

	"github.com/minio/highwayhash"

	"github.com/spektr-org/vizkit/schema"
)

var fingerprintKey = []byte("vizkit-dataset-fingerprint-key!!")

// Fingerprint hashes raw dataset bytes with HighwayHash-64.
func Fingerprint(data []byte) (uint64, error) {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// Cache remembers the last dataset loaded per URI and reports whether a
// reload changed anything, so hosts can skip redundant widget updates.
type Cache struct {
	r  *Reader
	mu sync.Mutex
	by map[string]*Dataset
}

// NewCache wraps r, the default Reader when nil.
func NewCache(r *Reader) *Cache {
	if r == nil {
		r = defaultReader
	}
	return &Cache{r: r, by: make(map[string]*Dataset)}
}

// Load fetches uri and decodes it unless its bytes are unchanged since the
// last call, in which case the cached dataset is returned with changed
// false.
func (c *Cache) Load(ctx context.Context, uri string, sch *schema.Config) (ds *Dataset, changed bool, err error) {
	data, err := c.r.ReadData(ctx, uri)
	if err != nil {
		return nil, false, err
	}
	fp, err := Fingerprint(data)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	prev := c.by[uri]
	c.mu.Unlock()
	if prev != nil && prev.Fingerprint == fp {
		return prev, false, nil
	}

	ds, err = Decode(FormatOf(uri), data, sch)
	if err != nil {
		return nil, false, err
	}
	ds.URI = uri
	c.mu.Lock()
	c.by[uri] = ds
	c.mu.Unlock()
	return ds, true, nil
}
