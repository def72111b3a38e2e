package pieicon

import (
	"bytes"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache keeps encoded icons by content key. It is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, []byte]
}

func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// PNG returns the encoded icon, rendering it on a miss.
func (c *Cache) PNG(icon Icon, size int) ([]byte, error) {
	key := strconv.Itoa(size) + ":" + icon.Key()
	if b, ok := c.entries.Get(key); ok {
		return b, nil
	}
	var buf bytes.Buffer
	if err := EncodePNG(&buf, icon, size); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	c.entries.Add(key, b)
	return b, nil
}

func (c *Cache) Len() int { return c.entries.Len() }
