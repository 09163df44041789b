// Package cache keeps recently parsed units so repeated runs over
// unchanged files skip parsing.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arjunmahishi/tsxreview/source"
)

// DefaultSize is the number of units kept when no size is configured.
const DefaultSize = 512

// Units is a bounded LRU of parsed units keyed by path and content. It is
// safe for concurrent use.
type Units struct {
	lru  *lru.Cache[string, *source.Unit]
	hits atomic.Int64
}

// New creates a cache holding up to size units. size <= 0 means
// DefaultSize.
func New(size int) (*Units, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, *source.Unit](size)
	if err != nil {
		return nil, err
	}
	return &Units{lru: c}, nil
}

// Get returns the unit parsed from exactly this path and text.
func (u *Units) Get(path string, text []byte) (*source.Unit, bool) {
	unit, ok := u.lru.Get(key(path, text))
	if ok {
		u.hits.Add(1)
	}
	return unit, ok
}

// Add stores unit under path and text.
func (u *Units) Add(path string, text []byte, unit *source.Unit) {
	u.lru.Add(key(path, text), unit)
}

// Len returns the number of cached units.
func (u *Units) Len() int {
	return u.lru.Len()
}

// Hits returns the number of successful lookups.
func (u *Units) Hits() int64 {
	return u.hits.Load()
}

func key(path string, text []byte) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(text)
	return hex.EncodeToString(h.Sum(nil))
}
