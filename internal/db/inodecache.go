package db

import (
	"container/list"
	"sync"
)

const inodeCacheSize = 4096

type inodeCacheEntry struct {
	path  string
	inode int64
}

// inodeCache is a small LRU from catalog path to inode, used to resolve
// attribute lookups without a query per call.
type inodeCache struct {
	mu    sync.Mutex
	max   int
	ll    *list.List
	items map[string]*list.Element
}

func newInodeCache(max int) *inodeCache {
	return &inodeCache{
		max:   max,
		ll:    list.New(),
		items: make(map[string]*list.Element),
	}
}

func (c *inodeCache) Get(path string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[path]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(inodeCacheEntry).inode, true
	}
	return 0, false
}

func (c *inodeCache) Set(path string, inode int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[path]; ok {
		el.Value = inodeCacheEntry{path: path, inode: inode}
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(inodeCacheEntry{path: path, inode: inode})
	c.items[path] = el

	if c.ll.Len() > c.max {
		last := c.ll.Back()
		if last == nil {
			return
		}
		c.ll.Remove(last)
		delete(c.items, last.Value.(inodeCacheEntry).path)
	}
}

// Reset drops every cached mapping.
func (c *inodeCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	c.items = make(map[string]*list.Element)
}

func (c *inodeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
