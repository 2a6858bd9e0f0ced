package ccl

import (
	"container/list"
	"sync"
)

// cellCache keeps decoded cells in memory with LRU eviction.
//
// Memory accounting is approximate, based on vertex counts; a decoded
// vertex costs two float64 values plus slice overhead.
type cellCache struct {
	maxMemory  int64
	usedMemory int64
	cells      map[int]*cacheEntry
	lru        *list.List
	mu         sync.Mutex
}

// cacheEntry tracks one cached cell.
type cacheEntry struct {
	index      int
	cell       *Cell
	memorySize int64
	element    *list.Element
}

// newCellCache creates a cache with the given memory limit in bytes.
// A limit of 0 means unlimited.
func newCellCache(maxMemoryBytes int64) *cellCache {
	return &cellCache{
		maxMemory: maxMemoryBytes,
		cells:     make(map[int]*cacheEntry),
		lru:       list.New(),
	}
}

// get returns the cached cell for a directory index, calling loader on
// a miss and caching the result.
func (c *cellCache) get(index int, loader func() (*Cell, error)) (*Cell, error) {
	c.mu.Lock()
	if entry, ok := c.cells[index]; ok {
		c.lru.MoveToFront(entry.element)
		cell := entry.cell
		c.mu.Unlock()
		return cell, nil
	}
	c.mu.Unlock()

	cell, err := loader()
	if err != nil {
		return nil, err
	}

	c.add(index, cell)
	return cell, nil
}

// add inserts a decoded cell, evicting least-recently-used cells as
// needed. Cells larger than the whole limit stay uncached.
func (c *cellCache) add(index int, cell *Cell) {
	memSize := estimateCellMemory(cell)
	if c.maxMemory > 0 && memSize > c.maxMemory {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.cells[index]; ok {
		c.lru.MoveToFront(entry.element)
		return
	}

	if c.maxMemory > 0 {
		for c.usedMemory+memSize > c.maxMemory && c.lru.Len() > 0 {
			c.evictLRU()
		}
	}

	entry := &cacheEntry{index: index, cell: cell, memorySize: memSize}
	entry.element = c.lru.PushFront(entry)
	c.cells[index] = entry
	c.usedMemory += memSize
}

// evictLRU removes the least recently used cell. Must be called with
// c.mu locked.
func (c *cellCache) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.cells, entry.index)
	c.usedMemory -= entry.memorySize
}

// estimateCellMemory estimates memory usage for a decoded cell.
func estimateCellMemory(cell *Cell) int64 {
	size := int64(256)
	size += int64(len(cell.Segments)) * 128
	size += int64(cell.VertexCount()) * 16
	return size
}
