// Package buffer implements the pin-counted buffer manager consumed by
// the B+Tree core (spec.md §6.1): AllocPage/ReadPage/UnpinPage/FlushFile,
// each matched by frame bookkeeping and an LRU victim policy, plus a
// ristretto-backed warm cache for clean evicted pages (see warm_cache.go).
package buffer

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"btreeidx/pkg/storage/page"
)

// DiskManager is the subset of *disk.Manager the pool depends on.
type DiskManager interface {
	AllocatePage() page.ID
	ReadPage(id page.ID, p *page.Page) error
	WritePage(id page.ID, p *page.Page) error
	Sync() error
}

// PoolManager is the pin-counted page cache sitting in front of a disk
// manager. Every successful AllocPage/ReadPage is matched by exactly one
// UnpinPage on every caller control path (spec.md invariant 5); the pool
// itself only enforces that a pin count cannot go negative and that a
// pinned frame is never chosen as an eviction victim.
type PoolManager struct {
	mu        sync.Mutex
	disk      DiskManager
	frames    []*page.Page
	replacer  *lruReplacer
	freeList  []int
	frameOf   map[page.ID]int
	warm      *warmCache
	log       *log.Logger
}

// NewPoolManager builds a pool of poolSize frames over disk, with a warm
// cache sized to hold roughly poolSize additional clean pages.
func NewPoolManager(disk DiskManager, poolSize int) *PoolManager {
	b := &PoolManager{
		disk:     disk,
		frames:   make([]*page.Page, poolSize),
		replacer: newLRUReplacer(poolSize),
		freeList: make([]int, poolSize),
		frameOf:  make(map[page.ID]int, poolSize),
		warm:     newWarmCache(int64(poolSize)),
		log:      log.New(os.Stderr, "[buffer] ", log.LstdFlags),
	}
	for i := 0; i < poolSize; i++ {
		b.frames[i] = &page.Page{}
		b.freeList[i] = i
	}
	return b
}

// AllocPage allocates a fresh page on disk, pins it, and returns its
// buffer (spec.md §6.1 alloc_page).
func (b *PoolManager) AllocPage() (*page.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, err := b.victimFrame()
	if err != nil {
		return nil, err
	}

	id := b.disk.AllocatePage()
	p := b.frames[frameID]
	p.Reset()
	p.SetID(id)
	p.SetPinCount(1)

	b.frameOf[id] = frameID
	b.replacer.pin(frameID)
	return p, nil
}

// ReadPage pins and returns the existing page id, consulting the warm
// cache before falling through to disk on a pool miss (spec.md §6.1
// read_page).
func (b *PoolManager) ReadPage(id page.ID) (*page.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if frameID, ok := b.frameOf[id]; ok {
		p := b.frames[frameID]
		p.SetPinCount(p.PinCount() + 1)
		b.replacer.pin(frameID)
		return p, nil
	}

	frameID, err := b.victimFrame()
	if err != nil {
		return nil, err
	}

	p := b.frames[frameID]
	p.Reset()

	if data, ok := b.warm.get(id); ok {
		p.Data = data
		p.SetID(id)
	} else if err := b.disk.ReadPage(id, p); err != nil {
		return nil, fmt.Errorf("buffer: read page %d: %w", id, err)
	}

	p.SetPinCount(1)
	b.frameOf[id] = frameID
	b.replacer.pin(frameID)
	return p, nil
}

// UnpinPage releases one pin on id; dirty must be true iff the page image
// was modified since it was pinned (spec.md §6.1 unpin_page, §5).
func (b *PoolManager) UnpinPage(id page.ID, dirty bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.frameOf[id]
	if !ok {
		return fmt.Errorf("buffer: unpin page %d: not resident", id)
	}
	p := b.frames[frameID]
	if p.PinCount() <= 0 {
		return fmt.Errorf("buffer: unpin page %d: pin count already zero", id)
	}
	p.SetPinCount(p.PinCount() - 1)
	if dirty {
		p.SetDirty(true)
	}
	if p.PinCount() == 0 {
		b.replacer.unpin(frameID)
	}
	return nil
}

// FlushFile writes back every dirty resident page and syncs the
// underlying file to stable storage (spec.md §6.1 flush_file).
func (b *PoolManager) FlushFile() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	dirtied := false
	for id, frameID := range b.frameOf {
		p := b.frames[frameID]
		if p.IsDirty() {
			if err := b.disk.WritePage(id, p); err != nil {
				return fmt.Errorf("buffer: flush page %d: %w", id, err)
			}
			p.SetDirty(false)
			dirtied = true
		}
	}
	if !dirtied {
		return nil
	}
	return b.disk.Sync()
}

// victimFrame returns a frame ready for reuse: a free frame if one
// exists, else the LRU victim, flushing it first if dirty. Caller must
// hold b.mu.
func (b *PoolManager) victimFrame() (int, error) {
	if len(b.freeList) > 0 {
		frameID := b.freeList[0]
		b.freeList = b.freeList[1:]
		return frameID, nil
	}

	frameID := b.replacer.victim()
	if frameID == -1 {
		return -1, errors.New("buffer: pool exhausted, every frame is pinned")
	}

	victim := b.frames[frameID]
	if victim.IsDirty() {
		if err := b.disk.WritePage(victim.ID(), victim); err != nil {
			return -1, fmt.Errorf("buffer: evict page %d: %w", victim.ID(), err)
		}
		// A stale clean copy may already sit in the warm cache from an
		// earlier eviction of this same page; it must not shadow the
		// fresher bytes just flushed to disk.
		b.warm.remove(victim.ID())
	} else if victim.ID() != page.InvalidID || len(b.frameOf) > 0 {
		b.warm.offer(victim.ID(), victim.Data)
	}
	delete(b.frameOf, victim.ID())
	return frameID, nil
}

// Close releases the warm cache's background resources.
func (b *PoolManager) Close() {
	b.warm.close()
}
