package buffer

import (
	"log"
	"os"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/dustin/go-humanize"

	"btreeidx/pkg/storage/page"
)

// warmCache is a best-effort second-level cache for clean pages evicted
// from the pin-counted pool, backed by ristretto's admission-aware cache.
// It never holds a page the tree might be mutating: only the pool's
// eviction path writes into it, offering clean, unpinned pages and
// removing the entry of a dirty one, so it can never shadow a lost write. A miss here simply
// falls through to disk — see DESIGN.md for why this sits beside, not
// instead of, the pin-counted pool.
type warmCache struct {
	cache *ristretto.Cache[uint32, [page.Size]byte]
	log   *log.Logger
}

func newWarmCache(maxPages int64) *warmCache {
	cache, err := ristretto.NewCache(&ristretto.Config[uint32, [page.Size]byte]{
		NumCounters: maxPages * 10,
		MaxCost:     maxPages * page.Size,
		BufferItems: 64,
	})
	if err != nil {
		// A warm cache is pure enrichment; its absence must never block
		// correctness. Degrade to disabled rather than fail startup.
		return &warmCache{log: log.New(os.Stderr, "[buffer] ", log.LstdFlags)}
	}
	return &warmCache{cache: cache, log: log.New(os.Stderr, "[buffer] ", log.LstdFlags)}
}

func (w *warmCache) offer(id page.ID, data [page.Size]byte) {
	if w.cache == nil {
		return
	}
	w.cache.Set(uint32(id), data, page.Size)
}

func (w *warmCache) get(id page.ID) ([page.Size]byte, bool) {
	if w.cache == nil {
		return [page.Size]byte{}, false
	}
	data, ok := w.cache.Get(uint32(id))
	if ok {
		w.log.Printf("warm cache hit for page %d (%s recovered)", id, humanize.Bytes(page.Size))
	}
	return data, ok
}

func (w *warmCache) remove(id page.ID) {
	if w.cache == nil {
		return
	}
	w.cache.Del(uint32(id))
}

func (w *warmCache) close() {
	if w.cache != nil {
		w.cache.Close()
	}
}
