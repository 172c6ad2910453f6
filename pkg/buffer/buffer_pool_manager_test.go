package buffer

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btreeidx/pkg/storage/disk"
	"btreeidx/pkg/storage/page"
)

func TestPoolManagerAllocUnpinEvictReread(t *testing.T) {
	dbFile := "test_bpm.db"
	os.Remove(dbFile)
	defer os.Remove(dbFile)

	dm, err := disk.Open(dbFile)
	require.NoError(t, err)
	defer dm.Close()

	bpm := NewPoolManager(dm, 2)
	defer bpm.Close()

	// Page ids are captured into locals immediately: once a page is
	// unpinned it may be evicted and its frame reused by a later
	// AllocPage/ReadPage call, which mutates the same *page.Page the
	// caller was handed.
	p0, err := bpm.AllocPage()
	require.NoError(t, err)
	p0ID := p0.ID()
	assert.Equal(t, page.ID(1), p0ID)
	copy(p0.Data[:], []byte("Page 0 Data"))
	require.NoError(t, bpm.UnpinPage(p0ID, true))

	p1, err := bpm.AllocPage()
	require.NoError(t, err)
	p1ID := p1.ID()
	assert.Equal(t, page.ID(2), p1ID)
	copy(p1.Data[:], []byte("Page 1 Data"))
	require.NoError(t, bpm.UnpinPage(p1ID, true))

	// Pool is now full: [page0 (LRU), page1 (MRU)]. Allocating a third page
	// must evict page 0 and flush it first since it was marked dirty.
	p2, err := bpm.AllocPage()
	require.NoError(t, err)
	p2ID := p2.ID()
	assert.Equal(t, page.ID(3), p2ID)
	copy(p2.Data[:], []byte("Page 2 Data"))
	require.NoError(t, bpm.UnpinPage(p2ID, false))

	p0Read, err := bpm.ReadPage(p0ID)
	require.NoError(t, err)
	assert.Equal(t, "Page 0 Data", string(p0Read.Data[:11]), "evicted page must have been flushed before reuse")
	require.NoError(t, bpm.UnpinPage(p0ID, false))

	p1Read, err := bpm.ReadPage(p1ID)
	require.NoError(t, err)
	assert.Equal(t, "Page 1 Data", string(p1Read.Data[:11]))
	require.NoError(t, bpm.UnpinPage(p1ID, false))
}

func TestPoolManagerExhaustedWhenAllPinned(t *testing.T) {
	dbFile := "test_bpm_exhausted.db"
	os.Remove(dbFile)
	defer os.Remove(dbFile)

	dm, err := disk.Open(dbFile)
	require.NoError(t, err)
	defer dm.Close()

	bpm := NewPoolManager(dm, 1)
	defer bpm.Close()

	_, err = bpm.AllocPage()
	require.NoError(t, err)

	_, err = bpm.AllocPage()
	assert.Error(t, err, "allocating beyond capacity with every frame pinned must fail")
}

func TestPoolManagerFlushFile(t *testing.T) {
	dbFile := "test_bpm_flush.db"
	os.Remove(dbFile)
	defer os.Remove(dbFile)

	dm, err := disk.Open(dbFile)
	require.NoError(t, err)
	defer dm.Close()

	bpm := NewPoolManager(dm, 2)
	defer bpm.Close()

	p, err := bpm.AllocPage()
	require.NoError(t, err)
	pID := p.ID()
	copy(p.Data[:], []byte("flush me"))
	require.NoError(t, bpm.UnpinPage(pID, true))

	require.NoError(t, bpm.FlushFile())

	readBack := &page.Page{}
	require.NoError(t, dm.ReadPage(pID, readBack))
	assert.Equal(t, "flush me", string(readBack.Data[:8]))
}
