package relation

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btreeidx/pkg/buffer"
	"btreeidx/pkg/storage/disk"
	"btreeidx/pkg/storage/page"
)

const testRecordSize = 16

func encodeRecord(key int32, label string) []byte {
	buf := make([]byte, testRecordSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(key))
	copy(buf[4:], label)
	return buf
}

func decodeKey(rec []byte) int32 {
	return int32(binary.LittleEndian.Uint32(rec[0:4]))
}

func newTestRelation(t *testing.T, dbFile string, poolSize int) (*File, *disk.Manager, *buffer.PoolManager) {
	t.Helper()
	os.Remove(dbFile)
	t.Cleanup(func() { os.Remove(dbFile) })

	dm, err := disk.Open(dbFile)
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })

	pool := buffer.NewPoolManager(dm, poolSize)
	t.Cleanup(pool.Close)

	f, err := Create(dm, pool, testRecordSize)
	require.NoError(t, err)
	return f, dm, pool
}

func TestFileInsertAndGetRecord(t *testing.T) {
	f, _, _ := newTestRelation(t, "test_relation_basic.db", 4)

	rid, err := f.InsertRecord(encodeRecord(42, "alice"))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), rid.Slot, "slots are numbered from 1")

	rec, err := f.GetRecord(rid)
	require.NoError(t, err)
	assert.Equal(t, int32(42), decodeKey(rec))
}

func TestFileInsertRejectsWrongSize(t *testing.T) {
	f, _, _ := newTestRelation(t, "test_relation_size.db", 4)

	_, err := f.InsertRecord([]byte("too short"))
	assert.ErrorIs(t, err, ErrRecordSizeMismatch)
}

func TestFileSpillsToNewHeapPage(t *testing.T) {
	f, _, _ := newTestRelation(t, "test_relation_spill.db", 4)

	capacity := heapCapacity(testRecordSize)
	for i := 0; i < capacity+5; i++ {
		_, err := f.InsertRecord(encodeRecord(int32(i), "row"))
		require.NoError(t, err)
	}
	assert.Len(t, f.PageIDs(), 2, "inserting beyond one page's capacity should allocate a second heap page")
}

func TestFileScanVisitsEveryRecordOnce(t *testing.T) {
	f, _, _ := newTestRelation(t, "test_relation_scan.db", 4)

	const total = 20
	keys := make(map[int32]bool)
	for i := 0; i < total; i++ {
		_, err := f.InsertRecord(encodeRecord(int32(i), "row"))
		require.NoError(t, err)
		keys[int32(i)] = false
	}

	scan := NewFileScan(f)
	var rid page.RecordID
	count := 0
	for {
		err := scan.ScanNext(&rid)
		if err == ErrEndOfFile {
			break
		}
		require.NoError(t, err)
		rec := scan.GetRecord()
		keys[decodeKey(rec)] = true
		count++
	}
	scan.EndScan()

	assert.Equal(t, total, count)
	for k, seen := range keys {
		assert.True(t, seen, "key %d never visited by scan", k)
	}
}
