// Package relation implements a fixed-format heap file: a sequence of
// pages each packed with fixed-length record slots, plus a sequential
// FileScan the index bulk-builds from (spec.md §4.7, §6.2). Grounded on
// ShubhamNegi4-DaemonDB's heapfile_manager, simplified down to fixed-length
// records only: no slot directory, no free-space search, no compaction.
package relation

import (
	"encoding/binary"

	"btreeidx/pkg/storage/page"
)

// heap page layout:
//
//	[0:4)   int32  numRecords  (number of occupied slots, packed from slot 0)
//	[4:8)   int32  recordSize  (bytes per record, fixed for the whole file)
//	[8:...) slots, each recordSize bytes, back to back
//
// Records are never deleted in place, so "occupied" is always the
// contiguous range [0, numRecords).
const heapHeaderSize = 8

func heapCapacity(recordSize int) int {
	return (page.Size - heapHeaderSize) / recordSize
}

func heapNumRecords(p *page.Page) int {
	return int(int32(binary.LittleEndian.Uint32(p.Data[0:4])))
}

func setHeapNumRecords(p *page.Page, n int) {
	binary.LittleEndian.PutUint32(p.Data[0:4], uint32(n))
}

func setHeapRecordSize(p *page.Page, size int) {
	binary.LittleEndian.PutUint32(p.Data[4:8], uint32(size))
}

func slotOffset(slot int, recordSize int) int {
	return heapHeaderSize + slot*recordSize
}

// initHeapPage stamps a freshly allocated page as an empty heap page.
func initHeapPage(p *page.Page, recordSize int) {
	setHeapNumRecords(p, 0)
	setHeapRecordSize(p, recordSize)
}

// readSlot returns the recordSize bytes at the given slot. Caller must
// already know slot < heapNumRecords(p).
func readSlot(p *page.Page, slot int, recordSize int) []byte {
	off := slotOffset(slot, recordSize)
	buf := make([]byte, recordSize)
	copy(buf, p.Data[off:off+recordSize])
	return buf
}

// writeSlot stores data (must be exactly recordSize bytes) at slot.
func writeSlot(p *page.Page, slot int, data []byte, recordSize int) {
	off := slotOffset(slot, recordSize)
	copy(p.Data[off:off+recordSize], data)
}
