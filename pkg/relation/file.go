package relation

import (
	"fmt"

	"btreeidx/pkg/storage/disk"
	"btreeidx/pkg/storage/page"
)

// File is a fixed-format relation: a sequence of heap pages, each packed
// with RecordSize-byte slots, addressed by page.RecordID. Slot numbers
// handed out in a RecordID start at 1 (see page.RecordID's doc comment);
// internally a page's slots are 0-based.
type File struct {
	disk       *disk.Manager
	pool       PoolAdapter
	recordSize int
	pageIDs    []page.ID
}

// PoolAdapter is the subset of *buffer.PoolManager relation depends on. It
// is defined here, rather than importing buffer directly, so pkg/relation
// and pkg/buffer don't need to know about each other's internals beyond
// this narrow contract.
type PoolAdapter interface {
	AllocPage() (*page.Page, error)
	ReadPage(id page.ID) (*page.Page, error)
	UnpinPage(id page.ID, dirty bool) error
}

// Create makes a brand new, empty relation file with the given fixed
// record size, backed by disk and buffered through pool.
func Create(d *disk.Manager, pool PoolAdapter, recordSize int) (*File, error) {
	if recordSize <= 0 || recordSize > page.Size-heapHeaderSize {
		return nil, fmt.Errorf("relation: invalid record size %d", recordSize)
	}
	f := &File{disk: d, pool: pool, recordSize: recordSize}
	if err := f.allocHeapPage(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) allocHeapPage() error {
	p, err := f.pool.AllocPage()
	if err != nil {
		return fmt.Errorf("relation: allocate heap page: %w", err)
	}
	initHeapPage(p, f.recordSize)
	f.pageIDs = append(f.pageIDs, p.ID())
	return f.pool.UnpinPage(p.ID(), true)
}

// InsertRecord appends data (must be exactly RecordSize bytes) to the last
// heap page with room, allocating a new page when the last one is full.
func (f *File) InsertRecord(data []byte) (page.RecordID, error) {
	if len(data) != f.recordSize {
		return page.Empty, ErrRecordSizeMismatch
	}

	lastPageID := f.pageIDs[len(f.pageIDs)-1]
	p, err := f.pool.ReadPage(lastPageID)
	if err != nil {
		return page.Empty, fmt.Errorf("relation: read heap page %d: %w", lastPageID, err)
	}

	n := heapNumRecords(p)
	if n >= heapCapacity(f.recordSize) {
		if err := f.pool.UnpinPage(lastPageID, false); err != nil {
			return page.Empty, err
		}
		if err := f.allocHeapPage(); err != nil {
			return page.Empty, err
		}
		return f.InsertRecord(data)
	}

	writeSlot(p, n, data, f.recordSize)
	setHeapNumRecords(p, n+1)
	if err := f.pool.UnpinPage(lastPageID, true); err != nil {
		return page.Empty, err
	}

	return page.RecordID{PageNumber: uint32(lastPageID), Slot: uint32(n + 1)}, nil
}

// GetRecord returns the raw bytes stored at rid.
func (f *File) GetRecord(rid page.RecordID) ([]byte, error) {
	id := page.ID(rid.PageNumber)
	p, err := f.pool.ReadPage(id)
	if err != nil {
		return nil, fmt.Errorf("relation: read heap page %d: %w", id, err)
	}
	defer f.pool.UnpinPage(id, false)

	slot := int(rid.Slot) - 1
	if slot < 0 || slot >= heapNumRecords(p) {
		return nil, fmt.Errorf("relation: invalid record id %+v", rid)
	}
	return readSlot(p, slot, f.recordSize), nil
}

// PageIDs returns the relation's heap pages in allocation order, for the
// use of FileScan.
func (f *File) PageIDs() []page.ID {
	return f.pageIDs
}

// RecordSize returns the relation's fixed record length.
func (f *File) RecordSize() int {
	return f.recordSize
}
