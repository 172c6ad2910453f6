package relation

import "btreeidx/pkg/storage/page"

// FileScan walks every record of a relation once, in heap order: page by
// page, slot by slot. This is what the index's bulk-build operation
// (pkg/index) drives to populate a fresh tree (spec.md §6.2, §6.3).
type FileScan struct {
	file        *File
	pageIdx     int
	slot        int
	initialized bool
	current     []byte
}

// NewFileScan opens a sequential scan over f.
func NewFileScan(f *File) *FileScan {
	return &FileScan{file: f}
}

// ScanNext advances to the next record and writes its id into out,
// returning ErrEndOfFile once every page has been exhausted.
func (s *FileScan) ScanNext(out *page.RecordID) error {
	s.initialized = true
	for s.pageIdx < len(s.file.pageIDs) {
		pageID := s.file.pageIDs[s.pageIdx]
		p, err := s.file.pool.ReadPage(pageID)
		if err != nil {
			return err
		}
		n := heapNumRecords(p)
		if s.slot >= n {
			if err := s.file.pool.UnpinPage(pageID, false); err != nil {
				return err
			}
			s.pageIdx++
			s.slot = 0
			continue
		}

		s.current = readSlot(p, s.slot, s.file.recordSize)
		if err := s.file.pool.UnpinPage(pageID, false); err != nil {
			return err
		}
		*out = page.RecordID{PageNumber: uint32(pageID), Slot: uint32(s.slot + 1)}
		s.slot++
		return nil
	}
	return ErrEndOfFile
}

// GetRecord returns the raw bytes of the record most recently returned by
// ScanNext.
func (s *FileScan) GetRecord() []byte {
	return s.current
}

// EndScan releases the scan. A FileScan holds no pins between ScanNext
// calls, so this is a no-op kept for symmetry with pkg/index's scan API.
func (s *FileScan) EndScan() {}
