package index

import (
	"fmt"

	"btreeidx/pkg/storage/page"
)

// StartScan begins a bounded range scan over [lowVal, highVal] with the
// given boundary operators, positioning at the first qualifying leaf
// entry (spec.md §4.4 start_scan).
func (t *Tree) StartScan(lowVal int32, lowOp Operator, highVal int32, highOp Operator) error {
	if lowOp != GT && lowOp != GTE {
		return ErrBadOperator
	}
	if highOp != LT && highOp != LTE {
		return ErrBadOperator
	}
	if lowVal > highVal {
		return ErrBadScanRange
	}

	s := &scanState{
		lowVal:  lowVal,
		highVal: highVal,
		lowOp:   lowOp,
		highOp:  highOp,
	}
	t.scan = s

	pid, err := t.descendToLeaf(t.meta.RootPageNo, lowVal)
	if err != nil {
		t.scan = nil
		return err
	}

	p, err := t.bpm.ReadPage(pid)
	if err != nil {
		t.scan = nil
		return err
	}
	s.currentPageNum = pid
	s.currentPage = p

	leaf := page.ParseLeaf(p)
	entryIndex := findScanIndexLeaf(leaf, lowVal, lowOp == GTE)
	if entryIndex == -1 {
		return t.moveToNextPage(leaf)
	}
	s.nextEntry = entryIndex
	return nil
}

// descendToLeaf walks non-leaf pages toward the leaf that would contain
// key, unpinning each as it passes through (spec.md §4.4 initPageId). The
// returned leaf page id is left unpinned; the caller re-pins it as the
// scan's held page.
func (t *Tree) descendToLeaf(pid page.ID, key int32) (page.ID, error) {
	for {
		p, err := t.bpm.ReadPage(pid)
		if err != nil {
			return page.InvalidID, fmt.Errorf("index: read page %d: %w", pid, err)
		}
		if page.IsLeaf(p) {
			if err := t.bpm.UnpinPage(pid, false); err != nil {
				return page.InvalidID, err
			}
			return pid, nil
		}
		node := page.ParseNonLeaf(p)
		childIdx := findChildIndex(node, key)
		childPid := node.Children[childIdx]
		if err := t.bpm.UnpinPage(pid, false); err != nil {
			return page.InvalidID, err
		}
		pid = childPid
	}
}

// moveToNextPage releases the scan's currently held page and pins leaf's
// right sibling as the new current page, resetting nextEntry to 0
// (spec.md §4.4 moveToNextPage). leaf must be the decoded image of
// t.scan.currentPage.
func (t *Tree) moveToNextPage(leaf *page.LeafNode) error {
	s := t.scan
	if err := t.bpm.UnpinPage(s.currentPageNum, false); err != nil {
		return err
	}
	if leaf.RightSib == page.InvalidID {
		s.currentPageNum = page.InvalidID
		s.currentPage = nil
		return nil
	}

	nextPage, err := t.bpm.ReadPage(leaf.RightSib)
	if err != nil {
		return err
	}
	s.currentPageNum = nextPage.ID()
	s.currentPage = nextPage
	s.nextEntry = 0
	return nil
}

// ScanNext fetches the record id of the next qualifying entry (spec.md
// §4.4 scan_next). ScanCompleted is raised exactly once the range is
// exhausted; the scan remains Active until EndScan releases its pin.
// Unlike StartScan/descendToLeaf, this never re-pins currentPageNum: the
// page is already held by this scan, exactly as the source reuses its
// already-pinned currentPageData across calls instead of re-fetching it.
func (t *Tree) ScanNext(out *page.RecordID) error {
	if t.scan == nil {
		return ErrScanNotInitialized
	}
	s := t.scan
	if s.currentPageNum == page.InvalidID {
		return ErrScanCompleted
	}

	leaf := page.ParseLeaf(s.currentPage)
	rid := leaf.Rids[s.nextEntry]
	key := leaf.Keys[s.nextEntry]

	// Mirrors the source: outRid is written from the slot before the
	// emptiness check, so a caller must not read *out after an error.
	*out = rid

	if rid.IsEmpty() {
		return ErrScanCompleted
	}
	if key > s.highVal || (key == s.highVal && s.highOp == LT) {
		return ErrScanCompleted
	}

	s.nextEntry++
	if s.nextEntry >= page.LeafCapacity || leaf.Rids[s.nextEntry].IsEmpty() {
		return t.moveToNextPage(leaf)
	}
	return nil
}

// EndScan terminates the current scan, unpinning its current leaf if one
// is still held (spec.md §4.4 end_scan).
func (t *Tree) EndScan() error {
	if t.scan == nil {
		return ErrScanNotInitialized
	}
	s := t.scan
	t.scan = nil
	if s.currentPageNum == page.InvalidID {
		return nil
	}
	return t.bpm.UnpinPage(s.currentPageNum, false)
}
