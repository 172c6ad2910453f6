// Package index implements the disk-backed B+Tree core: recursive
// insertion with mid-value promotion, root growth on split, and a bounded
// range scan across the leaf sibling chain (spec.md §1-§4). Grounded on
// nihil-sum-minidb's pkg/storage/index (BPlusTree.Insert/InsertIntoParent,
// TreeIterator.Next) and on original_source/PP3/src/btree.cpp's split/scan
// arithmetic, which this package follows formula-for-formula.
package index

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"btreeidx/pkg/relation"
	"btreeidx/pkg/storage/page"
)

// PoolManager is the subset of *buffer.PoolManager the tree depends on.
type PoolManager interface {
	AllocPage() (*page.Page, error)
	ReadPage(id page.ID) (*page.Page, error)
	UnpinPage(id page.ID, dirty bool) error
	FlushFile() error
}

// scanState holds the transient cursor of an in-progress range scan
// (spec.md §3's BTreeIndex scan fields). A nil scanState means Idle.
// currentPage is the single page pin held for the lifetime of the scan
// (spec.md §4.4's "exactly one leaf page is pinned between start_scan and
// end_scan") — ScanNext reuses it rather than re-pinning currentPageNum on
// every call, since a page already held by this scan must not be fetched
// a second time through the pool.
type scanState struct {
	lowVal, highVal int32
	lowOp, highOp   Operator
	currentPageNum  page.ID
	currentPage     *page.Page
	nextEntry       int
}

// Tree is the process-resident B+Tree index: a reference to the shared
// buffer pool, the persisted meta record, and at most one active scan.
type Tree struct {
	bpm  PoolManager
	meta *page.IndexMeta
	scan *scanState
	log  *log.Logger
}

// IndexName is spec.md §4.5/§6.3's constructed index identifier:
// relationName + "," + attrByteOffset.
func IndexName(relationName string, attrByteOffset int32) string {
	return fmt.Sprintf("%s,%d", relationName, attrByteOffset)
}

// OpenOrCreate always constructs a fresh index (spec.md §9's documented
// always-create decision, mirroring the source rather than true
// open-or-create semantics): allocates the meta page and an empty root
// leaf, then bulk-builds from scan by extracting a 32-bit key at
// attrByteOffset from every record.
func OpenOrCreate(relationName string, attrByteOffset int32, attrType page.AttrType, bpm PoolManager, scan *relation.FileScan) (*Tree, string, error) {
	metaPage, err := bpm.AllocPage()
	if err != nil {
		return nil, "", fmt.Errorf("index: allocate meta page: %w", err)
	}
	rootPage, err := bpm.AllocPage()
	if err != nil {
		return nil, "", fmt.Errorf("index: allocate root page: %w", err)
	}
	page.InitLeaf(rootPage)
	if err := bpm.UnpinPage(rootPage.ID(), true); err != nil {
		return nil, "", err
	}

	meta := &page.IndexMeta{
		RelationName:   relationName,
		AttrByteOffset: attrByteOffset,
		AttrType:       attrType,
		RootPageNo:     rootPage.ID(),
	}
	page.WriteBackMeta(metaPage, meta)
	if err := bpm.UnpinPage(metaPage.ID(), true); err != nil {
		return nil, "", err
	}

	t := &Tree{
		bpm:  bpm,
		meta: meta,
		log:  log.New(os.Stderr, "[index] ", log.LstdFlags),
	}

	indexName := IndexName(relationName, attrByteOffset)
	if err := t.bulkBuild(scan, attrByteOffset); err != nil {
		return nil, "", err
	}
	return t, indexName, nil
}

// bulkBuild drains scan, extracting a key at attrByteOffset from every
// record and inserting it, stopping (not propagating) on end-of-file
// (spec.md §4.5, §7).
func (t *Tree) bulkBuild(scan *relation.FileScan, attrByteOffset int32) error {
	var rid page.RecordID
	count := 0
	for {
		err := scan.ScanNext(&rid)
		if errors.Is(err, relation.ErrEndOfFile) {
			t.log.Printf("bulk build: read all records, inserted %s entries", humanize.Comma(int64(count)))
			return nil
		}
		if err != nil {
			return fmt.Errorf("index: bulk build scan: %w", err)
		}

		rec := scan.GetRecord()
		key := extractKey(rec, attrByteOffset)
		if err := t.InsertEntry(key, rid); err != nil {
			return fmt.Errorf("index: bulk build insert: %w", err)
		}
		count++
	}
}

// writeMeta persists the current in-memory meta record (called after a
// root split updates RootPageNo).
func (t *Tree) writeMeta() error {
	metaPage, err := t.bpm.ReadPage(page.MetaPageID)
	if err != nil {
		return fmt.Errorf("index: read meta page: %w", err)
	}
	page.WriteBackMeta(metaPage, t.meta)
	return t.bpm.UnpinPage(page.MetaPageID, true)
}

// RootPageNo returns the tree's current root page, for tests and callers
// inspecting tree shape.
func (t *Tree) RootPageNo() page.ID {
	return t.meta.RootPageNo
}

// Close flushes the index file and clears scan state (spec.md §4.5
// teardown). It does not remove the underlying file.
func (t *Tree) Close() error {
	t.scan = nil
	return t.bpm.FlushFile()
}
