package index

import (
	"fmt"

	"btreeidx/pkg/storage/page"
)

// split carries a promoted key and the page id of its new right sibling,
// bubbling up from a child insertion that caused a split (spec.md §4.3's
// optional (midVal, newRightPageId) pair). A nil split means no split
// occurred.
type split struct {
	midVal   int32
	rightPid page.ID
}

// InsertEntry inserts (key, rid) into the tree, growing the root when the
// recursive descent reports a split (spec.md §4.3 insert_entry).
func (t *Tree) InsertEntry(key int32, rid page.RecordID) error {
	s, err := t.insertHelper(t.meta.RootPageNo, key, rid)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}

	newRootPage, err := t.bpm.AllocPage()
	if err != nil {
		return fmt.Errorf("index: allocate new root: %w", err)
	}
	newRoot := page.InitNonLeaf(newRootPage)
	newRoot.Keys[0] = s.midVal
	newRoot.Children[0] = t.meta.RootPageNo
	newRoot.Children[1] = s.rightPid
	page.WriteBackNonLeaf(newRootPage, newRoot)

	t.meta.RootPageNo = newRootPage.ID()
	if err := t.bpm.UnpinPage(newRootPage.ID(), true); err != nil {
		return err
	}
	return t.writeMeta()
}

// insertHelper descends to the leaf owning key, inserting along the way
// and propagating at most one split back to the caller (spec.md §4.3
// insert_helper).
func (t *Tree) insertHelper(pid page.ID, key int32, rid page.RecordID) (*split, error) {
	p, err := t.bpm.ReadPage(pid)
	if err != nil {
		return nil, fmt.Errorf("index: read page %d: %w", pid, err)
	}

	if page.IsLeaf(p) {
		return t.insertToLeafPage(p, key, rid)
	}

	node := page.ParseNonLeaf(p)
	childIdx := findChildIndex(node, key)
	childPid := node.Children[childIdx]

	childSplit, err := t.insertHelper(childPid, key, rid)
	if err != nil {
		return nil, err
	}
	if childSplit == nil {
		return nil, t.bpm.UnpinPage(pid, false)
	}

	insIdx := findChildIndex(node, childSplit.midVal)
	if !node.IsFull() {
		insertIntoNonLeaf(node, insIdx, childSplit.midVal, childSplit.rightPid)
		page.WriteBackNonLeaf(p, node)
		return nil, t.bpm.UnpinPage(pid, true)
	}

	middleIndex := (page.NonLeafCapacity - 1) / 2
	insertToLeft := insIdx < middleIndex
	splitIndex := middleIndex
	if insertToLeft {
		splitIndex++
	}
	insertIndex := insIdx
	if !insertToLeft {
		insertIndex = insIdx - middleIndex
	}
	moveKeyUp := !insertToLeft && insertIndex == 0

	promoted := node.Keys[splitIndex]
	if moveKeyUp {
		promoted = childSplit.midVal
	}

	newNode := splitNonLeaf(node, splitIndex, moveKeyUp)
	if !moveKeyUp {
		target := node
		if !insertToLeft {
			target = newNode
		}
		insertIntoNonLeaf(target, insertIndex, childSplit.midVal, childSplit.rightPid)
	}

	page.WriteBackNonLeaf(p, node)
	if err := t.bpm.UnpinPage(pid, true); err != nil {
		return nil, err
	}

	newPage, err := t.bpm.AllocPage()
	if err != nil {
		return nil, fmt.Errorf("index: allocate non-leaf split sibling: %w", err)
	}
	page.WriteBackNonLeaf(newPage, newNode)
	if err := t.bpm.UnpinPage(newPage.ID(), true); err != nil {
		return nil, err
	}

	return &split{midVal: promoted, rightPid: newPage.ID()}, nil
}

// insertToLeafPage is insertHelper's leaf base case (spec.md §4.3
// insert_to_leaf_page).
func (t *Tree) insertToLeafPage(p *page.Page, key int32, rid page.RecordID) (*split, error) {
	leaf := page.ParseLeaf(p)
	index := findInsertionIndexLeaf(leaf, key)

	if !leaf.IsFull() {
		insertIntoLeaf(leaf, index, key, rid)
		page.WriteBackLeaf(p, leaf)
		return nil, t.bpm.UnpinPage(p.ID(), true)
	}

	middleIndex := page.LeafCapacity / 2
	insertToLeft := index < middleIndex
	splitIndex := middleIndex
	if insertToLeft {
		splitIndex++
	}

	newLeaf := splitLeaf(leaf, splitIndex)
	if insertToLeft {
		insertIntoLeaf(leaf, index, key, rid)
	} else {
		insertIntoLeaf(newLeaf, index-middleIndex, key, rid)
	}

	newLeaf.RightSib = leaf.RightSib

	origPid := p.ID()
	newPage, err := t.bpm.AllocPage()
	if err != nil {
		return nil, fmt.Errorf("index: allocate leaf split sibling: %w", err)
	}
	leaf.RightSib = newPage.ID()

	page.WriteBackLeaf(p, leaf)
	page.WriteBackLeaf(newPage, newLeaf)

	midVal := newLeaf.Keys[0]

	if err := t.bpm.UnpinPage(origPid, true); err != nil {
		return nil, err
	}
	if err := t.bpm.UnpinPage(newPage.ID(), true); err != nil {
		return nil, err
	}

	return &split{midVal: midVal, rightPid: newPage.ID()}, nil
}
