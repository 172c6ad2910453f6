package index

import "btreeidx/pkg/storage/page"

// lowerBound returns the first index in arr[0:length) with arr[i] >= key
// (or arr[i] > key when inclusive is false), or -1 if none qualifies
// (spec.md §4.2 lower_bound). Keys are always sorted non-decreasing, so a
// linear scan matches the teaching-grade source's own findArrayIndex and
// keeps the comparison order explicit for the moveKeyUp edge case below.
func lowerBound(arr []int32, length int, key int32, inclusive bool) int {
	if inclusive {
		for i := 0; i < length; i++ {
			if arr[i] >= key {
				return i
			}
		}
	} else {
		for i := 0; i < length; i++ {
			if arr[i] > key {
				return i
			}
		}
	}
	return -1
}

// findChildIndex returns the descent index into node.Children for key: the
// routing child whose subtree may hold key, or the rightmost child if key
// exceeds every router (spec.md §4.2 find_child_index).
func findChildIndex(node *page.NonLeafNode, key int32) int {
	k := node.Length() - 1
	idx := lowerBound(node.Keys[:], k, key, true)
	if idx == -1 {
		return k
	}
	return idx
}

// findInsertionIndexLeaf returns where key belongs among leaf's occupied
// entries (spec.md §4.2 find_insertion_index_leaf).
func findInsertionIndexLeaf(leaf *page.LeafNode, key int32) int {
	length := leaf.Length()
	idx := lowerBound(leaf.Keys[:], length, key, true)
	if idx == -1 {
		return length
	}
	return idx
}

// findScanIndexLeaf positions a scan's first entry within leaf, or -1 if
// no occupied entry qualifies (spec.md §4.2 find_scan_index_leaf).
func findScanIndexLeaf(leaf *page.LeafNode, key int32, inclusive bool) int {
	return lowerBound(leaf.Keys[:], leaf.Length(), key, inclusive)
}

// insertIntoNonLeaf shifts keyArray[index:] and pageNoArray[index+1:]
// right by one slot and writes key at index and childPageID at index+1.
// Caller must ensure node is not full.
func insertIntoNonLeaf(node *page.NonLeafNode, index int, key int32, childPageID page.ID) {
	for i := page.NonLeafCapacity - 1; i > index; i-- {
		node.Keys[i] = node.Keys[i-1]
		node.Children[i+1] = node.Children[i]
	}
	node.Keys[index] = key
	node.Children[index+1] = childPageID
}

// insertIntoLeaf shifts keyArray[index:] and ridArray[index:] right by one
// slot and writes key/rid at index. Caller must ensure leaf is not full.
func insertIntoLeaf(node *page.LeafNode, index int, key int32, rid page.RecordID) {
	for i := page.LeafCapacity - 1; i > index; i-- {
		node.Keys[i] = node.Keys[i-1]
		node.Rids[i] = node.Rids[i-1]
	}
	node.Keys[index] = key
	node.Rids[index] = rid
}

// splitLeaf moves node's entries from middleIndex onward into a freshly
// allocated right-sibling image and zeroes the vacated region of node
// (spec.md §4.2 split_leaf). The caller links RightSib pointers and
// allocates a page for the returned node.
func splitLeaf(node *page.LeafNode, middleIndex int) *page.LeafNode {
	newNode := &page.LeafNode{}
	for i := middleIndex; i < page.LeafCapacity; i++ {
		newNode.Keys[i-middleIndex] = node.Keys[i]
		newNode.Rids[i-middleIndex] = node.Rids[i]
		node.Keys[i] = 0
		node.Rids[i] = page.Empty
	}
	return newNode
}

// splitNonLeaf moves node's entries at and beyond splitIndex into a
// freshly allocated right-sibling image (spec.md §4.2 split_non_leaf).
// When moveKeyUp, the keys from splitIndex onward, including the key at
// splitIndex, move into the new node (the caller promotes the inserted
// child's key instead). Otherwise the key at splitIndex is kept in neither
// sibling; the caller reads it as the promoted key before splitting.
func splitNonLeaf(node *page.NonLeafNode, splitIndex int, moveKeyUp bool) *page.NonLeafNode {
	newNode := &page.NonLeafNode{}
	rightSize := page.NonLeafCapacity - splitIndex

	if moveKeyUp {
		for i := splitIndex; i < page.NonLeafCapacity; i++ {
			newNode.Keys[i-splitIndex] = node.Keys[i]
			node.Keys[i] = 0
		}
	} else {
		for i := splitIndex + 1; i < page.NonLeafCapacity; i++ {
			newNode.Keys[i-splitIndex-1] = node.Keys[i]
		}
		for i := splitIndex; i < page.NonLeafCapacity; i++ {
			node.Keys[i] = 0
		}
	}

	for i := 0; i < rightSize; i++ {
		newNode.Children[i] = node.Children[splitIndex+1+i]
		node.Children[splitIndex+1+i] = page.InvalidID
	}

	return newNode
}
