package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeafRoundTrip(t *testing.T) {
	raw := &Page{}
	leaf := InitLeaf(raw)
	assert.True(t, IsLeaf(raw))
	assert.Equal(t, 0, leaf.Length())
	assert.False(t, leaf.IsFull())

	leaf.Keys[0] = 10
	leaf.Rids[0] = RecordID{PageNumber: 5, Slot: 1}
	leaf.Keys[1] = 20
	leaf.Rids[1] = RecordID{PageNumber: 5, Slot: 2}
	leaf.RightSib = 7
	WriteBackLeaf(raw, leaf)

	assert.True(t, IsLeaf(raw))
	decoded := ParseLeaf(raw)
	assert.Equal(t, 2, decoded.Length())
	assert.Equal(t, int32(10), decoded.Keys[0])
	assert.Equal(t, RecordID{PageNumber: 5, Slot: 1}, decoded.Rids[0])
	assert.Equal(t, ID(7), decoded.RightSib)
}

func TestLeafIsFull(t *testing.T) {
	raw := &Page{}
	leaf := InitLeaf(raw)
	for i := 0; i < LeafCapacity; i++ {
		leaf.Keys[i] = int32(i)
		leaf.Rids[i] = RecordID{PageNumber: 1, Slot: uint32(i + 1)}
	}
	WriteBackLeaf(raw, leaf)
	assert.True(t, ParseLeaf(raw).IsFull())
}

func TestNonLeafRoundTrip(t *testing.T) {
	raw := &Page{}
	node := InitNonLeaf(raw)
	assert.False(t, IsLeaf(raw))
	assert.Equal(t, 1, node.Length())
	assert.False(t, node.IsFull())

	node.Keys[0] = 50
	node.Children[0] = 2
	node.Children[1] = 3
	WriteBackNonLeaf(raw, node)

	decoded := ParseNonLeaf(raw)
	assert.Equal(t, 2, decoded.Length())
	assert.Equal(t, int32(50), decoded.Keys[0])
	assert.Equal(t, ID(2), decoded.Children[0])
	assert.Equal(t, ID(3), decoded.Children[1])
}

func TestMetaRoundTrip(t *testing.T) {
	raw := &Page{}
	meta := &IndexMeta{
		RelationName:   "customer",
		AttrByteOffset: 16,
		AttrType:       AttrInteger,
		RootPageNo:     2,
	}
	WriteBackMeta(raw, meta)

	decoded := ParseMeta(raw)
	assert.Equal(t, "customer", decoded.RelationName)
	assert.Equal(t, int32(16), decoded.AttrByteOffset)
	assert.Equal(t, AttrInteger, decoded.AttrType)
	assert.Equal(t, ID(2), decoded.RootPageNo)
}

func TestMetaRelationNameTruncated(t *testing.T) {
	raw := &Page{}
	meta := &IndexMeta{RelationName: "a-relation-name-much-longer-than-twenty-chars"}
	WriteBackMeta(raw, meta)
	decoded := ParseMeta(raw)
	assert.Len(t, decoded.RelationName, metaRelationNameLen)
}

func TestRecordIDEmpty(t *testing.T) {
	assert.True(t, Empty.IsEmpty())
	assert.False(t, RecordID{PageNumber: 1, Slot: 1}.IsEmpty())
}
