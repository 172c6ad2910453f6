package page

import "encoding/binary"

// AttrType enumerates supported indexed attribute types. Only Integer is
// implemented by this core (spec.md §6.3); the others exist so IndexMeta's
// on-disk layout matches the source's enumeration.
type AttrType int32

const (
	AttrInteger AttrType = iota
	AttrDouble
	AttrString
)

const (
	metaRelationNameLen      = 20
	metaOffsetRelationName   = 0
	metaOffsetAttrByteOffset = metaOffsetRelationName + metaRelationNameLen
	metaOffsetAttrType       = metaOffsetAttrByteOffset + 4
	metaOffsetRootPageNo     = metaOffsetAttrType + 4
)

// IndexMeta is the persisted header occupying page MetaPageID: the
// relation name (truncated to 20 bytes), the byte offset of the indexed
// attribute within a record, its type, and the current root page.
type IndexMeta struct {
	RelationName   string
	AttrByteOffset int32
	AttrType       AttrType
	RootPageNo     ID
}

// ParseMeta decodes the meta page.
func ParseMeta(p *Page) *IndexMeta {
	raw := p.Data[metaOffsetRelationName : metaOffsetRelationName+metaRelationNameLen]
	end := 0
	for end < len(raw) && raw[end] != 0 {
		end++
	}
	return &IndexMeta{
		RelationName:   string(raw[:end]),
		AttrByteOffset: int32(binary.LittleEndian.Uint32(p.Data[metaOffsetAttrByteOffset:])),
		AttrType:       AttrType(binary.LittleEndian.Uint32(p.Data[metaOffsetAttrType:])),
		RootPageNo:     ID(binary.LittleEndian.Uint32(p.Data[metaOffsetRootPageNo:])),
	}
}

// WriteBackMeta overwrites the meta page from m.
func WriteBackMeta(p *Page, m *IndexMeta) {
	var nameBuf [metaRelationNameLen]byte
	name := m.RelationName
	if len(name) > metaRelationNameLen {
		name = name[:metaRelationNameLen]
	}
	copy(nameBuf[:], name)
	copy(p.Data[metaOffsetRelationName:metaOffsetRelationName+metaRelationNameLen], nameBuf[:])
	binary.LittleEndian.PutUint32(p.Data[metaOffsetAttrByteOffset:], uint32(m.AttrByteOffset))
	binary.LittleEndian.PutUint32(p.Data[metaOffsetAttrType:], uint32(m.AttrType))
	binary.LittleEndian.PutUint32(p.Data[metaOffsetRootPageNo:], uint32(m.RootPageNo))
}
