package index

import "encoding/binary"

// Operator enumerates the scan-range comparisons spec.md §6.3 names:
// LT/LTE bound a scan's high end, GT/GTE its low end.
type Operator int

const (
	LT Operator = iota
	LTE
	GT
	GTE
)

// extractKey reads a 32-bit signed integer at attrByteOffset out of a raw
// record, matching the byte order pkg/relation writes records in
// (spec.md §4.5, §6.3 key extraction).
func extractKey(record []byte, attrByteOffset int32) int32 {
	off := attrByteOffset
	return int32(binary.LittleEndian.Uint32(record[off : off+4]))
}
