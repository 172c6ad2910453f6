package relation

import "errors"

// ErrEndOfFile is returned by FileScan.ScanNext once every record in the
// relation has been visited (spec.md §6.2).
var ErrEndOfFile = errors.New("relation: end of file")

// ErrRecordSizeMismatch is returned when a caller inserts a record whose
// length does not match the relation's fixed record size.
var ErrRecordSizeMismatch = errors.New("relation: record size mismatch")
