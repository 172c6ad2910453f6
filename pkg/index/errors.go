package index

import "errors"

// Sentinel errors raised by scan control flow (spec.md §7).
var (
	// ErrBadOperator is returned by StartScan when lowOp isn't in {GT, GTE}
	// or highOp isn't in {LT, LTE}.
	ErrBadOperator = errors.New("index: bad scan operator")

	// ErrBadScanRange is returned by StartScan when lowVal > highVal.
	ErrBadScanRange = errors.New("index: low value exceeds high value")

	// ErrScanNotInitialized is returned by ScanNext/EndScan without an
	// active scan.
	ErrScanNotInitialized = errors.New("index: scan not initialized")

	// ErrScanCompleted is returned by ScanNext once the range is
	// exhausted.
	ErrScanCompleted = errors.New("index: scan completed")
)
