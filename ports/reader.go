package ports

import (
	"likescan/domain/scan"
)

// ScanReader loads raw scan samples produced by an external batch scan
// runner. Implementations decide the on-disk convention; the core only ever
// sees the parallel arrays.
type ScanReader interface {
	Read1D() (scan.Scan1D, error)
	Read2D() (scan.Scan2D, error)
}
