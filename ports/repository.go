package ports

import (
	"context"

	"likescan/domain/core"
	"likescan/domain/scan"
)

// ResultRepository persists evaluated scan results for downstream
// collaborators. The core treats results as opaque immutable records; the
// repository chooses its own storage conventions.
type ResultRepository interface {
	Save1D(ctx context.Context, result scan.Result1D) error
	Save2D(ctx context.Context, result scan.Result2D) error
	Get1D(ctx context.Context, id core.ScanID) (*scan.Result1D, error)
	Get2D(ctx context.Context, id core.ScanID) (*scan.Result2D, error)
	List1D(ctx context.Context, limit int) ([]scan.Result1D, error)
}
