package sheets

import (
	"context"
)

// Ports for outbound adapters.
type (
	// CellWriter writes a single value into an A1 range.
	CellWriter interface {
		// UpdateCell writes value with USER_ENTERED semantics and returns the
		// number of cells the backend reports as updated.
		UpdateCell(ctx context.Context, rng string, value float64) (updatedCells int64, err error)
	}

	// TabLister lists the tabs of the spreadsheet, title to sheet id.
	TabLister interface {
		Tabs(ctx context.Context) (map[string]int64, error)
	}

	// CellReader reads back the value stored in an A1 range.
	CellReader interface {
		ReadCell(ctx context.Context, rng string) (string, error)
	}
)
