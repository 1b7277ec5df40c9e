// Package sheets exports saved reports to a Google Sheets spreadsheet
// the owner reads. Export runs in the worker, never on the save path.
package sheets

import (
	"context"

	"setoran/internal/core"
)

// ReportAppender appends one report row to the export sheet.
type ReportAppender interface {
	AppendReport(ctx context.Context, r core.Report) error
}
