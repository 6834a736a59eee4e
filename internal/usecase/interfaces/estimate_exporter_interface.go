package interfaces

import (
	"context"
	"io"

	"quotedesk/internal/domain/entities"
)

// IEstimateExporter renders a finalized estimate as a document.
type IEstimateExporter interface {
	Export(ctx context.Context, bundle entities.ExportBundle, w io.Writer) error
	FileName(bundle entities.ExportBundle) string
}
