package export

import (
	"quotedesk/internal/usecase/interfaces"

	"go.uber.org/fx"
)

var Module = fx.Module("export",
	fx.Provide(
		fx.Annotate(NewExcelExporter, fx.As(new(interfaces.IEstimateExporter))),
	),
)
