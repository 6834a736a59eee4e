package usecase

import "go.uber.org/fx"

var Module = fx.Module("usecase",
	fx.Provide(
		fx.Annotate(NewEstimateUseCase, fx.As(new(IEstimateUseCase))),
		fx.Annotate(NewCustomerUseCase, fx.As(new(ICustomerUseCase))),
		fx.Annotate(NewProductUseCase, fx.As(new(IProductUseCase))),
	),
)
