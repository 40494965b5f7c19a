package service

import (
	"go.uber.org/fx"
)

var Module = fx.Module(
	"service",

	fx.Provide(
		fx.Annotate(
			NewBroadcastService,
			fx.As(new(Broadcaster)),
		),
	),
)
