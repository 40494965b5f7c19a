package cmd

import (
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/webitel/group-chat-service/config"
	"github.com/webitel/group-chat-service/infra/metrics"
	httpsrv "github.com/webitel/group-chat-service/infra/server/http"
	"github.com/webitel/group-chat-service/internal/domain/registry"
	"github.com/webitel/group-chat-service/internal/handler/bus"
	"github.com/webitel/group-chat-service/internal/handler/rest"
	"github.com/webitel/group-chat-service/internal/handler/ws"
	"github.com/webitel/group-chat-service/internal/service"
	"go.uber.org/fx"
)

func NewApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			ProvideLogger,
			ProvideWatermillLogger,
		),
		metrics.Module,
		registry.Module,
		service.Module,
		bus.Module,
		rest.Module,
		ws.Module,
		httpsrv.Module,
	)
}

func ProvideLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	})).With("service", ServiceName)
	slog.SetDefault(logger)
	return logger
}

func ProvideWatermillLogger(logger *slog.Logger) watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logger)
}
