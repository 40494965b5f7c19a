package bus

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/webitel/group-chat-service/internal/adapter/pubsub"
	"go.uber.org/fx"
)

var Module = fx.Module("bus-handler",
	fx.Provide(
		pubsub.NewEventDispatcher,
		NewEventListener,
		NewWatermillRouter,
	),

	fx.Invoke(func(lc fx.Lifecycle, l *EventListener, router *message.Router, dispatcher pubsub.EventDispatcher) error {
		if err := l.RegisterHandlers(router, dispatcher); err != nil {
			return err
		}

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					// Run blocks until Close; startup errors surface in logs.
					_ = router.Run(context.Background())
				}()
				select {
				case <-router.Running():
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
			OnStop: func(ctx context.Context) error {
				return router.Close()
			},
		})
		return nil
	}),
)
