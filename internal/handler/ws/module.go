package ws

import (
	wsmarshaller "github.com/webitel/group-chat-service/internal/handler/marshaller/ws"
	"go.uber.org/fx"
)

// frameCacheSize bounds the rendered-frame cache; well above the number of
// distinct in-flight events at any moment.
const frameCacheSize = 1024

var Module = fx.Module("ws-handler",
	fx.Provide(
		func() (*wsmarshaller.Marshaller, error) { return wsmarshaller.New(frameCacheSize) },
		NewWSHandler,
	),
)
