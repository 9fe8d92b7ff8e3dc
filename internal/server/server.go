package server

import (
	"context"

	"github.com/kegliz/qplay/internal/logger"
	"github.com/kegliz/qplay/internal/server/router"
)

type (
	// EngineOptions configures the logger/router pair shared by every
	// HTTP entrypoint (the noisify/optimize JSON API, the health check).
	EngineOptions struct {
		Debug           bool
		CORSAllowOrigin string
	}

	Server interface {
		Listen(port int, localOnly bool) error
		Shutdown(ctx context.Context) error
	}
)

// NewLoggerAndRouter wires a Logger and a Router together so every request
// the router serves gets a logger scoped to that request.
func NewLoggerAndRouter(options EngineOptions) (l *logger.Logger, r *router.Router) {
	l = logger.NewLogger(logger.LoggerOptions{
		Debug: options.Debug,
	})
	r = router.NewRouter(router.RouterOptions{
		Logger:          l,
		CORSAllowOrigin: options.CORSAllowOrigin,
	})
	return
}
