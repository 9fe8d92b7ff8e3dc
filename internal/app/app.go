package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kegliz/qplay/internal/config"
	"github.com/kegliz/qplay/internal/logger"
	"github.com/kegliz/qplay/internal/server/router"

	"github.com/kegliz/qplay/internal/server"
	"github.com/kegliz/qplay/qc/gate"
	"github.com/kegliz/qplay/qc/noise"
)

type (
	ServerOptions struct {
		C       *config.Config
		Version string
	}

	appServer struct {
		logger     *logger.Logger
		router     *router.Router
		noiseModel *noise.NoiseModel
		version    string
	}

	appServerOptions struct {
		logger     *logger.Logger
		router     *router.Router
		noiseModel *noise.NoiseModel
		version    string
	}
)

// newAppServer creates a new appServer.
func newAppServer(options appServerOptions) *appServer {
	a := &appServer{
		logger:     options.logger,
		router:     options.router,
		noiseModel: options.noiseModel,
		version:    options.version,
	}
	a.router.SetRoutes(a.routes())
	return a
}

// Listen implements server.Server.
func (a *appServer) Listen(port int, localOnly bool) error {
	a.logger.Debug().Str("version", a.version).Msg("debug qplay noise/layer service")
	a.logger.Info().
		Int("port", port).
		Bool("localOnly", localOnly).
		Msg("starting qplay noise/layer service")
	return a.router.Start(port, localOnly)
}

// Shutdown implements server.Server.
func (a *appServer) Shutdown(ctx context.Context) error {
	return a.router.Shutdown(ctx)
}

// buildNoiseModel constructs the NoiseModel the service noisifies circuits
// with, per the preset named in c.
func buildNoiseModel(c *config.Config) (*noise.NoiseModel, error) {
	oracle := gate.DefaultOracle()
	switch c.NoisePreset() {
	case config.PresetUniformDepolarizing:
		return noise.UniformDepolarizing(oracle, c.NoiseP(), c.NoiseSingleQubitOnly())
	case config.PresetSi1000, "":
		return noise.Si1000(oracle, c.NoiseP())
	default:
		return nil, fmt.Errorf("app: unknown noise preset %q", c.NoisePreset())
	}
}

func NewServer(options ServerOptions) (server.Server, error) {
	l, r := server.NewLoggerAndRouter(server.EngineOptions{
		Debug: options.C.GetBool("debug"),
	})

	model, err := buildNoiseModel(options.C)
	if err != nil {
		return nil, err
	}

	app := newAppServer(appServerOptions{
		logger:     l,
		router:     r,
		noiseModel: model,
		version:    options.Version,
	})

	return app, nil
}

func (a *appServer) getLoggerFromContext(c *gin.Context) (*logger.Logger, error) {
	if loggerInstance, ok := c.Get("logger"); ok {
		if loggerInstance, ok := loggerInstance.(*logger.Logger); ok {
			return loggerInstance, nil
		}
	}
	err := errors.New("logger not found in context")
	a.logger.Error().Err(err).Send()
	c.String(http.StatusInternalServerError, internalServerErrorMsg)
	return nil, err
}
