package app

import (
	"net/http"

	"github.com/kegliz/qplay/internal/server/router"
)

func (a *appServer) routes() []*router.Route {
	return []*router.Route{
		{
			Name:        "healthz",
			Method:      http.MethodGet,
			Pattern:     "/healthz",
			HandlerFunc: a.HealthHandler,
		},
		{
			Name:        "noisify",
			Method:      http.MethodPost,
			Pattern:     "/noisify",
			HandlerFunc: a.NoisifyHandler,
		},
		{
			Name:        "optimize",
			Method:      http.MethodPost,
			Pattern:     "/optimize",
			HandlerFunc: a.OptimizeHandler,
		},
	}
}
