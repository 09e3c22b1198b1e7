package api

import (
	"github.com/beka-birhanu/picobot-api/api/i"
	"github.com/gin-gonic/gin"
)

// Router serves the coverage API. Read-only routes are open; routes that
// start simulations sit behind the API key middleware.
type Router struct {
	addr                    string
	baseURL                 string
	controllers             []i.Controller
	authorizationMiddleware gin.HandlerFunc
}

// Config holds configuration settings for creating a new Router instance.
type Config struct {
	Addr                    string // host:port
	BaseURL                 string // Prefix for every route, e.g. "/api"
	Controllers             []i.Controller
	AuthorizationMiddleware gin.HandlerFunc // Guards protected routes; nil leaves them open.
}

// NewRouter creates a Router from config.
func NewRouter(config Config) *Router {
	return &Router{
		addr:                    config.Addr,
		baseURL:                 config.BaseURL,
		controllers:             config.Controllers,
		authorizationMiddleware: config.AuthorizationMiddleware,
	}
}

// Engine builds the gin engine with every controller registered under
// <base URL>/v1. Reports, lint and the map list are registered as public;
// evaluation and watch streams as protected.
func (r *Router) Engine() *gin.Engine {
	engine := gin.Default()

	public := engine.Group(r.baseURL + "/v1")
	protected := engine.Group(r.baseURL + "/v1")
	if r.authorizationMiddleware != nil {
		protected.Use(r.authorizationMiddleware)
	}

	for _, c := range r.controllers {
		c.RegisterPublic(public)
		c.RegisterProtected(protected)
	}
	return engine
}

// Run serves the API on the configured address until the listener fails.
func (r *Router) Run() error {
	gin.ForceConsoleColor()
	return r.Engine().Run(r.addr)
}
