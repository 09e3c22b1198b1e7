package coverageapi

import (
	"errors"
	"net/http"
	"time"

	dmn "github.com/beka-birhanu/picobot-api/domain"
	"github.com/beka-birhanu/picobot-api/game/rules"
	"github.com/beka-birhanu/picobot-api/game/terrain"
	"github.com/beka-birhanu/picobot-api/service"
	"github.com/beka-birhanu/picobot-api/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Controller serves coverage reports, rule linting and map listing.
type Controller struct {
	checker    i.CoverageChecker
	logger     i.Logger
	frameDelay time.Duration
	upgrader   *websocket.Upgrader
}

// NewController initializes a Controller. frameDelay paces watch frames and
// watchOrigins lists the browser origins allowed to open a watch stream.
func NewController(checker i.CoverageChecker, logger i.Logger, frameDelay time.Duration, watchOrigins []string) (*Controller, error) {
	if checker == nil {
		return nil, errors.New("coverage checker is required")
	}
	return &Controller{
		checker:    checker,
		logger:     logger,
		frameDelay: frameDelay,
		upgrader:   newUpgrader(watchOrigins),
	}, nil
}

// RegisterPublic registers public routes.
func (c *Controller) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/reports/:ID", c.report)
	route.POST("/rules/lint", c.lint)
	route.GET("/maps", c.maps)
}

// RegisterProtected registers routes that run simulations.
func (c *Controller) RegisterProtected(route *gin.RouterGroup) {
	route.POST("/coverage", c.evaluate)
	route.GET("/coverage/watch", c.watch)
}

// evaluate runs a coverage check and returns the report.
func (c *Controller) evaluate(ctx *gin.Context) {
	var request EvaluateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := c.checker.Evaluate(ctx.Request.Context(), i.EvaluateRequest{
		Name:       request.Name,
		Rules:      request.Rules,
		Map:        request.Map.spec(),
		MoveBudget: request.MoveBudget,
	})
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newReportResponse(report))
}

// report retrieves a stored report.
func (c *Controller) report(ctx *gin.Context) {
	ID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	report, err := c.checker.Report(ctx.Request.Context(), ID)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newReportResponse(report))
}

// lint analyses a rule set without running it.
func (c *Controller) lint(ctx *gin.Context) {
	var request LintRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := c.checker.Lint(request.Rules)
	if err != nil {
		c.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, report)
}

// maps lists the bundled maps with their reference rule sets.
func (c *Controller) maps(ctx *gin.Context) {
	names := terrain.Names()
	response := make([]MapResponse, 0, len(names))
	for _, name := range names {
		entry, _ := terrain.Lookup(name)
		response = append(response, MapResponse{
			Name:   entry.Name,
			Width:  len(entry.Rows[0]),
			Height: len(entry.Rows),
			Layout: terrain.Format(entry.Rows),
			Rules:  entry.Rules,
		})
	}
	ctx.JSON(http.StatusOK, response)
}

// writeError maps service errors to HTTP responses.
func (c *Controller) writeError(ctx *gin.Context, err error) {
	var parseErr *rules.ParseError
	switch {
	case errors.As(err, &parseErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "lines": newLineErrors(parseErr)})
	case errors.Is(err, service.ErrInvalidRequest):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dmn.ErrReportNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		if c.logger != nil {
			c.logger.Error("Handling " + ctx.FullPath() + ": " + err.Error())
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
