package coverageapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/beka-birhanu/picobot-api/service/i"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/zyedidia/generic/mapset"
)

const (
	watchReadTimeout  = 30 * time.Second
	watchWriteTimeout = 10 * time.Second
)

// newUpgrader accepts cross-origin watch clients only from origins.
// With no origins configured the browser Origin must match the request host.
func newUpgrader(origins []string) *websocket.Upgrader {
	if len(origins) == 0 {
		return &websocket.Upgrader{}
	}

	allowed := mapset.New[string]()
	for _, o := range origins {
		allowed.Put(strings.TrimRight(strings.TrimSpace(o), "/"))
	}
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed.Has(origin)
		},
	}
}

// watch upgrades to a websocket, reads one WatchRequest and streams the run.
func (c *Controller) watch(ctx *gin.Context) {
	ws, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		return
	}
	defer ws.Close()

	var request WatchRequest
	_ = ws.SetReadDeadline(time.Now().Add(watchReadTimeout))
	if err := ws.ReadJSON(&request); err != nil {
		c.send(ws, WatchMessage{Type: "error", Error: "invalid watch request: " + err.Error()})
		return
	}

	emit := func(f i.Frame) error {
		if err := c.send(ws, WatchMessage{Type: "frame", Frame: f}); err != nil {
			return err
		}
		if c.frameDelay > 0 {
			select {
			case <-time.After(c.frameDelay):
			case <-ctx.Request.Context().Done():
				return ctx.Request.Context().Err()
			}
		}
		return nil
	}

	result, err := c.checker.Watch(ctx.Request.Context(), i.WatchRequest{
		Rules:      request.Rules,
		Map:        request.Map.spec(),
		Start:      request.Start,
		MoveBudget: request.MoveBudget,
	}, emit)
	if err != nil {
		var closeErr *websocket.CloseError
		if !errors.As(err, &closeErr) && !errors.Is(err, websocket.ErrCloseSent) {
			_ = c.send(ws, WatchMessage{Type: "error", Error: err.Error()})
		}
		if c.logger != nil {
			c.logger.Warning(fmt.Sprintf("Watch ended early: %v", err))
		}
		return
	}

	if err := c.send(ws, WatchMessage{Type: "result", Result: result}); err != nil {
		return
	}
	_ = ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(watchWriteTimeout),
	)
}

func (c *Controller) send(ws *websocket.Conn, msg WatchMessage) error {
	_ = ws.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
	return ws.WriteJSON(msg)
}
