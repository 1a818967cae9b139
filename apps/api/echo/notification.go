package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lopay/lopay/core/scope"
)

type notificationApi struct {
	*auth
	deps *ServerDeps
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *auth, deps *ServerDeps) {
	api := notificationApi{auth: auth, deps: deps}

	ng := g.Group("/notifications", jwt)
	ng.GET("", api.query)
	ng.POST("/:id/read", api.markRead)
	ng.POST("/broadcast", api.broadcast, adminMiddleware())
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	ns, err := api.deps.NotificationSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, scope.VisibleNotifications(ident, ns))
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	n, err := api.deps.NotificationSvc.MarkRead(ident, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *notificationApi) broadcast(ctx echo.Context) error {
	var data BroadcastRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BroadcastRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	n, err := api.deps.NotificationSvc.Broadcast(ident, data.Title, data.Message)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, n)
}
