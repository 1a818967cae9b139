package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lopay/lopay/core/payment"
	"github.com/lopay/lopay/core/scope"
)

type paymentApi struct {
	*auth
	deps *ServerDeps
}

func registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *auth, deps *ServerDeps) {
	api := paymentApi{auth: auth, deps: deps}

	pg := g.Group("/payments", jwt)
	pg.GET("", api.query)
	pg.POST("", api.submit)
	pg.GET("/:id", api.retrieve)
	pg.POST("/:id/approve", api.approve, adminMiddleware())
	pg.POST("/:id/decline", api.decline, adminMiddleware())
}

// Handlers

func (api *paymentApi) query(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	txs, err := api.deps.PaymentSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying transactions")
	}
	return ctx.JSON(http.StatusOK, scope.VisibleTransactions(ident, txs))
}

func (api *paymentApi) submit(ctx echo.Context) error {
	var data payment.SubmitPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitPayment")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	tx, err := api.deps.PaymentSvc.Submit(ident, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, tx)
}

func (api *paymentApi) retrieve(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	tx, err := api.deps.PaymentSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	if len(scope.VisibleTransactions(ident, []payment.Transaction{tx})) == 0 {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, tx)
}

func (api *paymentApi) approve(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	tx, err := api.deps.PaymentSvc.Approve(ident, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tx)
}

func (api *paymentApi) decline(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	tx, err := api.deps.PaymentSvc.Decline(ident, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tx)
}
