package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/payment"
	"github.com/lopay/lopay/core/plan"
	"github.com/lopay/lopay/core/scope"
)

type dependentApi struct {
	*auth
	deps *ServerDeps
}

func registerDependentAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *auth, deps *ServerDeps) {
	api := dependentApi{auth: auth, deps: deps}

	dg := g.Group("/dependents", jwt)
	dg.GET("", api.query)
	dg.POST("", api.enroll)
	dg.GET("/:id", api.retrieve)
	dg.DELETE("/:id", api.destroy)
}

// EnrollmentResponse bundles what the plan-selection flow needs to render the
// confirmation screen: the created record, its computed plan and the pending
// activation transaction awaiting approval.
type EnrollmentResponse struct {
	Dependent   dependent.Dependent `json:"dependent"`
	Plan        plan.Plan           `json:"plan"`
	Transaction payment.Transaction `json:"transaction"`
}

// Handlers

func (api *dependentApi) query(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	deps, err := api.deps.DependentSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying dependents")
	}
	return ctx.JSON(http.StatusOK, scope.VisibleDependents(ident, deps))
}

// enroll creates the dependent and submits its activation payment (deposit +
// platform fee) as a pending transaction in one flow.
func (api *dependentApi) enroll(ctx echo.Context) error {
	var data dependent.NewDependent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDependent")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}

	dep, p, err := api.deps.DependentSvc.Enroll(ident, data)
	if err != nil {
		return err
	}

	tx, err := api.deps.PaymentSvc.Submit(ident, payment.SubmitPayment{
		DependentID: dep.ID,
		Amount:      p.InitialActivationPayment,
	})
	if err != nil {
		return errors.Wrap(err, "submitting activation payment")
	}

	return ctx.JSON(http.StatusCreated, EnrollmentResponse{Dependent: dep, Plan: p, Transaction: tx})
}

func (api *dependentApi) retrieve(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	dep, err := api.deps.DependentSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	if len(scope.VisibleDependents(ident, []dependent.Dependent{dep})) == 0 {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, dep)
}

func (api *dependentApi) destroy(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	if err := api.deps.DependentSvc.Delete(ident, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
