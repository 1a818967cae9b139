package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lopay/lopay/core/plan"
)

type planApi struct {
	deps *ServerDeps
}

func registerPlanAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *ServerDeps) {
	api := planApi{deps: deps}

	pg := g.Group("/plans", jwt)
	pg.POST("/preview", api.preview)
}

// preview computes the installment breakdown for a fee without enrolling
// anyone; the plan-selection screen calls it on every cadence switch.
func (api *planApi) preview(ctx echo.Context) error {
	var data PlanPreviewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PlanPreviewRequest")
	}

	p, err := plan.Compute(data.TotalFee, data.Cadence)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}
