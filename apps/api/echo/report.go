package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/report"
	"github.com/lopay/lopay/core/school"
	"github.com/lopay/lopay/core/scope"
	"github.com/lopay/lopay/core/user"
)

type reportApi struct {
	*auth
	deps *ServerDeps
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *auth, deps *ServerDeps) {
	api := reportApi{auth: auth, deps: deps}

	rg := g.Group("/reports", jwt)
	rg.GET("/summary", api.summary)
}

// summary rolls up the caller's visible slice of the ledger: the whole
// platform for an administrator, one institution for a bursar, the family's
// enrollments for a guardian.
func (api *reportApi) summary(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}

	schools, err := api.deps.SchoolSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying schools")
	}
	deps, err := api.deps.DependentSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying dependents")
	}
	txs, err := api.deps.PaymentSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying transactions")
	}

	visDeps := scope.VisibleDependents(ident, deps)
	visTxs := scope.VisibleTransactions(ident, txs)
	sum := report.Summarize(visibleSchools(ident, schools, visDeps), visDeps, visTxs)
	return ctx.JSON(http.StatusOK, sum)
}

// visibleSchools narrows the breakdown to the schools the identity has a
// stake in: all of them for an administrator, the bursar's institution, or
// the schools a guardian's dependents are enrolled at.
func visibleSchools(ident user.Identity, schools []school.School, visDeps []dependent.Dependent) []school.School {
	if ident.Unscoped() {
		return schools
	}

	wanted := make(map[string]bool, len(visDeps))
	if ident.IsBursar() {
		wanted[ident.SchoolID] = true
	} else {
		for _, dep := range visDeps {
			wanted[dep.SchoolID] = true
		}
	}

	visible := make([]school.School, 0, len(wanted))
	for _, sch := range schools {
		if wanted[sch.ID] {
			visible = append(visible, sch)
		}
	}
	return visible
}
