package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/lopay/lopay/core/school"
)

type schoolApi struct {
	*auth
	deps *ServerDeps
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, auth *auth, deps *ServerDeps) {
	api := schoolApi{auth: auth, deps: deps}

	sg := g.Group("/schools", jwt)
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)
	sg.POST("", api.create, adminMiddleware())
	sg.PUT("/:id", api.update, adminMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())
	sg.DELETE("", api.destroyAll, adminMiddleware())
}

// Handlers

func (api *schoolApi) query(ctx echo.Context) error {
	schools, err := api.deps.SchoolSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying schools")
	}
	if schools == nil {
		schools = []school.School{}
	}
	return ctx.JSON(http.StatusOK, schools)
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	sch, err := api.deps.SchoolSvc.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) create(ctx echo.Context) error {
	var data school.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	sch, err := api.deps.SchoolSvc.Create(ident, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sch)
}

func (api *schoolApi) update(ctx echo.Context) error {
	var data school.UpdateSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSchool")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	sch, err := api.deps.SchoolSvc.Update(ident, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) destroy(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	if err := api.deps.SchoolSvc.Delete(ident, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) destroyAll(ctx echo.Context) error {
	ident, err := api.identity(ctx)
	if err != nil {
		return errors.Wrap(err, "resolving identity")
	}
	if err := api.deps.SchoolSvc.DeleteAll(ident); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
