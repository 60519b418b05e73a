package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shulehq/shule/core/professor"
)

type professorApi struct {
	service *professor.Service
}

func RegisterProfessorAPI(g *echo.Group, svc *professor.Service) {
	api := professorApi{service: svc}

	pg := g.Group("/professors")
	pg.POST("", api.professorCreate)
	pg.GET("", api.professorQuery)
	pg.GET("/:id", api.professorRetrieve)
	pg.PUT("/:id", api.professorUpdate)
	pg.DELETE("/:id", api.professorDestroy)
}

// Handlers

func (api *professorApi) professorCreate(ctx echo.Context) error {
	data := new(professor.NewProfessor)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.service); err != nil {
		return err
	}

	prof, err := api.service.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, prof)
}

func (api *professorApi) professorQuery(ctx echo.Context) error {
	filter := &professor.QueryFilter{
		Search:     ctx.QueryParam("search"),
		Department: ctx.QueryParam("department"),
	}
	profs, err := api.service.Query(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, profs)
}

func (api *professorApi) professorRetrieve(ctx echo.Context) error {
	prof, err := api.service.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *professorApi) professorUpdate(ctx echo.Context) error {
	orig, err := api.service.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	data := new(professor.UpdateProfessor)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.service, orig); err != nil {
		return err
	}

	prof, err := api.service.Update(ctx.Request().Context(), orig.ID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *professorApi) professorDestroy(ctx echo.Context) error {
	if err := api.service.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
