package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shulehq/shule/core/student"
)

type studentApi struct {
	service *student.Service
}

func RegisterStudentAPI(g *echo.Group, svc *student.Service) {
	api := studentApi{service: svc}

	sg := g.Group("/students")
	sg.POST("", api.studentCreate)
	sg.GET("", api.studentQuery)
	sg.GET("/:id", api.studentRetrieve)
	sg.PUT("/:id", api.studentUpdate)
	sg.DELETE("/:id", api.studentDestroy)
}

// Handlers

func (api *studentApi) studentCreate(ctx echo.Context) error {
	data := new(student.NewStudent)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.service); err != nil {
		return err
	}

	std, err := api.service.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) studentQuery(ctx echo.Context) error {
	filter := &student.QueryFilter{
		Search:  ctx.QueryParam("search"),
		Program: ctx.QueryParam("program"),
	}
	students, err := api.service.Query(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) studentRetrieve(ctx echo.Context) error {
	std, err := api.service.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) studentUpdate(ctx echo.Context) error {
	orig, err := api.service.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	data := new(student.UpdateStudent)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.service, orig); err != nil {
		return err
	}

	std, err := api.service.Update(ctx.Request().Context(), orig.ID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) studentDestroy(ctx echo.Context) error {
	if err := api.service.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
