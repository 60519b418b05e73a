package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shulehq/shule/core/course"
)

type courseApi struct {
	service *course.Service
}

func RegisterCourseAPI(g *echo.Group, svc *course.Service) {
	api := courseApi{service: svc}

	cg := g.Group("/courses")
	cg.POST("", api.courseCreate)
	cg.GET("", api.courseQuery)
	cg.GET("/:id", api.courseRetrieve)
	cg.PUT("/:id", api.courseUpdate)
	cg.DELETE("/:id", api.courseDestroy)

	cg.GET("/:id/professors", api.assignmentList)
	cg.PUT("/:id/professors/:professorID", api.assignmentCreate)
	cg.DELETE("/:id/professors/:professorID", api.assignmentDestroy)
}

// Handlers

func (api *courseApi) courseCreate(ctx echo.Context) error {
	data := new(course.NewCourse)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.service); err != nil {
		return err
	}

	crs, err := api.service.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) courseQuery(ctx echo.Context) error {
	filter := &course.QueryFilter{Search: ctx.QueryParam("search")}
	courses, err := api.service.Query(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) courseRetrieve(ctx echo.Context) error {
	crs, err := api.service.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) courseUpdate(ctx echo.Context) error {
	orig, err := api.service.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	data := new(course.UpdateCourse)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.service, orig); err != nil {
		return err
	}

	crs, err := api.service.Update(ctx.Request().Context(), orig.ID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) courseDestroy(ctx echo.Context) error {
	if err := api.service.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) assignmentList(ctx echo.Context) error {
	asgs, err := api.service.Assignments(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *courseApi) assignmentCreate(ctx echo.Context) error {
	err := api.service.AssignProfessor(ctx.Request().Context(), ctx.Param("id"), ctx.Param("professorID"))
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusCreated)
}

func (api *courseApi) assignmentDestroy(ctx echo.Context) error {
	err := api.service.UnassignProfessor(ctx.Request().Context(), ctx.Param("id"), ctx.Param("professorID"))
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
