package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shulehq/shule/core/academic"
)

var errInvalidSemester = echo.NewHTTPError(http.StatusBadRequest, "invalid semester")

type academicApi struct {
	service *academic.Service
}

// RegisterAcademicAPI mounts the registration ledger, grade ledger and
// transcript routes, all scoped under a student.
func RegisterAcademicAPI(g *echo.Group, svc *academic.Service) {
	api := academicApi{service: svc}

	sg := g.Group("/students/:id")
	sg.GET("/registrations", api.registrationList)
	sg.GET("/registrations/:semester", api.registrationRetrieve)
	sg.PUT("/registrations", api.registrationReplace)
	sg.DELETE("/registrations/:semester", api.registrationDestroy)

	sg.GET("/grades", api.gradeList)
	sg.PUT("/grades", api.gradeSet)
	sg.DELETE("/grades/:courseID/:semester", api.gradeDestroy)

	sg.GET("/transcript", api.transcript)
}

// Handlers

func (api *academicApi) registrationList(ctx echo.Context) error {
	regs, err := api.service.Registrations(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, regs)
}

func (api *academicApi) registrationRetrieve(ctx echo.Context) error {
	sem, err := semesterParam(ctx)
	if err != nil {
		return err
	}
	reg, err := api.service.GetRegistration(ctx.Request().Context(), ctx.Param("id"), sem)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *academicApi) registrationReplace(ctx echo.Context) error {
	data := new(academic.RegisterInput)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reg, err := api.service.Register(ctx.Request().Context(), ctx.Param("id"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *academicApi) registrationDestroy(ctx echo.Context) error {
	sem, err := semesterParam(ctx)
	if err != nil {
		return err
	}
	if err := api.service.Unregister(ctx.Request().Context(), ctx.Param("id"), sem); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *academicApi) gradeList(ctx echo.Context) error {
	var semesters []int
	if s := ctx.QueryParam("semester"); s != "" {
		sem, err := strconv.Atoi(s)
		if err != nil || sem <= 0 {
			return errInvalidSemester
		}
		semesters = append(semesters, sem)
	}

	entries, err := api.service.Grades(ctx.Request().Context(), ctx.Param("id"), semesters...)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *academicApi) gradeSet(ctx echo.Context) error {
	data := new(academic.SetGradeInput)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	grd, err := api.service.SetGrade(ctx.Request().Context(), ctx.Param("id"), data.CourseID, data.Semester, data.Points())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grd)
}

func (api *academicApi) gradeDestroy(ctx echo.Context) error {
	sem, err := semesterParam(ctx)
	if err != nil {
		return err
	}
	if err := api.service.DeleteGrade(ctx.Request().Context(), ctx.Param("id"), ctx.Param("courseID"), sem); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *academicApi) transcript(ctx echo.Context) error {
	tr, err := api.service.Transcript(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tr)
}

func semesterParam(ctx echo.Context) (int, error) {
	sem, err := strconv.Atoi(ctx.Param("semester"))
	if err != nil || sem <= 0 {
		return 0, errInvalidSemester
	}
	return sem, nil
}
