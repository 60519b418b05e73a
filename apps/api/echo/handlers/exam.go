package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shulehq/shule/apps/api/echo/helpers"
	"github.com/shulehq/shule/core/exam"
)

type examApi struct {
	service *exam.Service
}

// RegisterExamAPI mounts the exam-system routes. Registration and login are
// open; everything else requires a JWT, and exam authoring plus the full
// results listing are instructor-only.
func RegisterExamAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *exam.Service) {
	api := examApi{service: svc}

	eg := g.Group("/exams")
	eg.POST("/register", api.register)
	eg.POST("/login", api.login)

	eg.GET("", api.examList, jwt)
	eg.POST("", api.examCreate, jwt, helpers.InstructorMiddleware())
	eg.GET("/:title", api.examRetrieve, jwt)
	eg.DELETE("/:title", api.examDestroy, jwt, helpers.InstructorMiddleware())

	eg.POST("/:title/submissions", api.submit, jwt)
	eg.GET("/results", api.resultList, jwt)
}

type loginData struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authToken struct {
	Token string `json:"token"`
}

// Handlers

func (api *examApi) register(ctx echo.Context) error {
	data := new(exam.NewUser)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.service); err != nil {
		return err
	}

	usr, err := api.service.AddUser(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *examApi) login(ctx echo.Context) error {
	data := new(loginData)
	if err := ctx.Bind(data); err != nil {
		return err
	}

	claims, err := helpers.Authenticate(ctx, data.Username, data.Password, api.service)
	if err != nil {
		return err
	}
	token, err := helpers.GenerateToken(claims)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, authToken{Token: token})
}

func (api *examApi) examList(ctx echo.Context) error {
	exams, err := api.service.Exams(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, exams)
}

func (api *examApi) examCreate(ctx echo.Context) error {
	data := new(exam.NewExam)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(api.service); err != nil {
		return err
	}

	exm, err := api.service.CreateExam(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, exm)
}

func (api *examApi) examRetrieve(ctx echo.Context) error {
	exm, err := api.service.GetExam(ctx.Request().Context(), ctx.Param("title"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, exm)
}

func (api *examApi) examDestroy(ctx echo.Context) error {
	if err := api.service.DeleteExam(ctx.Request().Context(), ctx.Param("title")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *examApi) submit(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.service)
	if err != nil {
		return err
	}

	data := new(exam.Submission)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.service.Submit(ctx.Request().Context(), usr.Username, ctx.Param("title"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}

// resultList returns every result for instructors, and only the caller's own
// results for student accounts.
func (api *examApi) resultList(ctx echo.Context) error {
	usr, err := helpers.GetContextUser(ctx, api.service)
	if err != nil {
		return err
	}

	var results []exam.Result
	if usr.IsInstructor() {
		results, err = api.service.Results(ctx.Request().Context())
	} else {
		results, err = api.service.Results(ctx.Request().Context(), usr.Username)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, results)
}
