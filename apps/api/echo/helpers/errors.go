package helpers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/academic"
	"github.com/shulehq/shule/core/course"
	"github.com/shulehq/shule/core/exam"
	"github.com/shulehq/shule/core/professor"
	"github.com/shulehq/shule/core/student"
)

var (
	ErrHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	ErrHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
)

func AppHTTPErrorHandler(err error, c echo.Context) {
	var code int
	var message interface{}

	switch err := err.(type) {
	case *echo.HTTPError:
		if err == middleware.ErrJWTMissing {
			code = http.StatusUnauthorized
			message = err.Message
			break
		}
		if err.Internal != nil {
			if herr, ok := err.Internal.(*echo.HTTPError); ok {
				err = herr
			}
		}
		code = err.Code
		message = err.Message
	case validator.ValidationErrors:
		fldErrs := make(map[string]string)
		for _, vErr := range err {
			fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
		}
		code = http.StatusBadRequest
		message = fldErrs
	case *core.ValidationError:
		if err.Fields != nil {
			fldErrs := make(map[string]string)
			for _, fErr := range err.Fields {
				fldErrs[fErr.Field] = fErr.Error
			}
			message = fldErrs
		} else {
			message = err.Error()
		}
		code = http.StatusBadRequest
	default:
		code, message = statusForDomainErr(err)
	}

	if c.Echo().Debug {
		message = err.Error()
	} else if m, ok := message.(string); ok {
		message = echo.Map{"error": m}
	}

	// Send response
	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead { // Issue #608
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message)
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}

// statusForDomainErr maps domain sentinel errors to HTTP statuses;
// anything unrecognized is a server error.
func statusForDomainErr(err error) (int, interface{}) {
	switch err {
	case student.ErrNotFound, professor.ErrNotFound, course.ErrNotFound,
		academic.ErrNotFound, exam.ErrUserNotFound, exam.ErrExamNotFound,
		academic.ErrNoData:
		return http.StatusNotFound, err.Error()
	case student.ErrEmailExists, professor.ErrEmailExists, course.ErrNameExists,
		course.ErrAssignmentExists, exam.ErrUserExists, exam.ErrTitleExists:
		return http.StatusConflict, err.Error()
	case exam.ErrAuthenticationFailed:
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
