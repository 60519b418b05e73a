package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/shulehq/shule/apps/api/echo/handlers"
	"github.com/shulehq/shule/apps/api/echo/helpers"
	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/academic"
	"github.com/shulehq/shule/core/course"
	"github.com/shulehq/shule/core/exam"
	"github.com/shulehq/shule/core/professor"
	"github.com/shulehq/shule/core/student"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		StudentSvc     *student.Service
		ProfessorSvc   *professor.Service
		CourseSvc      *course.Service
		AcademicSvc    *academic.Service
		ExamSvc        *exam.Service
		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = helpers.AppHTTPErrorHandler
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := helpers.ConfigureAuth(conf.AppName, conf.SecretKey, conf.JWT.ExpirationDelta, conf.JWT.RefreshExpirationDelta)

	handlers.RegisterStudentAPI(v1, s.deps.StudentSvc)
	handlers.RegisterProfessorAPI(v1, s.deps.ProfessorSvc)
	handlers.RegisterCourseAPI(v1, s.deps.CourseSvc)
	handlers.RegisterAcademicAPI(v1, s.deps.AcademicSvc)
	handlers.RegisterExamAPI(v1, jwt, s.deps.ExamSvc)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.APIAddr); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Errors() <-chan error { return s.errs }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Shule API!")
}
