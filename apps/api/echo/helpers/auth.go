package helpers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shulehq/shule/core/exam"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errTokenSigningFailed   = errors.New("failed to sign token")

	appName         string
	expirationDelta time.Duration

	// AppJWTConfig is the JWT auth middleware config; set up by ConfigureAuth.
	AppJWTConfig middleware.JWTConfig

	contextUserKey = "user"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Role         string `json:"role,omitempty"`
	IsInstructor bool   `json:"is_instructor,omitempty"`
}

// ConfigureAuth sets up JWT auth and returns the middleware to gate
// authenticated routes with.
func ConfigureAuth(name string, secretKey []byte, expiration, refreshExpiration time.Duration) echo.MiddlewareFunc {
	appName = name
	expirationDelta = expiration
	_ = refreshExpiration // refresh endpoint not implemented yet

	AppJWTConfig = middleware.JWTConfig{
		SigningKey:    secretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
	return middleware.JWTWithConfig(AppJWTConfig)
}

func GetUserClaims(usr exam.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   usr.Username,
			Audience:  "Academia",
			ExpiresAt: now.Add(expirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role:         usr.Role,
		IsInstructor: usr.IsInstructor(),
	}
}

func Authenticate(ctx echo.Context, uname, pwd string, svc *exam.Service) (*Claims, error) {
	usr, err := svc.Authenticate(ctx.Request().Context(), uname, pwd)
	if err != nil {
		return nil, errAuthenticationFailed
	}
	return GetUserClaims(usr), nil
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(AppJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(AppJWTConfig.SigningKey)
	if err != nil {
		return "", errTokenSigningFailed
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(AppJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// GetContextUser resolves the authenticated exam user from the request claims,
// caching it on the echo.Context.
func GetContextUser(ctx echo.Context, svc *exam.Service) (exam.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(exam.User); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return exam.User{}, err
	}

	usr, err := svc.GetUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return exam.User{}, errUnauthorized
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

// InstructorMiddleware restricts a route to instructor accounts.
func InstructorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !claims.IsInstructor {
				return ErrHttpForbidden
			}
			return next(ctx)
		}
	}
}
