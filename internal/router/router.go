package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"sanabridge/internal/cache"
	"sanabridge/internal/config"
	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/handler"
	"sanabridge/internal/session"
)

// Login attempts allowed per client IP per window.
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	gate *session.Gate,
	cacheClient *cache.Client,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	orgHandler *handler.OrganizationHandler,
	patientHandler *handler.PatientHandler,
	referralHandler *handler.ReferralHandler,
	invitationHandler *handler.InvitationHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth", authHandler.Login, LoginRateLimit(cacheClient))
	api.GET("/auth", authHandler.Lookup)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/session", authHandler.Session)
	api.POST("/register", authHandler.Register)

	// Authenticated routes
	authed := api.Group("", RequireAuth(gate))
	authed.POST("/auth/change-password", authHandler.ChangePassword)
	authed.PATCH("/users/settings", userHandler.UpdateSettings)
	authed.GET("/organizations/:id/patients", patientHandler.List)
	authed.POST("/organizations/:id/patients", patientHandler.Create)
	authed.GET("/referrals", referralHandler.List)
	authed.POST("/referrals", referralHandler.Create)
	authed.PATCH("/referrals/:id/status", referralHandler.UpdateStatus)
	authed.POST("/invitations/accept", invitationHandler.Accept)

	// Admin routes
	admin := api.Group("", RequireAdmin(gate))
	admin.GET("/users", userHandler.ListUsers)
	admin.GET("/users/:id", userHandler.GetUser)
	admin.POST("/users", userHandler.CreateUser)
	admin.GET("/organizations", orgHandler.List)
	admin.POST("/organizations", orgHandler.Create)
	admin.GET("/organizations/:id", orgHandler.Get)
	admin.GET("/organizations/:id/invitations", invitationHandler.List)
	admin.POST("/organizations/:id/invitations", invitationHandler.Create)
}

// RequireAuth resolves the session cookie through the gate and stashes
// the identity on the context. Failures go through the shared
// domain-to-HTTP translation so every protected route answers 401/403
// identically.
func RequireAuth(gate *session.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := gate.RequireAuth(c)
			if err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			handler.SetIdentity(c, identity)
			return next(c)
		}
	}
}

// RequireAdmin is RequireAuth plus the platform-admin role check.
func RequireAdmin(gate *session.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := gate.RequireAdmin(c)
			if err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			handler.SetIdentity(c, identity)
			return next(c)
		}
	}
}

// LoginRateLimit caps login attempts per client IP with a fixed window
// counter in redis. Fails open when redis is unavailable.
func LoginRateLimit(cacheClient *cache.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ratelimit:login:" + c.RealIP()
			n, _ := cacheClient.Incr(c.Request().Context(), key, loginRateWindow)
			if n > loginRateLimit {
				return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
					Error: "too many login attempts",
					Code:  "RATE_LIMITED",
				})
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
