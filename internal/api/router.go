package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/loandesk/loan-manager/docs"
	"github.com/loandesk/loan-manager/internal/api/handler"
	"github.com/loandesk/loan-manager/internal/api/middleware"
	"github.com/loandesk/loan-manager/internal/core/domain"
	"github.com/loandesk/loan-manager/internal/core/service"
	"github.com/loandesk/loan-manager/internal/infrastructure/config"
	mongodb "github.com/loandesk/loan-manager/internal/infrastructure/db/mongo"
	"github.com/loandesk/loan-manager/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("loanmanager"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	loanRepo := mongodb.NewLoanRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour, log)
	loanService := service.NewLoanService(loanRepo, log)
	dashboardService := service.NewDashboardService(loanRepo, userRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	loanHandler := handler.NewLoanHandler(loanService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	auth := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleVerifier)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/users", authHandler.ListUsers, auth, adminOnly)
	e.DELETE("/auth/users/:id", authHandler.DeleteUser, auth, adminOnly)
	e.PATCH("/auth/users/:id/role", authHandler.UpdateUserRole, auth, adminOnly)

	// --- Loan routes ---
	e.POST("/loans", loanHandler.Create, auth, anyRole)
	e.GET("/loans", loanHandler.ListAll, auth, adminOnly)
	e.GET("/loans/my-loans", loanHandler.ListOwn, auth)
	e.PATCH("/loans/:id/status", loanHandler.UpdateStatus, auth, anyRole)

	// --- Dashboard routes (admin only) ---
	e.GET("/dashboard/stats", dashboardHandler.Stats, auth, adminOnly)
	e.GET("/dashboard/loans-by-month", dashboardHandler.LoansByMonth, auth, adminOnly)
	e.GET("/dashboard/loans-by-status", dashboardHandler.LoansByStatus, auth, adminOnly)

	// --- Operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(db)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
