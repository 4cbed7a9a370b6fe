package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/marcaciones-api/internal/application/access"
	"github.com/jhoicas/marcaciones-api/internal/application/attendance"
	"github.com/jhoicas/marcaciones-api/internal/application/auth"
	"github.com/jhoicas/marcaciones-api/internal/application/employer"
	"github.com/jhoicas/marcaciones-api/internal/application/establishment"
	"github.com/jhoicas/marcaciones-api/pkg/ratelimit"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName     string
	Access          *access.Control
	AuthUC          *auth.AuthUseCase
	Recorder        *attendance.Recorder
	Verifier        *attendance.Verifier
	Query           *attendance.Query
	Receipts        *attendance.ReceiptUseCase
	EmployerUC      *employer.EmployerUseCase
	EstablishmentUC *establishment.EstablishmentUseCase
	VerifyLimiter   *ratelimit.KeyLimiter // nil = sin límite
	OnRateLimited   func()
	Metrics         http.Handler // nil = sin /metrics
	CORSOrigins     []string
	Log             zerolog.Logger
}

// NewApp construye la aplicación Fiber con middleware global, /health, /metrics y las rutas de la API.
func NewApp(deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.ServiceName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(deps.Log))
	if len(deps.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(deps.CORSOrigins, ","),
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authn := AuthMiddleware(deps.Access)
	worker := RequireLevel(access.LevelWorker)
	employerOnly := RequireLevel(access.LevelEmployer)
	inspector := RequireLevel(access.LevelInspector)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/logout", authn, authHandler.Logout)
	authGroup.Get("/me", authn, authHandler.Profile)
	authGroup.Put("/change-password", authn, authHandler.ChangePassword)

	// Marcaciones: verificar es público; el resto exige nivel trabajador (trabajador o empleador)
	attHandler := NewAttendanceHandler(deps.Recorder, deps.Verifier, deps.Query, deps.Receipts)
	marc := api.Group("/marcaciones")
	marc.Post("/verificar", RateLimit(deps.VerifyLimiter, deps.OnRateLimited), attHandler.Verify)
	marc.Post("/", authn, worker, attHandler.Create)
	marc.Get("/mis-marcaciones", authn, worker, attHandler.Mine)
	marc.Get("/ultima", authn, worker, attHandler.Last)
	marc.Get("/:id/comprobante", authn, worker, attHandler.Receipt)

	// Empleador
	empHandler := NewEmployerHandler(deps.EmployerUC)
	emp := api.Group("/empleador")
	emp.Get("/marcaciones", authn, employerOnly, attHandler.ByEmployer)
	emp.Get("/trabajadores", authn, employerOnly, empHandler.ListWorkers)
	emp.Post("/trabajadores", authn, employerOnly, empHandler.CreateWorker)
	emp.Put("/trabajadores/:id", authn, employerOnly, empHandler.UpdateWorker)
	emp.Delete("/trabajadores/:id", authn, employerOnly, empHandler.DeactivateWorker)
	emp.Get("/estadisticas", authn, employerOnly, empHandler.Stats)

	// Establecimientos
	estHandler := NewEstablishmentHandler(deps.EstablishmentUC)
	est := api.Group("/establecimientos")
	est.Get("/", authn, employerOnly, estHandler.List)
	est.Post("/", authn, employerOnly, estHandler.Create)

	// Fiscalización
	insHandler := NewInspectionHandler(deps.Query)
	ins := api.Group("/fiscalizacion")
	ins.Get("/marcaciones", authn, inspector, insHandler.List)
	ins.Get("/trabajador/:rut", authn, inspector, insHandler.WorkerHistory)
}
