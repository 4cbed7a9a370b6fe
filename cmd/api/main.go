package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	_ "github.com/jhoicas/marcaciones-api/docs"
	"github.com/jhoicas/marcaciones-api/internal/application/access"
	"github.com/jhoicas/marcaciones-api/internal/application/attendance"
	"github.com/jhoicas/marcaciones-api/internal/application/auth"
	"github.com/jhoicas/marcaciones-api/internal/application/employer"
	"github.com/jhoicas/marcaciones-api/internal/application/establishment"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
	infrmail "github.com/jhoicas/marcaciones-api/internal/infrastructure/mail"
	"github.com/jhoicas/marcaciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/marcaciones-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/marcaciones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/marcaciones-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/marcaciones-api/internal/interfaces/http"
	"github.com/jhoicas/marcaciones-api/pkg/config"
	"github.com/jhoicas/marcaciones-api/pkg/logger"
	"github.com/jhoicas/marcaciones-api/pkg/ratelimit"
)

const demoPassword = "demo1234"

type repositories struct {
	actors         repository.ActorRepository
	employers      repository.EmployerRepository
	establishments repository.EstablishmentRepository
	events         repository.AttendanceRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var repos repositories
	if cfg.App.Env == "memory" {
		st := memory.NewStore()
		if err := memory.SeedDemo(ctx, st, demoPassword); err != nil {
			log.Fatal().Err(err).Msg("datos de demostración")
		}
		log.Warn().Str("password", demoPassword).Msg("modo memoria: datos volátiles con cuentas de demostración")
		repos = repositories{st.Actors(), st.Employers(), st.Establishments(), st.Attendance()}
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		repos = repositories{
			actors:         postgres.NewActorRepository(pool),
			employers:      postgres.NewEmployerRepository(pool),
			establishments: postgres.NewEstablishmentRepository(pool),
			events:         postgres.NewAttendanceRepository(pool),
		}
	}

	// Comprobante por correo: SMTP si está configurado, si no queda en el log.
	var notifier attendance.Notifier
	if cfg.SMTP.Enabled() {
		notifier = infrmail.NewSMTPNotifier(cfg.SMTP)
	} else {
		notifier = infrmail.NewLogNotifier(log.Component("mail"))
	}

	prom := metrics.NewPrometheus()
	attCfg := attendance.Config{
		StoreTimeout:  cfg.Timeouts.Store,
		NotifyTimeout: cfg.Timeouts.Notify,
		Location:      cfg.App.Location(),
		PublicURL:     cfg.App.PublicURL,
	}
	ac := access.NewControl(cfg.JWT.Secret, cfg.JWT.Issuer)

	recorder := attendance.NewRecorder(
		repos.actors, repos.employers, repos.events,
		notifier, prom, log.Component("recorder"), attCfg,
	)

	app := httpRouter.NewApp(httpRouter.RouterDeps{
		ServiceName:     cfg.App.Name,
		Access:          ac,
		AuthUC:          auth.NewAuthUseCase(repos.actors, repos.employers, ac, cfg.Timeouts.Store),
		Recorder:        recorder,
		Verifier:        attendance.NewVerifier(repos.events, prom, attCfg),
		Query:           attendance.NewQuery(repos.events, attCfg),
		Receipts:        attendance.NewReceiptUseCase(repos.events, infrapdf.NewMarotoReceiptGenerator(), attCfg),
		EmployerUC:      employer.NewEmployerUseCase(repos.actors, repos.events, attCfg.Location, cfg.Timeouts.Store),
		EstablishmentUC: establishment.NewEstablishmentUseCase(repos.establishments, cfg.Timeouts.Store),
		VerifyLimiter:   ratelimit.New(cfg.RateLimit.VerifyRPS, cfg.RateLimit.VerifyBurst, 10*time.Minute),
		OnRateLimited:   prom.RateLimited,
		Metrics:         prom.Handler(),
		CORSOrigins:     cfg.HTTP.CORSOriginList(),
		Log:             log.Component("http"),
	})

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Marcaciones API",
	}))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Espera los comprobantes en vuelo; cada envío ya tiene su propio timeout.
	recorder.Wait()

	log.Info().Msg("aplicación detenida")
}
