package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Equipos-api/internal/application/assignment"
	"github.com/jhoicas/Equipos-api/internal/application/auth"
	"github.com/jhoicas/Equipos-api/internal/application/catalog"
	"github.com/jhoicas/Equipos-api/internal/application/report"
	"github.com/jhoicas/Equipos-api/internal/application/usecase"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Equipos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/Equipos-api/internal/interfaces/http"
	"github.com/jhoicas/Equipos-api/pkg/config"
	"github.com/jhoicas/Equipos-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// txRunner lo cumplen memory.TxRunner y postgres.TxRunner.
type txRunner interface {
	assignment.TxRunner
}

// stores repositorios del almacenamiento elegido con STORE.
type stores struct {
	equipment    repository.EquipmentRepository
	requests     repository.RequestRepository
	assignments  repository.AssignmentRepository
	units        repository.BusinessUnitRepository
	users        repository.UserRepository
	roles        repository.UserRoleRepository
	registration repository.RegistrationRepository
	tx           txRunner
	close        func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.App.Store == "memory" {
		log.Warn().Msg("STORE=memory: los datos se pierden al reiniciar y las operaciones de varios pasos no son atómicas")
		s := memory.NewStore()
		return stores{
			equipment:    memory.NewEquipmentRepository(s),
			requests:     memory.NewRequestRepository(s),
			assignments:  memory.NewAssignmentRepository(s),
			units:        memory.NewBusinessUnitRepository(s),
			users:        memory.NewUserRepository(s),
			roles:        memory.NewUserRoleRepository(s),
			registration: memory.NewRegistrationRepository(s),
			tx:           memory.NewTxRunner(s),
			close:        func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return stores{
		equipment:    postgres.NewEquipmentRepository(pool),
		requests:     postgres.NewRequestRepository(pool),
		assignments:  postgres.NewAssignmentRepository(pool),
		units:        postgres.NewBusinessUnitRepository(pool),
		users:        postgres.NewUserRepository(pool),
		roles:        postgres.NewUserRoleRepository(pool),
		registration: postgres.NewRegistrationRepository(pool),
		tx:           postgres.NewTxRunner(pool),
		close:        pool.Close,
	}
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
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st := openStores(ctx, cfg, log)
	defer st.close()

	authUC := auth.NewAuthUseCase(st.users, st.roles, st.registration, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}
	if created {
		log.Info().Str("email", cfg.Admin.Email).Msg("administrador inicial creado")
	}

	resolver := assignment.NewResolver(st.tx, st.equipment, st.requests, st.assignments, log)
	importer := catalog.NewImporter(st.tx, st.equipment, xlsx.NewReader(), int64(cfg.Import.MaxBytes), log)
	unitUC := usecase.NewBusinessUnitUseCase(st.units)
	reports := report.NewReportUseCase(resolver, st.assignments, st.requests, infrapdf.NewMarotoPDFGenerator(), xlsx.NewWriter())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.Import.MaxBytes + 1<<20,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó el archivo)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Equipos API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         usecase.NewUserUseCase(st.users, st.roles, st.registration),
		BusinessUnitUC: unitUC,
		RequestUC:      usecase.NewRequestUseCase(st.requests, st.assignments, unitUC),
		EquipmentUC:    usecase.NewEquipmentUseCase(st.equipment, st.assignments, st.requests),
		Resolver:       resolver,
		Importer:       importer,
		Reports:        reports,
		JWTSecret:      cfg.JWT.Secret,
	})

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

	log.Info().Msg("aplicación detenida")
}
