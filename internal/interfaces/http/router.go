package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Equipos-api/internal/application/assignment"
	"github.com/jhoicas/Equipos-api/internal/application/auth"
	"github.com/jhoicas/Equipos-api/internal/application/catalog"
	"github.com/jhoicas/Equipos-api/internal/application/report"
	"github.com/jhoicas/Equipos-api/internal/application/usecase"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	BusinessUnitUC *usecase.BusinessUnitUseCase
	RequestUC      *usecase.RequestUseCase
	EquipmentUC    *usecase.EquipmentUseCase
	Resolver       *assignment.Resolver
	Importer       *catalog.Importer
	Reports        *report.ReportUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	userHandler := NewUserHandler(deps.UserUC)
	unitHandler := NewBusinessUnitHandler(deps.BusinessUnitUC)
	requestHandler := NewRequestHandler(deps.RequestUC, deps.Resolver, deps.Reports)
	assignmentHandler := NewAssignmentHandler(deps.Resolver, deps.Reports)
	equipmentHandler := NewEquipmentHandler(deps.EquipmentUC, deps.Importer, deps.Resolver)

	// Público
	api.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/registration-status", userHandler.RegistrationStatus)

	// Rutas protegidas: Bearer Token + rol leído de user_roles en cada petición.
	protected := api.Group("", AuthMiddleware(deps.JWTSecret), LoadRole(deps.UserUC))

	requester := RequireRole(entity.RoleSolicitante, entity.RoleTaller, entity.RoleAdmin)
	workshop := RequireRole(entity.RoleTaller, entity.RoleAdmin)
	admin := RequireRole(entity.RoleAdmin)

	protected.Post("/auth/password", requester, authHandler.ChangePassword)

	// Solicitudes
	requests := protected.Group("/requests")
	requests.Get("/", requester, requestHandler.List)
	requests.Post("/", requester, requestHandler.Create)
	requests.Get("/:id", requester, requestHandler.Get)
	requests.Delete("/:id", requester, requestHandler.Delete)
	requests.Get("/:id/history", requester, requestHandler.History)
	requests.Get("/:id/history.pdf", requester, requestHandler.HistoryPDF)
	requests.Get("/:id/available", workshop, requestHandler.Available)
	requests.Patch("/:id/start-date", workshop, requestHandler.UpdateStartDate)

	// Asignaciones (taller)
	assignments := protected.Group("/assignments", workshop)
	assignments.Get("/", assignmentHandler.List)
	assignments.Post("/", assignmentHandler.Assign)
	assignments.Get("/export.xlsx", assignmentHandler.Export)
	assignments.Get("/:id/replacement-candidates", assignmentHandler.ReplacementCandidates)
	assignments.Post("/:id/replace", assignmentHandler.Replace)
	assignments.Post("/:id/withdraw", assignmentHandler.Withdraw)
	assignments.Delete("/:id", assignmentHandler.Delete)

	// Equipos: las rutas fijas antes de /:code
	equipment := protected.Group("/equipment")
	equipment.Get("/types", requester, equipmentHandler.Types)
	equipment.Get("/capacities", requester, equipmentHandler.Capacities)
	equipment.Get("/available", workshop, equipmentHandler.Available)
	equipment.Post("/import", admin, equipmentHandler.Import)
	equipment.Get("/", admin, equipmentHandler.List)
	equipment.Post("/", admin, equipmentHandler.Create)
	equipment.Get("/:code", admin, equipmentHandler.Get)
	equipment.Put("/:code", admin, equipmentHandler.Update)
	equipment.Delete("/:code", admin, equipmentHandler.Delete)

	// Unidades de negocio
	units := protected.Group("/business-units")
	units.Get("/visible", requester, unitHandler.Visible)
	units.Post("/block-all", admin, unitHandler.BlockAll)
	units.Post("/unblock-all", admin, unitHandler.UnblockAll)
	units.Get("/", admin, unitHandler.List)
	units.Post("/", admin, unitHandler.Create)
	units.Put("/:name", admin, unitHandler.Update)
	units.Delete("/:name", admin, unitHandler.Delete)

	// Usuarios (admin)
	users := protected.Group("/users", admin)
	users.Get("/", userHandler.List)
	users.Put("/:id/role", userHandler.SetRole)
	users.Delete("/:id", userHandler.Delete)
	protected.Put("/registration-status", admin, userHandler.SetRegistrationStatus)
}
