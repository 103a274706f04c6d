package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Equipos-api/internal/application/dto"
	"github.com/jhoicas/Equipos-api/internal/application/usecase"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/memory"
)

var (
	taller      = entity.Identity{UserID: "t1", Email: "taller@empresa.com", Role: entity.RoleTaller}
	ana         = entity.Identity{UserID: "s1", Email: "ana@empresa.com", Role: entity.RoleSolicitante}
	luis        = entity.Identity{UserID: "s2", Email: "luis@empresa.com", Role: entity.RoleSolicitante}
	visitante   = entity.Identity{UserID: "v1", Email: "v@empresa.com", Role: entity.RoleVisitante}
	baseRequest = dto.CreateRequestsRequest{BusinessUnit: "Planta Norte", Type: "Zorra", Quantity: 1, DateFrom: "2024-01-01", DateTo: "2024-01-31"}
)

type env struct {
	store     *memory.Store
	units     *usecase.BusinessUnitUseCase
	requests  *usecase.RequestUseCase
	equipment *usecase.EquipmentUseCase
	users     *usecase.UserUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := memory.NewStore()
	units := usecase.NewBusinessUnitUseCase(memory.NewBusinessUnitRepository(s))
	e := &env{
		store:     s,
		units:     units,
		requests:  usecase.NewRequestUseCase(memory.NewRequestRepository(s), memory.NewAssignmentRepository(s), units),
		equipment: usecase.NewEquipmentUseCase(memory.NewEquipmentRepository(s), memory.NewAssignmentRepository(s), memory.NewRequestRepository(s)),
		users:     usecase.NewUserUseCase(memory.NewUserRepository(s), memory.NewUserRoleRepository(s), memory.NewRegistrationRepository(s)),
	}
	ctx := context.Background()
	_, err := units.Create(ctx, dto.BusinessUnitRequest{Name: "Planta Norte"})
	require.NoError(t, err)
	_, err = units.Create(ctx, dto.BusinessUnitRequest{Name: "Bodega Sur", AuthorizedUsers: []string{"Luis@Empresa.com"}})
	require.NoError(t, err)
	return e
}

func TestRequestCreate_ExpandeUnidadesYMarcaTaller(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	in := baseRequest
	in.Quantity = 3
	in.Notes = "urgente"
	rows, err := e.requests.Create(ctx, taller, in)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, 1, r.Quantity)
		assert.Equal(t, "Creado por taller - urgente", r.Notes)
		assert.Equal(t, "taller@empresa.com", r.CreatorEmail)
	}
	assert.NotEqual(t, rows[0].ID, rows[1].ID)

	rows, err = e.requests.Create(ctx, taller, baseRequest)
	require.NoError(t, err)
	assert.Equal(t, "Creado por taller", rows[0].Notes)

	in = baseRequest
	in.Notes = "para inventario"
	rows, err = e.requests.Create(ctx, ana, in)
	require.NoError(t, err)
	assert.Equal(t, "para inventario", rows[0].Notes)
}

func TestRequestCreate_Rechazos(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	in := baseRequest
	in.DateFrom, in.DateTo = "2024-02-01", "2024-01-01"
	_, err := e.requests.Create(ctx, taller, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = baseRequest
	in.BusinessUnit = "Bodega Sur"
	_, err = e.requests.Create(ctx, ana, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.requests.Create(ctx, luis, in)
	assert.NoError(t, err)

	_, err = e.requests.Create(ctx, visitante, baseRequest)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRequestList_VisibilidadPorRol(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.requests.Create(ctx, ana, baseRequest)
	require.NoError(t, err)
	_, err = e.requests.Create(ctx, luis, baseRequest)
	require.NoError(t, err)
	in := baseRequest
	in.BusinessUnit = "Bodega Sur"
	_, err = e.requests.Create(ctx, luis, in)
	require.NoError(t, err)

	all, err := e.requests.List(ctx, taller, dto.RequestFilterQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)

	mine, err := e.requests.List(ctx, ana, dto.RequestFilterQuery{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "ana@empresa.com", mine.Items[0].CreatorEmail)

	luisRows, err := e.requests.List(ctx, luis, dto.RequestFilterQuery{BusinessUnit: "Bodega Sur"})
	require.NoError(t, err)
	assert.Len(t, luisRows.Items, 1)

	none, err := e.requests.List(ctx, visitante, dto.RequestFilterQuery{})
	require.NoError(t, err)
	assert.Empty(t, none.Items)

	// bloqueo general: el solicitante deja de ver, taller sigue viendo
	_, err = e.units.BlockAll(ctx)
	require.NoError(t, err)
	mine, err = e.requests.List(ctx, ana, dto.RequestFilterQuery{})
	require.NoError(t, err)
	assert.Empty(t, mine.Items)
	all, err = e.requests.List(ctx, taller, dto.RequestFilterQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
}

func TestRequestList_FiltroMes(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.requests.Create(ctx, taller, baseRequest)
	require.NoError(t, err)

	jan, err := e.requests.List(ctx, taller, dto.RequestFilterQuery{Month: "2024-01"})
	require.NoError(t, err)
	assert.Len(t, jan.Items, 1)
	feb, err := e.requests.List(ctx, taller, dto.RequestFilterQuery{Month: "2024-02"})
	require.NoError(t, err)
	assert.Empty(t, feb.Items)
}

func TestRequestUpdateStartDateYDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	rows, err := e.requests.Create(ctx, ana, baseRequest)
	require.NoError(t, err)
	id := rows[0].ID

	got, err := e.requests.UpdateStartDate(ctx, id, dto.UpdateStartDateRequest{StartDate: "2024-01-10"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", got.EffectiveFrom)

	_, err = e.requests.UpdateStartDate(ctx, id, dto.UpdateStartDateRequest{StartDate: "2024-02-10"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = e.requests.UpdateStartDate(ctx, id, dto.UpdateStartDateRequest{StartDate: "2023-12-28"})
	assert.ErrorIs(t, err, domain.ErrValidation, "el inicio real no puede ser anterior a la fecha desde")

	got, err = e.requests.UpdateStartDate(ctx, id, dto.UpdateStartDateRequest{})
	require.NoError(t, err)
	assert.Nil(t, got.StartOverride)
	assert.Equal(t, "2024-01-01", got.EffectiveFrom)

	// con asignación activa no se ajusta ni se borra
	require.NoError(t, memory.NewEquipmentRepository(e.store).Upsert(ctx, &entity.Equipment{Code: "E1", Type: "Zorra"}))
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, memory.NewAssignmentRepository(e.store).Create(ctx, &entity.Assignment{
		EquipmentCode: "E1", RequestID: id, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: &end, Status: entity.AssignmentActive,
	}))
	_, err = e.requests.UpdateStartDate(ctx, id, dto.UpdateStartDateRequest{StartDate: "2024-01-05"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, e.requests.Delete(ctx, ana, id), domain.ErrConflict)

	other, err := e.requests.Create(ctx, ana, baseRequest)
	require.NoError(t, err)
	assert.ErrorIs(t, e.requests.Delete(ctx, luis, other[0].ID), domain.ErrForbidden)
	require.NoError(t, e.requests.Delete(ctx, ana, other[0].ID))
	_, err = e.requests.Get(ctx, taller, other[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBusinessUnit_VisibleYBloqueo(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	units, err := e.units.VisibleUnits(ctx, ana)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Planta Norte", units[0].Name)

	units, err = e.units.VisibleUnits(ctx, luis)
	require.NoError(t, err)
	assert.Len(t, units, 2)

	units, err = e.units.VisibleUnits(ctx, visitante)
	require.NoError(t, err)
	assert.Empty(t, units)

	n, err := e.units.BlockAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = e.units.BlockAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	ok, err := e.units.CanActOn(ctx, luis, "Bodega Sur")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = e.units.CanActOn(ctx, taller, "Bodega Sur")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err = e.units.UnblockAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	list, err := e.units.List(ctx)
	require.NoError(t, err)
	for _, b := range list {
		assert.False(t, b.Blocked, b.Name)
	}
	assert.Equal(t, []string{"luis@empresa.com"}, list[0].AuthorizedUsers)
}

func TestBusinessUnit_RenombrarYDuplicado(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.units.Create(ctx, dto.BusinessUnitRequest{Name: "Planta Norte"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = e.units.Update(ctx, "Planta Norte", dto.BusinessUnitRequest{Name: "Planta Centro"})
	require.NoError(t, err)
	assert.ErrorIs(t, e.units.Delete(ctx, "Planta Norte"), domain.ErrNotFound)
	require.NoError(t, e.units.Delete(ctx, "Planta Centro"))
}

func TestEquipment_UnidadActualYBorrado(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.equipment.Create(ctx, dto.EquipmentRequest{Code: "E1", Type: "Zorra", DeclaredCapacity: "2500 kg"})
	require.NoError(t, err)
	_, err = e.equipment.Create(ctx, dto.EquipmentRequest{Code: "E2", Type: "Zorra"})
	require.NoError(t, err)
	_, err = e.equipment.Create(ctx, dto.EquipmentRequest{Code: "E1", Type: "Zorra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	rows, err := e.requests.Create(ctx, ana, baseRequest)
	require.NoError(t, err)
	require.NoError(t, memory.NewAssignmentRepository(e.store).Create(ctx, &entity.Assignment{
		EquipmentCode: "E1", RequestID: rows[0].ID, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Status: entity.AssignmentActive,
	}))

	list, err := e.equipment.List(ctx, "Zorra")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Planta Norte", list[0].CurrentBusinessUnit)
	assert.Empty(t, list[1].CurrentBusinessUnit)

	assert.ErrorIs(t, e.equipment.Delete(ctx, "E1"), domain.ErrConflict)
	require.NoError(t, e.equipment.Delete(ctx, "E2"))

	types, err := e.equipment.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zorra"}, types)
	caps, err := e.equipment.Capacities(ctx, "Zorra")
	require.NoError(t, err)
	assert.Equal(t, []string{"2500 kg"}, caps)

	newType := "Grúa"
	got, err := e.equipment.Update(ctx, "E1", dto.UpdateEquipmentRequest{Type: &newType})
	require.NoError(t, err)
	assert.Equal(t, "Grúa", got.Type)
	assert.Equal(t, "2500 kg", got.DeclaredCapacity)
}

func TestUser_RolPorDefectoYCambio(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, memory.NewUserRepository(e.store).Create(ctx, &entity.User{ID: "u1", Email: "ana@empresa.com"}))

	role, err := e.users.RoleOf(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVisitante, role)

	_, err = e.users.SetRole(ctx, "u1", "jefe")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = e.users.SetRole(ctx, "nadie", entity.RoleTaller)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	resp, err := e.users.SetRole(ctx, "u1", entity.RoleTaller)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleTaller, resp.Role)
	role, err = e.users.RoleOf(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleTaller, role)

	assert.ErrorIs(t, e.users.DeleteUser(ctx, "u1", "u1"), domain.ErrConflict)
	require.NoError(t, e.users.DeleteUser(ctx, "admin", "u1"))
	users, err := e.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUser_Registro(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	st, err := e.users.RegistrationStatus(ctx)
	require.NoError(t, err)
	assert.True(t, st.IsOpen)

	st, err = e.users.SetRegistration(ctx, false, "admin@empresa.com")
	require.NoError(t, err)
	assert.False(t, st.IsOpen)
	assert.Equal(t, "admin@empresa.com", st.UpdatedBy)
	assert.NotNil(t, st.UpdatedAt)
}
