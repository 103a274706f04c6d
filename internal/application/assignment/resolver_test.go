package assignment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Equipos-api/internal/application/assignment"
	"github.com/jhoicas/Equipos-api/internal/domain"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
	"github.com/jhoicas/Equipos-api/internal/domain/repository"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/memory"
)

const tipo = "Pallet jack"

type fixture struct {
	store    *memory.Store
	resolver *assignment.Resolver
	requests *memory.RequestRepo
	assigns  *memory.AssignmentRepo
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	return d
}

func newFixture(t *testing.T, codes ...string) *fixture {
	t.Helper()
	s := memory.NewStore()
	equipos := memory.NewEquipmentRepository(s)
	for _, c := range codes {
		require.NoError(t, equipos.Upsert(context.Background(), &entity.Equipment{Code: c, Type: tipo}))
	}
	f := &fixture{
		store:    s,
		requests: memory.NewRequestRepository(s),
		assigns:  memory.NewAssignmentRepository(s),
	}
	f.resolver = assignment.NewResolver(memory.NewTxRunner(s), equipos, f.requests, f.assigns, nil)
	return f
}

func (f *fixture) request(t *testing.T, from, to string) *entity.Request {
	t.Helper()
	r := &entity.Request{BusinessUnit: "Planta Norte", Type: tipo, Quantity: 1,
		DateFrom: day(t, from), DateTo: day(t, to), CreatorEmail: "ana@empresa.com"}
	require.NoError(t, f.requests.CreateBatch(context.Background(), []*entity.Request{r}))
	return r
}

func codes(eqs []*entity.Equipment) []string {
	out := make([]string, 0, len(eqs))
	for _, e := range eqs {
		out = append(out, e.Code)
	}
	return out
}

func TestCicloCompleto_AsignarReemplazarRetirar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1", "E2")
	r1 := f.request(t, "2024-01-01", "2024-01-31")

	avail, err := f.resolver.AvailableEquipment(ctx, tipo, day(t, "2024-01-01"), day(t, "2024-01-31"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "E2"}, codes(avail))

	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1", Actor: "taller@empresa.com"})
	require.NoError(t, err)
	assert.Equal(t, day(t, "2024-01-01"), a1.StartDate)
	require.NotNil(t, a1.EndDate)
	assert.Equal(t, day(t, "2024-01-31"), *a1.EndDate)
	assert.False(t, a1.IsReplacement)

	avail, err = f.resolver.AvailableEquipment(ctx, tipo, day(t, "2024-01-01"), day(t, "2024-01-31"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"E2"}, codes(avail))

	got, err := f.requests.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	require.True(t, got.HasAssignedEquipment())
	assert.Equal(t, "E1", *got.AssignedEquipment)

	// reemplazo
	a2, err := f.resolver.Replace(ctx, assignment.ReplaceInput{
		AssignmentID: a1.ID, NewEquipmentCode: "E2", EffectiveDate: day(t, "2024-01-15"),
		Reason: "breakdown", Actor: "taller@empresa.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "E2", a2.EquipmentCode)
	assert.Equal(t, day(t, "2024-01-15"), a2.StartDate)
	assert.Equal(t, day(t, "2024-01-31"), *a2.EndDate)
	assert.True(t, a2.IsReplacement)
	require.NotNil(t, a2.ReplacedID)
	assert.Equal(t, a1.ID, *a2.ReplacedID)

	old, err := f.assigns.GetByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, day(t, "2024-01-15"), *old.EndDate)
	assert.Equal(t, entity.AssignmentReplaced, old.Status)

	chain, err := f.assigns.ListByRequest(ctx, r1.ID)
	require.NoError(t, err)
	active := 0
	for _, a := range chain {
		if a.IsActive() {
			active++
		}
	}
	assert.Equal(t, 1, active)

	// retiro
	res, err := f.resolver.Withdraw(ctx, assignment.WithdrawInput{AssignmentID: a2.ID, RetireDate: day(t, "2024-01-20")})
	require.NoError(t, err)
	assert.Equal(t, day(t, "2024-01-20"), *res.Closed.EndDate)
	assert.Equal(t, entity.AssignmentWithdrawn, res.Closed.Status)
	assert.Equal(t, day(t, "2024-01-20"), res.Request.DateTo)
	assert.False(t, res.Request.HasAssignedEquipment())

	require.NotNil(t, res.FollowUp)
	assert.NotEqual(t, r1.ID, res.FollowUp.ID)
	assert.Equal(t, day(t, "2024-01-20"), res.FollowUp.DateFrom)
	assert.Equal(t, day(t, "2024-01-31"), res.FollowUp.DateTo)
	assert.Equal(t, 1, res.FollowUp.Quantity)
	assert.Equal(t, r1.BusinessUnit, res.FollowUp.BusinessUnit)
	assert.False(t, res.FollowUp.HasAssignedEquipment())
	assert.Contains(t, res.FollowUp.Notes, "reemplaza a la")

	stored, err := f.requests.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, day(t, "2024-01-20"), stored.DateTo)
}

func TestAssign_VentanasDisjuntasMismoEquipo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1")
	r1 := f.request(t, "2024-01-01", "2024-01-10")
	r2 := f.request(t, "2024-01-11", "2024-01-20")

	_, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)
	_, err = f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r2.ID, EquipmentCode: "E1"})
	require.NoError(t, err)
}

func TestAssign_DiaDeBordeCompartidoEsConflicto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1")
	r1 := f.request(t, "2024-01-01", "2024-01-15")
	r2 := f.request(t, "2024-01-15", "2024-01-20")

	_, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)
	_, err = f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r2.ID, EquipmentCode: "E1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAssign_AsignacionActivaExistenteNoEscribe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1", "E2")
	r1 := f.request(t, "2024-01-01", "2024-01-31")
	_, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)

	_, err = f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E2"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, domain.UserMessage(err), "ya existe una asignación activa")

	chain, err := f.assigns.ListByRequest(ctx, r1.ID)
	require.NoError(t, err)
	assert.Len(t, chain, 1)
	got, _ := f.requests.GetByID(ctx, r1.ID)
	assert.Equal(t, "E1", *got.AssignedEquipment)
}

func TestAssign_UsaFechaDeInicioReal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1")
	busy := f.request(t, "2024-01-01", "2024-01-09")
	_, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: busy.ID, EquipmentCode: "E1"})
	require.NoError(t, err)

	r := f.request(t, "2024-01-05", "2024-01-31")
	avail, err := f.resolver.AvailableForRequest(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, avail)

	override := day(t, "2024-01-10")
	r.StartOverride = &override
	require.NoError(t, f.requests.Update(ctx, r))

	avail, err = f.resolver.AvailableForRequest(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"E1"}, codes(avail))

	a, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r.ID, EquipmentCode: "E1"})
	require.NoError(t, err)
	assert.Equal(t, override, a.StartDate)
}

func TestAssign_Errores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1")
	require.NoError(t, memory.NewEquipmentRepository(f.store).Upsert(ctx, &entity.Equipment{Code: "G1", Type: "Grúa"}))
	r := f.request(t, "2024-01-01", "2024-01-31")

	_, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: 999, EquipmentCode: "E1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r.ID, EquipmentCode: "NOPE"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r.ID, EquipmentCode: "G1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAvailableEquipment_RangoInvertidoYVacio(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.resolver.AvailableEquipment(ctx, tipo, day(t, "2024-02-01"), day(t, "2024-01-01"), "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	avail, err := f.resolver.AvailableEquipment(ctx, tipo, day(t, "2024-01-01"), day(t, "2024-01-31"), "")
	require.NoError(t, err)
	assert.NotNil(t, avail)
	assert.Empty(t, avail)
}

func TestReplace_ValidacionesAntesDeEscribir(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1", "E2")
	r1 := f.request(t, "2024-01-01", "2024-01-31")
	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)

	cases := []struct {
		name string
		in   assignment.ReplaceInput
		kind error
	}{
		{"sin motivo", assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E2", EffectiveDate: day(t, "2024-01-15"), Reason: "  "}, domain.ErrValidation},
		{"sin fecha", assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E2", Reason: "falla"}, domain.ErrValidation},
		{"fecha antes del inicio", assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E2", EffectiveDate: day(t, "2023-12-31"), Reason: "falla"}, domain.ErrValidation},
		{"fecha después del fin", assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E2", EffectiveDate: day(t, "2024-02-01"), Reason: "falla"}, domain.ErrValidation},
		{"mismo equipo", assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E1", EffectiveDate: day(t, "2024-01-15"), Reason: "falla"}, domain.ErrValidation},
		{"asignación inexistente", assignment.ReplaceInput{AssignmentID: 999, NewEquipmentCode: "E2", EffectiveDate: day(t, "2024-01-15"), Reason: "falla"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.resolver.Replace(ctx, tc.in)
			assert.ErrorIs(t, err, tc.kind)
		})
	}

	still, err := f.assigns.GetByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.True(t, still.IsActive())
	assert.Equal(t, day(t, "2024-01-31"), *still.EndDate)
}

func TestReplace_EquipoOcupadoNoCierraLaAnterior(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1", "E2")
	r1 := f.request(t, "2024-01-01", "2024-01-31")
	r2 := f.request(t, "2024-01-20", "2024-01-25")
	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)
	_, err = f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r2.ID, EquipmentCode: "E2"})
	require.NoError(t, err)

	cands, err := f.resolver.AvailableForReplacement(ctx, a1.ID, day(t, "2024-01-15"))
	require.NoError(t, err)
	assert.Empty(t, cands)

	_, err = f.resolver.Replace(ctx, assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E2",
		EffectiveDate: day(t, "2024-01-15"), Reason: "falla"})
	require.ErrorIs(t, err, domain.ErrConflict)

	still, _ := f.assigns.GetByID(ctx, a1.ID)
	assert.True(t, still.IsActive())
}

func TestReplace_AsignacionCerradaEsConflicto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1", "E2", "E3")
	r1 := f.request(t, "2024-01-01", "2024-01-31")
	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)
	_, err = f.resolver.Replace(ctx, assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E2", EffectiveDate: day(t, "2024-01-10"), Reason: "falla"})
	require.NoError(t, err)

	_, err = f.resolver.Replace(ctx, assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E3", EffectiveDate: day(t, "2024-01-12"), Reason: "falla"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestWithdraw_DosVecesEsConflicto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1")
	r1 := f.request(t, "2024-01-01", "2024-01-31")
	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)

	_, err = f.resolver.Withdraw(ctx, assignment.WithdrawInput{AssignmentID: a1.ID, RetireDate: day(t, "2024-01-10")})
	require.NoError(t, err)
	_, err = f.resolver.Withdraw(ctx, assignment.WithdrawInput{AssignmentID: a1.ID, RetireDate: day(t, "2024-01-10")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	all, err := f.requests.List(ctx, repository.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2, "solo una solicitud de continuación")
}

func TestWithdraw_SinRemanenteNoCreaContinuacion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1")
	r1 := f.request(t, "2024-01-01", "2024-01-31")
	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)

	res, err := f.resolver.Withdraw(ctx, assignment.WithdrawInput{AssignmentID: a1.ID, RetireDate: day(t, "2024-01-31")})
	require.NoError(t, err)
	assert.Nil(t, res.FollowUp)

	all, err := f.requests.List(ctx, repository.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWithdraw_SolicitudRecortadaNoVuelveASinAsignar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1", "E3")
	r1 := f.request(t, "2024-01-01", "2024-01-31")
	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)
	res, err := f.resolver.Withdraw(ctx, assignment.WithdrawInput{AssignmentID: a1.ID, RetireDate: day(t, "2024-01-20")})
	require.NoError(t, err)
	require.NotNil(t, res.FollowUp)

	pending, err := f.requests.List(ctx, repository.RequestFilter{OnlyUnassigned: true})
	require.NoError(t, err)
	require.Len(t, pending, 1, "solo la continuación queda sin asignar")
	assert.Equal(t, res.FollowUp.ID, pending[0].ID)

	_, err = f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E3"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	chain, err := f.assigns.ListByRequest(ctx, r1.ID)
	require.NoError(t, err)
	assert.Len(t, chain, 1, "no se escribió una segunda asignación")

	_, err = f.resolver.Assign(ctx, assignment.AssignInput{RequestID: res.FollowUp.ID, EquipmentCode: "E3"})
	assert.NoError(t, err)
}

func TestWithdraw_InicioRealPrevioMantieneVentanaValida(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1")
	r1 := f.request(t, "2024-01-10", "2024-01-31")
	early := day(t, "2024-01-05")
	r1.StartOverride = &early
	require.NoError(t, f.requests.Update(ctx, r1))

	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)
	res, err := f.resolver.Withdraw(ctx, assignment.WithdrawInput{AssignmentID: a1.ID, RetireDate: day(t, "2024-01-07")})
	require.NoError(t, err)

	got, err := f.requests.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.False(t, got.DateTo.Before(got.DateFrom), "desde <= hasta")
	assert.Equal(t, day(t, "2024-01-07"), got.DateTo)
	require.NotNil(t, res.FollowUp)
	assert.Equal(t, day(t, "2024-01-07"), res.FollowUp.DateFrom)
	assert.Equal(t, day(t, "2024-01-31"), res.FollowUp.DateTo)
}

func TestWithdraw_FechaFueraDeRango(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1")
	r1 := f.request(t, "2024-01-05", "2024-01-31")
	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)

	_, err = f.resolver.Withdraw(ctx, assignment.WithdrawInput{AssignmentID: a1.ID, RetireDate: day(t, "2024-01-04")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.resolver.Withdraw(ctx, assignment.WithdrawInput{AssignmentID: a1.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteAssignment_LimpiaPunteroYConservaVecinas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1", "E2")
	r1 := f.request(t, "2024-01-01", "2024-01-31")
	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)
	a2, err := f.resolver.Replace(ctx, assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E2", EffectiveDate: day(t, "2024-01-15"), Reason: "falla"})
	require.NoError(t, err)

	// borrar la anterior no toca el puntero (apunta a E2)
	require.NoError(t, f.resolver.DeleteAssignment(ctx, a1.ID, "admin@empresa.com"))
	got, _ := f.requests.GetByID(ctx, r1.ID)
	assert.Equal(t, "E2", *got.AssignedEquipment)
	kept, _ := f.assigns.GetByID(ctx, a2.ID)
	require.NotNil(t, kept)
	assert.Nil(t, kept.ReplacedID)

	require.NoError(t, f.resolver.DeleteAssignment(ctx, a2.ID, "admin@empresa.com"))
	got, _ = f.requests.GetByID(ctx, r1.ID)
	assert.False(t, got.HasAssignedEquipment())

	assert.ErrorIs(t, f.resolver.DeleteAssignment(ctx, a2.ID, "admin@empresa.com"), domain.ErrNotFound)
}

func TestDeleteAssignment_CerradaConMismoEquipoConservaPuntero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1", "E2")
	r1 := f.request(t, "2024-01-01", "2024-01-31")
	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)
	a2, err := f.resolver.Replace(ctx, assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E2", EffectiveDate: day(t, "2024-01-10"), Reason: "falla"})
	require.NoError(t, err)
	_, err = f.resolver.Replace(ctx, assignment.ReplaceInput{AssignmentID: a2.ID, NewEquipmentCode: "E1", EffectiveDate: day(t, "2024-01-20"), Reason: "reparado"})
	require.NoError(t, err)

	// a1 es de E1 pero ya está cerrada: el puntero sigue en la activa
	require.NoError(t, f.resolver.DeleteAssignment(ctx, a1.ID, "admin@empresa.com"))
	got, err := f.requests.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	require.True(t, got.HasAssignedEquipment())
	assert.Equal(t, "E1", *got.AssignedEquipment)
}

func TestHistory_OrdenCronologico(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1", "E2")
	r1 := f.request(t, "2024-01-01", "2024-01-31")
	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)
	a2, err := f.resolver.Replace(ctx, assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E2", EffectiveDate: day(t, "2024-01-15"), Reason: "falla"})
	require.NoError(t, err)

	req, chain, err := f.resolver.History(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, r1.ID, req.ID)
	require.Len(t, chain, 2)
	assert.Equal(t, a1.ID, chain[0].ID)
	assert.Equal(t, a2.ID, chain[1].ID)

	_, _, err = f.resolver.History(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// failingCreate hace fallar la creación de asignaciones después de que el resolver ya cerró la anterior.
type failingCreate struct {
	*memory.AssignmentRepo
}

func (failingCreate) Create(context.Context, *entity.Assignment) error {
	return domain.StoreError("insert asignacion", errors.New("connection reset"))
}

type failingRunner struct {
	s *memory.Store
}

func (r failingRunner) Run(ctx context.Context, fn func(
	repository.EquipmentRepository, repository.RequestRepository, repository.AssignmentRepository,
) error) error {
	return fn(memory.NewEquipmentRepository(r.s), memory.NewRequestRepository(r.s),
		failingCreate{memory.NewAssignmentRepository(r.s)})
}

func (failingRunner) Atomic() bool { return false }

func TestReplace_FalloParcialSinTransaccion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1", "E2")
	r1 := f.request(t, "2024-01-01", "2024-01-31")
	a1, err := f.resolver.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.NoError(t, err)

	res := assignment.NewResolver(failingRunner{s: f.store}, memory.NewEquipmentRepository(f.store), f.requests, f.assigns, nil)
	_, err = res.Replace(ctx, assignment.ReplaceInput{AssignmentID: a1.ID, NewEquipmentCode: "E2", EffectiveDate: day(t, "2024-01-15"), Reason: "falla"})
	require.ErrorIs(t, err, domain.ErrPartialFailure)
	assert.ErrorIs(t, err, domain.ErrStore)

	old, _ := f.assigns.GetByID(ctx, a1.ID)
	assert.Equal(t, entity.AssignmentReplaced, old.Status, "el cierre ya quedó escrito")
}

func TestAssign_FalloAntesDeEscribirNoEsParcial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "E1")
	r1 := f.request(t, "2024-01-01", "2024-01-31")

	res := assignment.NewResolver(failingRunner{s: f.store}, memory.NewEquipmentRepository(f.store), f.requests, f.assigns, nil)
	_, err := res.Assign(ctx, assignment.AssignInput{RequestID: r1.ID, EquipmentCode: "E1"})
	require.ErrorIs(t, err, domain.ErrStore)
	assert.NotErrorIs(t, err, domain.ErrPartialFailure)
}
