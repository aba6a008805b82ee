package despacho

import (
	"context"
	"sort"
	"testing"
	"time"

	"comexa/internal/core/apperror"
	"comexa/internal/core/id"
	"comexa/internal/core/numerador"
	"comexa/internal/domain"
)

var (
	testDespachanteID = id.MustParse("0195a000-0000-7000-8000-000000000001")
	testClienteID     = id.MustParse("0195a000-0000-7000-8000-000000000002")
)

// fakeTxManager runs fn directly, no transaction semantics.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeRepo is an in-memory despacho store keyed by id, with the same
// uniqueness contract the real store enforces on numero_despacho.
type fakeRepo struct {
	rows map[id.ID]*Despacho

	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[id.ID]*Despacho{}}
}

func (r *fakeRepo) Create(ctx context.Context, d *Despacho) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.rows {
		if existing.NumeroDespacho == d.NumeroDespacho {
			return apperror.NewAllocationConflict(d.NumeroDespacho)
		}
	}
	clone := *d
	r.rows[d.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, despachoID id.ID) (*Despacho, error) {
	d, ok := r.rows[despachoID]
	if !ok {
		return nil, apperror.NewNotFound("despacho", despachoID.String())
	}
	clone := *d
	return &clone, nil
}

func (r *fakeRepo) GetByNumero(ctx context.Context, numero string) (*Despacho, error) {
	for _, d := range r.rows {
		if d.NumeroDespacho == numero {
			clone := *d
			return &clone, nil
		}
	}
	return nil, apperror.NewNotFound("despacho", numero)
}

func (r *fakeRepo) Update(ctx context.Context, d *Despacho) error {
	if _, ok := r.rows[d.ID]; !ok {
		return apperror.NewNotFound("despacho", d.ID.String())
	}
	clone := *d
	r.rows[d.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, despachoID id.ID) error {
	if _, ok := r.rows[despachoID]; !ok {
		return apperror.NewNotFound("despacho", despachoID.String())
	}
	delete(r.rows, despachoID)
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Despacho], error) {
	var result domain.ListResult[*Despacho]
	for _, d := range r.rows {
		clone := *d
		result.Items = append(result.Items, &clone)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

// seed inserts a row in the given state, bypassing the service.
func (r *fakeRepo) seed(estado Estado, numero string) id.ID {
	d := New(TipoImportacion, testDespachanteID, testClienteID)
	d.NumeroDespacho = numero
	d.Estado = estado
	r.rows[d.ID] = d
	return d.ID
}

func newTestService(repo *fakeRepo, alloc numerador.Allocator) *Service {
	return NewService(repo, alloc, fakeTxManager{}, nil)
}

func validCommand() CreateDespacho {
	return CreateDespacho{
		Tipo:          TipoImportacion,
		DespachanteID: testDespachanteID,
		ClienteID:     testClienteID,
		Moneda:        "USD",
	}
}

func TestCreateAssignsSequentialNumeros(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &numerador.MockAllocator{})
	ctx := context.Background()

	year := time.Now().Year()
	for i := 1; i <= 3; i++ {
		d, err := svc.Create(ctx, validCommand())
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		want := numerador.Format(year, i)
		if d.NumeroDespacho != want {
			t.Errorf("numero = %q, want %q", d.NumeroDespacho, want)
		}
		if d.Estado != EstadoEnPreparacion {
			t.Errorf("estado = %s, want en_preparacion", d.Estado)
		}
	}
}

func TestCreateDerivesFromLargestSuffix(t *testing.T) {
	// Gaps in the persisted sequence never get refilled: the next
	// numero always derives from the maximum.
	repo := newFakeRepo()
	year := time.Now().Year()
	for _, suffix := range []int{1, 2, 5} {
		repo.seed(EstadoEnPreparacion, numerador.Format(year, suffix))
	}

	alloc := &numerador.MockAllocator{
		NextFunc: func(ctx context.Context, y int) (string, error) {
			max := 0
			for _, d := range repo.rows {
				if s, ok := numerador.ParseSuffix(d.NumeroDespacho); ok && s > max {
					max = s
				}
			}
			return numerador.Format(y, max+1), nil
		},
	}

	d, err := newTestService(repo, alloc).Create(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if want := numerador.Format(year, 6); d.NumeroDespacho != want {
		t.Errorf("numero = %q, want %q", d.NumeroDespacho, want)
	}
}

func TestCreateRetriesOnCollision(t *testing.T) {
	repo := newFakeRepo()
	year := time.Now().Year()
	taken := numerador.Format(year, 1)
	repo.seed(EstadoEnPreparacion, taken)

	// First attempt returns the taken numero, then the allocator
	// catches up, as the real max-suffix scan would after a collision.
	calls := 0
	alloc := &numerador.MockAllocator{
		NextFunc: func(ctx context.Context, y int) (string, error) {
			calls++
			if calls == 1 {
				return taken, nil
			}
			return numerador.Format(y, calls), nil
		},
	}

	d, err := newTestService(repo, alloc).Create(context.Background(), validCommand())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.NumeroDespacho == taken {
		t.Errorf("numero %q collides with seeded row", d.NumeroDespacho)
	}
	if calls != 2 {
		t.Errorf("allocator called %d times, want 2", calls)
	}
}

func TestCreateExhaustsRetryBudget(t *testing.T) {
	repo := newFakeRepo()
	year := time.Now().Year()
	taken := numerador.Format(year, 1)
	repo.seed(EstadoEnPreparacion, taken)

	// Allocator keeps proposing the taken numero, as under a stale
	// read or a pathological race.
	calls := 0
	alloc := &numerador.MockAllocator{
		NextFunc: func(ctx context.Context, y int) (string, error) {
			calls++
			return taken, nil
		},
	}

	_, err := newTestService(repo, alloc).Create(context.Background(), validCommand())
	if err == nil {
		t.Fatal("expected allocation exhaustion")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeAllocationExhausted {
		t.Fatalf("error = %v, want ALLOCATION_EXHAUSTED", err)
	}
	if calls != DefaultMaxAllocAttempts {
		t.Errorf("allocator called %d times, want %d", calls, DefaultMaxAllocAttempts)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), &numerador.MockAllocator{})
	ctx := context.Background()

	cmd := validCommand()
	cmd.Tipo = "transito"
	if _, err := svc.Create(ctx, cmd); !isValidation(err) {
		t.Errorf("bad tipo: err = %v, want VALIDATION_ERROR", err)
	}

	cmd = validCommand()
	cmd.ClienteID = id.Nil()
	if _, err := svc.Create(ctx, cmd); !isValidation(err) {
		t.Errorf("nil cliente: err = %v, want VALIDATION_ERROR", err)
	}
}

func isValidation(err error) bool {
	appErr, ok := apperror.AsAppError(err)
	return ok && appErr.Code == apperror.CodeValidation
}

func TestTransitionPersistsAndStamps(t *testing.T) {
	repo := newFakeRepo()
	despachoID := repo.seed(EstadoEnPreparacion, "DESP-2025-0001")
	svc := newTestService(repo, &numerador.MockAllocator{})

	d, err := svc.Transition(context.Background(), despachoID, EstadoPresentado)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if d.Estado != EstadoPresentado {
		t.Errorf("estado = %s, want presentado", d.Estado)
	}
	if d.FechaPresentacion == nil {
		t.Error("fecha_presentacion not stamped")
	}

	stored, _ := repo.GetByID(context.Background(), despachoID)
	if stored.Estado != EstadoPresentado {
		t.Errorf("stored estado = %s, transition not persisted", stored.Estado)
	}
}

func TestTransitionIllegalLeavesRowUntouched(t *testing.T) {
	repo := newFakeRepo()
	despachoID := repo.seed(EstadoEnPreparacion, "DESP-2025-0001")
	svc := newTestService(repo, &numerador.MockAllocator{})

	_, err := svc.Transition(context.Background(), despachoID, EstadoLiberado)
	if !apperror.IsInvalidTransition(err) {
		t.Fatalf("err = %v, want INVALID_TRANSITION", err)
	}

	stored, _ := repo.GetByID(context.Background(), despachoID)
	if stored.Estado != EstadoEnPreparacion {
		t.Errorf("stored estado = %s, row must be untouched", stored.Estado)
	}
}

func TestBulkTransitionPartialSuccess(t *testing.T) {
	repo := newFakeRepo()
	legal := repo.seed(EstadoCanalVerde, "DESP-2025-0001")
	illegal := repo.seed(EstadoPresentado, "DESP-2025-0002")
	terminal := repo.seed(EstadoLiberado, "DESP-2025-0003")
	svc := newTestService(repo, &numerador.MockAllocator{})

	result, err := svc.BulkTransition(context.Background(),
		[]id.ID{legal, illegal, terminal}, EstadoLiberado)
	if err != nil {
		t.Fatalf("bulk transition: %v", err)
	}

	if result.Actualizados != 1 {
		t.Errorf("actualizados = %d, want 1", result.Actualizados)
	}
	if result.Omitidos != 2 {
		t.Errorf("omitidos = %d, want 2", result.Omitidos)
	}

	wantSkipped := []string{illegal.String(), terminal.String()}
	gotSkipped := make([]string, len(result.OmitidosIDs))
	for i, skipped := range result.OmitidosIDs {
		gotSkipped[i] = skipped.String()
	}
	sort.Strings(wantSkipped)
	sort.Strings(gotSkipped)
	if len(gotSkipped) != 2 || gotSkipped[0] != wantSkipped[0] || gotSkipped[1] != wantSkipped[1] {
		t.Errorf("omitidosIds = %v, want %v", gotSkipped, wantSkipped)
	}

	stored, _ := repo.GetByID(context.Background(), legal)
	if stored.Estado != EstadoLiberado {
		t.Errorf("legal row estado = %s, want liberado", stored.Estado)
	}
	stored, _ = repo.GetByID(context.Background(), illegal)
	if stored.Estado != EstadoPresentado {
		t.Errorf("illegal row estado = %s, must be untouched", stored.Estado)
	}
}

func TestBulkTransitionMissingRowCountsAsSkipped(t *testing.T) {
	repo := newFakeRepo()
	existing := repo.seed(EstadoCanalVerde, "DESP-2025-0001")
	missing := id.New()
	svc := newTestService(repo, &numerador.MockAllocator{})

	result, err := svc.BulkTransition(context.Background(),
		[]id.ID{existing, missing}, EstadoLiberado)
	if err != nil {
		t.Fatalf("bulk transition: %v", err)
	}
	if result.Actualizados != 1 || result.Omitidos != 1 {
		t.Errorf("result = %+v, want 1 actualizado 1 omitido", result)
	}
}

func TestSetPrioridad(t *testing.T) {
	repo := newFakeRepo()
	despachoID := repo.seed(EstadoEnPreparacion, "DESP-2025-0001")
	svc := newTestService(repo, &numerador.MockAllocator{})
	ctx := context.Background()

	d, err := svc.SetPrioridad(ctx, despachoID, PrioridadUrgente)
	if err != nil {
		t.Fatalf("set prioridad: %v", err)
	}
	if d.Prioridad != PrioridadUrgente {
		t.Errorf("prioridad = %s, want urgente", d.Prioridad)
	}
	if d.Estado != EstadoEnPreparacion {
		t.Errorf("estado changed to %s, prioridad must not touch lifecycle", d.Estado)
	}

	if _, err := svc.SetPrioridad(ctx, despachoID, Prioridad("critica")); !isValidation(err) {
		t.Errorf("bad prioridad: err = %v, want VALIDATION_ERROR", err)
	}
}
