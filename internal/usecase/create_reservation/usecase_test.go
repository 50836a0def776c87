package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TableBookingService/internal/domain"
	reservationRepo "github.com/m04kA/TableBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/TableBookingService/internal/integrations/eventbus"
	"github.com/m04kA/TableBookingService/internal/testutil"
	"github.com/m04kA/TableBookingService/pkg/logger"
	"github.com/m04kA/TableBookingService/pkg/ptr"
	"github.com/m04kA/TableBookingService/pkg/types"
)

var (
	saturday = types.NewDate(2025, time.January, 11)
	at2200   = time.Date(2025, time.January, 11, 22, 0, 0, 0, time.UTC)
	at2330   = time.Date(2025, time.January, 11, 23, 30, 0, 0, time.UTC)
	at0000   = time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC)
)

type sequenceGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *sequenceGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("BK%016d", g.n), nil
}

type recorder struct {
	mu          sync.Mutex
	invalidated []types.Date
	events      []eventbus.EventType
	created     map[string]int
	conflicts   map[string]int
}

func newRecorder() *recorder {
	return &recorder{created: make(map[string]int), conflicts: make(map[string]int)}
}

func (r *recorder) InvalidateDate(_ context.Context, date types.Date) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, date)
}

func (r *recorder) Notify(eventType eventbus.EventType, _ *domain.Reservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *recorder) IncReservationCreated(mode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created[mode]++
}

func (r *recorder) IncAllocationConflict(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts[reason]++
}

type fixture struct {
	uc    *UseCase
	store *testutil.MemStore
	rec   *recorder
}

func newFixture(t *testing.T, policy domain.VenuePolicy) *fixture {
	t.Helper()
	store := testutil.NewMemStore()
	_, err := store.InsertBatch(context.Background(), policy.BuildSlots(saturday))
	require.NoError(t, err)

	rec := newRecorder()
	uc := NewUseCase(store, store, store, &sequenceGenerator{}, &policy, rec, rec, rec, logger.NewNop())
	return &fixture{uc: uc, store: store, rec: rec}
}

func request(start time.Time, party int, tables ...int) *Request {
	return &Request{
		StartInstant:  start,
		PartySize:     party,
		TableNumbers:  tables,
		CustomerName:  "Ann Lee",
		CustomerEmail: "ann@example.com",
		CustomerPhone: "+1 555 0100",
	}
}

func conflictTables(t *testing.T, err error) []int {
	t.Helper()
	var ce *domain.ConflictError
	require.True(t, errors.As(err, &ce), "expected ConflictError, got %v", err)
	return ce.Tables
}

func TestExecute_ExplicitTable(t *testing.T) {
	f := newFixture(t, domain.DefaultVenuePolicy())

	req := request(at2200, 3, 3)
	req.CustomerEmail = "  Ann@Example.COM "
	req.SpecialRequests = ptr.Ptr("  window seat  ")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "BK0000000000000001", resp.BookingID)
	assert.Equal(t, []int{3}, resp.TableNumbers)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, saturday, resp.ServiceDate)
	assert.Equal(t, "22:00", resp.SlotTime.String())
	assert.Equal(t, 90, resp.DurationMinutes)

	stored, err := f.store.GetByBookingID(context.Background(), resp.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", stored.CustomerEmail)
	assert.Equal(t, "window seat", *stored.SpecialRequests)

	tables, err := f.store.ReservedTables(context.Background(), at2200)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, tables)

	assert.Equal(t, []types.Date{saturday}, f.rec.invalidated)
	assert.Equal(t, []eventbus.EventType{eventbus.EventReservationConfirmed}, f.rec.events)
	assert.Equal(t, 1, f.rec.created["explicit"])
}

func TestExecute_AutoAssign(t *testing.T) {
	f := newFixture(t, domain.DefaultVenuePolicy())
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, request(at2200, 2))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, resp.TableNumbers)

	resp, err = f.uc.Execute(ctx, request(at2200, 9))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, resp.TableNumbers)

	assert.Equal(t, 2, f.rec.created["auto"])
}

func TestExecute_ConcurrentSameTable(t *testing.T) {
	f := newFixture(t, domain.DefaultVenuePolicy())

	const callers = 2
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), request(at2200, 4, 5))
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, []int{5}, conflictTables(t, err))
		conflicted++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
	assert.Equal(t, 1, f.store.ReservationCount())
	assert.Equal(t, 1, f.rec.conflicts["table_reserved"])
}

func TestExecute_TableCountMismatch(t *testing.T) {
	f := newFixture(t, domain.DefaultVenuePolicy())

	_, err := f.uc.Execute(context.Background(), request(at2200, 9, 1, 2))
	assert.ErrorIs(t, err, domain.ErrTableCountMismatch)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, f.store.TxCount)
	assert.Equal(t, 0, f.store.ReservationCount())
}

func TestExecute_ValidationOrder(t *testing.T) {
	f := newFixture(t, domain.DefaultVenuePolicy())

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{name: "missing start", mutate: func(r *Request) { r.StartInstant = time.Time{} }, wantErr: domain.ErrMissingField},
		{name: "missing party size", mutate: func(r *Request) { r.PartySize = 0 }, wantErr: domain.ErrMissingField},
		{
			name:    "missing name before bad party size",
			mutate:  func(r *Request) { r.CustomerName = "   "; r.PartySize = 99 },
			wantErr: domain.ErrMissingField,
		},
		{name: "missing email", mutate: func(r *Request) { r.CustomerEmail = "" }, wantErr: domain.ErrMissingField},
		{name: "missing phone", mutate: func(r *Request) { r.CustomerPhone = "" }, wantErr: domain.ErrMissingField},
		{
			name:    "name too long",
			mutate:  func(r *Request) { r.CustomerName = strings.Repeat("a", 101) },
			wantErr: domain.ErrFieldTooLong,
		},
		{name: "negative party", mutate: func(r *Request) { r.PartySize = -1 }, wantErr: domain.ErrPartySize},
		{name: "party over cap", mutate: func(r *Request) { r.PartySize = 41 }, wantErr: domain.ErrPartySize},
		{name: "unknown table", mutate: func(r *Request) { r.TableNumbers = []int{11} }, wantErr: domain.ErrInvalidTable},
		{name: "duplicate table", mutate: func(r *Request) { r.PartySize = 6; r.TableNumbers = []int{2, 2} }, wantErr: domain.ErrInvalidTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(at2200, 2)
			tt.mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Equal(t, 0, f.store.ReservationCount())
}

func TestExecute_InvalidSlot(t *testing.T) {
	f := newFixture(t, domain.DefaultVenuePolicy())
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(at2200.Add(15*time.Minute), 2))
	assert.ErrorIs(t, err, domain.ErrInvalidSlot)

	_, err = f.store.SetActive(ctx, saturday, types.MustTimeString("22:00"), false)
	require.NoError(t, err)
	_, err = f.uc.Execute(ctx, request(at2200, 2))
	assert.ErrorIs(t, err, ErrSlotInactive)
	assert.ErrorIs(t, err, domain.ErrInvalidSlot)

	policy := domain.DefaultVenuePolicy()
	policy.ConflictScope = domain.ScopeExactSlot
	exact := newFixture(t, policy)
	_, err = exact.uc.Execute(ctx, request(at2200.Add(time.Hour), 2))
	assert.ErrorIs(t, err, ErrSlotNotFound)

	assert.Equal(t, 0, f.store.ReservationCount())
}

func TestExecute_OverlapAcrossMidnight(t *testing.T) {
	f := newFixture(t, domain.DefaultVenuePolicy())
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(at2330, 4, 5))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(at0000, 4, 5))
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, []int{5}, conflictTables(t, err))

	// 22:00 только соприкасается с 23:30
	_, err = f.uc.Execute(ctx, request(at2200, 4, 5))
	require.NoError(t, err)

	// автоназначение обходит занятый стол
	resp, err := f.uc.Execute(ctx, request(at0000, 4))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, resp.TableNumbers)
}

func TestExecute_ExactSlotScopeIgnoresNeighbours(t *testing.T) {
	policy := domain.DefaultVenuePolicy()
	policy.ConflictScope = domain.ScopeExactSlot
	f := newFixture(t, policy)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(at2330, 4, 5))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(at0000, 4, 5))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(at2330, 4, 5))
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestExecute_InsufficientCapacity(t *testing.T) {
	f := newFixture(t, domain.DefaultVenuePolicy())
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(at2200, 40))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(at2200, 1))
	require.ErrorIs(t, err, domain.ErrConflict)

	var ce *domain.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, domain.ConflictInsufficientCapacity, ce.Reason)
	assert.Equal(t, 1, f.rec.conflicts["insufficient_capacity"])
}

func TestExecute_ServicePeriodLimitsCapacity(t *testing.T) {
	policy := domain.DefaultVenuePolicy()
	policy.ServicePeriods = []domain.ServicePeriod{{
		Name:   "late",
		Start:  types.MustTimeString("23:00"),
		End:    types.MustTimeString("02:00"),
		Factor: 0.5,
	}}
	f := newFixture(t, policy)
	ctx := context.Background()

	// 5 столов занято, floor(5 * 0.5) = 2 < 3
	_, err := f.uc.Execute(ctx, request(at2330, 20, 1, 2, 3, 4, 5))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(at2330, 9))
	require.ErrorIs(t, err, domain.ErrConflict)

	resp, err := f.uc.Execute(ctx, request(at2330, 8))
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7}, resp.TableNumbers)
}

func TestExecute_CountMode(t *testing.T) {
	policy := domain.DefaultVenuePolicy()
	policy.AddressingMode = domain.AddressingCount
	policy.MaxPartySize = 4
	f := newFixture(t, policy)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		resp, err := f.uc.Execute(ctx, request(at2200, 4))
		require.NoError(t, err)
		assert.Empty(t, resp.TableNumbers)
	}

	_, err := f.uc.Execute(ctx, request(at2200, 2))
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.Execute(ctx, request(at2330, 2, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidTable)

	_, err = f.uc.Execute(ctx, request(at2330, 5))
	assert.ErrorIs(t, err, domain.ErrPartySize)

	assert.Equal(t, 10, f.rec.created["count"])
}

func TestExecute_StoreLevelGuard(t *testing.T) {
	f := newFixture(t, domain.DefaultVenuePolicy())
	f.store.CreateErr = fmt.Errorf("%w: key (start_instant, table_number)", reservationRepo.ErrTableAlreadyClaimed)

	_, err := f.uc.Execute(context.Background(), request(at2200, 4, 7))
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, []int{7}, conflictTables(t, err))
	assert.Empty(t, f.rec.events)
}

func TestExecute_PersistenceFailureRollsBack(t *testing.T) {
	f := newFixture(t, domain.DefaultVenuePolicy())
	f.store.CreateErr = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), request(at2200, 4, 7))
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 0, f.store.ReservationCount())
	assert.Empty(t, f.rec.invalidated)
	assert.Empty(t, f.rec.created)
}
