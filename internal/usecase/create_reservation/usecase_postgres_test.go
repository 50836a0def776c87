package create_reservation_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TableBookingService/internal/domain"
	reservationRepo "github.com/m04kA/TableBookingService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/TableBookingService/internal/infra/storage/slot"
	"github.com/m04kA/TableBookingService/internal/testutil"
	"github.com/m04kA/TableBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/TableBookingService/pkg/bookingid"
	"github.com/m04kA/TableBookingService/pkg/dbmetrics"
	"github.com/m04kA/TableBookingService/pkg/logger"
	"github.com/m04kA/TableBookingService/pkg/txmanager"
	"github.com/m04kA/TableBookingService/pkg/types"
)

// параллельных размещений меньше, чем соединений тестового пула (одно держит advisory lock)
const parallelRequests = 6

var (
	pgSaturday = types.NewDate(2025, time.January, 11)
	pgAt2330   = time.Date(2025, time.January, 11, 23, 30, 0, 0, time.UTC)
	pgAt0000   = time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC)
)

func newPostgresUseCase(t *testing.T, policy *domain.VenuePolicy) *create_reservation.UseCase {
	t.Helper()
	ctx := context.Background()

	db := testutil.NewTestDB(t)
	testutil.ApplyMigrations(t, ctx, db)
	testutil.TruncateAll(t, ctx, db)

	wrapped := dbmetrics.Wrap(db, nil)
	slots := slotRepo.NewRepository(wrapped)
	_, err := slots.InsertBatch(ctx, policy.BuildSlots(pgSaturday))
	require.NoError(t, err)

	return create_reservation.NewUseCase(
		slots,
		reservationRepo.NewRepository(wrapped),
		txmanager.NewTransactionManager(wrapped),
		bookingid.NewGenerator(),
		policy,
		nil,
		nil,
		nil,
		logger.NewNop(),
	)
}

// runParallel запускает размещения одновременно и возвращает ошибки всех запросов
func runParallel(t *testing.T, uc *create_reservation.UseCase, starts []time.Time) []error {
	t.Helper()

	var (
		wg    sync.WaitGroup
		ready = make(chan struct{})
		errs  = make([]error, len(starts))
	)

	for i, start := range starts {
		wg.Add(1)
		go func(i int, start time.Time) {
			defer wg.Done()
			<-ready
			_, errs[i] = uc.Execute(context.Background(), &create_reservation.Request{
				StartInstant:  start,
				PartySize:     2,
				TableNumbers:  []int{5},
				CustomerName:  fmt.Sprintf("Guest %d", i),
				CustomerEmail: fmt.Sprintf("guest%d@example.com", i),
				CustomerPhone: "+1 555 0100",
			})
		}(i, start)
	}

	close(ready)
	wg.Wait()
	return errs
}

func assertSingleWinner(t *testing.T, errs []error) {
	t.Helper()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var ce *domain.ConflictError
		require.True(t, errors.As(err, &ce), "unexpected error: %v", err)
		assert.Equal(t, domain.ConflictTableReserved, ce.Reason)
		assert.Equal(t, []int{5}, ce.Tables)
	}
	assert.Equal(t, 1, succeeded)
}

func TestExecute_Postgres_ParallelSameTable(t *testing.T) {
	policy := domain.DefaultVenuePolicy()
	uc := newPostgresUseCase(t, &policy)

	starts := make([]time.Time, parallelRequests)
	for i := range starts {
		starts[i] = pgAt2330
	}

	assertSingleWinner(t, runParallel(t, uc, starts))
}

func TestExecute_Postgres_ParallelOverlappingSlots(t *testing.T) {
	policy := domain.DefaultVenuePolicy()
	uc := newPostgresUseCase(t, &policy)

	// 23:30 и 00:00 пересекаются, но у них разное время начала: уникальный индекс занятых столов их не разводит
	starts := make([]time.Time, parallelRequests)
	for i := range starts {
		if i%2 == 0 {
			starts[i] = pgAt2330
		} else {
			starts[i] = pgAt0000
		}
	}

	assertSingleWinner(t, runParallel(t, uc, starts))
}
