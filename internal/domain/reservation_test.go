package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TableBookingService/pkg/ptr"
)

func TestReservation_Normalize(t *testing.T) {
	r := &Reservation{
		CustomerName:    "  Ana Lopez ",
		CustomerEmail:   " Ana.Lopez@Example.COM ",
		CustomerPhone:   " +34 600 000 000 ",
		SpecialRequests: ptr.Ptr("   "),
		TableNumbers:    []int{7, 2},
	}

	r.Normalize()

	assert.Equal(t, "Ana Lopez", r.CustomerName)
	assert.Equal(t, "ana.lopez@example.com", r.CustomerEmail)
	assert.Equal(t, "+34 600 000 000", r.CustomerPhone)
	assert.Nil(t, r.SpecialRequests)
	assert.Equal(t, []int{2, 7}, r.TableNumbers)
}

func TestReservation_Transitions(t *testing.T) {
	r := &Reservation{Status: StatusConfirmed}
	assert.NoError(t, r.CheckCancel())
	assert.NoError(t, r.CheckNoShow())

	r.Status = StatusCancelled
	assert.ErrorIs(t, r.CheckCancel(), ErrAlreadyCancelled)
	assert.ErrorIs(t, r.CheckNoShow(), ErrInvalidTransition)
	assert.True(t, r.IsTerminal())

	r.Status = StatusNoShow
	assert.ErrorIs(t, r.CheckCancel(), ErrInvalidTransition)
	assert.ErrorIs(t, r.CheckNoShow(), ErrInvalidTransition)
}

func TestParseReservationStatus(t *testing.T) {
	st, err := ParseReservationStatus("no-show")
	require.NoError(t, err)
	assert.Equal(t, StatusNoShow, st)

	_, err = ParseReservationStatus("pending")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConflictError(t *testing.T) {
	err := NewConflictError(ConflictTableReserved, []int{5, 2})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, []int{2, 5}, err.Tables)
	assert.Equal(t, "conflict: table already reserved (tables 2,5)", err.Error())
	assert.Equal(t, "table_reserved", ConflictMetricReason(err))
	assert.Equal(t, "other", ConflictMetricReason(ErrValidation))
}
