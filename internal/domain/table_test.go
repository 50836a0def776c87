package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredTables(t *testing.T) {
	tests := []struct {
		partySize int
		want      int
	}{
		{partySize: 1, want: 1},
		{partySize: 4, want: 1},
		{partySize: 5, want: 2},
		{partySize: 9, want: 3},
		{partySize: 40, want: 10},
		{partySize: 0, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RequiredTables(tt.partySize, 4), "party of %d", tt.partySize)
	}
}

func TestSuitableTables(t *testing.T) {
	pool := []Table{
		{ID: 1, Capacity: 2, Location: "Window"},
		{ID: 2, Capacity: 4, Location: "Main Floor"},
		{ID: 3, Capacity: 6, Location: "Main Floor"},
		{ID: 4, Capacity: 2, Location: "Patio"},
		{ID: 5, Capacity: 4, Location: "Private"},
		{ID: 6, Capacity: 8, Location: "Private"},
	}

	assert.Equal(t, []int{1, 4, 2, 5}, TableIDs(SuitableTables(pool, 2)))
	assert.Equal(t, []int{2, 5, 3}, TableIDs(SuitableTables(pool, 4)))
	assert.Equal(t, []int{6}, TableIDs(SuitableTables(pool, 7)))
	assert.Empty(t, SuitableTables(pool, 9))
}
