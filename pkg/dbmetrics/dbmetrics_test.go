package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

func TestGetExecutor(t *testing.T) {
	db := &sql.DB{}

	assert.False(t, IsInTransaction(context.Background()))
	assert.Equal(t, DBExecutor(db), GetExecutor(context.Background(), db))

	tx := fakeTx{}
	ctx := WithTx(context.Background(), tx)

	assert.True(t, IsInTransaction(ctx))
	assert.Equal(t, DBExecutor(tx), GetExecutor(ctx, db))
}

func TestOperation(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"SELECT id FROM time_slots", "SELECT"},
		{"  insert INTO reservations", "INSERT"},
		{"UPDATE reservations SET status = $1", "UPDATE"},
		{"\nWITH x AS (SELECT 1) SELECT * FROM x", "WITH"},
		{"SELECT pg_advisory_lock($1)", "SELECT"},
		{"CREATE TABLE x", "OTHER"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, operation(tt.query))
		})
	}
}
