package migrations

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor records the statements it is asked to run
type fakeExecutor struct {
	statements []string
	args       [][]any
	err        error
}

func (f *fakeExecutor) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	f.statements = append(f.statements, sql)
	f.args = append(f.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestRecordMigrationWritesThroughGivenExecutor(t *testing.T) {
	ex := &fakeExecutor{}

	require.NoError(t, recordMigration(context.Background(), ex, "001"))

	require.Len(t, ex.statements, 1)
	assert.Contains(t, ex.statements[0], "INSERT INTO schema_migrations")
	require.NotEmpty(t, ex.args[0])
	assert.Equal(t, "001", ex.args[0][0])
}

func TestRecordMigrationPropagatesError(t *testing.T) {
	ex := &fakeExecutor{err: errors.New("connection closed")}

	err := recordMigration(context.Background(), ex, "001")
	assert.Error(t, err)
}
