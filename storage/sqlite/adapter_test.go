package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darisishe/txorm/schema"
	"github.com/Darisishe/txorm/txerr"
	"github.com/Darisishe/txorm/value"
)

type widget struct {
	Name  string `db:"name,string"`
	Count int64  `db:"count,int64"`
}

func newTestAdapter(t *testing.T) (*Adapter, func()) {
	t.Helper()
	db, err := Dial(":memory:")
	require.NoError(t, err)

	sqlTx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	return New(sqlTx), func() { db.Close() }
}

func TestInsertSelectUpdateDeleteRoundTrip(t *testing.T) {
	a, cleanup := newTestAdapter(t)
	defer cleanup()
	ctx := context.Background()

	s, err := schema.Build[widget]("widgets")
	require.NoError(t, err)

	require.NoError(t, a.EnsureTable(ctx, s))
	// EnsureTable is idempotent.
	require.NoError(t, a.EnsureTable(ctx, s))

	id, err := a.InsertRow(ctx, s, schema.Row{
		"name":  value.String("gear"),
		"count": value.Int64(3),
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	row, err := a.SelectRow(ctx, s, id)
	require.NoError(t, err)
	name, err := row["name"].AsString()
	require.NoError(t, err)
	assert.Equal(t, "gear", name)
	count, err := row["count"].AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, a.UpdateRow(ctx, s, id, schema.Row{
		"name":  value.String("gear2"),
		"count": value.Int64(4),
	}))
	row, err = a.SelectRow(ctx, s, id)
	require.NoError(t, err)
	name, _ = row["name"].AsString()
	assert.Equal(t, "gear2", name)

	require.NoError(t, a.DeleteRow(ctx, s, id))
	_, err = a.SelectRow(ctx, s, id)
	require.Error(t, err)
	assert.True(t, txerr.Is(err, txerr.NotFound))
}

func TestSelectMissingRowIsNotFound(t *testing.T) {
	a, cleanup := newTestAdapter(t)
	defer cleanup()
	ctx := context.Background()

	s, err := schema.Build[widget]("widgets")
	require.NoError(t, err)
	require.NoError(t, a.EnsureTable(ctx, s))

	_, err = a.SelectRow(ctx, s, 999)
	require.Error(t, err)
	assert.True(t, txerr.Is(err, txerr.NotFound))
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	a, cleanup := newTestAdapter(t)
	defer cleanup()
	ctx := context.Background()

	s, err := schema.Build[widget]("widgets")
	require.NoError(t, err)
	require.NoError(t, a.EnsureTable(ctx, s))

	err = a.UpdateRow(ctx, s, 999, schema.Row{"name": value.String("x"), "count": value.Int64(1)})
	require.Error(t, err)
	assert.True(t, txerr.Is(err, txerr.NotFound))
}

func TestInsertMissingColumnIsMissingColumnError(t *testing.T) {
	a, cleanup := newTestAdapter(t)
	defer cleanup()
	ctx := context.Background()

	s, err := schema.Build[widget]("widgets")
	require.NoError(t, err)
	require.NoError(t, a.EnsureTable(ctx, s))

	_, err = a.InsertRow(ctx, s, schema.Row{"name": value.String("partial")})
	require.Error(t, err)
	assert.True(t, txerr.Is(err, txerr.MissingColumn))
}

func TestSecondCommitIsDriverError(t *testing.T) {
	a, cleanup := newTestAdapter(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, a.Commit(ctx))
	// A second Commit on an already-committed *sql.Tx surfaces as a
	// storage-kind error, not a panic.
	err := a.Commit(ctx)
	assert.Error(t, err)
}
