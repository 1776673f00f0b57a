package txorm

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darisishe/txorm/schema"
	"github.com/Darisishe/txorm/txerr"
	"github.com/Darisishe/txorm/value"
)

type user struct {
	Name    string  `db:"name,string"`
	Picture []byte  `db:"picture,bytes"`
	Visits  int64   `db:"visits,int64"`
	Balance float64 `db:"balance,float64"`
	IsAdmin bool    `db:"is_admin,bool"`
}

func newUser(v user) *schema.Basic[user] {
	return &schema.Basic[user]{Value: v}
}

func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "txorm-test.db")
}

// TestCreateReadCommitRoundTrip is S1.
func TestCreateReadCommitRoundTrip(t *testing.T) {
	path := tempDBPath(t)
	conn, err := Open(path)
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	tx, err := conn.Begin(ctx)
	require.NoError(t, err)

	h, err := Create(ctx, tx, newUser(user{Name: "a", Picture: []byte{1, 2, 3}, Visits: 7, Balance: 1.5, IsAdmin: true}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), h.ID())

	require.NoError(t, tx.Commit(ctx))

	tx2, err := conn.Begin(ctx)
	require.NoError(t, err)
	defer tx2.Rollback(ctx)

	h2, err := Get[*schema.Basic[user]](ctx, tx2, 1)
	require.NoError(t, err)
	ref := h2.Ref()
	defer ref.Close()
	assert.Equal(t, user{Name: "a", Picture: []byte{1, 2, 3}, Visits: 7, Balance: 1.5, IsAdmin: true}, ref.Get().Value)
}

// TestAliasCoherence is S2.
func TestAliasCoherence(t *testing.T) {
	conn, err := Open(tempDBPath(t))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	tx, err := conn.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	h, err := Create(ctx, tx, newUser(user{Name: "a"}))
	require.NoError(t, err)

	h1, err := Get[*schema.Basic[user]](ctx, tx, h.ID())
	require.NoError(t, err)
	h2, err := Get[*schema.Basic[user]](ctx, tx, h.ID())
	require.NoError(t, err)

	mut := h1.RefMut()
	mut.Get().Value.Balance = 250.0
	mut.Close()

	ref := h2.Ref()
	defer ref.Close()
	assert.Equal(t, 250.0, ref.Get().Value.Balance)
}

// TestBorrowPanic is S3.
func TestBorrowPanic(t *testing.T) {
	conn, err := Open(tempDBPath(t))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	tx, err := conn.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	h, err := Create(ctx, tx, newUser(user{Name: "a"}))
	require.NoError(t, err)

	ref := h.Ref()
	assert.Panics(t, func() { h.RefMut() })
	ref.Close()

	mut := h.RefMut()
	assert.Panics(t, func() { h.Ref() })
	mut.Close()
}

// TestDeleteSemantics is S4.
func TestDeleteSemantics(t *testing.T) {
	conn, err := Open(tempDBPath(t))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	tx, err := conn.Begin(ctx)
	require.NoError(t, err)

	h1, err := Create(ctx, tx, newUser(user{Name: "a"}))
	require.NoError(t, err)
	id := h1.ID()

	h2, err := Get[*schema.Basic[user]](ctx, tx, id)
	require.NoError(t, err)

	h1.Delete()
	assert.Panics(t, func() { h2.Ref() })

	_, err = Get[*schema.Basic[user]](ctx, tx, id)
	require.Error(t, err)
	assert.True(t, txerr.Is(err, txerr.NotFound))

	require.NoError(t, tx.Commit(ctx))

	tx2, err := conn.Begin(ctx)
	require.NoError(t, err)
	defer tx2.Rollback(ctx)
	_, err = Get[*schema.Basic[user]](ctx, tx2, id)
	require.Error(t, err)
	assert.True(t, txerr.Is(err, txerr.NotFound))
}

type strictRecord struct {
	Name string `db:"name,string"`
	Note string `db:"note,string"`
}

// narrowRecord is a hand-rolled schema.Object that only ever touches the
// "name" column, used to populate a strictRecord table with a physical
// shape narrower than strictRecord's own derived Schema.
type narrowRecord struct {
	name string
	s    *schema.Schema
}

func (n *narrowRecord) Schema() *schema.Schema { return n.s }

func (n *narrowRecord) Serialize() (schema.Row, error) {
	return schema.Row{"name": value.String(n.name)}, nil
}

func (n *narrowRecord) Deserialize(schema.Row) error { return nil }

// TestMissingColumn is S5: a table pre-created with a strict subset of
// the record's declared columns surfaces MissingColumn on Get.
func TestMissingColumn(t *testing.T) {
	path := tempDBPath(t)
	conn, err := Open(path)
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()

	s, err := schema.Build[strictRecord]("")
	require.NoError(t, err)

	tx, err := conn.Begin(ctx)
	require.NoError(t, err)
	// Create the table with only the "name" column, narrower than
	// strictRecord's own two-column Schema.
	narrowSchema := schema.New[strictRecord](s.TypeName, s.TableName, s.Fields[:1])
	require.NoError(t, EnsureTable(ctx, tx, narrowSchema))
	require.NoError(t, tx.Commit(ctx))

	tx2, err := conn.Begin(ctx)
	require.NoError(t, err)

	h, err := Create(ctx, tx2, &narrowRecord{name: "solo", s: narrowSchema})
	require.NoError(t, err)
	id := h.ID()
	require.NoError(t, tx2.Commit(ctx))

	// A fresh transaction has an empty cache, so this Get goes straight to
	// storage instead of finding the row that Create just cached.
	tx3, err := conn.Begin(ctx)
	require.NoError(t, err)
	defer tx3.Rollback(ctx)

	_, err = Get[*schema.Basic[strictRecord]](ctx, tx3, id)
	require.Error(t, err)
	assert.True(t, txerr.Is(err, txerr.MissingColumn))
}

// TestLockConflict is S6: two connections to the same file, each with an
// open write transaction; the second one's write surfaces LockConflict.
func TestLockConflict(t *testing.T) {
	path := tempDBPath(t)

	// Seed the file and its table before contending over it.
	seed, err := Open(path)
	require.NoError(t, err)
	ctx := context.Background()
	seedTx, err := seed.Begin(ctx)
	require.NoError(t, err)
	_, err = Create(ctx, seedTx, newUser(user{Name: "seed"}))
	require.NoError(t, err)
	require.NoError(t, seedTx.Commit(ctx))
	require.NoError(t, seed.Close())

	connA, err := Open(path, WithBusyTimeout(50))
	require.NoError(t, err)
	defer connA.Close()
	connB, err := Open(path, WithBusyTimeout(50))
	require.NoError(t, err)
	defer connB.Close()

	txA, err := connA.Begin(ctx)
	require.NoError(t, err)
	_, err = Create(ctx, txA, newUser(user{Name: "a"}))
	require.NoError(t, err)

	txB, err := connB.Begin(ctx)
	require.NoError(t, err)

	// txA holds the write lock from its insert, so txB's insert waits out
	// the 50ms busy timeout and fails.
	_, err = Create(ctx, txB, newUser(user{Name: "b"}))
	require.Error(t, err)
	assert.True(t, txerr.Is(err, txerr.LockConflict))
	_ = txB.Rollback(ctx)
	_ = txA.Rollback(ctx)
}

func TestDoubleBeginPanics(t *testing.T) {
	conn, err := Open(tempDBPath(t))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	tx, err := conn.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	assert.Panics(t, func() { conn.Begin(ctx) })
}

func TestUseAfterCommitPanics(t *testing.T) {
	conn, err := Open(tempDBPath(t))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	tx, err := conn.Begin(ctx)
	require.NoError(t, err)

	h, err := Create(ctx, tx, newUser(user{Name: "a"}))
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Panics(t, func() { h.ID() })
	assert.Panics(t, func() { tx.Commit(ctx) })
}
