package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// txCounters records what the driver saw so tests can assert that a rollback
// or commit actually reached the underlying transaction
type txCounters struct {
	begins    int
	commits   int
	rollbacks int
}

type fakeDriver struct {
	counters *txCounters
}

func (d *fakeDriver) Open(name string) (driver.Conn, error) {
	return &fakeConn{counters: d.counters}, nil
}

type fakeConn struct {
	counters *txCounters
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	c.counters.begins++
	return &fakeTx{counters: c.counters}, nil
}

type fakeTx struct {
	counters *txCounters
}

func (t *fakeTx) Commit() error {
	t.counters.commits++
	return nil
}

func (t *fakeTx) Rollback() error {
	t.counters.rollbacks++
	return nil
}

var fakeTxCounters = &txCounters{}

func init() {
	sql.Register("txfake", &fakeDriver{counters: fakeTxCounters})
}

func testLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func newFakeDB(t *testing.T) DB {
	sqlDB, err := sql.Open("txfake", "")
	require.NoError(t, err)
	return NewDatabaseInstance(sqlx.NewDb(sqlDB, "postgres"), testLogger())
}

// The opener of a transaction must be able to release it by rolling back with
// the ctx it held before GetTx; otherwise an error path would pin the pooled
// connection forever.
func TestRollbackWithCallerContextReleasesTx(t *testing.T) {
	db := newFakeDB(t)
	ctx := context.Background()

	before := fakeTxCounters.rollbacks
	_, tx, err := db.GetTx(ctx, nil)
	require.NoError(t, err)
	require.True(t, tx.IsOpen())

	require.NoError(t, tx.Rollback(ctx))
	assert.False(t, tx.IsOpen())
	assert.Equal(t, before+1, fakeTxCounters.rollbacks)
}

// A nested GetTx reuses the transaction from the ctx, and its rollback is a
// no-op: only the opener closes the transaction.
func TestNestedRollbackLeavesOuterTxOpen(t *testing.T) {
	db := newFakeDB(t)
	ctx := context.Background()

	before := *fakeTxCounters
	ctxTx, outer, err := db.GetTx(ctx, nil)
	require.NoError(t, err)

	_, nested, err := db.GetTx(ctxTx, nil)
	require.NoError(t, err)
	assert.Equal(t, before.begins+1, fakeTxCounters.begins)

	require.NoError(t, nested.Rollback(ctxTx))
	assert.True(t, outer.IsOpen())
	assert.Equal(t, before.rollbacks, fakeTxCounters.rollbacks)

	require.NoError(t, outer.Commit(ctxTx))
	assert.False(t, outer.IsOpen())
	assert.Equal(t, before.commits+1, fakeTxCounters.commits)
}

// After commit, the deferred rollback must do nothing.
func TestRollbackAfterCommitIsNoop(t *testing.T) {
	db := newFakeDB(t)
	ctx := context.Background()

	before := *fakeTxCounters
	ctxTx, tx, err := db.GetTx(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, tx.Commit(ctxTx))
	require.NoError(t, tx.Rollback(ctx))
	assert.Equal(t, before.rollbacks, fakeTxCounters.rollbacks)
	assert.Equal(t, before.commits+1, fakeTxCounters.commits)
}
