package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (tx *fakeTx) Commit(context.Context) error {
	if tx.commitErr != nil {
		return tx.commitErr
	}
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if tx.committed {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	err      error
	deadline bool
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	_, b.deadline = ctx.Deadline()
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTransaction_Commits(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	var ran bool

	err := WithTransaction(context.Background(), b, func(ctx context.Context, tx pgx.Tx) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.True(t, b.tx.committed)
	assert.False(t, b.tx.rolledBack)
	assert.True(t, b.deadline, "a timeout is added when ctx has none")
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	errFull := errors.New("group full")

	err := WithTransaction(context.Background(), b, func(context.Context, pgx.Tx) error { return errFull })
	assert.ErrorIs(t, err, errFull)
	assert.False(t, b.tx.committed)
	assert.True(t, b.tx.rolledBack)
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}

	assert.PanicsWithValue(t, "boom", func() {
		_ = WithTransaction(context.Background(), b, func(context.Context, pgx.Tx) error { panic("boom") })
	})
	assert.True(t, b.tx.rolledBack)
}

func TestWithTransaction_BeginAndCommitFailures(t *testing.T) {
	err := WithTransaction(context.Background(), &fakeBeginner{err: errors.New("pool closed")},
		func(context.Context, pgx.Tx) error { return nil })
	assert.ErrorContains(t, err, "failed to begin transaction")

	b := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
	err = WithTransaction(context.Background(), b, func(context.Context, pgx.Tx) error { return nil })
	assert.ErrorContains(t, err, "failed to commit transaction")
	assert.True(t, b.tx.rolledBack)
}

func TestWithTransaction_KeepsCallerDeadline(t *testing.T) {
	deadline := time.Now().Add(time.Second)
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	var got time.Time
	err := WithTransaction(ctx, &fakeBeginner{tx: &fakeTx{}}, func(ctx context.Context, _ pgx.Tx) error {
		got, _ = ctx.Deadline()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, deadline, got)
}
