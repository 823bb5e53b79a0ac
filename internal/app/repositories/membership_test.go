package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow scans fixed values, or fails with err
type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: want %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int:
			*p = r.values[i].(int)
		case *int64:
			*p = r.values[i].(int64)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

// rowQuerier answers QueryRow calls with rows in order and records the SQL
type rowQuerier struct {
	rows    []fakeRow
	queries []string
	args    [][]interface{}
}

func (q *rowQuerier) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not implemented")
}

func (q *rowQuerier) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (q *rowQuerier) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	q.queries = append(q.queries, sql)
	q.args = append(q.args, args)
	if len(q.rows) == 0 {
		return fakeRow{err: errors.New("unexpected query: " + sql)}
	}
	row := q.rows[0]
	q.rows = q.rows[1:]
	return row
}

func TestAdmitToGroup(t *testing.T) {
	repo := &StudentRepository{sb: newStatementBuilder()}
	ctx := context.Background()

	t.Run("unknown group", func(t *testing.T) {
		q := &rowQuerier{rows: []fakeRow{{err: pgx.ErrNoRows}}}
		_, err := repo.admitToGroup(ctx, q, 3, 7, nil)
		assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
	})

	t.Run("locks the group row", func(t *testing.T) {
		q := &rowQuerier{rows: []fakeRow{{values: []interface{}{4, int64(2)}}, {values: []interface{}{int64(1)}}}}
		_, err := repo.admitToGroup(ctx, q, 3, 7, nil)
		require.NoError(t, err)
		assert.Equal(t, "SELECT max_members, discipline_id FROM groups WHERE id = $1 FOR UPDATE", q.queries[0])
		assert.Equal(t, "SELECT COUNT(*) FROM students WHERE group_id = $1 AND id <> $2", q.queries[1])
		assert.Equal(t, []interface{}{int64(3), int64(7)}, q.args[1])
	})

	t.Run("discipline mismatch is checked before counting", func(t *testing.T) {
		q := &rowQuerier{rows: []fakeRow{{values: []interface{}{4, int64(2)}}}}
		_, err := repo.admitToGroup(ctx, q, 3, 7, int64p(5))
		assert.ErrorIs(t, err, apperrors.ErrDisciplineMismatch)
		assert.Len(t, q.queries, 1)
	})

	t.Run("full group", func(t *testing.T) {
		q := &rowQuerier{rows: []fakeRow{{values: []interface{}{2, int64(2)}}, {values: []interface{}{int64(2)}}}}
		_, err := repo.admitToGroup(ctx, q, 3, 7, int64p(2))
		assert.ErrorIs(t, err, apperrors.ErrGroupFull)
	})

	t.Run("last free seat", func(t *testing.T) {
		q := &rowQuerier{rows: []fakeRow{{values: []interface{}{2, int64(2)}}, {values: []interface{}{int64(1)}}}}
		discipline, err := repo.admitToGroup(ctx, q, 3, 7, int64p(2))
		require.NoError(t, err)
		assert.Equal(t, int64(2), *discipline)
	})

	t.Run("student without discipline adopts the group's", func(t *testing.T) {
		q := &rowQuerier{rows: []fakeRow{{values: []interface{}{10, int64(6)}}, {values: []interface{}{int64(0)}}}}
		discipline, err := repo.admitToGroup(ctx, q, 3, 0, nil)
		require.NoError(t, err)
		require.NotNil(t, discipline)
		assert.Equal(t, int64(6), *discipline)
	})
}

func TestGroupCheckResize(t *testing.T) {
	repo := &GroupRepository{sb: newStatementBuilder()}
	ctx := context.Background()

	tests := []struct {
		name        string
		maxMembers  int
		members     int64
		mismatched  int64
		wantErr     error
		wantQueries int
	}{
		{"below member count", 4, 5, 0, apperrors.ErrGroupCapacityTooLow, 1},
		{"equal to member count", 5, 5, 0, nil, 2},
		{"members of another discipline", 8, 3, 1, apperrors.ErrDisciplineMismatch, 2},
		{"empty group", 1, 0, 0, nil, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &rowQuerier{rows: []fakeRow{
				{values: []interface{}{tt.members}},
				{values: []interface{}{tt.mismatched}},
			}}
			g := &models.Group{ID: 3, DisciplineID: 2, MaxMembers: tt.maxMembers}

			members, err := repo.checkResize(ctx, q, g)
			assert.Len(t, q.queries, tt.wantQueries)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.members, members)
		})
	}
}

func TestGroupCheckResizeIgnoresMembersWithoutDiscipline(t *testing.T) {
	repo := &GroupRepository{sb: newStatementBuilder()}
	q := &rowQuerier{rows: []fakeRow{{values: []interface{}{int64(2)}}, {values: []interface{}{int64(0)}}}}

	_, err := repo.checkResize(context.Background(), q, &models.Group{ID: 3, DisciplineID: 9, MaxMembers: 4})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT COUNT(*) FROM students WHERE group_id = $1 AND discipline_id IS NOT NULL AND discipline_id <> $2",
		q.queries[1])
	assert.Equal(t, []interface{}{int64(3), int64(9)}, q.args[1])
}

func int64p(v int64) *int64 { return &v }
