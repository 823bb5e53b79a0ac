package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of pgxpool.Pool and pgx.Tx the repositories use, so the
// same helpers run inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// newStatementBuilder returns the Postgres-flavoured squirrel builder every repository uses
func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// countRows runs a COUNT query built from sel
func countRows(ctx context.Context, q querier, sel squirrel.SelectBuilder, what string) (int64, error) {
	sql, args, err := sel.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("query", what).Msg("Error building count SQL")
		return 0, fmt.Errorf("failed to build %s count query: %w", what, err)
	}

	var total int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("query", what).Msg("Error executing count query")
		return 0, fmt.Errorf("error counting %s: %w", what, err)
	}
	return total, nil
}

// existingIDs returns the subset of ids present in table.id
func existingIDs(ctx context.Context, q querier, sb squirrel.StatementBuilderType, table string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}

	sql, args, err := sb.Select("id").From(table).Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error building existing ids SQL")
		return nil, fmt.Errorf("failed to build existing ids query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error executing existing ids query")
		return nil, fmt.Errorf("error checking %s ids: %w", table, err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error scanning %s ids: %w", table, err)
	}
	return found, nil
}

// lockRow takes a row lock on table.id inside a transaction and reports whether the row exists
func lockRow(ctx context.Context, tx pgx.Tx, sb squirrel.StatementBuilderType, table string, id int64) (bool, error) {
	sql, args, err := sb.Select("id").From(table).Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build lock query: %w", err)
	}

	var locked int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&locked); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error locking %s row: %w", table, err)
	}
	return true, nil
}
