package repositories

import (
	"context"
	"fmt"

	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// statsQuery computes every dashboard counter in a single round trip
const statsQuery = `
SELECT
	(SELECT COUNT(*) FROM volunteers),
	(SELECT COUNT(*) FROM volunteers WHERE status = 'ACTIVE'),
	(SELECT COUNT(*) FROM volunteers WHERE status = 'INACTIVE'),
	(SELECT COUNT(*) FROM tutors),
	(SELECT COUNT(*) FROM students),
	(SELECT COUNT(*) FROM students WHERE group_id IS NOT NULL),
	(SELECT COUNT(*) FROM groups),
	(SELECT COUNT(*) FROM groups g WHERE (SELECT COUNT(*) FROM students s WHERE s.group_id = g.id) >= g.max_members),
	(SELECT COUNT(*) FROM disciplines)`

// DashboardRepository reads aggregate counters for the admin dashboard
type DashboardRepository struct {
	db *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository
func NewDashboardRepository(db *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Stats returns the current organisation counters
func (r *DashboardRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	s := &models.DashboardStats{}
	err := r.db.QueryRow(ctx, statsQuery).Scan(
		&s.Volunteers.Total, &s.Volunteers.Active, &s.Volunteers.Inactive,
		&s.Tutors,
		&s.Students.Total, &s.Students.Assigned,
		&s.Groups.Total, &s.Groups.Full,
		&s.Disciplines,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing dashboard stats query")
		return nil, fmt.Errorf("error reading dashboard stats: %w", err)
	}
	s.Students.Unassigned = s.Students.Total - s.Students.Assigned
	return s, nil
}
