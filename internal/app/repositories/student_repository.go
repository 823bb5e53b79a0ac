package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/empatecerca/api/internal/app/models"
	"github.com/empatecerca/api/internal/app/models/dto"
	"github.com/empatecerca/api/internal/db"
	"github.com/empatecerca/api/internal/pkg/apperrors"
	"github.com/empatecerca/api/internal/pkg/dberrors"
	"github.com/empatecerca/api/internal/pkg/helpers"
	"github.com/empatecerca/api/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var studentColumns = []string{
	"s.id", "s.first_name", "s.last_name", "s.dni", "s.birth_date", "s.tutor_id", "s.discipline_id", "s.group_id",
	"s.blood_type", "s.allergies", "s.medications", "s.conditions",
	"s.emergency_contact_name", "s.emergency_contact_phone", "s.medical_notes",
	"s.created_at", "s.updated_at",
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	m := &s.Medical
	err := row.Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.DNI, &s.BirthDate, &s.TutorID, &s.DisciplineID, &s.GroupID,
		&m.BloodType, &m.Allergies, &m.Medications, &m.Conditions,
		&m.EmergencyContactName, &m.EmergencyContactPhone, &m.Notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func translateStudentError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "students_dni_key"):
		return apperrors.ErrDNIAlreadyExists
	case dberrors.IsForeignKeyViolation(err):
		switch dberrors.ConstraintName(err) {
		case "students_tutor_id_fkey":
			return apperrors.ErrTutorNotFound
		case "students_discipline_id_fkey":
			return apperrors.ErrDisciplineNotFound
		case "students_group_id_fkey":
			return apperrors.ErrGroupNotFound
		}
	}
	return err
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

// admitToGroup checks, under a row lock on the group, that the student can join it.
// It returns the discipline the student ends up with: the group's when the student had none.
func (r *StudentRepository) admitToGroup(ctx context.Context, tx querier, groupID, studentID int64, disciplineID *int64) (*int64, error) {
	sql, args, err := r.sb.Select("max_members", "discipline_id").
		From("groups").
		Where(squirrel.Eq{"id": groupID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock group query: %w", err)
	}

	var maxMembers int
	var groupDiscipline int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&maxMembers, &groupDiscipline); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		logger.Error().Err(err).Int64("groupID", groupID).Msg("Error locking group row")
		return nil, fmt.Errorf("error locking group: %w", err)
	}

	if disciplineID != nil && *disciplineID != groupDiscipline {
		return nil, apperrors.ErrDisciplineMismatch
	}

	members, err := countRows(ctx, tx, r.sb.Select("COUNT(*)").
		From("students").
		Where(squirrel.Eq{"group_id": groupID}).
		Where(squirrel.NotEq{"id": studentID}), "group members")
	if err != nil {
		return nil, err
	}
	if members >= int64(maxMembers) {
		logger.Info().Int64("groupID", groupID).Int64("members", members).Int("maxMembers", maxMembers).Msg("Rejected assignment to full group")
		return nil, apperrors.ErrGroupFull
	}

	return &groupDiscipline, nil
}

// Create inserts a student. When GroupID is set the capacity and discipline of
// the group are checked in the same transaction.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if s.GroupID != nil {
			discipline, err := r.admitToGroup(ctx, tx, *s.GroupID, 0, s.DisciplineID)
			if err != nil {
				return err
			}
			s.DisciplineID = discipline
		}

		m := s.Medical
		sql, args, err := r.sb.Insert("students").
			Columns("first_name", "last_name", "dni", "birth_date", "tutor_id", "discipline_id", "group_id",
				"blood_type", "allergies", "medications", "conditions",
				"emergency_contact_name", "emergency_contact_phone", "medical_notes").
			Values(s.FirstName, s.LastName, s.DNI, s.BirthDate, s.TutorID, s.DisciplineID, s.GroupID,
				m.BloodType, m.Allergies, m.Medications, m.Conditions,
				m.EmergencyContactName, m.EmergencyContactPhone, m.Notes).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			logger.Error().Err(err).Msg("Error building create student SQL")
			return fmt.Errorf("failed to build create student query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			if translated := translateStudentError(err); translated != err {
				return translated
			}
			logger.Error().Err(err).Str("dni", s.DNI).Msg("Error executing create student query")
			return fmt.Errorf("error creating student: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students s").Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return s, nil
}

// List returns one page of students matching filter
func (r *StudentRepository) List(ctx context.Context, filter dto.StudentListFilter) ([]*models.Student, int64, error) {
	where := squirrel.And{}
	if filter.GroupID != nil {
		where = append(where, squirrel.Eq{"s.group_id": *filter.GroupID})
	}
	if filter.TutorID != nil {
		where = append(where, squirrel.Eq{"s.tutor_id": *filter.TutorID})
	}
	if filter.DisciplineID != nil {
		where = append(where, squirrel.Eq{"s.discipline_id": *filter.DisciplineID})
	}
	if filter.TaughtBy != nil {
		where = append(where, squirrel.Expr(
			"s.group_id IN (SELECT gv.group_id FROM group_volunteers gv WHERE gv.volunteer_id = ?)", *filter.TaughtBy))
	}
	if filter.Search != "" {
		pattern := helpers.LikePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"s.first_name": pattern},
			squirrel.ILike{"s.last_name": pattern},
			squirrel.ILike{"s.dni": pattern},
		})
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("students s").Where(where), "students")
	if err != nil {
		return nil, 0, err
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		Where(where).
		OrderBy("s.last_name", "s.first_name", "s.id").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

// Update writes personal data, tutor and discipline. The group is left untouched.
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var groupDiscipline *int64
		err := tx.QueryRow(ctx,
			`SELECT g.discipline_id FROM students s LEFT JOIN groups g ON g.id = s.group_id WHERE s.id = $1 FOR UPDATE OF s`,
			s.ID).Scan(&groupDiscipline)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrStudentNotFound
			}
			return fmt.Errorf("error locking student: %w", err)
		}
		if groupDiscipline != nil && s.DisciplineID != nil && *groupDiscipline != *s.DisciplineID {
			return apperrors.ErrDisciplineMismatch
		}

		sql, args, err := r.sb.Update("students").
			Set("first_name", s.FirstName).
			Set("last_name", s.LastName).
			Set("dni", s.DNI).
			Set("birth_date", s.BirthDate).
			Set("tutor_id", s.TutorID).
			Set("discipline_id", s.DisciplineID).
			Set("updated_at", time.Now()).
			Where(squirrel.Eq{"id": s.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update student query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if translated := translateStudentError(err); translated != err {
				return translated
			}
			logger.Error().Err(err).Int64("studentID", s.ID).Msg("Error executing update student query")
			return fmt.Errorf("error updating student: %w", err)
		}
		return nil
	})
}

// UpdateMedical replaces the medical record of a student
func (r *StudentRepository) UpdateMedical(ctx context.Context, id int64, m models.MedicalRecord) error {
	sql, args, err := r.sb.Update("students").
		Set("blood_type", m.BloodType).
		Set("allergies", m.Allergies).
		Set("medications", m.Medications).
		Set("conditions", m.Conditions).
		Set("emergency_contact_name", m.EmergencyContactName).
		Set("emergency_contact_phone", m.EmergencyContactPhone).
		Set("medical_notes", m.Notes).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update medical query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing update medical query")
		return fmt.Errorf("error updating medical record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// AssignGroup moves a student into groupID, or out of any group when groupID is nil.
// The group row is locked before members are counted so concurrent assignments
// cannot exceed max_members.
func (r *StudentRepository) AssignGroup(ctx context.Context, studentID int64, groupID *int64) (*models.Student, error) {
	var updated *models.Student
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select(studentColumns...).
			From("students s").
			Where(squirrel.Eq{"s.id": studentID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build lock student query: %w", err)
		}
		student, err := scanStudent(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrStudentNotFound
			}
			return fmt.Errorf("error locking student: %w", err)
		}

		if groupID != nil && student.GroupID != nil && *student.GroupID == *groupID {
			updated = student
			return nil
		}

		disciplineID := student.DisciplineID
		if groupID != nil {
			disciplineID, err = r.admitToGroup(ctx, tx, *groupID, studentID, student.DisciplineID)
			if err != nil {
				return err
			}
		}

		sql, args, err = r.sb.Update("students").
			Set("group_id", groupID).
			Set("discipline_id", disciplineID).
			Set("updated_at", time.Now()).
			Where(squirrel.Eq{"id": studentID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build assign group query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing assign group query")
			return fmt.Errorf("error assigning group: %w", err)
		}

		student.GroupID = groupID
		student.DisciplineID = disciplineID
		updated = student
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a student and its progress records
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
