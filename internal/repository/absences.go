package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

const absenceColumns = `
	id, employee_id, start_date, start_time, end_date, end_time, reason, created_at, version
`

func scanAbsence(row interface{ Scan(...any) error }) (*domain.Absence, error) {
	absence := &domain.Absence{}
	dst := []any{
		&absence.ID,
		&absence.EmployeeID,
		&absence.StartDate,
		&absence.StartTime,
		&absence.EndDate,
		&absence.EndTime,
		&absence.Reason,
		&absence.CreatedAt,
		&absence.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return absence, nil
}

func (r *Repository) GetAbsenceByID(id int64) (*domain.Absence, error) {
	query := `SELECT ` + absenceColumns + ` FROM absences WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanAbsence(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) collectAbsences(ctx context.Context, query string, args ...any) ([]*domain.Absence, error) {
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	absences := make([]*domain.Absence, 0)
	for rows.Next() {
		absence, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		absences = append(absences, absence)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return absences, nil
}

// GetAbsencesInRange 返回和日期区间有交集的请假记录。
// 一条请假和区间相交的条件是 end_date >= 区间开始 且 start_date <= 区间结束。
// stateID 不为空时只返回该联邦州内员工的请假。
func (r *Repository) GetAbsencesInRange(startDate, endDate string, stateID *int64) ([]*domain.Absence, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if stateID == nil {
		query := `
			SELECT ` + absenceColumns + `
			FROM absences
			WHERE end_date >= $1 AND start_date <= $2
			ORDER BY start_date, start_time
		`
		return r.collectAbsences(ctx, query, startDate, endDate)
	}

	query := `
		SELECT a.id, a.employee_id, a.start_date, a.start_time, a.end_date, a.end_time, a.reason, a.created_at, a.version
		FROM absences a
		JOIN profiles p ON a.employee_id = p.id
		JOIN regions rg ON p.region_id = rg.id
		WHERE rg.federal_state_id = $1 AND a.end_date >= $2 AND a.start_date <= $3
		ORDER BY a.start_date, a.start_time
	`
	return r.collectAbsences(ctx, query, *stateID, startDate, endDate)
}

func (r *Repository) GetAbsencesByEmployee(employeeID int64) ([]*domain.Absence, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + absenceColumns + `
		FROM absences
		WHERE employee_id = $1
		ORDER BY start_date, start_time
	`
	return r.collectAbsences(ctx, query, employeeID)
}

func (r *Repository) GetAllAbsences() ([]*domain.Absence, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + absenceColumns + `
		FROM absences
		ORDER BY start_date, start_time
	`
	return r.collectAbsences(ctx, query)
}

func (r *Repository) CreateAbsence(absence *domain.Absence) error {
	query := `
		INSERT INTO absences (employee_id, start_date, start_time, end_date, end_time, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{absence.EmployeeID, absence.StartDate, absence.StartTime, absence.EndDate, absence.EndTime, absence.Reason}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&absence.ID, &absence.CreatedAt, &absence.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateAbsence(absence *domain.Absence) error {
	query := `
		UPDATE absences
		SET
			start_date = $1,
			start_time = $2,
			end_date = $3,
			end_time = $4,
			reason = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{absence.StartDate, absence.StartTime, absence.EndDate, absence.EndTime, absence.Reason, absence.ID, absence.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&absence.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteAbsence(id int64) error {
	query := `
		DELETE FROM absences WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
