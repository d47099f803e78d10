package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/scheduler"
)

func (r *Repository) GetWeeklyTemplatesByEmployee(employeeID int64) ([]*domain.WeeklyTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			wt.id,
			wt.name,
			wt.created_at,
			wt.version,
			ts.id,
			ts.day_of_week,
			ts.time_from,
			ts.time_to,
			ts.client_name,
			ts.notes
		FROM weekly_templates wt
		LEFT JOIN template_shifts ts ON wt.id = ts.template_id
		WHERE wt.employee_id = $1
		ORDER BY wt.name, ts.day_of_week, ts.time_from
	`

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templatesMap := make(map[int64]*domain.WeeklyTemplate)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID        int64
			Name      string
			CreatedAt time.Time
			Version   int32

			ShiftID    sql.NullInt64
			DayOfWeek  sql.NullInt32
			TimeFrom   sql.NullString
			TimeTo     sql.NullString
			ClientName sql.NullString
			Notes      sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.CreatedAt,
			&row.Version,
			&row.ShiftID,
			&row.DayOfWeek,
			&row.TimeFrom,
			&row.TimeTo,
			&row.ClientName,
			&row.Notes,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		template, exists := templatesMap[row.ID]
		if !exists {
			// 第一次查到这个模板，先初始化
			template = &domain.WeeklyTemplate{
				ID:         row.ID,
				EmployeeID: employeeID,
				Name:       row.Name,
				Shifts:     make([]domain.TemplateShift, 0),
				CreatedAt:  row.CreatedAt,
				Version:    row.Version,
			}
			templatesMap[row.ID] = template
			order = append(order, row.ID)
		}

		// ShiftID 为空说明这个模板还没有任何班次
		if !row.ShiftID.Valid {
			continue
		}

		template.Shifts = append(template.Shifts, domain.TemplateShift{
			ID:         row.ShiftID.Int64,
			DayOfWeek:  row.DayOfWeek.Int32,
			TimeFrom:   row.TimeFrom.String,
			TimeTo:     row.TimeTo.String,
			ClientName: row.ClientName.String,
			Notes:      row.Notes.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	templates := make([]*domain.WeeklyTemplate, 0, len(order))
	for _, id := range order {
		templates = append(templates, templatesMap[id])
	}

	return templates, nil
}

func (r *Repository) GetWeeklyTemplateByID(id int64) (*domain.WeeklyTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			wt.employee_id,
			wt.name,
			wt.created_at,
			wt.version,
			ts.id,
			ts.day_of_week,
			ts.time_from,
			ts.time_to,
			ts.client_name,
			ts.notes
		FROM weekly_templates wt
		LEFT JOIN template_shifts ts ON wt.id = ts.template_id
		WHERE wt.id = $1
		ORDER BY ts.day_of_week, ts.time_from
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	template := &domain.WeeklyTemplate{
		ID:     id,
		Shifts: make([]domain.TemplateShift, 0),
	}
	found := false

	for rows.Next() {
		var row struct {
			EmployeeID int64
			Name       string
			CreatedAt  time.Time
			Version    int32

			ShiftID    sql.NullInt64
			DayOfWeek  sql.NullInt32
			TimeFrom   sql.NullString
			TimeTo     sql.NullString
			ClientName sql.NullString
			Notes      sql.NullString
		}

		dst := []any{
			&row.EmployeeID,
			&row.Name,
			&row.CreatedAt,
			&row.Version,
			&row.ShiftID,
			&row.DayOfWeek,
			&row.TimeFrom,
			&row.TimeTo,
			&row.ClientName,
			&row.Notes,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			template.EmployeeID = row.EmployeeID
			template.Name = row.Name
			template.CreatedAt = row.CreatedAt
			template.Version = row.Version
			found = true
		}

		if !row.ShiftID.Valid {
			continue
		}

		template.Shifts = append(template.Shifts, domain.TemplateShift{
			ID:         row.ShiftID.Int64,
			DayOfWeek:  row.DayOfWeek.Int32,
			TimeFrom:   row.TimeFrom.String,
			TimeTo:     row.TimeTo.String,
			ClientName: row.ClientName.String,
			Notes:      row.Notes.String,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return template, nil
}

func (r *Repository) CreateWeeklyTemplate(template *domain.WeeklyTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO weekly_templates (employee_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, template.EmployeeID, template.Name).Scan(&template.ID, &template.CreatedAt, &template.Version); err != nil {
		return err
	}

	for i := range template.Shifts {
		query = `
			INSERT INTO template_shifts (template_id, day_of_week, time_from, time_to, client_name, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		params := []any{template.ID, template.Shifts[i].DayOfWeek, template.Shifts[i].TimeFrom, template.Shifts[i].TimeTo, template.Shifts[i].ClientName, template.Shifts[i].Notes}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&template.Shifts[i].ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) UpdateWeeklyTemplate(template *domain.WeeklyTemplate) error {
	query := `
		UPDATE weekly_templates
		SET
			name = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, template.Name, template.ID, template.Version).Scan(&template.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteWeeklyTemplate(id int64) error {
	query := `
		DELETE FROM weekly_templates WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateTemplateShift(templateID int64, shift *domain.TemplateShift) error {
	query := `
		INSERT INTO template_shifts (template_id, day_of_week, time_from, time_to, client_name, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{templateID, shift.DayOfWeek, shift.TimeFrom, shift.TimeTo, shift.ClientName, shift.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&shift.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateTemplateShift(shift *domain.TemplateShift) error {
	query := `
		UPDATE template_shifts
		SET
			day_of_week = $1,
			time_from = $2,
			time_to = $3,
			client_name = $4,
			notes = $5
		WHERE id = $6
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{shift.DayOfWeek, shift.TimeFrom, shift.TimeTo, shift.ClientName, shift.Notes, shift.ID}
	var id int64
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteTemplateShift(id int64) error {
	query := `
		DELETE FROM template_shifts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// ApplyWeeklyTemplate 把模板套用到某一周，生成具体的班次。
// weekStart 必须是周一。整个套用在一个事务里完成：
// 先锁定员工，再逐条做冲突检查和插入（事务内先插入的班次
// 也会被后面的检查看到），任何一条冲突都会让整次套用回滚。
func (r *Repository) ApplyWeeklyTemplate(template *domain.WeeklyTemplate, weekStart time.Time, createdBy int64) ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockEmployeeRow(ctx, tx, template.EmployeeID); err != nil {
		return nil, err
	}

	planned := scheduler.PlanTemplateWeek(template.Shifts, weekStart)

	created := make([]*domain.Shift, 0, len(planned))
	for _, ps := range planned {
		if err := findConflictInTx(ctx, tx, template.EmployeeID, ps.Date, ps.TimeFrom, ps.TimeTo, 0); err != nil {
			return nil, err
		}

		query := `
			INSERT INTO shifts (employee_id, shift_date, time_from, time_to, client_name, notes, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + shiftColumns + `
		`

		args := []any{template.EmployeeID, ps.Date, ps.TimeFrom, ps.TimeTo, ps.ClientName, ps.Notes, createdBy}
		shift, err := scanShift(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			return nil, err
		}
		created = append(created, shift)
	}

	return created, tx.Commit()
}
