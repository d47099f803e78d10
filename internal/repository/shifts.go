package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/scheduler"
)

const shiftColumns = `
	id, employee_id, shift_date, time_from, time_to, client_name, notes,
	region_id, open_shift, seeking_replacement, original_employee_id, created_by, created_at, version
`

// 和 shiftColumns 一致，用于带连接的查询
const shiftColumnsPrefixed = `
	s.id, s.employee_id, s.shift_date, s.time_from, s.time_to, s.client_name, s.notes,
	s.region_id, s.open_shift, s.seeking_replacement, s.original_employee_id, s.created_by, s.created_at, s.version
`

func scanShift(row interface{ Scan(...any) error }) (*domain.Shift, error) {
	shift := &domain.Shift{}
	dst := []any{
		&shift.ID,
		&shift.EmployeeID,
		&shift.ShiftDate,
		&shift.TimeFrom,
		&shift.TimeTo,
		&shift.ClientName,
		&shift.Notes,
		&shift.RegionID,
		&shift.OpenShift,
		&shift.SeekingReplacement,
		&shift.OriginalEmployeeID,
		&shift.CreatedBy,
		&shift.CreatedAt,
		&shift.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return shift, nil
}

func (r *Repository) GetShiftByID(id int64) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanShift(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) collectShifts(ctx context.Context, query string, args ...any) ([]*domain.Shift, error) {
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

// GetAssignedShiftsInRange 返回日期区间内所有已分配的班次。
// stateID 不为空时只返回持有人所在服务区归属该联邦州的班次。
func (r *Repository) GetAssignedShiftsInRange(startDate, endDate string, stateID *int64) ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if stateID == nil {
		query := `
			SELECT ` + shiftColumns + `
			FROM shifts
			WHERE employee_id IS NOT NULL AND shift_date >= $1 AND shift_date <= $2
			ORDER BY shift_date, time_from
		`
		return r.collectShifts(ctx, query, startDate, endDate)
	}

	query := `
		SELECT ` + shiftColumnsPrefixed + `
		FROM shifts s
		JOIN profiles p ON s.employee_id = p.id
		JOIN regions rg ON p.region_id = rg.id
		WHERE rg.federal_state_id = $1 AND s.shift_date >= $2 AND s.shift_date <= $3
		ORDER BY s.shift_date, s.time_from
	`
	return r.collectShifts(ctx, query, *stateID, startDate, endDate)
}

// GetOpenShiftsInRange 返回日期区间内所有开放班次。
// stateID 不为空时只返回所属服务区归属该联邦州的开放班次。
func (r *Repository) GetOpenShiftsInRange(startDate, endDate string, stateID *int64) ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if stateID == nil {
		query := `
			SELECT ` + shiftColumns + `
			FROM shifts
			WHERE employee_id IS NULL AND open_shift = TRUE AND shift_date >= $1 AND shift_date <= $2
			ORDER BY shift_date, time_from
		`
		return r.collectShifts(ctx, query, startDate, endDate)
	}

	query := `
		SELECT ` + shiftColumnsPrefixed + `
		FROM shifts s
		JOIN regions rg ON s.region_id = rg.id
		WHERE s.employee_id IS NULL AND s.open_shift = TRUE
			AND rg.federal_state_id = $1 AND s.shift_date >= $2 AND s.shift_date <= $3
		ORDER BY s.shift_date, s.time_from
	`
	return r.collectShifts(ctx, query, *stateID, startDate, endDate)
}

// GetShiftsByEmployeeInRange 返回某个员工在日期区间内的班次（我的排班列表）。
func (r *Repository) GetShiftsByEmployeeInRange(employeeID int64, startDate, endDate string) ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE employee_id = $1 AND shift_date >= $2 AND shift_date <= $3
		ORDER BY shift_date, time_from
	`
	return r.collectShifts(ctx, query, employeeID, startDate, endDate)
}

// GetReplacementShiftsByFederalState 返回某个联邦州内所有寻找替班的班次（不含 viewerID 自己的）。
func (r *Repository) GetReplacementShiftsByFederalState(stateID int64, viewerID int64, startDate, endDate string) ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + shiftColumnsPrefixed + `
		FROM shifts s
		JOIN profiles p ON s.employee_id = p.id
		JOIN regions rg ON p.region_id = rg.id
		WHERE s.seeking_replacement = TRUE AND s.employee_id <> $1
			AND rg.federal_state_id = $2 AND s.shift_date >= $3 AND s.shift_date <= $4
		ORDER BY s.shift_date, s.time_from
	`
	return r.collectShifts(ctx, query, viewerID, stateID, startDate, endDate)
}

// lockEmployeeRow 锁定员工的 profile 行。
// 所有需要做冲突检查的写入都先拿这把锁，把同一员工上的并发写串行化，
// 避免 先查后写 的竞态让两个冲突的班次同时通过校验。
func lockEmployeeRow(ctx context.Context, tx *sql.Tx, employeeID int64) error {
	var id int64
	return tx.QueryRowContext(ctx, `SELECT id FROM profiles WHERE id = $1 FOR UPDATE`, employeeID).Scan(&id)
}

// findConflictInTx 在事务内执行冲突检查。
// 半开区间 [time_from, time_to)：time_from < $to AND time_to > $from 即为重叠。
// 开放班次的 employee_id 为空，天然不会命中这里的员工条件；
// 被编辑的班次本身（excludeID）不参与。
func findConflictInTx(ctx context.Context, tx *sql.Tx, employeeID int64, date, timeFrom, timeTo string, excludeID int64) error {
	query := `
		SELECT id FROM shifts
		WHERE employee_id = $1 AND shift_date = $2
			AND id <> $3
			AND time_from < $4 AND time_to > $5
		LIMIT 1
	`

	var conflictingID int64
	err := tx.QueryRowContext(ctx, query, employeeID, date, excludeID, timeTo, timeFrom).Scan(&conflictingID)
	switch {
	case err == nil:
		return &scheduler.OverlapError{Date: date, Conflicting: &domain.Shift{ID: conflictingID}}
	case err == sql.ErrNoRows:
		return nil
	default:
		return err
	}
}

// CreateShift 新建一个班次。
// 已分配的班次在同一个事务内完成 锁定员工 -> 冲突检查 -> 写入，
// 开放班次（employee_id 为空）不做冲突检查，直接写入。
// 指定了持有人的班次不可能同时是开放班次。
func (r *Repository) CreateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if shift.EmployeeID != nil {
		shift.OpenShift = false

		if err := lockEmployeeRow(ctx, tx, *shift.EmployeeID); err != nil {
			return err
		}
		if err := findConflictInTx(ctx, tx, *shift.EmployeeID, shift.ShiftDate, shift.TimeFrom, shift.TimeTo, 0); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO shifts (employee_id, shift_date, time_from, time_to, client_name, notes, region_id, open_shift, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, seeking_replacement, original_employee_id, created_at, version
	`

	args := []any{shift.EmployeeID, shift.ShiftDate, shift.TimeFrom, shift.TimeTo, shift.ClientName, shift.Notes, shift.RegionID, shift.OpenShift, shift.CreatedBy}
	dst := []any{&shift.ID, &shift.SeekingReplacement, &shift.OriginalEmployeeID, &shift.CreatedAt, &shift.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateShift 更新班次的内容字段（时间、客户、备注、日期、持有人），
// 在同一个事务内按更新后的 员工 + 日期 重新做冲突检查（排除自己）。
// 给开放班次指定持有人等同于把它分配出去，open_shift 会被一并清掉，
// 保证不会出现 有持有人却还挂着开放标记 的班次绕过冲突检查。
func (r *Repository) UpdateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if shift.EmployeeID != nil {
		shift.OpenShift = false

		if err := lockEmployeeRow(ctx, tx, *shift.EmployeeID); err != nil {
			return err
		}
		if err := findConflictInTx(ctx, tx, *shift.EmployeeID, shift.ShiftDate, shift.TimeFrom, shift.TimeTo, shift.ID); err != nil {
			return err
		}
	}

	query := `
		UPDATE shifts
		SET
			employee_id = $1,
			shift_date = $2,
			time_from = $3,
			time_to = $4,
			client_name = $5,
			notes = $6,
			region_id = $7,
			open_shift = $8,
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version
	`

	args := []any{shift.EmployeeID, shift.ShiftDate, shift.TimeFrom, shift.TimeTo, shift.ClientName, shift.Notes, shift.RegionID, shift.OpenShift, shift.ID, shift.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.Version); err != nil {
		return err
	}

	return tx.Commit()
}

// MoveShift 是拖拽移动：员工和日期作为一个原子操作一起改，
// 校验不通过时整个移动被拒绝，班次保持原样。
// 移动后的班次归新持有人所有，开放和寻找替班标记都会被清掉。
func (r *Repository) MoveShift(shiftID int64, newEmployeeID int64, newDate string) (*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 锁定并重新读取班次，拿到权威的时间段
	shift, err := scanShift(tx.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1 FOR UPDATE`, shiftID))
	if err != nil {
		return nil, err
	}

	if err := lockEmployeeRow(ctx, tx, newEmployeeID); err != nil {
		return nil, err
	}
	if err := findConflictInTx(ctx, tx, newEmployeeID, newDate, shift.TimeFrom, shift.TimeTo, shift.ID); err != nil {
		return nil, err
	}

	query := `
		UPDATE shifts
		SET
			employee_id = $1,
			shift_date = $2,
			open_shift = FALSE,
			seeking_replacement = FALSE,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	if err := tx.QueryRowContext(ctx, query, newEmployeeID, newDate, shift.ID, shift.Version).Scan(&shift.Version); err != nil {
		return nil, err
	}

	shift.EmployeeID = &newEmployeeID
	shift.ShiftDate = newDate
	shift.OpenShift = false
	shift.SeekingReplacement = false

	return shift, tx.Commit()
}

// TakeOverShift 执行接手操作。整个 校验 -> 写入 序列在一个事务里：
//
//  1. 锁定并重新读取班次（中间件读到的快照可能已经过期）；
//  2. 状态校验（必须是开放或寻找替班的班次，不能接手自己的）；
//  3. 范围校验（非管理员只能接手自己联邦州内的班次）；
//  4. 锁定接手员工并做冲突检查；
//  5. 带版本号写入。
//
// 两个用户并发接手同一个班次时，后完成的事务会在第 2 步
// 看到班次已经被分配，拿到 ErrNotTakeable。
func (r *Repository) TakeOverShift(shiftID int64, viewer *scheduler.ViewerScope) (*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	shift, err := scanShift(tx.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1 FOR UPDATE`, shiftID))
	if err != nil {
		return nil, err
	}

	change, err := scheduler.PlanTakeOver(shift, viewer.EmployeeID)
	if err != nil {
		return nil, err
	}

	stateID, err := resolveShiftFederalState(ctx, tx, shift)
	if err != nil {
		return nil, err
	}
	if err := scheduler.CheckTakeOverScope(viewer, stateID); err != nil {
		return nil, err
	}

	if err := lockEmployeeRow(ctx, tx, change.EmployeeID); err != nil {
		return nil, err
	}
	if err := findConflictInTx(ctx, tx, change.EmployeeID, shift.ShiftDate, shift.TimeFrom, shift.TimeTo, shift.ID); err != nil {
		return nil, err
	}

	query := `
		UPDATE shifts
		SET
			employee_id = $1,
			original_employee_id = $2,
			open_shift = FALSE,
			seeking_replacement = FALSE,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	if err := tx.QueryRowContext(ctx, query, change.EmployeeID, change.OriginalEmployeeID, shift.ID, shift.Version).Scan(&shift.Version); err != nil {
		return nil, err
	}

	shift.EmployeeID = &change.EmployeeID
	shift.OriginalEmployeeID = change.OriginalEmployeeID
	shift.OpenShift = false
	shift.SeekingReplacement = false

	return shift, tx.Commit()
}

// resolveShiftFederalState 推导一个班次归属的联邦州：
// 开放班次按它的 region_id 解析，已分配的班次按持有人所在服务区解析。
func resolveShiftFederalState(ctx context.Context, tx *sql.Tx, shift *domain.Shift) (*int64, error) {
	var stateID *int64

	switch {
	case shift.EmployeeID != nil:
		query := `
			SELECT rg.federal_state_id
			FROM profiles p
			JOIN regions rg ON p.region_id = rg.id
			WHERE p.id = $1
		`
		err := tx.QueryRowContext(ctx, query, *shift.EmployeeID).Scan(&stateID)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
	case shift.RegionID != nil:
		err := tx.QueryRowContext(ctx, `SELECT federal_state_id FROM regions WHERE id = $1`, *shift.RegionID).Scan(&stateID)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
	}

	return stateID, nil
}

// SetSeekingReplacement 切换寻找替班标记。
func (r *Repository) SetSeekingReplacement(shift *domain.Shift, seeking bool) error {
	query := `
		UPDATE shifts
		SET
			seeking_replacement = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, seeking, shift.ID, shift.Version).Scan(&shift.Version); err != nil {
		return err
	}

	shift.SeekingReplacement = seeking
	return nil
}

func (r *Repository) DeleteShift(id int64) error {
	query := `
		DELETE FROM shifts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
