package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/scheduler"
)

func (r *Repository) GetProfileByID(id int64) (*domain.Profile, error) {
	query := `
		SELECT email, password_hash, full_name, role, region_id, sort_order, is_active, created_at, version
		FROM profiles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	profile := &domain.Profile{
		ID: id,
	}

	dst := []any{&profile.Email, &profile.PasswordHash, &profile.FullName, &profile.Role, &profile.RegionID, &profile.SortOrder, &profile.IsActive, &profile.CreatedAt, &profile.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *Repository) GetProfileByEmail(email string) (*domain.Profile, error) {
	query := `
		SELECT id, password_hash, full_name, role, region_id, sort_order, is_active, created_at, version
		FROM profiles WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	profile := &domain.Profile{
		Email: email,
	}

	dst := []any{&profile.ID, &profile.PasswordHash, &profile.FullName, &profile.Role, &profile.RegionID, &profile.SortOrder, &profile.IsActive, &profile.CreatedAt, &profile.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(dst...); err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *Repository) GetAllProfiles() ([]*domain.Profile, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, region_id, sort_order, is_active, created_at, version
		FROM profiles
		ORDER BY region_id NULLS LAST, sort_order NULLS LAST, full_name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*domain.Profile, 0)
	for rows.Next() {
		profile := &domain.Profile{}
		dst := []any{&profile.ID, &profile.Email, &profile.PasswordHash, &profile.FullName, &profile.Role, &profile.RegionID, &profile.SortOrder, &profile.IsActive, &profile.CreatedAt, &profile.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// GetProfilesByFederalState 返回某个联邦州内所有服务区的员工，
// 用于普通员工的周视图（只能看到自己联邦州的数据）。
func (r *Repository) GetProfilesByFederalState(stateID int64) ([]*domain.Profile, error) {
	query := `
		SELECT p.id, p.email, p.password_hash, p.full_name, p.role, p.region_id, p.sort_order, p.is_active, p.created_at, p.version
		FROM profiles p
		JOIN regions rg ON p.region_id = rg.id
		WHERE rg.federal_state_id = $1
		ORDER BY p.region_id, p.sort_order NULLS LAST, p.full_name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, stateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*domain.Profile, 0)
	for rows.Next() {
		profile := &domain.Profile{}
		dst := []any{&profile.ID, &profile.Email, &profile.PasswordHash, &profile.FullName, &profile.Role, &profile.RegionID, &profile.SortOrder, &profile.IsActive, &profile.CreatedAt, &profile.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *Repository) CreateProfile(profile *domain.Profile) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO profiles (email, password_hash, full_name, role, region_id, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, version
	`

	args := []any{profile.Email, profile.PasswordHash, profile.FullName, profile.Role, profile.RegionID, profile.SortOrder}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&profile.ID, &profile.IsActive, &profile.CreatedAt, &profile.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateProfile(profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET
			password_hash = $1,
			email = $2,
			full_name = $3,
			role = $4,
			region_id = $5,
			sort_order = $6,
			is_active = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{profile.PasswordHash, profile.Email, profile.FullName, profile.Role, profile.RegionID, profile.SortOrder, profile.IsActive, profile.ID, profile.Version}
	dst := []any{&profile.CreatedAt, &profile.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteProfile(id int64) error {
	query := `
		DELETE FROM profiles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM profiles WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

// GetViewerScope 把一个登录用户解析成查看范围：
// 顺着 员工 -> 服务区 -> 联邦州 把联邦州解析出来。
// 员工没有服务区或服务区没有归属联邦州时，FederalStateID 为空。
func (r *Repository) GetViewerScope(profile *domain.Profile) (*scheduler.ViewerScope, error) {
	scope := &scheduler.ViewerScope{
		EmployeeID: profile.ID,
		Role:       profile.Role,
		RegionID:   profile.RegionID,
	}

	if profile.RegionID == nil {
		return scope, nil
	}

	stateID, err := r.GetRegionFederalStateID(*profile.RegionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scope, nil
		}
		return nil, err
	}
	scope.FederalStateID = stateID

	return scope, nil
}
