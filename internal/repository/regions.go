package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

func (r *Repository) GetAllFederalStates() ([]*domain.FederalState, error) {
	query := `
		SELECT id, name, sort_order, created_at, version
		FROM federal_states
		ORDER BY sort_order NULLS LAST, name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	states := make([]*domain.FederalState, 0)
	for rows.Next() {
		state := &domain.FederalState{}
		if err := rows.Scan(&state.ID, &state.Name, &state.SortOrder, &state.CreatedAt, &state.Version); err != nil {
			return nil, err
		}
		states = append(states, state)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return states, nil
}

func (r *Repository) GetFederalStateByID(id int64) (*domain.FederalState, error) {
	query := `
		SELECT name, sort_order, created_at, version FROM federal_states WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	state := &domain.FederalState{
		ID: id,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&state.Name, &state.SortOrder, &state.CreatedAt, &state.Version); err != nil {
		return nil, err
	}

	return state, nil
}

func (r *Repository) CreateFederalState(state *domain.FederalState) error {
	query := `
		INSERT INTO federal_states (name, sort_order)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, state.Name, state.SortOrder).Scan(&state.ID, &state.CreatedAt, &state.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateFederalState(state *domain.FederalState) error {
	query := `
		UPDATE federal_states
		SET
			name = $1,
			sort_order = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, state.Name, state.SortOrder, state.ID, state.Version).Scan(&state.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteFederalState(id int64) error {
	query := `
		DELETE FROM federal_states WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllRegions() ([]*domain.Region, error) {
	query := `
		SELECT id, name, description, federal_state_id, sort_order, created_at, version
		FROM regions
		ORDER BY sort_order NULLS LAST, name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regions := make([]*domain.Region, 0)
	for rows.Next() {
		region := &domain.Region{}
		dst := []any{&region.ID, &region.Name, &region.Description, &region.FederalStateID, &region.SortOrder, &region.CreatedAt, &region.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return regions, nil
}

func (r *Repository) GetRegionsByFederalState(stateID int64) ([]*domain.Region, error) {
	query := `
		SELECT id, name, description, federal_state_id, sort_order, created_at, version
		FROM regions
		WHERE federal_state_id = $1
		ORDER BY sort_order NULLS LAST, name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, stateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regions := make([]*domain.Region, 0)
	for rows.Next() {
		region := &domain.Region{}
		dst := []any{&region.ID, &region.Name, &region.Description, &region.FederalStateID, &region.SortOrder, &region.CreatedAt, &region.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return regions, nil
}

func (r *Repository) GetRegionByID(id int64) (*domain.Region, error) {
	query := `
		SELECT name, description, federal_state_id, sort_order, created_at, version
		FROM regions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	region := &domain.Region{
		ID: id,
	}
	dst := []any{&region.Name, &region.Description, &region.FederalStateID, &region.SortOrder, &region.CreatedAt, &region.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return region, nil
}

// GetRegionFederalStateID 返回某个服务区归属的联邦州 ID，可能为空。
func (r *Repository) GetRegionFederalStateID(regionID int64) (*int64, error) {
	query := `
		SELECT federal_state_id FROM regions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var stateID *int64
	if err := r.dbpool.QueryRowContext(ctx, query, regionID).Scan(&stateID); err != nil {
		return nil, err
	}

	return stateID, nil
}

func (r *Repository) CreateRegion(region *domain.Region) error {
	query := `
		INSERT INTO regions (name, description, federal_state_id, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{region.Name, region.Description, region.FederalStateID, region.SortOrder}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&region.ID, &region.CreatedAt, &region.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateRegion(region *domain.Region) error {
	query := `
		UPDATE regions
		SET
			name = $1,
			description = $2,
			federal_state_id = $3,
			sort_order = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{region.Name, region.Description, region.FederalStateID, region.SortOrder, region.ID, region.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&region.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRegion(id int64) error {
	query := `
		DELETE FROM regions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
