package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

func (r *Repository) GetAllClients() ([]*domain.Client, error) {
	query := `
		SELECT id, first_name, last_name, created_at, version
		FROM clients
		ORDER BY last_name, first_name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client := &domain.Client{}
		if err := rows.Scan(&client.ID, &client.FirstName, &client.LastName, &client.CreatedAt, &client.Version); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *Repository) GetClientByID(id int64) (*domain.Client, error) {
	query := `
		SELECT first_name, last_name, created_at, version FROM clients WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	client := &domain.Client{
		ID: id,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&client.FirstName, &client.LastName, &client.CreatedAt, &client.Version); err != nil {
		return nil, err
	}

	return client, nil
}

func (r *Repository) CreateClient(client *domain.Client) error {
	query := `
		INSERT INTO clients (first_name, last_name)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, client.FirstName, client.LastName).Scan(&client.ID, &client.CreatedAt, &client.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateClient(client *domain.Client) error {
	query := `
		UPDATE clients
		SET
			first_name = $1,
			last_name = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, client.FirstName, client.LastName, client.ID, client.Version).Scan(&client.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteClient(id int64) error {
	query := `
		DELETE FROM clients WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
