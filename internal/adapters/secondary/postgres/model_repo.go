package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"license-plate-service/internal/core/domain"
	output "license-plate-service/internal/core/ports/output"
)

type modelRepo struct {
	pool *pgxpool.Pool
}

// NewModelRepository creates a new ModelRepository
func NewModelRepository(pool *pgxpool.Pool) output.ModelRepository {
	return &modelRepo{pool: pool}
}

func (r *modelRepo) Create(ctx context.Context, model *domain.Model) error {
	query := `
		INSERT INTO models (id, user_id, name, framework, storage_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		model.ID, model.UserID, model.Name, string(model.Framework), model.StorageKey, model.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}
	return nil
}

func (r *modelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Model, error) {
	query := `
		SELECT id, user_id, name, framework, storage_key, created_at
		FROM models WHERE id = $1
	`
	model, err := scanModel(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("get model by id: %w", err)
	}
	return model, nil
}

func (r *modelRepo) List(ctx context.Context) ([]*domain.Model, error) {
	query := `
		SELECT id, user_id, name, framework, storage_key, created_at
		FROM models ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var models []*domain.Model
	for rows.Next() {
		model, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model row: %w", err)
		}
		models = append(models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model rows: %w", err)
	}
	return models, nil
}

func (r *modelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM models WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

func scanModel(row pgx.Row) (*domain.Model, error) {
	model := &domain.Model{}
	var framework string
	err := row.Scan(&model.ID, &model.UserID, &model.Name, &framework, &model.StorageKey, &model.CreatedAt)
	if err != nil {
		return nil, err
	}
	model.Framework = domain.ModelFramework(framework)
	return model, nil
}
