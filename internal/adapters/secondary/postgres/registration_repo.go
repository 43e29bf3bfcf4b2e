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

type registrationRepo struct {
	pool *pgxpool.Pool
}

// NewModelRegistrationRepository creates a new ModelRegistrationRepository
func NewModelRegistrationRepository(pool *pgxpool.Pool) output.ModelRegistrationRepository {
	return &registrationRepo{pool: pool}
}

func (r *registrationRepo) Create(ctx context.Context, reg *domain.ModelRegistration) error {
	query := `
		INSERT INTO model_registrations (id, model_id, version, status, endpoint_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		reg.ID, reg.ModelID, reg.Version, string(reg.Status), reg.EndpointURL, reg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create model registration: %w", err)
	}
	return nil
}

func (r *registrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelRegistration, error) {
	query := `
		SELECT id, model_id, version, status, endpoint_url, created_at
		FROM model_registrations WHERE id = $1
	`
	reg, err := scanRegistration(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("get model registration by id: %w", err)
	}
	return reg, nil
}

func (r *registrationRepo) GetByModelID(ctx context.Context, modelID uuid.UUID) (*domain.ModelRegistration, error) {
	query := `
		SELECT id, model_id, version, status, endpoint_url, created_at
		FROM model_registrations WHERE model_id = $1
		ORDER BY created_at DESC LIMIT 1
	`
	reg, err := scanRegistration(r.pool.QueryRow(ctx, query, modelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("get model registration by model id: %w", err)
	}
	return reg, nil
}

func (r *registrationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM model_registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete model registration: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

func scanRegistration(row pgx.Row) (*domain.ModelRegistration, error) {
	reg := &domain.ModelRegistration{}
	var status string
	err := row.Scan(&reg.ID, &reg.ModelID, &reg.Version, &status, &reg.EndpointURL, &reg.CreatedAt)
	if err != nil {
		return nil, err
	}
	reg.Status = domain.JobStatus(status)
	return reg, nil
}
