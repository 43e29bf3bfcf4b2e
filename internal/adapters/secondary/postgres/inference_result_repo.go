package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"license-plate-service/internal/core/domain"
	output "license-plate-service/internal/core/ports/output"
)

type inferenceResultRepo struct {
	pool *pgxpool.Pool
}

// NewInferenceResultRepository creates a new InferenceResultRepository
func NewInferenceResultRepository(pool *pgxpool.Pool) output.InferenceResultRepository {
	return &inferenceResultRepo{pool: pool}
}

func (r *inferenceResultRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.InferenceResult, error) {
	query := `
		SELECT id, user_id, status, created_at, output
		FROM inference_results WHERE id = $1
	`
	result, err := scanResult(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("get inference result by id: %w", err)
	}
	return result, nil
}

func (r *inferenceResultRepo) Latest(ctx context.Context, status domain.JobStatus) (*domain.InferenceResult, error) {
	query := `
		SELECT id, user_id, status, created_at, output
		FROM inference_results WHERE status = $1
		ORDER BY created_at DESC LIMIT 1
	`
	result, err := scanResult(r.pool.QueryRow(ctx, query, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoCompletedJob
		}
		return nil, fmt.Errorf("get latest inference result: %w", err)
	}
	return result, nil
}

func (r *inferenceResultRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM inference_results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inference result: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrResultNotFound
	}
	return nil
}

func scanResult(row pgx.Row) (*domain.InferenceResult, error) {
	result := &domain.InferenceResult{}
	var status string
	var outputJSON []byte
	err := row.Scan(&result.ID, &result.UserID, &status, &result.CreatedAt, &outputJSON)
	if err != nil {
		return nil, err
	}
	result.Status = domain.JobStatus(status)
	if len(outputJSON) > 0 {
		result.Output = &domain.InferenceOutput{}
		if err := json.Unmarshal(outputJSON, result.Output); err != nil {
			return nil, fmt.Errorf("unmarshal inference output: %w", err)
		}
	}
	return result, nil
}
