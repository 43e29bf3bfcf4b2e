package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"license-plate-service/internal/core/domain"
	output "license-plate-service/internal/core/ports/output"
)

type transitionsRepo struct {
	pool *pgxpool.Pool
}

// NewJobTransitions creates the repository that performs joint job/result
// lifecycle updates inside a single transaction.
func NewJobTransitions(pool *pgxpool.Pool) output.JobTransitions {
	return &transitionsRepo{pool: pool}
}

func (r *transitionsRepo) MarkStarted(ctx context.Context, id uuid.UUID, userID uuid.UUID, withResult bool) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := moveJob(ctx, tx, id, domain.JobStatusStarted); err != nil {
			return err
		}
		// started_at anchors the reaper timeout; queue wait must not count
		if _, err := tx.Exec(ctx, `UPDATE jobs SET started_at = NOW() WHERE id = $1`, id); err != nil {
			return fmt.Errorf("record job start time: %w", err)
		}
		if !withResult {
			return nil
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO inference_results (id, user_id, status, created_at, output)
			VALUES ($1, $2, $3, $4, NULL)
		`, id, userID, string(domain.JobStatusStarted), time.Now())
		if err != nil {
			return fmt.Errorf("create result at start: %w", err)
		}
		return nil
	})
}

func (r *transitionsRepo) MarkSuccess(ctx context.Context, id uuid.UUID, out *domain.InferenceOutput) error {
	outputJSON, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal inference output: %w", err)
	}
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := moveJob(ctx, tx, id, domain.JobStatusSuccess); err != nil {
			return err
		}
		result, err := tx.Exec(ctx, `
			UPDATE inference_results SET status = $1, output = $2
			WHERE id = $3 AND output IS NULL
		`, string(domain.JobStatusSuccess), outputJSON, id)
		if err != nil {
			return fmt.Errorf("attach output: %w", err)
		}
		if result.RowsAffected() == 0 {
			return domain.ErrOutputAlreadySet
		}
		return nil
	})
}

func (r *transitionsRepo) MarkSuccessWithReference(ctx context.Context, id uuid.UUID, referenceID uuid.UUID) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := moveJob(ctx, tx, id, domain.JobStatusSuccess); err != nil {
			return err
		}
		if referenceID == uuid.Nil {
			return nil
		}
		_, err := tx.Exec(ctx, `UPDATE jobs SET reference_id = $1 WHERE id = $2`, referenceID, id)
		if err != nil {
			return fmt.Errorf("record job reference: %w", err)
		}
		return nil
	})
}

func (r *transitionsRepo) MarkFailure(ctx context.Context, id uuid.UUID) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := moveJob(ctx, tx, id, domain.JobStatusFailure); err != nil {
			return err
		}
		// the result row only exists for inference jobs that reached STARTED
		_, err := tx.Exec(ctx, `
			UPDATE inference_results SET status = $1 WHERE id = $2
		`, string(domain.JobStatusFailure), id)
		if err != nil {
			return fmt.Errorf("fail result: %w", err)
		}
		return nil
	})
}

// moveJob flips the job status, refusing to leave a terminal state.
func moveJob(ctx context.Context, tx pgx.Tx, id uuid.UUID, to domain.JobStatus) error {
	result, err := tx.Exec(ctx, `
		UPDATE jobs SET status = $1
		WHERE id = $2 AND status NOT IN ($3, $4)
	`, string(to), id,
		string(domain.JobStatusSuccess), string(domain.JobStatusFailure))
	if err != nil {
		return fmt.Errorf("move job to %s: %w", to, err)
	}
	if result.RowsAffected() == 0 {
		var status string
		err := tx.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1`, id).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrJobNotFound
		}
		if err != nil {
			return fmt.Errorf("inspect job status: %w", err)
		}
		return domain.ErrJobFinished
	}
	return nil
}

func (r *transitionsRepo) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transition tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transition tx: %w", err)
	}
	return nil
}
