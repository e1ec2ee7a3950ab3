package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
	"github.com/adanyl0v/go-goal-tracker/internal/repository"
)

type goalRepositoryImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewGoalRepository(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) repository.GoalRepository {
	return &goalRepositoryImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (r *goalRepositoryImpl) InsertGoal(ctx context.Context, goal *models.Goal) error {
	const insertGoalQuery = `
INSERT INTO goals (user_id,
                   name,
                   description,
                   start_date,
                   end_date)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at
`
	err := r.pgPool.QueryRow(
		ctx,
		insertGoalQuery,
		goal.UserID,
		goal.Name,
		goal.Description,
		goal.StartDate,
		goal.EndDate,
	).Scan(
		&goal.ID,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", goal.UserID).
			Msg("failed to insert goal")
		return err
	}
	r.logger.Debug().
		Int64("goal_id", goal.ID).
		Msg("inserted goal")
	return nil
}

func (r *goalRepositoryImpl) SelectGoalsByUserID(ctx context.Context, userID string) ([]*models.Goal, error) {
	const selectGoalsByUserIDQuery = `
SELECT id,
       name,
       description,
       start_date,
       end_date,
       created_at,
       updated_at
FROM goals
WHERE user_id = $1
ORDER BY id
`
	rows, err := r.pgPool.Query(
		ctx,
		selectGoalsByUserIDQuery,
		userID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select goals by user id")
		return nil, err
	}
	defer rows.Close()

	goals := make([]*models.Goal, 0)
	for rows.Next() {
		goal := &models.Goal{UserID: userID}
		err = rows.Scan(
			&goal.ID,
			&goal.Name,
			&goal.Description,
			&goal.StartDate,
			&goal.EndDate,
			&goal.CreatedAt,
			&goal.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan goal")
			return nil, err
		}
		goals = append(goals, goal)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	r.logger.Debug().
		Int("count", len(goals)).
		Str("user_id", userID).
		Msg("selected goals by user id")
	return goals, nil
}

func (r *goalRepositoryImpl) SelectGoalByID(ctx context.Context, userID string, id int64) (*models.Goal, error) {
	goal := &models.Goal{
		ID:     id,
		UserID: userID,
	}

	const selectGoalByIDQuery = `
SELECT name,
       description,
       start_date,
       end_date,
       created_at,
       updated_at
FROM goals
WHERE id = $1 AND user_id = $2
`
	err := r.pgPool.QueryRow(
		ctx,
		selectGoalByIDQuery,
		goal.ID,
		goal.UserID,
	).Scan(
		&goal.Name,
		&goal.Description,
		&goal.StartDate,
		&goal.EndDate,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}

		r.logger.Error().
			Err(err).
			Int64("goal_id", id).
			Msg("failed to select goal by id")
		return nil, err
	}
	r.logger.Debug().
		Int64("goal_id", id).
		Msg("selected goal by id")
	return goal, nil
}

func (r *goalRepositoryImpl) UpdateGoal(ctx context.Context, goal *models.Goal) error {
	const updateGoalQuery = `
UPDATE goals
SET name = $1,
    description = $2,
    start_date = $3,
    end_date = $4,
    updated_at = now()
WHERE id = $5 AND user_id = $6
RETURNING created_at, updated_at
`
	err := r.pgPool.QueryRow(
		ctx,
		updateGoalQuery,
		goal.Name,
		goal.Description,
		goal.StartDate,
		goal.EndDate,
		goal.ID,
		goal.UserID,
	).Scan(
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}

		r.logger.Error().
			Err(err).
			Int64("goal_id", goal.ID).
			Msg("failed to update goal")
		return err
	}
	r.logger.Debug().
		Int64("goal_id", goal.ID).
		Msg("updated goal")
	return nil
}

func (r *goalRepositoryImpl) DeleteGoal(ctx context.Context, userID string, id int64) error {
	// Tasks of the goal are removed through ON DELETE CASCADE.
	const deleteGoalQuery = `
DELETE FROM goals
WHERE id = $1 AND user_id = $2
`
	tag, err := r.pgPool.Exec(
		ctx,
		deleteGoalQuery,
		id,
		userID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("goal_id", id).
			Msg("failed to delete goal")
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	r.logger.Debug().
		Int64("goal_id", id).
		Msg("deleted goal")
	return nil
}
