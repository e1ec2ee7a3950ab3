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

type taskRepositoryImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskRepository(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) repository.TaskRepository {
	return &taskRepositoryImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (r *taskRepositoryImpl) InsertTask(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   title,
                   description,
                   completed,
                   priority,
                   due_date,
                   goal_type,
                   category_id,
                   goal_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at
`
	err := r.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		task.DueDate,
		task.GoalType,
		task.CategoryID,
		task.GoalID,
	).Scan(
		&task.ID,
		&task.CreatedAt,
	)
	if err != nil {
		err = mapWriteError(err)
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return err
		}

		r.logger.Error().
			Err(err).
			Str("user_id", task.UserID).
			Msg("failed to insert task")
		return err
	}
	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (r *taskRepositoryImpl) SelectTasksByUserID(ctx context.Context, userID string) ([]*models.Task, error) {
	const selectTasksByUserIDQuery = `
SELECT id,
       title,
       description,
       completed,
       priority,
       due_date,
       goal_type,
       category_id,
       goal_id,
       created_at
FROM tasks
WHERE user_id = $1
ORDER BY id
`
	rows, err := r.pgPool.Query(
		ctx,
		selectTasksByUserIDQuery,
		userID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: userID}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.Priority,
			&task.DueDate,
			&task.GoalType,
			&task.CategoryID,
			&task.GoalID,
			&task.CreatedAt,
		)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	r.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks by user id")
	return tasks, nil
}

func (r *taskRepositoryImpl) SelectTaskByID(ctx context.Context, userID string, id int64) (*models.Task, error) {
	task := &models.Task{
		ID:     id,
		UserID: userID,
	}

	const selectTaskByIDQuery = `
SELECT title,
       description,
       completed,
       priority,
       due_date,
       goal_type,
       category_id,
       goal_id,
       created_at
FROM tasks
WHERE id = $1 AND user_id = $2
`
	err := r.pgPool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.Priority,
		&task.DueDate,
		&task.GoalType,
		&task.CategoryID,
		&task.GoalID,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}

		r.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to select task by id")
		return nil, err
	}
	r.logger.Debug().
		Int64("task_id", id).
		Msg("selected task by id")
	return task, nil
}

func (r *taskRepositoryImpl) UpdateTask(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    completed = $3,
    priority = $4,
    due_date = $5,
    goal_type = $6,
    category_id = $7,
    goal_id = $8
WHERE id = $9 AND user_id = $10
RETURNING created_at
`
	err := r.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		task.DueDate,
		task.GoalType,
		task.CategoryID,
		task.GoalID,
		task.ID,
		task.UserID,
	).Scan(&task.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		err = mapWriteError(err)
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return err
		}

		r.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	r.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")
	return nil
}

func (r *taskRepositoryImpl) DeleteTask(ctx context.Context, userID string, id int64) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := r.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		id,
		userID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	r.logger.Debug().
		Int64("task_id", id).
		Msg("deleted task")
	return nil
}
