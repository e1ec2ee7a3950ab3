// Package repository declares the owner-scoped storage contracts for
// categories, goals and tasks.
//
// Every lookup, update and delete takes the owning user id and must treat
// rows of other users exactly like missing rows. Implementations are
// responsible for the referential rules between the entities:
//
//   - deleting a category clears the category of its tasks;
//   - deleting a goal deletes its tasks.
package repository

import (
	"context"
	"errors"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
)

var (
	// ErrNotFound is returned when a row doesn't exist or belongs
	// to another user.
	ErrNotFound = errors.New("row not found")

	// ErrReferenceNotFound is returned when a task references a
	// category or goal that doesn't exist for the same user.
	ErrReferenceNotFound = errors.New("referenced row not found")
)

type CategoryRepository interface {
	InsertCategory(ctx context.Context, category *models.Category) error
	SelectCategoriesByUserID(ctx context.Context, userID string) ([]*models.Category, error)
	SelectCategoryByID(ctx context.Context, userID string, id int64) (*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, userID string, id int64) error
}

type GoalRepository interface {
	InsertGoal(ctx context.Context, goal *models.Goal) error
	SelectGoalsByUserID(ctx context.Context, userID string) ([]*models.Goal, error)
	SelectGoalByID(ctx context.Context, userID string, id int64) (*models.Goal, error)
	// UpdateGoal stores every mutable field and refreshes UpdatedAt.
	// CreatedAt is filled from the stored row.
	UpdateGoal(ctx context.Context, goal *models.Goal) error
	DeleteGoal(ctx context.Context, userID string, id int64) error
}

type TaskRepository interface {
	InsertTask(ctx context.Context, task *models.Task) error
	SelectTasksByUserID(ctx context.Context, userID string) ([]*models.Task, error)
	SelectTaskByID(ctx context.Context, userID string, id int64) (*models.Task, error)
	// UpdateTask stores every mutable field. CreatedAt is filled
	// from the stored row.
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, userID string, id int64) error
}
