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

type categoryRepositoryImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewCategoryRepository(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) repository.CategoryRepository {
	return &categoryRepositoryImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (r *categoryRepositoryImpl) InsertCategory(ctx context.Context, category *models.Category) error {
	const insertCategoryQuery = `
INSERT INTO categories (user_id,
                        name)
VALUES ($1, $2)
RETURNING id
`
	err := r.pgPool.QueryRow(
		ctx,
		insertCategoryQuery,
		category.UserID,
		category.Name,
	).Scan(&category.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", category.UserID).
			Msg("failed to insert category")
		return err
	}
	r.logger.Debug().
		Int64("category_id", category.ID).
		Msg("inserted category")
	return nil
}

func (r *categoryRepositoryImpl) SelectCategoriesByUserID(ctx context.Context, userID string) ([]*models.Category, error) {
	const selectCategoriesByUserIDQuery = `
SELECT id,
       name
FROM categories
WHERE user_id = $1
ORDER BY id
`
	rows, err := r.pgPool.Query(
		ctx,
		selectCategoriesByUserIDQuery,
		userID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select categories by user id")
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		category := &models.Category{UserID: userID}
		err = rows.Scan(
			&category.ID,
			&category.Name,
		)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan category")
			return nil, err
		}
		categories = append(categories, category)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	r.logger.Debug().
		Int("count", len(categories)).
		Str("user_id", userID).
		Msg("selected categories by user id")
	return categories, nil
}

func (r *categoryRepositoryImpl) SelectCategoryByID(ctx context.Context, userID string, id int64) (*models.Category, error) {
	category := &models.Category{
		ID:     id,
		UserID: userID,
	}

	const selectCategoryByIDQuery = `
SELECT name
FROM categories
WHERE id = $1 AND user_id = $2
`
	err := r.pgPool.QueryRow(
		ctx,
		selectCategoryByIDQuery,
		category.ID,
		category.UserID,
	).Scan(&category.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}

		r.logger.Error().
			Err(err).
			Int64("category_id", id).
			Msg("failed to select category by id")
		return nil, err
	}
	r.logger.Debug().
		Int64("category_id", id).
		Msg("selected category by id")
	return category, nil
}

func (r *categoryRepositoryImpl) UpdateCategory(ctx context.Context, category *models.Category) error {
	const updateCategoryQuery = `
UPDATE categories
SET name = $1
WHERE id = $2 AND user_id = $3
`
	tag, err := r.pgPool.Exec(
		ctx,
		updateCategoryQuery,
		category.Name,
		category.ID,
		category.UserID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("category_id", category.ID).
			Msg("failed to update category")
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	r.logger.Debug().
		Int64("category_id", category.ID).
		Msg("updated category")
	return nil
}

func (r *categoryRepositoryImpl) DeleteCategory(ctx context.Context, userID string, id int64) error {
	// Tasks of the category lose their reference through
	// ON DELETE SET NULL (category_id).
	const deleteCategoryQuery = `
DELETE FROM categories
WHERE id = $1 AND user_id = $2
`
	tag, err := r.pgPool.Exec(
		ctx,
		deleteCategoryQuery,
		id,
		userID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("category_id", id).
			Msg("failed to delete category")
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	r.logger.Debug().
		Int64("category_id", id).
		Msg("deleted category")
	return nil
}
