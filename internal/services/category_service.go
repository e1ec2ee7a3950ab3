package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
	"github.com/adanyl0v/go-goal-tracker/internal/repository"
)

type categoryServiceImpl struct {
	logger     zerolog.Logger
	categories repository.CategoryRepository
}

func NewCategoryService(
	logger zerolog.Logger,
	categories repository.CategoryRepository,
) CategoryService {
	return &categoryServiceImpl{
		logger:     logger,
		categories: categories,
	}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	categories, err := s.categories.SelectCategoriesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int("count", len(categories)).
		Str("user_id", userID).
		Msg("categories found")
	return categories, nil
}

func (s *categoryServiceImpl) GetCategory(ctx context.Context, userID string, id int64) (*models.Category, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	category, err := s.categories.SelectCategoryByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info().
				Int64("category_id", id).
				Str("user_id", userID).
				Msg("category not found")
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error) {
	if params.UserID == "" {
		return nil, ErrUnauthenticated
	}

	var ve ValidationError
	checkText(&ve, "name", params.Name, true, maxCategoryNameLength)
	if err := ve.errOrNil(); err != nil {
		return nil, err
	}

	category := &models.Category{
		UserID: params.UserID,
		Name:   *params.Name.Value,
	}
	err := s.categories.InsertCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("category_id", category.ID).
		Str("user_id", category.UserID).
		Msg("created category")
	return category, nil
}

func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, params UpdateCategoryParams) (*models.Category, error) {
	if params.UserID == "" {
		return nil, ErrUnauthenticated
	}

	category, err := s.GetCategory(ctx, params.UserID, params.ID)
	if err != nil {
		return nil, err
	}

	var ve ValidationError
	checkText(&ve, "name", params.Name, !params.Partial, maxCategoryNameLength)
	if err = ve.errOrNil(); err != nil {
		return nil, err
	}
	if !params.Name.Set {
		s.logger.Debug().
			Int64("category_id", category.ID).
			Msg("no fields to update")
		return category, nil
	}
	category.Name = *params.Name.Value

	err = s.categories.UpdateCategory(ctx, category)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.logger.Info().
		Int64("category_id", category.ID).
		Str("user_id", category.UserID).
		Msg("updated category")
	return category, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	err := s.categories.DeleteCategory(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info().
				Int64("category_id", id).
				Str("user_id", userID).
				Msg("category not found")
			return ErrNotFound
		}
		return err
	}

	s.logger.Info().
		Int64("category_id", id).
		Str("user_id", userID).
		Msg("deleted category")
	return nil
}
