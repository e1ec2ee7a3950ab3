package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
	"github.com/adanyl0v/go-goal-tracker/internal/repository"
)

type goalServiceImpl struct {
	logger zerolog.Logger
	goals  repository.GoalRepository
}

func NewGoalService(
	logger zerolog.Logger,
	goals repository.GoalRepository,
) GoalService {
	return &goalServiceImpl{
		logger: logger,
		goals:  goals,
	}
}

func (s *goalServiceImpl) ListGoals(ctx context.Context, userID string) ([]*models.Goal, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	goals, err := s.goals.SelectGoalsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int("count", len(goals)).
		Str("user_id", userID).
		Msg("goals found")
	return goals, nil
}

func (s *goalServiceImpl) GetGoal(ctx context.Context, userID string, id int64) (*models.Goal, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	goal, err := s.goals.SelectGoalByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info().
				Int64("goal_id", id).
				Str("user_id", userID).
				Msg("goal not found")
			return nil, ErrNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (s *goalServiceImpl) CreateGoal(ctx context.Context, params CreateGoalParams) (*models.Goal, error) {
	if params.UserID == "" {
		return nil, ErrUnauthenticated
	}

	goal := &models.Goal{UserID: params.UserID}
	err := applyGoalFields(goal, params.GoalFields, false)
	if err != nil {
		return nil, err
	}

	err = s.goals.InsertGoal(ctx, goal)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("goal_id", goal.ID).
		Str("user_id", goal.UserID).
		Msg("created goal")
	return goal, nil
}

func (s *goalServiceImpl) UpdateGoal(ctx context.Context, params UpdateGoalParams) (*models.Goal, error) {
	if params.UserID == "" {
		return nil, ErrUnauthenticated
	}

	goal, err := s.GetGoal(ctx, params.UserID, params.ID)
	if err != nil {
		return nil, err
	}

	err = applyGoalFields(goal, params.GoalFields, params.Partial)
	if err != nil {
		return nil, err
	}

	err = s.goals.UpdateGoal(ctx, goal)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.logger.Info().
		Int64("goal_id", goal.ID).
		Str("user_id", goal.UserID).
		Msg("updated goal")
	return goal, nil
}

func (s *goalServiceImpl) DeleteGoal(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	err := s.goals.DeleteGoal(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info().
				Int64("goal_id", id).
				Str("user_id", userID).
				Msg("goal not found")
			return ErrNotFound
		}
		return err
	}

	s.logger.Info().
		Int64("goal_id", id).
		Str("user_id", userID).
		Msg("deleted goal")
	return nil
}

// applyGoalFields validates fields and copies the supplied ones onto
// goal. A full update only differs from a partial one in requiring
// the name.
func applyGoalFields(goal *models.Goal, fields GoalFields, partial bool) error {
	var ve ValidationError
	checkText(&ve, "name", fields.Name, !partial, maxGoalNameLength)
	if err := ve.errOrNil(); err != nil {
		return err
	}

	if fields.Name.Set {
		goal.Name = *fields.Name.Value
	}
	if fields.Description.Set {
		goal.Description = fields.Description.Value
	}
	if fields.StartDate.Set {
		goal.StartDate = fields.StartDate.Value
	}
	if fields.EndDate.Set {
		goal.EndDate = fields.EndDate.Value
	}

	if goal.StartDate != nil && goal.EndDate != nil && goal.EndDate.Before(*goal.StartDate) {
		ve.add("end_date", "must not be before start_date")
	}
	return ve.errOrNil()
}
