package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
	"github.com/adanyl0v/go-goal-tracker/internal/repository"
)

type taskServiceImpl struct {
	logger     zerolog.Logger
	tasks      repository.TaskRepository
	categories repository.CategoryRepository
	goals      repository.GoalRepository
}

func NewTaskService(
	logger zerolog.Logger,
	tasks repository.TaskRepository,
	categories repository.CategoryRepository,
	goals repository.GoalRepository,
) TaskService {
	return &taskServiceImpl{
		logger:     logger,
		tasks:      tasks,
		categories: categories,
		goals:      goals,
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	tasks, err := s.tasks.SelectTasksByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("tasks found")
	return tasks, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, userID string, id int64) (*models.Task, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	task, err := s.tasks.SelectTaskByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info().
				Int64("task_id", id).
				Str("user_id", userID).
				Msg("task not found")
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if params.UserID == "" {
		return nil, ErrUnauthenticated
	}

	task := &models.Task{
		UserID:   params.UserID,
		Priority: models.PriorityMedium,
		GoalType: models.GoalTypeShort,
	}
	err := s.applyTaskFields(ctx, task, params.TaskFields, false)
	if err != nil {
		return nil, err
	}

	err = s.tasks.InsertTask(ctx, task)
	if err != nil {
		if errors.Is(err, repository.ErrReferenceNotFound) {
			return nil, referenceError(task)
		}
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	if params.UserID == "" {
		return nil, ErrUnauthenticated
	}

	task, err := s.GetTask(ctx, params.UserID, params.ID)
	if err != nil {
		return nil, err
	}

	err = s.applyTaskFields(ctx, task, params.TaskFields, params.Partial)
	if err != nil {
		return nil, err
	}

	err = s.tasks.UpdateTask(ctx, task)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrReferenceNotFound):
			return nil, referenceError(task)
		default:
			return nil, err
		}
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	err := s.tasks.DeleteTask(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info().
				Int64("task_id", id).
				Str("user_id", userID).
				Msg("task not found")
			return ErrNotFound
		}
		return err
	}

	s.logger.Info().
		Int64("task_id", id).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}

// applyTaskFields validates fields, checks that referenced rows belong
// to the task owner and copies the supplied fields onto task. Fields
// that were not sent keep their current value.
func (s *taskServiceImpl) applyTaskFields(ctx context.Context, task *models.Task, fields TaskFields, partial bool) error {
	var ve ValidationError
	checkText(&ve, "title", fields.Title, !partial, maxTaskTitleLength)
	checkNotNull(&ve, "completed", fields.Completed)
	checkPriority(&ve, fields.Priority)
	checkGoalType(&ve, fields.GoalType)

	if id := fields.CategoryID.Value; id != nil {
		_, err := s.categories.SelectCategoryByID(ctx, task.UserID, *id)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			ve.add("category", invalidReference(*id))
		}
	}
	if id := fields.GoalID.Value; id != nil {
		_, err := s.goals.SelectGoalByID(ctx, task.UserID, *id)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			ve.add("goal", invalidReference(*id))
		}
	}

	if err := ve.errOrNil(); err != nil {
		s.logger.Info().
			Err(err).
			Str("user_id", task.UserID).
			Msg("task rejected")
		return err
	}

	if fields.Title.Set {
		task.Title = *fields.Title.Value
	}
	if fields.Description.Set {
		task.Description = fields.Description.Value
	}
	if fields.Completed.Set {
		task.Completed = *fields.Completed.Value
	}
	if fields.Priority.Set {
		task.Priority = *fields.Priority.Value
	}
	if fields.DueDate.Set {
		task.DueDate = fields.DueDate.Value
	}
	if fields.GoalType.Set {
		task.GoalType = *fields.GoalType.Value
	}
	if fields.CategoryID.Set {
		task.CategoryID = fields.CategoryID.Value
	}
	if fields.GoalID.Set {
		task.GoalID = fields.GoalID.Value
	}
	return nil
}

// referenceError reports a category or goal that vanished between
// validation and the write.
func referenceError(task *models.Task) error {
	var ve ValidationError
	if task.CategoryID != nil {
		ve.add("category", invalidReference(*task.CategoryID))
	}
	if task.GoalID != nil {
		ve.add("goal", invalidReference(*task.GoalID))
	}
	if len(ve.Fields) == 0 {
		ve.add("non_field_errors", "referenced object does not exist")
	}
	return &ve
}
