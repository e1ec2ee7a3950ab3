// Package memory implements the repository contracts on top of plain maps.
// It applies the same referential rules the postgres schema declares.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
	"github.com/adanyl0v/go-goal-tracker/internal/repository"
)

type Store struct {
	mu         sync.RWMutex
	categories map[int64]models.Category
	goals      map[int64]models.Goal
	tasks      map[int64]models.Task

	lastCategoryID int64
	lastGoalID     int64
	lastTaskID     int64

	now func() time.Time
}

var (
	_ repository.CategoryRepository = (*Store)(nil)
	_ repository.GoalRepository     = (*Store)(nil)
	_ repository.TaskRepository     = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		categories: make(map[int64]models.Category),
		goals:      make(map[int64]models.Goal),
		tasks:      make(map[int64]models.Task),
		now:        time.Now,
	}
}

func (s *Store) InsertCategory(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCategoryID++
	category.ID = s.lastCategoryID
	s.categories[category.ID] = *category
	return nil
}

func (s *Store) SelectCategoriesByUserID(_ context.Context, userID string) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]*models.Category, 0)
	for _, c := range s.categories {
		if c.UserID == userID {
			categories = append(categories, &c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (s *Store) SelectCategoryByID(_ context.Context, userID string, id int64) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *Store) UpdateCategory(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[category.ID]
	if !ok || c.UserID != category.UserID {
		return repository.ErrNotFound
	}
	s.categories[category.ID] = *category
	return nil
}

// DeleteCategory removes the category and clears it from the owner's tasks.
func (s *Store) DeleteCategory(_ context.Context, userID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.categories, id)

	for taskID, t := range s.tasks {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
			s.tasks[taskID] = t
		}
	}
	return nil
}

func (s *Store) InsertGoal(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.lastGoalID++
	goal.ID = s.lastGoalID
	goal.CreatedAt = now
	goal.UpdatedAt = now
	s.goals[goal.ID] = *goal
	return nil
}

func (s *Store) SelectGoalsByUserID(_ context.Context, userID string) ([]*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := make([]*models.Goal, 0)
	for _, g := range s.goals {
		if g.UserID == userID {
			goals = append(goals, &g)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

func (s *Store) SelectGoalByID(_ context.Context, userID string, id int64) (*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (s *Store) UpdateGoal(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[goal.ID]
	if !ok || g.UserID != goal.UserID {
		return repository.ErrNotFound
	}
	goal.CreatedAt = g.CreatedAt
	goal.UpdatedAt = s.now()
	s.goals[goal.ID] = *goal
	return nil
}

// DeleteGoal removes the goal together with every task attached to it.
func (s *Store) DeleteGoal(_ context.Context, userID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.goals, id)

	for taskID, t := range s.tasks {
		if t.GoalID != nil && *t.GoalID == id {
			delete(s.tasks, taskID)
		}
	}
	return nil
}

func (s *Store) InsertTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTaskReferences(task); err != nil {
		return err
	}

	s.lastTaskID++
	task.ID = s.lastTaskID
	task.CreatedAt = s.now()
	s.tasks[task.ID] = *task
	return nil
}

func (s *Store) SelectTasksByUserID(_ context.Context, userID string) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*models.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == userID {
			tasks = append(tasks, &t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (s *Store) SelectTaskByID(_ context.Context, userID string, id int64) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *Store) UpdateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[task.ID]
	if !ok || t.UserID != task.UserID {
		return repository.ErrNotFound
	}
	if err := s.checkTaskReferences(task); err != nil {
		return err
	}
	task.CreatedAt = t.CreatedAt
	s.tasks[task.ID] = *task
	return nil
}

func (s *Store) DeleteTask(_ context.Context, userID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// checkTaskReferences must be called with s.mu held.
func (s *Store) checkTaskReferences(task *models.Task) error {
	if task.CategoryID != nil {
		c, ok := s.categories[*task.CategoryID]
		if !ok || c.UserID != task.UserID {
			return repository.ErrReferenceNotFound
		}
	}
	if task.GoalID != nil {
		g, ok := s.goals[*task.GoalID]
		if !ok || g.UserID != task.UserID {
			return repository.ErrReferenceNotFound
		}
	}
	return nil
}
