package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
)

var (
	ErrUnauthenticated      = errors.New("authentication credentials were not provided")
	ErrNotFound             = errors.New("not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
)

// ValidationError lists the rejected input fields with a reason for each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = reason
	}
}

func (e *ValidationError) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// CategoryService, GoalService and TaskService scope every operation to
// the caller identified by the user ID they receive. Rows owned by other
// users behave as if they didn't exist and yield ErrNotFound. An empty
// user ID yields ErrUnauthenticated before any data is touched.
//
// Create and Update return *ValidationError when the input is rejected;
// nothing is stored in that case.
type CategoryService interface {
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)
	GetCategory(ctx context.Context, userID string, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error)
	UpdateCategory(ctx context.Context, params UpdateCategoryParams) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID string, id int64) error
}

type GoalService interface {
	ListGoals(ctx context.Context, userID string) ([]*models.Goal, error)
	GetGoal(ctx context.Context, userID string, id int64) (*models.Goal, error)
	CreateGoal(ctx context.Context, params CreateGoalParams) (*models.Goal, error)
	UpdateGoal(ctx context.Context, params UpdateGoalParams) (*models.Goal, error)
	// DeleteGoal also deletes every task attached to the goal.
	DeleteGoal(ctx context.Context, userID string, id int64) error
}

type TaskService interface {
	ListTasks(ctx context.Context, userID string) ([]*models.Task, error)
	GetTask(ctx context.Context, userID string, id int64) (*models.Task, error)
	// CreateTask rejects references to categories or goals
	// the caller doesn't own.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	DeleteTask(ctx context.Context, userID string, id int64) error
}

type AuthService interface {
	// Login authenticates the user by username and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// username doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given username and password.
	//
	// It returns ErrUserAlreadyExists if the username is taken.
	Register(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// DeleteAccount removes the user together with every
	// session, category, goal and task they own.
	DeleteAccount(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or an error wrapping jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

// Optional is a client-supplied input field. An Optional with Set
// unset was not sent at all; a set Optional with a nil Value is an
// explicit null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// IsNull reports whether the field was sent as null.
func (o Optional[T]) IsNull() bool {
	return o.Set && o.Value == nil
}

type CreateCategoryParams struct {
	UserID string
	Name   Optional[string]
}

// UpdateCategoryParams describes a full update unless Partial is set.
type UpdateCategoryParams struct {
	ID      int64
	UserID  string
	Partial bool
	Name    Optional[string]
}

// GoalFields holds the client-settable goal fields. Fields that were
// not sent keep their stored value; nullable fields sent as null are
// cleared.
type GoalFields struct {
	Name        Optional[string]
	Description Optional[string]
	StartDate   Optional[time.Time]
	EndDate     Optional[time.Time]
}

type CreateGoalParams struct {
	UserID string
	GoalFields
}

// UpdateGoalParams describes a full update unless Partial is set.
// A full update requires the name; both kinds leave fields that
// were not sent untouched.
type UpdateGoalParams struct {
	ID      int64
	UserID  string
	Partial bool
	GoalFields
}

// TaskFields holds the client-settable task fields with the same
// absent/null/value semantics as GoalFields. Only Description,
// DueDate, CategoryID and GoalID accept null.
type TaskFields struct {
	Title       Optional[string]
	Description Optional[string]
	Completed   Optional[bool]
	Priority    Optional[models.Priority]
	DueDate     Optional[time.Time]
	GoalType    Optional[models.GoalType]
	CategoryID  Optional[int64]
	GoalID      Optional[int64]
}

type CreateTaskParams struct {
	UserID string
	TaskFields
}

// UpdateTaskParams describes a full update unless Partial is set.
// A full update requires the title.
type UpdateTaskParams struct {
	ID      int64
	UserID  string
	Partial bool
	TaskFields
}

type LoginParams struct {
	Username    string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}
