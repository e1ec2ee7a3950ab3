package models

import "time"

type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

type GoalType string

const (
	GoalTypeLong  GoalType = "LONG"
	GoalTypeShort GoalType = "SHORT"
	GoalTypeHabit GoalType = "HABIT"
)

func (t GoalType) Valid() bool {
	switch t {
	case GoalTypeLong, GoalTypeShort, GoalTypeHabit:
		return true
	default:
		return false
	}
}

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

type Task struct {
	ID          int64
	UserID      string
	Title       string
	Description *string
	Completed   bool
	Priority    Priority
	DueDate     *time.Time
	GoalType    GoalType
	CategoryID  *int64
	GoalID      *int64
	CreatedAt   time.Time
}
