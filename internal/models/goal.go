package models

import "time"

type Goal struct {
	ID          int64
	UserID      string
	Name        string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
