package models

type Category struct {
	ID     int64
	UserID string
	Name   string
}
