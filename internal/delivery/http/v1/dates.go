package v1

import (
	"time"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
)

// parseDate converts a date that already passed the datetime binding rule.
func parseDate(s string) time.Time {
	t, _ := time.Parse(models.DateLayout, s)
	return t
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(models.DateLayout)
	return &s
}
