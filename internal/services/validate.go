package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/adanyl0v/go-goal-tracker/internal/models"
)

const (
	maxCategoryNameLength = 100
	maxGoalNameLength     = 200
	maxTaskTitleLength    = 200
)

const (
	reasonRequired = "this field is required"
	reasonBlank    = "this field may not be blank"
	reasonNull     = "this field may not be null"
)

// checkText validates a non-nullable string field. An absent value is
// only reported when required is set.
func checkText(ve *ValidationError, field string, value Optional[string], required bool, maxLength int) {
	if !value.Set {
		if required {
			ve.add(field, reasonRequired)
		}
		return
	}
	if value.Value == nil {
		ve.add(field, reasonNull)
		return
	}
	if strings.TrimSpace(*value.Value) == "" {
		ve.add(field, reasonBlank)
		return
	}
	if utf8.RuneCountInString(*value.Value) > maxLength {
		ve.add(field, fmt.Sprintf("ensure this field has no more than %d characters", maxLength))
	}
}

func checkNotNull[T any](ve *ValidationError, field string, value Optional[T]) {
	if value.IsNull() {
		ve.add(field, reasonNull)
	}
}

func checkPriority(ve *ValidationError, p Optional[models.Priority]) {
	checkNotNull(ve, "priority", p)
	if p.Value != nil && !p.Value.Valid() {
		ve.add("priority", fmt.Sprintf("%q is not a valid choice", fmt.Sprint(int(*p.Value))))
	}
}

func checkGoalType(ve *ValidationError, t Optional[models.GoalType]) {
	checkNotNull(ve, "goal_type", t)
	if t.Value != nil && !t.Value.Valid() {
		ve.add("goal_type", fmt.Sprintf("%q is not a valid choice", string(*t.Value)))
	}
}

func invalidReference(id int64) string {
	return fmt.Sprintf("invalid pk %q - object does not exist", fmt.Sprint(id))
}
