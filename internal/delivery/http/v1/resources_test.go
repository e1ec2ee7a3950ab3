package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestTasks_CreateAppliesDefaultsAndOwner(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/tasks", aliceToken, map[string]any{
		"title": "Buy milk",
		"user":  bob,
		"owner": bob,
	})
	expectStatus(t, rec, http.StatusCreated)

	task := decodeObject(t, rec)
	if task["completed"] != false {
		t.Errorf("expected completed=false, got %v", task["completed"])
	}
	if task["priority"] != float64(2) {
		t.Errorf("expected priority=2, got %v", task["priority"])
	}
	if task["goal_type"] != "SHORT" {
		t.Errorf("expected goal_type=SHORT, got %v", task["goal_type"])
	}
	if task["user"] != alice {
		t.Errorf("expected user=%s, got %v", alice, task["user"])
	}
	if task["category"] != nil || task["goal"] != nil || task["due_date"] != nil {
		t.Errorf("expected empty references, got %v", task)
	}

	path := fmt.Sprintf("/api/v1/tasks/%d", int64(task["id"].(float64)))
	expectStatus(t, s.do(t, http.MethodGet, path, bobToken, nil), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodGet, path, aliceToken, nil), http.StatusOK)
}

func TestResources_CrossUserIsolation(t *testing.T) {
	resources := []struct {
		name   string
		create map[string]any
		update map[string]any
	}{
		{"categories", map[string]any{"name": "home"}, map[string]any{"name": "taken"}},
		{"goals", map[string]any{"name": "marathon"}, map[string]any{"name": "taken"}},
		{"tasks", map[string]any{"title": "stretch"}, map[string]any{"title": "taken"}},
	}
	for _, res := range resources {
		t.Run(res.name, func(t *testing.T) {
			s := newTestServer(t)
			base := "/api/v1/" + res.name

			id := createdID(t, s.do(t, http.MethodPost, base, aliceToken, res.create))
			path := fmt.Sprintf("%s/%d", base, id)

			rec := s.do(t, http.MethodGet, base, bobToken, nil)
			expectStatus(t, rec, http.StatusOK)
			if list := decodeList(t, rec); len(list) != 0 {
				t.Fatalf("bob sees alice's rows: %v", list)
			}

			expectStatus(t, s.do(t, http.MethodGet, path, bobToken, nil), http.StatusNotFound)
			expectStatus(t, s.do(t, http.MethodPut, path, bobToken, res.update), http.StatusNotFound)
			expectStatus(t, s.do(t, http.MethodPatch, path, bobToken, res.update), http.StatusNotFound)
			expectStatus(t, s.do(t, http.MethodDelete, path, bobToken, nil), http.StatusNotFound)

			// A missing row answers exactly like a foreign one.
			missing := s.do(t, http.MethodGet, base+"/9999", bobToken, nil)
			foreign := s.do(t, http.MethodGet, path, bobToken, nil)
			if missing.Body.String() != foreign.Body.String() {
				t.Fatalf("missing and foreign rows differ: %q vs %q", missing.Body.String(), foreign.Body.String())
			}

			rec = s.do(t, http.MethodGet, base, aliceToken, nil)
			expectStatus(t, rec, http.StatusOK)
			if list := decodeList(t, rec); len(list) != 1 {
				t.Fatalf("expected alice to see 1 row, got %d", len(list))
			}

			expectStatus(t, s.do(t, http.MethodDelete, path, aliceToken, nil), http.StatusNoContent)
			expectStatus(t, s.do(t, http.MethodGet, path, aliceToken, nil), http.StatusNotFound)
		})
	}
}

func TestResources_RequireAuthentication(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/categories", "/api/v1/goals", "/api/v1/tasks", "/api/v1/tasks/1"} {
		rec := s.do(t, http.MethodGet, path, "", nil)
		expectStatus(t, rec, http.StatusUnauthorized)
	}
	rec := s.do(t, http.MethodPost, "/api/v1/tasks", "", map[string]any{"title": "x"})
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestResources_MalformedIDIsNotFound(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/tasks/abc", "/api/v1/goals/-1", "/api/v1/categories/0"} {
		expectStatus(t, s.do(t, http.MethodGet, path, aliceToken, nil), http.StatusNotFound)
	}
}

func TestTasks_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"missing title", map[string]any{"description": "x"}, "title"},
		{"blank title", map[string]any{"title": ""}, "title"},
		{"priority out of range", map[string]any{"title": "x", "priority": 5}, "priority"},
		{"priority zero", map[string]any{"title": "x", "priority": 0}, "priority"},
		{"priority wrong type", map[string]any{"title": "x", "priority": "high"}, "priority"},
		{"goal type out of enum", map[string]any{"title": "x", "goal_type": "YEARLY"}, "goal_type"},
		{"malformed due date", map[string]any{"title": "x", "due_date": "2025/01/01"}, "due_date"},
		{"title too long", map[string]any{"title": strings.Repeat("a", 201)}, "title"},
		{"unknown category", map[string]any{"title": "x", "category": 77}, "category"},
		{"completed wrong type", map[string]any{"title": "x", "completed": "yes"}, "completed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(t, http.MethodPost, "/api/v1/tasks", aliceToken, tt.body)
			expectStatus(t, rec, http.StatusBadRequest)

			body := decodeObject(t, rec)
			fields, ok := body["fields"].(map[string]any)
			if !ok {
				t.Fatalf("response has no fields: %v", body)
			}
			if _, ok = fields[tt.field]; !ok {
				t.Fatalf("expected field %q in %v", tt.field, fields)
			}

			list := decodeList(t, s.do(t, http.MethodGet, "/api/v1/tasks", aliceToken, nil))
			if len(list) != 0 {
				t.Fatalf("rejected task was stored: %v", list)
			}
		})
	}
}

func TestTasks_CannotReferenceForeignRows(t *testing.T) {
	s := newTestServer(t)

	categoryID := createdID(t, s.do(t, http.MethodPost, "/api/v1/categories", aliceToken, map[string]any{"name": "private"}))
	goalID := createdID(t, s.do(t, http.MethodPost, "/api/v1/goals", aliceToken, map[string]any{"name": "private"}))

	rec := s.do(t, http.MethodPost, "/api/v1/tasks", bobToken, map[string]any{
		"title":    "sneaky",
		"category": categoryID,
		"goal":     goalID,
	})
	expectStatus(t, rec, http.StatusBadRequest)
	fields := decodeObject(t, rec)["fields"].(map[string]any)
	if _, ok := fields["category"]; !ok {
		t.Fatalf("expected category error, got %v", fields)
	}
	if _, ok := fields["goal"]; !ok {
		t.Fatalf("expected goal error, got %v", fields)
	}
}

func TestCategories_DeleteClearsTaskCategory(t *testing.T) {
	s := newTestServer(t)

	categoryID := createdID(t, s.do(t, http.MethodPost, "/api/v1/categories", aliceToken, map[string]any{"name": "errands"}))
	taskID := createdID(t, s.do(t, http.MethodPost, "/api/v1/tasks", aliceToken, map[string]any{
		"title":    "post office",
		"category": categoryID,
	}))

	expectStatus(t, s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", categoryID), aliceToken, nil), http.StatusNoContent)

	rec := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", taskID), aliceToken, nil)
	expectStatus(t, rec, http.StatusOK)
	if task := decodeObject(t, rec); task["category"] != nil {
		t.Fatalf("expected category to be cleared, got %v", task["category"])
	}
}

func TestGoals_DeleteRemovesTasks(t *testing.T) {
	s := newTestServer(t)

	goalID := createdID(t, s.do(t, http.MethodPost, "/api/v1/goals", aliceToken, map[string]any{
		"name":       "marathon",
		"start_date": "2025-01-01",
		"end_date":   "2025-10-01",
	}))
	taskID := createdID(t, s.do(t, http.MethodPost, "/api/v1/tasks", aliceToken, map[string]any{
		"title": "run 10k",
		"goal":  goalID,
	}))

	expectStatus(t, s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/goals/%d", goalID), aliceToken, nil), http.StatusNoContent)
	expectStatus(t, s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", taskID), aliceToken, nil), http.StatusNotFound)
}

func TestGoals_RoundTripDates(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/goals", aliceToken, map[string]any{
		"name":        "read 12 books",
		"description": "one a month",
		"start_date":  "2025-01-01",
		"end_date":    "2025-12-31",
	})
	expectStatus(t, rec, http.StatusCreated)
	goal := decodeObject(t, rec)
	if goal["start_date"] != "2025-01-01" || goal["end_date"] != "2025-12-31" {
		t.Fatalf("unexpected dates: %v", goal)
	}
	if goal["user"] != alice {
		t.Fatalf("expected user=%s, got %v", alice, goal["user"])
	}

	path := fmt.Sprintf("/api/v1/goals/%d", int64(goal["id"].(float64)))
	rec = s.do(t, http.MethodPatch, path, aliceToken, map[string]any{"end_date": "2024-12-31"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = s.do(t, http.MethodPut, path, aliceToken, map[string]any{"name": "read 6 books"})
	expectStatus(t, rec, http.StatusOK)
	goal = decodeObject(t, rec)
	if goal["name"] != "read 6 books" || goal["description"] != "one a month" ||
		goal["start_date"] != "2025-01-01" || goal["end_date"] != "2025-12-31" {
		t.Fatalf("full update should keep fields that were not sent: %v", goal)
	}

	rec = s.do(t, http.MethodPatch, path, aliceToken, `{"description": null, "end_date": null}`)
	expectStatus(t, rec, http.StatusOK)
	goal = decodeObject(t, rec)
	if goal["description"] != nil || goal["end_date"] != nil || goal["start_date"] != "2025-01-01" {
		t.Fatalf("expected description and end_date to be cleared: %v", goal)
	}

	rec = s.do(t, http.MethodPatch, path, aliceToken, `{"name": null}`)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestTasks_PartialUpdate(t *testing.T) {
	s := newTestServer(t)

	taskID := createdID(t, s.do(t, http.MethodPost, "/api/v1/tasks", aliceToken, map[string]any{
		"title":     "meditate",
		"priority":  3,
		"goal_type": "HABIT",
		"due_date":  "2025-08-01",
	}))
	path := fmt.Sprintf("/api/v1/tasks/%d", taskID)

	rec := s.do(t, http.MethodPatch, path, aliceToken, map[string]any{"completed": true, "user": bob})
	expectStatus(t, rec, http.StatusOK)
	task := decodeObject(t, rec)
	if task["completed"] != true || task["priority"] != float64(3) || task["goal_type"] != "HABIT" || task["due_date"] != "2025-08-01" {
		t.Fatalf("unexpected task after patch: %v", task)
	}
	if task["user"] != alice {
		t.Fatalf("owner changed to %v", task["user"])
	}

	rec = s.do(t, http.MethodPut, path, aliceToken, map[string]any{"completed": true})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestCategories_CreateRequiresName(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/categories", aliceToken, map[string]any{})
	expectStatus(t, rec, http.StatusBadRequest)
	fields := decodeObject(t, rec)["fields"].(map[string]any)
	if fields["name"] != "this field is required" {
		t.Fatalf("unexpected name error: %v", fields)
	}

	rec = s.do(t, http.MethodPost, "/api/v1/categories", aliceToken, `{"name": `)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestTasks_PatchNullClearsNullableFields(t *testing.T) {
	s := newTestServer(t)

	categoryID := createdID(t, s.do(t, http.MethodPost, "/api/v1/categories", aliceToken, map[string]any{"name": "home"}))
	goalID := createdID(t, s.do(t, http.MethodPost, "/api/v1/goals", aliceToken, map[string]any{"name": "tidy"}))
	taskID := createdID(t, s.do(t, http.MethodPost, "/api/v1/tasks", aliceToken, map[string]any{
		"title":       "vacuum",
		"description": "both floors",
		"due_date":    "2025-01-01",
		"category":    categoryID,
		"goal":        goalID,
	}))
	path := fmt.Sprintf("/api/v1/tasks/%d", taskID)

	rec := s.do(t, http.MethodPatch, path, aliceToken,
		`{"category": null, "goal": null, "due_date": null, "description": null}`)
	expectStatus(t, rec, http.StatusOK)
	task := decodeObject(t, rec)
	for _, field := range []string{"category", "goal", "due_date", "description"} {
		if task[field] != nil {
			t.Errorf("expected %s to be cleared, got %v", field, task[field])
		}
	}
	if task["title"] != "vacuum" {
		t.Fatalf("title changed to %v", task["title"])
	}
}

func TestTasks_NullRejectedForRequiredFields(t *testing.T) {
	for _, field := range []string{"title", "completed", "priority", "goal_type"} {
		t.Run(field, func(t *testing.T) {
			s := newTestServer(t)

			taskID := createdID(t, s.do(t, http.MethodPost, "/api/v1/tasks", aliceToken, map[string]any{
				"title":    "stretch",
				"priority": 3,
			}))
			path := fmt.Sprintf("/api/v1/tasks/%d", taskID)

			rec := s.do(t, http.MethodPatch, path, aliceToken, fmt.Sprintf(`{%q: null}`, field))
			expectStatus(t, rec, http.StatusBadRequest)
			fields := decodeObject(t, rec)["fields"].(map[string]any)
			if fields[field] != "this field may not be null" {
				t.Fatalf("unexpected errors: %v", fields)
			}

			task := decodeObject(t, s.do(t, http.MethodGet, path, aliceToken, nil))
			if task["title"] != "stretch" || task["priority"] != float64(3) ||
				task["completed"] != false || task["goal_type"] != "SHORT" {
				t.Fatalf("rejected update changed the task: %v", task)
			}
		})
	}
}

func TestTasks_UpdateRejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   map[string]any
		field  string
	}{
		{"patch priority", http.MethodPatch, map[string]any{"priority": 9}, "priority"},
		{"patch goal type", http.MethodPatch, map[string]any{"goal_type": "YEARLY"}, "goal_type"},
		{"put priority", http.MethodPut, map[string]any{"title": "changed", "priority": 9}, "priority"},
		{"put goal type", http.MethodPut, map[string]any{"title": "changed", "goal_type": "YEARLY"}, "goal_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			taskID := createdID(t, s.do(t, http.MethodPost, "/api/v1/tasks", aliceToken, map[string]any{
				"title":     "stretch",
				"priority":  1,
				"goal_type": "HABIT",
			}))
			path := fmt.Sprintf("/api/v1/tasks/%d", taskID)

			rec := s.do(t, tt.method, path, aliceToken, tt.body)
			expectStatus(t, rec, http.StatusBadRequest)
			fields := decodeObject(t, rec)["fields"].(map[string]any)
			if _, ok := fields[tt.field]; !ok {
				t.Fatalf("expected %s error, got %v", tt.field, fields)
			}

			task := decodeObject(t, s.do(t, http.MethodGet, path, aliceToken, nil))
			if task["title"] != "stretch" || task["priority"] != float64(1) || task["goal_type"] != "HABIT" {
				t.Fatalf("rejected update changed the task: %v", task)
			}
		})
	}
}

func TestTasks_PutKeepsFieldsNotSent(t *testing.T) {
	s := newTestServer(t)

	categoryID := createdID(t, s.do(t, http.MethodPost, "/api/v1/categories", aliceToken, map[string]any{"name": "home"}))
	taskID := createdID(t, s.do(t, http.MethodPost, "/api/v1/tasks", aliceToken, map[string]any{
		"title":     "clean",
		"priority":  3,
		"goal_type": "LONG",
		"due_date":  "2025-07-01",
		"category":  categoryID,
	}))

	rec := s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/tasks/%d", taskID), aliceToken, map[string]any{"title": "tidy"})
	expectStatus(t, rec, http.StatusOK)
	task := decodeObject(t, rec)
	if task["title"] != "tidy" || task["priority"] != float64(3) || task["goal_type"] != "LONG" ||
		task["due_date"] != "2025-07-01" || task["category"] != float64(categoryID) {
		t.Fatalf("full update dropped fields that were not sent: %v", task)
	}
}

func TestClientMistakesAreNotLoggedAsErrors(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServerWithLogger(t, zerolog.New(&buf).Level(zerolog.DebugLevel))

	expectStatus(t, s.do(t, http.MethodGet, "/api/v1/tasks/abc", aliceToken, nil), http.StatusNotFound)
	expectStatus(t, s.do(t, http.MethodPost, "/api/v1/tasks", aliceToken, `{"priority": "high"}`), http.StatusBadRequest)
	expectStatus(t, s.do(t, http.MethodPost, "/api/v1/tasks", aliceToken, map[string]any{"priority": 7}), http.StatusBadRequest)

	if buf.Len() == 0 {
		t.Fatal("expected the rejected requests to be logged")
	}
	if strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("client mistakes logged at error level: %s", buf.String())
	}
}
