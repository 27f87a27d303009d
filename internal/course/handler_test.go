package course

import (
	"context"
	"net/http"
	"testing"

	"github.com/academix/records/internal/apitest"
	"github.com/academix/records/internal/middleware"
	"github.com/academix/records/internal/token"
	"github.com/gin-gonic/gin"
)

type fakeStore struct {
	courses map[int64]*Course
	nextID  int64
}

func (f *fakeStore) List(context.Context) ([]Course, error) {
	out := []Course{}
	for id := f.nextID; id > 0; id-- {
		if c, ok := f.courses[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (*Course, error) {
	return f.courses[id], nil
}

func (f *fakeStore) CodeTaken(_ context.Context, code string, excludeID int64) (bool, error) {
	for id, c := range f.courses {
		if id != excludeID && c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(_ context.Context, in Input) (int64, error) {
	f.nextID++
	f.courses[f.nextID] = toCourse(f.nextID, in)
	return f.nextID, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, in Input) error {
	if _, ok := f.courses[id]; !ok {
		return ErrNotFound
	}
	f.courses[id] = toCourse(id, in)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.courses[id]; !ok {
		return ErrNotFound
	}
	delete(f.courses, id)
	return nil
}

func toCourse(id int64, in Input) *Course {
	return &Course{
		ID: id, Code: in.Code, Name: in.Name, Description: in.Description,
		Credits: in.Credits, Instructor: in.Instructor, Capacity: *in.Capacity,
	}
}

func newCourseRouter(t *testing.T) (*gin.Engine, *fakeStore, string, string) {
	t.Helper()

	tokens := apitest.Tokens(t)
	store := &fakeStore{courses: make(map[int64]*Course)}
	h := NewHandler(store)

	router := gin.New()
	api := router.Group("/api", middleware.Auth(tokens))
	api.GET("/courses", h.List)
	api.GET("/courses/:id", h.Get)

	admin := api.Group("", middleware.RequireRole(token.RoleAdmin))
	admin.POST("/courses", h.Create)
	admin.PUT("/courses/:id", h.Update)
	admin.DELETE("/courses/:id", h.Delete)

	return router, store,
		apitest.Bearer(tokens, 1, "admin@academix.edu", token.RoleAdmin),
		apitest.Bearer(tokens, 2, "jane@academix.edu", token.RoleStudent)
}

func TestHandler_CourseLifecycle(t *testing.T) {
	router, store, admin, student := newCourseRouter(t)

	body := Input{Code: " cs101 ", Name: "Intro to Programming", Credits: 3, Instructor: "Dr. Smith"}
	rec := apitest.Do(t, router, http.MethodPost, "/api/courses", body, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := store.courses[1]; got.Code != "CS101" || got.Capacity != DefaultCapacity {
		t.Errorf("stored course = %+v", got)
	}

	// Students may read the catalogue
	rec = apitest.Do(t, router, http.MethodGet, "/api/courses", nil, student)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var list []Course
	apitest.Decode(t, rec, &list)
	if len(list) != 1 || list[0].Code != "CS101" {
		t.Errorf("list = %+v", list)
	}

	body.Credits = 4
	rec = apitest.Do(t, router, http.MethodPut, "/api/courses/1", body, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body = %s", rec.Code, rec.Body)
	}
	if store.courses[1].Credits != 4 {
		t.Errorf("credits = %d, want 4", store.courses[1].Credits)
	}

	rec = apitest.Do(t, router, http.MethodDelete, "/api/courses/1", nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", rec.Code)
	}
	rec = apitest.Do(t, router, http.MethodGet, "/api/courses/1", nil, admin)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET deleted status = %d, want 404", rec.Code)
	}
}

func TestHandler_CourseRejects(t *testing.T) {
	router, _, admin, student := newCourseRouter(t)
	seed := Input{Code: "CS101", Name: "Intro", Credits: 3}
	if rec := apitest.Do(t, router, http.MethodPost, "/api/courses", seed, admin); rec.Code != http.StatusCreated {
		t.Fatalf("seed status = %d", rec.Code)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		auth   string
		status int
		field  string
	}{
		{"duplicate code", http.MethodPost, "/api/courses", Input{Code: "cs101", Name: "Again", Credits: 3}, admin, http.StatusUnprocessableEntity, "code"},
		{"missing name", http.MethodPost, "/api/courses", Input{Code: "CS102", Credits: 3}, admin, http.StatusUnprocessableEntity, "name"},
		{"zero credits", http.MethodPost, "/api/courses", Input{Code: "CS103", Name: "Zero"}, admin, http.StatusUnprocessableEntity, "credits"},
		{"student cannot create", http.MethodPost, "/api/courses", Input{Code: "CS104", Name: "X", Credits: 1}, student, http.StatusForbidden, ""},
		{"student cannot delete", http.MethodDelete, "/api/courses/1", nil, student, http.StatusForbidden, ""},
		{"update missing", http.MethodPut, "/api/courses/9", seed, admin, http.StatusNotFound, ""},
		{"delete missing", http.MethodDelete, "/api/courses/9", nil, admin, http.StatusNotFound, ""},
		{"anonymous", http.MethodGet, "/api/courses", nil, "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := apitest.Do(t, router, tt.method, tt.path, tt.body, tt.auth)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			if tt.field != "" {
				env := apitest.Decode(t, rec, nil)
				if env.Error == nil || env.Error.Fields[tt.field] == "" {
					t.Errorf("body = %s, want field %q", rec.Body, tt.field)
				}
			}
		})
	}
}

func TestHandler_CourseCapacity(t *testing.T) {
	router, store, admin, _ := newCourseRouter(t)

	steps := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		want   int
	}{
		{"create without capacity uses the default", http.MethodPost, "/api/courses", `{"code":"CS101","name":"Intro","credits":3}`, http.StatusCreated, DefaultCapacity},
		{"update sets capacity", http.MethodPut, "/api/courses/1", `{"code":"CS101","name":"Intro","credits":3,"capacity":45}`, http.StatusOK, 45},
		{"update without capacity keeps it", http.MethodPut, "/api/courses/1", `{"code":"CS101","name":"Intro","credits":4}`, http.StatusOK, 45},
		{"explicit zero is kept", http.MethodPut, "/api/courses/1", `{"code":"CS101","name":"Intro","credits":4,"capacity":0}`, http.StatusOK, 0},
		{"negative is rejected", http.MethodPut, "/api/courses/1", `{"code":"CS101","name":"Intro","credits":4,"capacity":-1}`, http.StatusUnprocessableEntity, 0},
	}

	// Steps share one course and run in order
	for _, step := range steps {
		rec := apitest.Do(t, router, step.method, step.path, step.body, admin)
		if rec.Code != step.status {
			t.Fatalf("%s: status = %d, want %d (body %s)", step.name, rec.Code, step.status, rec.Body)
		}
		if got := store.courses[1].Capacity; got != step.want {
			t.Errorf("%s: capacity = %d, want %d", step.name, got, step.want)
		}
	}
}
