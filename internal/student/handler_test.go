package student

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/academix/records/internal/apitest"
	"github.com/academix/records/internal/audit"
	"github.com/academix/records/internal/middleware"
	"github.com/academix/records/internal/token"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu       sync.Mutex
	students map[int64]*Student
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{students: make(map[int64]*Student)}
}

func (f *fakeStore) List(context.Context) ([]Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Student{}
	for _, s := range f.students {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (*Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.students[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeStore) StudentIDTaken(_ context.Context, studentID string, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.students {
		if id != excludeID && s.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.students {
		if id != excludeID && s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(_ context.Context, in Input) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.students[f.nextID] = fromInput(f.nextID, in)
	return f.nextID, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, in Input) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[id]; !ok {
		return ErrNotFound
	}
	f.students[id] = fromInput(id, in)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[id]; !ok {
		return ErrNotFound
	}
	delete(f.students, id)
	return nil
}

func fromInput(id int64, in Input) *Student {
	return &Student{
		ID:             id,
		StudentID:      in.StudentID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          nullable(in.Phone),
		DateOfBirth:    in.DateOfBirth,
		Address:        nullable(in.Address),
		CourseOfStudy:  in.CourseOfStudy,
		EnrollmentDate: in.EnrollmentDate,
	}
}

type fakeTrail struct {
	records []audit.Record
}

func (f *fakeTrail) RecordDeletion(deletedBy string, student any) error {
	data, err := json.Marshal(student)
	if err != nil {
		return err
	}
	f.records = append(f.records, audit.Record{Timestamp: time.Now(), DeletedBy: deletedBy, Student: data})
	return nil
}

func (f *fakeTrail) Recent(limit int) ([]audit.Record, error) {
	out := []audit.Record{}
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.records[i])
	}
	return out, nil
}

type fixture struct {
	router  *gin.Engine
	store   *fakeStore
	trail   *fakeTrail
	admin   string
	student string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens := apitest.Tokens(t)
	f := &fixture{
		store:   newFakeStore(),
		trail:   &fakeTrail{},
		admin:   apitest.Bearer(tokens, 1, "admin@academix.edu", token.RoleAdmin),
		student: apitest.Bearer(tokens, 2, "jane@academix.edu", token.RoleStudent),
	}

	h := NewHandler(f.store, f.trail, zap.NewNop())
	h.now = func() time.Time { return validationNow }

	f.router = gin.New()
	api := f.router.Group("/api", middleware.Auth(tokens), middleware.RequireRole(token.RoleAdmin))
	api.GET("/students", h.List)
	api.GET("/students/deleted", h.Deleted)
	api.GET("/students/:id", h.Get)
	api.POST("/students", h.Create)
	api.PUT("/students/:id", h.Update)
	api.DELETE("/students/:id", h.Delete)
	return f
}

func studentBody() map[string]string {
	return map[string]string{
		"student_id":      "stu12345",
		"first_name":      "Jane",
		"last_name":       "Doe",
		"email":           "Jane@Academix.edu",
		"date_of_birth":   "2001-03-04",
		"course_of_study": "Computer Science",
		"enrollment_date": "2023-09-01",
	}
}

func TestHandler_CreateAndGet(t *testing.T) {
	f := newFixture(t)

	rec := apitest.Do(t, f.router, http.MethodPost, "/api/students", studentBody(), f.admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body = %s", rec.Code, rec.Body)
	}
	var created struct {
		ID        int64  `json:"id"`
		StudentID string `json:"student_id"`
	}
	env := apitest.Decode(t, rec, &created)
	if env.Message != "Student registration completed" {
		t.Errorf("message = %q", env.Message)
	}
	if created.StudentID != "STU12345" {
		t.Errorf("student_id = %q, want STU12345", created.StudentID)
	}

	rec = apitest.Do(t, f.router, http.MethodGet, "/api/students/1", nil, f.admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var got Student
	apitest.Decode(t, rec, &got)
	if got.Email != "jane@academix.edu" {
		t.Errorf("email = %q, want lowercased", got.Email)
	}

	rec = apitest.Do(t, f.router, http.MethodGet, "/api/students", nil, f.admin)
	var list []Student
	apitest.Decode(t, rec, &list)
	if len(list) != 1 {
		t.Errorf("list has %d students, want 1", len(list))
	}
}

func TestHandler_CreateRejects(t *testing.T) {
	f := newFixture(t)
	if rec := apitest.Do(t, f.router, http.MethodPost, "/api/students", studentBody(), f.admin); rec.Code != http.StatusCreated {
		t.Fatalf("seed status = %d", rec.Code)
	}

	sameEmail := studentBody()
	sameEmail["student_id"] = "STU99999"

	invalid := studentBody()
	invalid["date_of_birth"] = "2015-01-01"

	tests := []struct {
		name   string
		body   any
		status int
		field  string
	}{
		{"duplicate student id", studentBody(), http.StatusUnprocessableEntity, "student_id"},
		{"duplicate email", sameEmail, http.StatusUnprocessableEntity, "email"},
		{"too young", invalid, http.StatusUnprocessableEntity, "date_of_birth"},
		{"malformed body", "{not json", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := apitest.Do(t, f.router, http.MethodPost, "/api/students", tt.body, f.admin)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			env := apitest.Decode(t, rec, nil)
			if env.Success || env.Error == nil {
				t.Fatalf("expected error envelope, got %s", rec.Body)
			}
			if tt.field != "" && env.Error.Fields[tt.field] == "" {
				t.Errorf("fields = %v, want %q", env.Error.Fields, tt.field)
			}
		})
	}
}

func TestHandler_Update(t *testing.T) {
	f := newFixture(t)
	apitest.Do(t, f.router, http.MethodPost, "/api/students", studentBody(), f.admin)

	body := studentBody()
	body["course_of_study"] = "Mathematics"
	rec := apitest.Do(t, f.router, http.MethodPut, "/api/students/1", body, f.admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := f.store.students[1].CourseOfStudy; got != "Mathematics" {
		t.Errorf("course_of_study = %q, want Mathematics", got)
	}

	rec = apitest.Do(t, f.router, http.MethodPut, "/api/students/99", body, f.admin)
	if rec.Code != http.StatusNotFound {
		t.Errorf("PUT missing status = %d, want 404", rec.Code)
	}
}

func TestHandler_DeleteWritesAudit(t *testing.T) {
	f := newFixture(t)
	apitest.Do(t, f.router, http.MethodPost, "/api/students", studentBody(), f.admin)

	rec := apitest.Do(t, f.router, http.MethodDelete, "/api/students/1", nil, f.admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d, body = %s", rec.Code, rec.Body)
	}
	if len(f.store.students) != 0 {
		t.Error("student should be removed")
	}
	if len(f.trail.records) != 1 || f.trail.records[0].DeletedBy != "admin@academix.edu" {
		t.Fatalf("audit records = %+v", f.trail.records)
	}

	rec = apitest.Do(t, f.router, http.MethodGet, "/api/students/deleted?limit=5", nil, f.admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET deleted status = %d", rec.Code)
	}
	var records []audit.Record
	apitest.Decode(t, rec, &records)
	if len(records) != 1 {
		t.Fatalf("deleted list has %d records, want 1", len(records))
	}
	var snapshot Student
	if err := json.Unmarshal(records[0].Student, &snapshot); err != nil {
		t.Fatal(err)
	}
	if snapshot.StudentID != "STU12345" {
		t.Errorf("snapshot student_id = %q", snapshot.StudentID)
	}

	rec = apitest.Do(t, f.router, http.MethodDelete, "/api/students/1", nil, f.admin)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", rec.Code)
	}
}

func TestHandler_Guards(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"no token", http.MethodGet, "/api/students", "", http.StatusUnauthorized},
		{"student role", http.MethodGet, "/api/students", f.student, http.StatusForbidden},
		{"bad id", http.MethodGet, "/api/students/abc", f.admin, http.StatusBadRequest},
		{"missing student", http.MethodGet, "/api/students/7", f.admin, http.StatusNotFound},
		{"bad limit", http.MethodGet, "/api/students/deleted?limit=-1", f.admin, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := apitest.Do(t, f.router, tt.method, tt.path, nil, tt.auth)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}
