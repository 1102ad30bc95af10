package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-records/database"
	"student-records/models"
	"student-records/report"
	"student-records/repository"
)

type testServer struct {
	repo   *repository.Repository
	admin  *mux.Router
	mirror http.Handler
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	return testServer{
		repo:   repo,
		admin:  NewAdminRouter(repo, report.New(db), 1<<20),
		mirror: NewMirrorRouter(repo),
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const studentBody = `{
	"last_name": "Иванов",
	"first_name": "Иван",
	"middle_name": "Иванович",
	"birth_date": "01.09.2003",
	"phone": "+79991234567",
	"email": "ivanov@example.com",
	"address": "Kazan",
	"group_name": "ПИ-101"
}`

func TestStudentsAPI_CRUD(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s.admin, http.MethodPost, "/groups", `{"name":"ПИ-101"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s.admin, http.MethodPost, "/students", studentBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[createdResponse](t, rec)
	assert.Equal(t, "Student added successfully", created.Message)
	assert.Empty(t, created.Warning)

	rec = do(t, s.admin, http.MethodGet, "/students/"+models.FormatID(created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	student := decode[models.Student](t, rec)
	assert.Equal(t, "Иванов", student.LastName)
	assert.Equal(t, "01.09.2003", student.BirthDate.String())
	assert.Equal(t, "ПИ-101", student.Group())

	updated := strings.Replace(studentBody, `"Kazan"`, `"Moscow"`, 1)
	rec = do(t, s.admin, http.MethodPut, "/students/"+models.FormatID(created.ID), updated)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s.admin, http.MethodGet, "/students?q=moscow", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Student](t, rec), 1)

	rec = do(t, s.admin, http.MethodDelete, "/students/"+models.FormatID(created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s.admin, http.MethodGet, "/students/"+models.FormatID(created.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Student not found"}`, rec.Body.String())
}

func TestStudentsAPI_Errors(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s.admin, http.MethodPost, "/students", `{"last_name": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s.admin, http.MethodGet, "/students/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bad := strings.Replace(studentBody, `"+79991234567"`, `"12345"`, 1)
	rec = do(t, s.admin, http.MethodPost, "/students", bad)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, validationResponse{
		Message: "phone: please enter a valid phone number",
		Field:   "phone",
		Rule:    models.RulePhoneFormat,
	}, decode[validationResponse](t, rec))

	rec = do(t, s.admin, http.MethodGet, "/students?q=x&column=nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.RuleUnknownColumn, decode[validationResponse](t, rec).Rule)
}

func TestStudentsAPI_UnmatchedGroupWarns(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s.admin, http.MethodPost, "/students", studentBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[createdResponse](t, rec)
	assert.Contains(t, created.Warning, "ПИ-101")

	student, err := s.repo.Students.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, student.GroupID)
}

func TestEventsAPI(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s.admin, http.MethodPost, "/events",
		`{"student_id": 77, "date": "01.01.2024", "title": "t", "description": "d", "category": "c"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = do(t, s.admin, http.MethodPost, "/students", studentBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	sid := decode[createdResponse](t, rec).ID

	body := `{"student_id": ` + models.FormatID(sid) + `, "date": "15.06.2024", "title": "Olympiad", "description": "2nd", "category": "award"}`
	rec = do(t, s.admin, http.MethodPost, "/events", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	eid := decode[createdResponse](t, rec).ID

	rec = do(t, s.admin, http.MethodPut, "/events/"+models.FormatID(eid), strings.Replace(body, "Olympiad", "Final", 1))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s.admin, http.MethodGet, "/events/"+models.FormatID(eid), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Final", decode[models.Event](t, rec).Title)

	rec = do(t, s.admin, http.MethodGet, "/students/"+models.FormatID(sid)+"/detail", "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[models.StudentDetail](t, rec)
	assert.Len(t, detail.Events, 1)

	rec = do(t, s.admin, http.MethodDelete, "/events/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGroupsAPI_Duplicate(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, s.admin, http.MethodPost, "/groups", `{"name":"G1"}`).Code)
	rec := do(t, s.admin, http.MethodPost, "/groups", `{"name":"G1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.RuleDuplicateName, decode[validationResponse](t, rec).Rule)

	rec = do(t, s.admin, http.MethodGet, "/groups", "")
	assert.Len(t, decode[[]models.Group](t, rec), 1)
}

func TestReportAPI(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s.admin, http.MethodPost, "/groups", `{"name":"ПИ-101"}`).Code)
	rec := do(t, s.admin, http.MethodPost, "/students", studentBody)
	sid := decode[createdResponse](t, rec).ID
	body := `{"student_id": ` + models.FormatID(sid) + `, "date": "15.06.2024", "title": "Olympiad", "description": "2nd", "category": "award"}`
	require.Equal(t, http.StatusCreated, do(t, s.admin, http.MethodPost, "/events", body).Code)

	rec = do(t, s.admin, http.MethodGet, "/report?group=%D0%9F%D0%98-101&start=01.01.2024&end=31.12.2024", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[report.Result](t, rec)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "Olympiad", got.Rows[0].Title)

	rec = do(t, s.admin, http.MethodGet, "/report?group=%D0%9F%D0%98-101&start=01.01.2023&end=31.12.2023", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), report.ErrNoData.Error())

	rec = do(t, s.admin, http.MethodGet, "/report?group=G&start=31.12.2024&end=01.01.2024", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.RuleDateRange, decode[validationResponse](t, rec).Rule)

	rec = do(t, s.admin, http.MethodGet, "/report?group=%D0%9F%D0%98-101&start=01.01.2024&end=31.12.2024&format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "student_id,last_name"))
}

func TestImportExportAPI(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s.admin, http.MethodPost, "/students", studentBody).Code)

	rec := do(t, s.admin, http.MethodGet, "/students/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	exported := rec.Body.String()

	// Import the export into a fresh store.
	dst := newTestServer(t)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "students.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(exported))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/students/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	dst.admin.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"inserted":1`)

	students, err := dst.repo.Students.List(context.Background(), repository.Filter{})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "ivanov@example.com", students[0].Email)

	rec = do(t, s.admin, http.MethodGet, "/students/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMirror(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s.admin, http.MethodPost, "/students", studentBody)
	sid := decode[createdResponse](t, rec).ID

	rec = do(t, s.mirror, http.MethodGet, "/api/students", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Student](t, rec), 1)

	rec = do(t, s.mirror, http.MethodGet, "/api/students/"+models.FormatID(sid)+"/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, path := range []string{"/api/events", "/api/groups", "/api/education-periods"} {
		rec = do(t, s.mirror, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `[]`, rec.Body.String(), path)
	}

	rec = do(t, s.mirror, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestMirror_RejectsWrites(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/students", "/api/events", "/students", "/nowhere"} {
		rec := do(t, s.mirror, http.MethodPost, path, studentBody)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
	rec := do(t, s.mirror, http.MethodDelete, "/api/students/1/events", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	students, err := s.repo.Students.List(context.Background(), repository.Filter{})
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestIndexAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s.admin, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GET /students/{id}/detail")

	rec = do(t, s.admin, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])

	rec = do(t, s.admin, http.MethodOptions, "/students", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
