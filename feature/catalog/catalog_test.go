package catalog

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"student-crm/core/database"
	"student-crm/core/lms"
	"student-crm/feature/students/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, handler http.HandlerFunc) *fiber.App {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, db.Create(&models.Program{Name: "Natya"}).Error)
	require.NoError(t, db.Create(&models.Program{Name: "Career Academy"}).Error)
	require.NoError(t, db.Create(&[]models.SubProgram{
		{ProgramID: 1, Name: "STED"}, {ProgramID: 1, Name: "AISECT"}, {ProgramID: 2, Name: "Accounts"},
	}).Error)
	require.NoError(t, db.Create(&[]models.Course{
		{SubProgramID: 1, Name: "Kathak", FeeAmount: 12000}, {SubProgramID: 1, Name: "Bharatanatyam"}, {SubProgramID: 3, Name: "Tally"},
	}).Error)

	cfg := lms.Config{APIKey: "key", UserID: "user", InstituteID: "inst", PageSize: 2}
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		cfg.BaseURL = srv.URL
	} else {
		cfg.APIKey = ""
	}

	app := fiber.New()
	require.NoError(t, NewFeature(db, lms.NewClient(cfg, nil), zap.NewNop()).Load(app))
	return app
}

func TestHandleListPrograms(t *testing.T) {
	app := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/programs", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var programs []models.Program
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&programs))
	require.Len(t, programs, 2)
	assert.Equal(t, "Career Academy", programs[0].Name)
}

func TestHandleListLocalCatalog(t *testing.T) {
	app := setupTestApp(t, nil)

	tests := []struct {
		name      string
		path      string
		wantNames []string
	}{
		{name: "All Sub-Programs", path: "/catalog/subprograms", wantNames: []string{"AISECT", "Accounts", "STED"}},
		{name: "Sub-Programs Of Program", path: "/catalog/subprograms?program=1", wantNames: []string{"AISECT", "STED"}},
		{name: "All Courses", path: "/catalog/courses", wantNames: []string{"Bharatanatyam", "Kathak", "Tally"}},
		{name: "Courses Of Sub-Program", path: "/catalog/courses?subprogram=3", wantNames: []string{"Tally"}},
		{name: "Unknown Sub-Program", path: "/catalog/courses?subprogram=99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			require.Equal(t, 200, resp.StatusCode)

			var rows []struct {
				Name string `json:"name"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
			var names []string
			for _, r := range rows {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestHandleListCourses(t *testing.T) {
	app := setupTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "RECORDED", r.URL.Query().Get("classType"))
		switch r.URL.Query().Get("page_number") {
		case "1":
			_, _ = io.WriteString(w, `{"status":200,"data":{"classes":[{"_id":"c1"},{"_id":"c2"}]}}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/lms/courses?type=RECORDED", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var courses []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&courses))
	assert.Len(t, courses, 2)
}

func TestHandleListTeachers_NotConfigured(t *testing.T) {
	app := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/lms/teachers", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleGetCourse(t *testing.T) {
	app := setupTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/v2/classes/c1":
			_, _ = io.WriteString(w, `{"status":200,"data":{"_id":"c1","fees":{"amount":500000}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/lms/courses/c1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/catalog/lms/courses/c9", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
