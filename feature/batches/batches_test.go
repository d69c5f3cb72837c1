package batches

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"student-crm/core/database"
	"student-crm/feature/students/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     *Service
	course  models.Course
	lead    models.User
	helper  models.User
	student models.Student
}

func setup(t *testing.T) fixture {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	f := fixture{db: db, svc: NewService(db, zap.NewNop())}
	program := models.Program{Name: "Natya"}
	require.NoError(t, db.Create(&program).Error)
	sub := models.SubProgram{ProgramID: program.ID, Name: "STED"}
	require.NoError(t, db.Create(&sub).Error)
	f.course = models.Course{SubProgramID: sub.ID, Name: "Kathak"}
	require.NoError(t, db.Create(&f.course).Error)

	f.lead = models.User{Username: "lead", PasswordHash: "x", Role: models.RoleMentor}
	f.helper = models.User{Username: "helper", PasswordHash: "x", Role: models.RoleMentor}
	require.NoError(t, db.Create(&f.lead).Error)
	require.NoError(t, db.Create(&f.helper).Error)

	user := models.User{Username: "meera", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)
	f.student = models.Student{UserID: user.ID, CRMStudentID: "CRM-1", FirstName: "Meera", Mobile: "9000000001", IsActive: true}
	require.NoError(t, db.Create(&f.student).Error)
	return f
}

func ptr[T any](v T) *T { return &v }

func TestService_Create(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     func() CreateRequest
		wantErr error
		invalid bool
	}{
		{
			name: "Full Batch",
			req: func() CreateRequest {
				return CreateRequest{Name: "Morning", CourseID: f.course.ID, StartDate: "2026-01-05", EndDate: "2026-06-30",
					PrimaryMentorID: ptr(f.lead.ID), SecondaryMentorIDs: []uint{f.helper.ID}}
			},
		},
		{
			name: "Blank Name",
			req: func() CreateRequest {
				return CreateRequest{Name: "  ", CourseID: f.course.ID, StartDate: "2026-01-05"}
			},
			invalid: true,
		},
		{
			name: "Bad Date",
			req: func() CreateRequest {
				return CreateRequest{Name: "Morning", CourseID: f.course.ID, StartDate: "05/01/2026"}
			},
			invalid: true,
		},
		{
			name: "Ends Before Start",
			req: func() CreateRequest {
				return CreateRequest{Name: "Morning", CourseID: f.course.ID, StartDate: "2026-06-01", EndDate: "2026-01-01"}
			},
			wantErr: ErrInvalidDates,
		},
		{
			name: "Unknown Course",
			req: func() CreateRequest {
				return CreateRequest{Name: "Morning", CourseID: 999, StartDate: "2026-01-05"}
			},
			wantErr: ErrCourseNotFound,
		},
		{
			name: "Unknown Primary Mentor",
			req: func() CreateRequest {
				return CreateRequest{Name: "Morning", CourseID: f.course.ID, StartDate: "2026-01-05", PrimaryMentorID: ptr(uint(999))}
			},
			wantErr: ErrMentorNotFound,
		},
		{
			name: "Unknown Secondary Mentor",
			req: func() CreateRequest {
				return CreateRequest{Name: "Morning", CourseID: f.course.ID, StartDate: "2026-01-05", SecondaryMentorIDs: []uint{f.helper.ID, 999}}
			},
			wantErr: ErrMentorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Create(ctx, tt.req())
			switch {
			case tt.invalid:
				require.Error(t, err)
				assert.NotEmpty(t, f.svc.validate.Fields(err))
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, "Morning", got.Name)
				require.NotNil(t, got.Course)
				assert.Equal(t, "Kathak", got.Course.Name)
				require.NotNil(t, got.PrimaryMentor)
				assert.Equal(t, "lead", got.PrimaryMentor.Username)
				require.Len(t, got.SecondaryMentors, 1)
				assert.Equal(t, "helper", got.SecondaryMentors[0].Username)
				require.NotNil(t, got.EndDate)
				assert.Equal(t, 2026, got.EndDate.Year())
			}
		})
	}

	var n int64
	require.NoError(t, f.db.Model(&models.Batch{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestService_Membership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a, err := f.svc.Create(ctx, CreateRequest{Name: "A", CourseID: f.course.ID, StartDate: "2026-01-05"})
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, CreateRequest{Name: "B", CourseID: f.course.ID, StartDate: "2026-02-05"})
	require.NoError(t, err)

	require.NoError(t, f.svc.AddStudent(ctx, a.ID, f.student.ID))
	got, err := f.svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.StudentCount)

	list, err := f.svc.Students(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CRM-1", list[0].CRMStudentID)

	// Adding to another batch moves the student.
	require.NoError(t, f.svc.AddStudent(ctx, b.ID, f.student.ID))
	list, err = f.svc.Students(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.svc.RemoveStudent(ctx, a.ID, f.student.ID), ErrStudentNotInBatch)
	require.NoError(t, f.svc.RemoveStudent(ctx, b.ID, f.student.ID))

	var s models.Student
	require.NoError(t, f.db.First(&s, f.student.ID).Error)
	assert.Nil(t, s.BatchID)

	assert.ErrorIs(t, f.svc.AddStudent(ctx, 999, f.student.ID), ErrBatchNotFound)
	assert.ErrorIs(t, f.svc.AddStudent(ctx, a.ID, 999), ErrStudentNotFound)
	assert.ErrorIs(t, f.svc.RemoveStudent(ctx, 999, f.student.ID), ErrBatchNotFound)
	_, err = f.svc.Students(ctx, 999)
	assert.ErrorIs(t, err, ErrBatchNotFound)
	_, err = f.svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestService_List(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	led, err := f.svc.Create(ctx, CreateRequest{Name: "Led", CourseID: f.course.ID, StartDate: "2026-01-05", PrimaryMentorID: ptr(f.lead.ID)})
	require.NoError(t, err)
	assisted, err := f.svc.Create(ctx, CreateRequest{Name: "Assisted", CourseID: f.course.ID, StartDate: "2026-02-05",
		PrimaryMentorID: ptr(f.helper.ID), SecondaryMentorIDs: []uint{f.lead.ID}})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, CreateRequest{Name: "Other", CourseID: f.course.ID, StartDate: "2026-03-05", PrimaryMentorID: ptr(f.helper.ID)})
	require.NoError(t, err)
	require.NoError(t, f.svc.AddStudent(ctx, led.ID, f.student.ID))

	tests := []struct {
		name      string
		mentor    uint
		wantNames []string
	}{
		{name: "All Newest First", wantNames: []string{"Other", "Assisted", "Led"}},
		{name: "Lead Mentor Sees Led And Assisted", mentor: f.lead.ID, wantNames: []string{"Assisted", "Led"}},
		{name: "Helper Sees Own Batches", mentor: f.helper.ID, wantNames: []string{"Other", "Assisted"}},
		{name: "Unknown Mentor", mentor: 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := f.svc.List(ctx, tt.mentor)
			require.NoError(t, err)
			var names []string
			for _, b := range list {
				names = append(names, b.Name)
				if b.ID == led.ID {
					assert.Equal(t, int64(1), b.StudentCount)
				}
				if b.ID == assisted.ID {
					assert.Len(t, b.SecondaryMentors, 1)
				}
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestHandleBatches(t *testing.T) {
	f := setup(t)
	app := fiber.New()
	NewHandler(f.svc).RegisterRoutes(app)

	do := func(method, path string, body any) (int, []byte) {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		var out bytes.Buffer
		_, _ = out.ReadFrom(resp.Body)
		return resp.StatusCode, out.Bytes()
	}

	status, raw := do("POST", "/batches", map[string]any{"name": "Morning", "course_id": f.course.ID, "start_date": "2026-01-05"})
	require.Equal(t, 201, status, string(raw))
	var created models.Batch
	require.NoError(t, json.Unmarshal(raw, &created))
	base := fmt.Sprintf("/batches/%d", created.ID)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantBody   string
		wantNot    string
	}{
		{name: "Create Invalid", method: "POST", path: "/batches", body: map[string]any{"name": "", "course_id": f.course.ID}, wantStatus: 400, wantBody: "fields"},
		{name: "Create Unknown Course", method: "POST", path: "/batches", body: map[string]any{"name": "X", "course_id": 999, "start_date": "2026-01-05"}, wantStatus: 400, wantBody: "course not found"},
		{name: "Get", method: "GET", path: base, wantStatus: 200, wantBody: `"Morning"`},
		{name: "Get Missing", method: "GET", path: "/batches/999", wantStatus: 404},
		{name: "Get Bad ID", method: "GET", path: "/batches/abc", wantStatus: 400},
		{name: "Add Student", method: "POST", path: base + "/students", body: map[string]any{"student_id": f.student.ID}, wantStatus: 200},
		{name: "Add Without Student", method: "POST", path: base + "/students", body: map[string]any{}, wantStatus: 400},
		{name: "Add Unknown Student", method: "POST", path: base + "/students", body: map[string]any{"student_id": 999}, wantStatus: 404},
		{name: "List Students", method: "GET", path: base + "/students", wantStatus: 200, wantBody: "CRM-1"},
		{name: "List Batches", method: "GET", path: "/batches", wantStatus: 200, wantBody: `"student_count":1`},
		{name: "List By Mentor", method: "GET", path: fmt.Sprintf("/batches?mentor=%d", f.lead.ID), wantStatus: 200, wantNot: "Morning"},
		{name: "Remove Student", method: "DELETE", path: fmt.Sprintf("%s/students/%d", base, f.student.ID), wantStatus: 200},
		{name: "Remove Again", method: "DELETE", path: fmt.Sprintf("%s/students/%d", base, f.student.ID), wantStatus: 404, wantBody: "not found in this batch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status, string(raw))
			if tt.wantBody != "" {
				assert.Contains(t, string(raw), tt.wantBody)
			}
			if tt.wantNot != "" {
				assert.NotContains(t, string(raw), tt.wantNot)
			}
		})
	}
}
