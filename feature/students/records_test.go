package students

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"student-crm/core/password"
	"student-crm/feature/students/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seedBatch(t *testing.T, db *gorm.DB) models.Batch {
	program := models.Program{Name: "Natya"}
	require.NoError(t, db.Create(&program).Error)
	sub := models.SubProgram{ProgramID: program.ID, Name: "STED"}
	require.NoError(t, db.Create(&sub).Error)
	course := models.Course{SubProgramID: sub.ID, Name: "Kathak"}
	require.NoError(t, db.Create(&course).Error)
	batch := models.Batch{Name: "Evening", CourseID: course.ID, StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, db.Create(&batch).Error)
	return batch
}

func TestService_List(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, &mockLMS{}, zap.NewNop())
	ctx := context.Background()

	batch := seedBatch(t, db)
	a := seed(t, db, "9000000001", nil)
	b := seed(t, db, "9000000002", nil)
	c := seed(t, db, "9000000003", nil)
	require.NoError(t, db.Model(&a).Update("batch_id", batch.ID).Error)
	require.NoError(t, db.Model(&b).Update("email", "nair@example.com").Error)
	require.NoError(t, svc.Deactivate(ctx, c.ID))

	ids := func(list []models.Student) []uint {
		out := make([]uint, 0, len(list))
		for _, s := range list {
			out = append(out, s.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   []uint
	}{
		{name: "Active By Default", filter: ListFilter{}, want: []uint{b.ID, a.ID}},
		{name: "Inactive", filter: ListFilter{Inactive: true}, want: []uint{c.ID}},
		{name: "By Batch", filter: ListFilter{BatchID: batch.ID}, want: []uint{a.ID}},
		{name: "Unassigned", filter: ListFilter{Unassigned: true}, want: []uint{b.ID}},
		{name: "Search Email", filter: ListFilter{Search: "nair@"}, want: []uint{b.ID}},
		{name: "Search Mobile", filter: ListFilter{Search: "0001"}, want: []uint{a.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(list))
		})
	}
}

func TestService_DeactivateRestore(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, &mockLMS{}, zap.NewNop())
	ctx := context.Background()
	s := seed(t, db, "9988776655", nil)

	require.NoError(t, svc.Deactivate(ctx, s.ID))
	loaded, err := svc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsActive)

	require.NoError(t, svc.Restore(ctx, s.ID))
	loaded, err = svc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsActive)

	assert.ErrorIs(t, svc.Deactivate(ctx, 999), ErrStudentNotFound)
	assert.ErrorIs(t, svc.Restore(ctx, 999), ErrStudentNotFound)
}

func TestService_Delete(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, &mockLMS{}, zap.NewNop())
	ctx := context.Background()
	s := seed(t, db, "9988776655", nil)
	_, err := svc.AddTransaction(ctx, s.ID, TransactionRequest{TransactionID: "TXN-1", Amount: 100})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, s.ID))

	_, err = svc.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrStudentNotFound)
	var txns int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("student_id = ?", s.ID).Count(&txns).Error)
	assert.Zero(t, txns)
	var users int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", s.UserID).Count(&users).Error)
	assert.EqualValues(t, 1, users)

	assert.ErrorIs(t, svc.Delete(ctx, s.ID), ErrStudentNotFound)
}

func TestService_SetCredentials(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, &mockLMS{}, zap.NewNop())
	svc.hasher = password.NewHasher(4)
	ctx := context.Background()
	s := seed(t, db, "9988776655", nil)
	seed(t, db, "9000000001", nil)

	require.NoError(t, svc.SetCredentials(ctx, s.ID, CredentialsRequest{Username: " meera ", Password: "s3cret!"}))

	var user models.User
	require.NoError(t, db.First(&user, s.UserID).Error)
	assert.Equal(t, "meera", user.Username)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NoError(t, svc.hasher.Verify(user.PasswordHash, "s3cret!"))

	// Keeping the own username is allowed.
	assert.NoError(t, svc.SetCredentials(ctx, s.ID, CredentialsRequest{Username: "meera", Password: "other"}))

	err := svc.SetCredentials(ctx, s.ID, CredentialsRequest{Username: "u_9000000001", Password: "x"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	err = svc.SetCredentials(ctx, s.ID, CredentialsRequest{Username: " ", Password: ""})
	fields := svc.validate.Fields(err)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")

	err = svc.SetCredentials(ctx, 999, CredentialsRequest{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestService_Transactions(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, &mockLMS{}, zap.NewNop())
	ctx := context.Background()
	s := seed(t, db, "9988776655", nil)

	first, err := svc.AddTransaction(ctx, s.ID, TransactionRequest{TransactionID: " TXN-1 ", Amount: 2500.5, Link: "https://pay.example.com/r/1"})
	require.NoError(t, err)
	assert.Equal(t, "TXN-1", first.TransactionID)
	_, err = svc.AddTransaction(ctx, s.ID, TransactionRequest{TransactionID: "TXN-2", Amount: 100})
	require.NoError(t, err)

	list, err := svc.Transactions(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "TXN-2", list[0].TransactionID)
	assert.InDelta(t, 2500.5, list[1].Amount, 0.001)

	_, err = svc.AddTransaction(ctx, s.ID, TransactionRequest{TransactionID: "TXN-3", Amount: 0, Link: "not a url"})
	fields := svc.validate.Fields(err)
	assert.Contains(t, fields, "amount")
	assert.Contains(t, fields, "transaction_link")

	_, err = svc.Transactions(ctx, 999)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestHandleStudentRecords(t *testing.T) {
	app, svc := setupTestApp(t, &mockLMS{})
	svc.hasher = password.NewHasher(4)
	s := seed(t, svc.db, "9988776655", nil)
	base := "/students/" + strconv.Itoa(int(s.ID))

	tests := []struct {
		name       string
		method     string
		url        string
		body       string
		wantStatus int
	}{
		{name: "Deactivate", method: "DELETE", url: base, wantStatus: 200},
		{name: "List Active Is Empty", method: "GET", url: "/students", wantStatus: 200},
		{name: "Restore", method: "POST", url: base + "/restore", wantStatus: 200},
		{name: "Restore Missing", method: "POST", url: "/students/999/restore", wantStatus: 404},
		{name: "Set Credentials", method: "POST", url: base + "/credentials", body: `{"username":"meera","password":"pw"}`, wantStatus: 200},
		{name: "Set Credentials Invalid", method: "POST", url: base + "/credentials", body: `{"username":""}`, wantStatus: 400},
		{name: "Add Transaction", method: "POST", url: base + "/transactions", body: `{"transaction_id":"TXN-1","amount":500}`, wantStatus: 201},
		{name: "Add Transaction Invalid", method: "POST", url: base + "/transactions", body: `{"transaction_id":"TXN-2","amount":-1}`, wantStatus: 400},
		{name: "List Transactions", method: "GET", url: base + "/transactions", wantStatus: 200},
		{name: "Delete Permanently", method: "DELETE", url: base + "/permanent", wantStatus: 200},
		{name: "Deleted Is Gone", method: "GET", url: base, wantStatus: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.name == "List Active Is Empty" {
				var list []map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
				assert.Empty(t, list)
			}
			if tt.name == "List Transactions" {
				var list []models.Transaction
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
				require.Len(t, list, 1)
				assert.Equal(t, "TXN-1", list[0].TransactionID)
			}
		})
	}
}
