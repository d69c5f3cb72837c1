package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	assert.NoError(t, err)
	assert.NotNil(t, db)

	err = db.Exec("CREATE TABLE test_students (id INTEGER PRIMARY KEY, mobile TEXT, email TEXT)").Error
	assert.NoError(t, err)

	columns, err := GetTableColumns(db, "test_students")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["mobile"])
	assert.Equal(t, "text", colMap["email"])

	// PRAGMA table_info returns an empty result for a non-existent table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	assert.NoError(t, err)

	err = db.Exec("CREATE TABLE test_students (id INTEGER PRIMARY KEY, mobile TEXT)").Error
	assert.NoError(t, err)

	missing, err := MissingColumns(db, "test_students", []string{"id", "Mobile", "lms_student_id"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"lms_student_id"}, missing)

	missing, err = MissingColumns(db, "absent", []string{"id"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"id"}, missing)
}
