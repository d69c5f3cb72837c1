// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (tests, local runs) connections from the application's configuration.
//
// # Connect
//
// Connect opens the connection, applies pool limits and verifies it with a ping
// bounded by the configured timeout. SQLite connections are pinned to a single
// connection so an in-memory database survives for the lifetime of the pool.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the migrate command verify that the
// student tables carry the columns the sync job writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "students", []string{"mobile", "lms_student_id"})
package database
