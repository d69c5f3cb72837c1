// Package config provides configuration management for the student CRM.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file (loaded with godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket for sync report archives
//   - Log: Logging level and format
//   - LMS: remote learning-management service host, credentials and paging limits
//   - Sync: defaults applied to students created by a sync run
//
// Every key has a default declared in a `default` struct tag and can be overridden by
// the upper-cased, underscore-joined environment variable (lms.api_key -> LMS_API_KEY).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := lms.NewClient(cfg.LMS, logger)
package config
