// Package models defines the gorm models owned by the students feature: login
// accounts, programs and student profiles.
package models
