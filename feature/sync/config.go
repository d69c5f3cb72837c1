package sync

import (
	"student-crm/core/reconcile"
	studentsync "student-crm/feature/students/reconcile"
)

// Config holds the student synchronization options.
type Config = reconcile.Config

// adapterOptions maps the config to the student adapter options.
func adapterOptions(c Config) studentsync.Options {
	return studentsync.Options{
		ProgramName:     c.ImportProgram,
		UsernamePrefix:  c.UsernamePrefix,
		CodePrefix:      c.CodePrefix,
		DefaultPassword: c.DefaultPassword,
		PasswordCost:    c.PasswordCost,
	}
}
