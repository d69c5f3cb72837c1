package reconcile

import "strings"

// Options control how synced students are created.
type Options struct {
	// ProgramName is the program new students are enrolled under. It is created on
	// first use.
	ProgramName string
	// UsernamePrefix prefixes generated login names: <prefix>_<phone key>.
	UsernamePrefix string
	// CodePrefix prefixes generated student codes: <prefix>-<phone key>.
	CodePrefix string
	// DefaultPassword is set on every generated login.
	DefaultPassword string
	// PasswordCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	PasswordCost int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ProgramName:     "LMS Import",
		UsernamePrefix:  "lms",
		CodePrefix:      "LMS",
		DefaultPassword: "Changeme@123",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ProgramName == "" {
		o.ProgramName = d.ProgramName
	}
	if o.UsernamePrefix == "" {
		o.UsernamePrefix = d.UsernamePrefix
	}
	if o.CodePrefix == "" {
		o.CodePrefix = d.CodePrefix
	}
	if o.DefaultPassword == "" {
		o.DefaultPassword = d.DefaultPassword
	}
	return o
}

// slug turns "LMS Import" into "lms-import".
func slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
