package reconcile

// Config holds the student synchronization options.
type Config struct {
	// ImportProgram is the program newly synced students are enrolled under.
	ImportProgram string `mapstructure:"import_program" default:"LMS Import"`
	// UsernamePrefix prefixes generated login names.
	UsernamePrefix string `mapstructure:"username_prefix" default:"lms"`
	// CodePrefix prefixes generated student codes.
	CodePrefix string `mapstructure:"code_prefix" default:"LMS"`
	// DefaultPassword is set on generated logins.
	DefaultPassword string `mapstructure:"default_password" default:"Changeme@123"`
	// PasswordCost is the bcrypt cost for generated logins (0 = library default).
	PasswordCost int `mapstructure:"password_cost" default:"0"`
	// ArchiveReports stores every run report in object storage.
	ArchiveReports bool `mapstructure:"archive_reports" default:"true"`
	// RetainReports is the number of archived reports kept; 0 keeps all.
	RetainReports int `mapstructure:"retain_reports" default:"50"`
}
