package lms

import "time"

// Config holds the remote LMS endpoint, credentials and paging limits.
// It is built once (see core/config) and passed to NewClient; the client never reads
// the environment itself.
type Config struct {
	// BaseURL is the scheme and host of the LMS API.
	BaseURL string `mapstructure:"base_url" default:"https://api.wiseapp.live"`
	// APIKey is the vendor API key. Empty means "not configured".
	APIKey string `mapstructure:"api_key" default:""`
	// UserID is the integration user, paired with APIKey for Basic auth.
	UserID string `mapstructure:"user_id" default:""`
	// InstituteID scopes every request path.
	InstituteID string `mapstructure:"institute_id" default:""`
	// Namespace is sent as the vendor namespace header.
	Namespace string `mapstructure:"namespace" default:""`
	// CountryCode is prepended during the second phone search pass.
	CountryCode string `mapstructure:"country_code" default:"+91"`
	// PageSize is the page size used by full listings.
	PageSize int `mapstructure:"page_size" default:"50"`
	// MaxPages bounds full listings against a misbehaving remote.
	MaxPages int `mapstructure:"max_pages" default:"100"`
	// SearchPageSize is the page size used by phone searches.
	SearchPageSize int `mapstructure:"search_page_size" default:"100"`
	// SearchMaxPages bounds each phone search pass.
	SearchMaxPages int `mapstructure:"search_max_pages" default:"10"`
	// TimeoutSeconds bounds each HTTP round trip.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// RateLimit caps requests per second. Zero disables the limiter.
	RateLimit float64 `mapstructure:"rate_limit" default:"5"`
}

// Configured reports whether credentials are present.
func (c Config) Configured() bool {
	return c.APIKey != "" && c.UserID != "" && c.InstituteID != ""
}

// Timeout returns the per-request timeout, defaulting to 10 seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) pageSize() int {
	if c.PageSize <= 0 {
		return 50
	}
	return c.PageSize
}

func (c Config) maxPages() int {
	if c.MaxPages <= 0 {
		return 100
	}
	return c.MaxPages
}

func (c Config) searchPageSize() int {
	if c.SearchPageSize <= 0 {
		return 100
	}
	return c.SearchPageSize
}

func (c Config) searchMaxPages() int {
	if c.SearchMaxPages <= 0 {
		return 10
	}
	return c.SearchMaxPages
}
