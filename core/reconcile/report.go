package reconcile

import (
	"fmt"
	"time"

	"github.com/rs/xid"
)

// Status is the terminal state of a run.
type Status string

const (
	// StatusCompleted means the source was exhausted and every record processed.
	StatusCompleted Status = "completed"
	// StatusAbortedResource means the source stopped early (failed page or page limit)
	// but every record it produced was processed.
	StatusAbortedResource Status = "aborted_resource"
	// StatusAborted means a fatal error stopped the run; Stats hold partial counts.
	StatusAborted Status = "aborted"
	// StatusNotConfigured means the remote credentials are missing. Nothing ran.
	StatusNotConfigured Status = "not_configured"
)

// Stats are the per-run counters.
type Stats struct {
	Scanned   int `json:"scanned"`
	Created   int `json:"created"`
	Linked    int `json:"linked"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// Add increments the counter matching an applied action.
func (s *Stats) Add(a Action) {
	switch a {
	case ActionCreate:
		s.Created++
	case ActionLink:
		s.Linked++
	case ActionUpdate:
		s.Updated++
	case ActionNone:
		s.Unchanged++
	}
}

// Report is the result of one run. It is produced once and never mutated after
// Finish.
type Report struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// Resource is the synced remote listing.
	Resource string `json:"resource"`

	// Status is the terminal state.
	Status Status `json:"status"`

	// Stats are the counters, partial unless Status is completed.
	Stats Stats `json:"stats"`

	// Truncated reports whether the source stopped before the remote signalled the end.
	Truncated bool `json:"truncated"`

	// Error holds the abort cause, if any.
	Error string `json:"error,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewReport starts a report for a resource.
func NewReport(resource string) *Report {
	return &Report{
		RunID:     xid.New().String(),
		Resource:  resource,
		StartedAt: time.Now().UTC(),
	}
}

// Finish sets the terminal status and cause.
func (r *Report) Finish(status Status, cause error) *Report {
	r.Status = status
	if cause != nil {
		r.Error = cause.Error()
	}
	r.FinishedAt = time.Now().UTC()
	return r
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary renders a one-line human-readable description of the run.
func (r *Report) Summary() string {
	switch r.Status {
	case StatusNotConfigured:
		return fmt.Sprintf("Sync of %s not run: LMS not configured", r.Resource)
	case StatusAborted:
		return fmt.Sprintf("Sync of %s aborted after %d records: %s (%s)", r.Resource, r.Stats.Scanned, r.Error, r.counts())
	case StatusAbortedResource:
		return fmt.Sprintf("Sync of %s finished with a truncated listing: %s", r.Resource, r.counts())
	default:
		return fmt.Sprintf("Sync of %s completed: %s", r.Resource, r.counts())
	}
}

func (r *Report) counts() string {
	s := r.Stats
	return fmt.Sprintf("scanned=%d created=%d linked=%d updated=%d unchanged=%d skipped=%d errors=%d",
		s.Scanned, s.Created, s.Linked, s.Updated, s.Unchanged, s.Skipped, s.Errors)
}
