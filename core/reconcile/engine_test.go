package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"student-crm/core/lms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sliceSource replays fixed records then ends in the given state.
type sliceSource struct {
	records []lms.Record
	pos     int
	cur     lms.Record
	final   lms.State
	err     error
}

func (s *sliceSource) Next(ctx context.Context) bool {
	if s.pos >= len(s.records) {
		return false
	}
	s.cur = s.records[s.pos]
	s.pos++
	return true
}

func (s *sliceSource) Record() lms.Record { return s.cur }
func (s *sliceSource) State() lms.State {
	if s.pos < len(s.records) {
		return lms.Fetching
	}
	return s.final
}
func (s *sliceSource) Err() error { return s.err }

// mapAdapter keeps locals in memory keyed by phone.
type mapAdapter struct {
	locals     map[string]Local
	prepareErr error
	failOn     string
	panicOn    string
	applied    []Decision
}

func (m *mapAdapter) Name() string { return "mock" }

func (m *mapAdapter) Prepare(ctx context.Context, db *gorm.DB) error { return m.prepareErr }

func (m *mapAdapter) Normalize(raw lms.Record) (Record, error) {
	p, _ := raw["phone"].(string)
	if len(p) < 10 {
		return Record{}, errors.New("invalid phone")
	}
	id, _ := raw["id"].(string)
	email, _ := raw["email"].(string)
	return Record{ExternalID: id, Phone: p, Email: email}, nil
}

func (m *mapAdapter) Lookup(ctx context.Context, tx *gorm.DB, rec Record) (Local, error) {
	return m.locals[rec.Key()], nil
}

func (m *mapAdapter) Apply(ctx context.Context, tx *gorm.DB, d Decision) error {
	if d.Record.ExternalID == m.panicOn {
		panic("adapter exploded")
	}
	if d.Record.ExternalID == m.failOn {
		return fmt.Errorf("constraint violation")
	}
	m.applied = append(m.applied, d)
	m.locals[d.Record.Key()] = Local{Found: true, ExternalID: d.Record.ExternalID, Email: d.Record.Email}
	return nil
}

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func rec(id, phone, email string) lms.Record {
	return lms.Record{"id": id, "phone": phone, "email": email}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		locals     map[string]Local
		records    []lms.Record
		final      lms.State
		srcErr     error
		failOn     string
		wantStatus Status
		wantStats  Stats
		truncated  bool
	}{
		{
			name: "Completed With Every Action",
			locals: map[string]Local{
				"9988776655": {Found: true, ID: 1},
				"9000000002": {Found: true, ID: 2, ExternalID: "b", Email: "old@x.io"},
				"9000000003": {Found: true, ID: 3, ExternalID: "c", Email: "c@x.io"},
			},
			records: []lms.Record{
				rec("a", "+919988776655", ""),
				rec("b", "9000000002", "new@x.io"),
				rec("c", "9000000003", "c@x.io"),
				rec("d", "9000000004", ""),
				rec("e", "987654321", ""),
			},
			final:      lms.Exhausted,
			wantStatus: StatusCompleted,
			wantStats:  Stats{Scanned: 5, Created: 1, Linked: 1, Updated: 1, Unchanged: 1, Skipped: 1},
		},
		{
			name:       "Truncated Source",
			locals:     map[string]Local{},
			records:    []lms.Record{rec("a", "9000000001", ""), rec("b", "9000000002", "")},
			final:      lms.Aborted,
			srcErr:     &lms.StatusError{StatusCode: 500},
			wantStatus: StatusAbortedResource,
			wantStats:  Stats{Scanned: 2, Created: 2},
			truncated:  true,
		},
		{
			name:       "Not Configured",
			locals:     map[string]Local{},
			final:      lms.Aborted,
			srcErr:     lms.ErrNotConfigured,
			wantStatus: StatusNotConfigured,
		},
		{
			name:       "Record Failure Is Counted",
			locals:     map[string]Local{},
			records:    []lms.Record{rec("a", "9000000001", ""), rec("b", "9000000002", ""), rec("c", "9000000003", "")},
			final:      lms.Exhausted,
			failOn:     "b",
			wantStatus: StatusCompleted,
			wantStats:  Stats{Scanned: 3, Created: 2, Errors: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := &mapAdapter{locals: tt.locals, failOn: tt.failOn}
			src := &sliceSource{records: tt.records, final: tt.final, err: tt.srcErr}
			spec := &Spec{Adapter: adapter, Resource: "students"}

			report, err := Run(context.Background(), spec, setupDB(t), src, nil)
			require.NoError(t, err)
			require.NotNil(t, report)

			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantStats, report.Stats)
			assert.Equal(t, tt.truncated, report.Truncated)
			assert.NotEmpty(t, report.RunID)
			assert.False(t, report.FinishedAt.IsZero())
		})
	}
}

func TestRun_SecondRunIsUnchanged(t *testing.T) {
	adapter := &mapAdapter{locals: map[string]Local{"9000000001": {Found: true, ID: 1}}}
	records := []lms.Record{rec("a", "9000000001", "a@x.io"), rec("b", "9000000002", "")}
	spec := &Spec{Adapter: adapter, Resource: "students"}
	db := setupDB(t)

	first, err := Run(context.Background(), spec, db, &sliceSource{records: records, final: lms.Exhausted}, nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 2, Created: 1, Linked: 1}, first.Stats)

	second, err := Run(context.Background(), spec, db, &sliceSource{records: records, final: lms.Exhausted}, nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 2, Unchanged: 2}, second.Stats)
}

func TestRun_PanicAborts(t *testing.T) {
	adapter := &mapAdapter{locals: map[string]Local{}, panicOn: "b"}
	src := &sliceSource{
		records: []lms.Record{rec("a", "9000000001", ""), rec("b", "9000000002", ""), rec("c", "9000000003", "")},
		final:   lms.Exhausted,
	}

	report, err := Run(context.Background(), &Spec{Adapter: adapter, Resource: "students"}, setupDB(t), src, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adapter exploded")
	assert.Equal(t, StatusAborted, report.Status)
	assert.Equal(t, 2, report.Stats.Scanned)
	assert.Equal(t, 1, report.Stats.Created)
}

func TestRun_PrepareFailure(t *testing.T) {
	adapter := &mapAdapter{locals: map[string]Local{}, prepareErr: errors.New("no program table")}
	src := &sliceSource{records: []lms.Record{rec("a", "9000000001", "")}, final: lms.Exhausted}

	report, err := Run(context.Background(), &Spec{Adapter: adapter, Resource: "students"}, setupDB(t), src, nil)
	require.Error(t, err)
	assert.Equal(t, StatusAborted, report.Status)
	assert.Zero(t, report.Stats.Scanned)
	assert.Contains(t, report.Error, "no program table")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapter := &mapAdapter{locals: map[string]Local{}}
	src := &sliceSource{records: []lms.Record{rec("a", "9000000001", "")}, final: lms.Exhausted}

	report, err := Run(ctx, &Spec{Adapter: adapter, Resource: "students"}, setupDB(t), src, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusAborted, report.Status)
	assert.Empty(t, adapter.applied)
}

func TestReport_Summary(t *testing.T) {
	r := NewReport("students")
	r.Stats = Stats{Scanned: 3, Created: 1, Linked: 1, Unchanged: 1}
	r.Finish(StatusCompleted, nil)
	assert.Equal(t, "Sync of students completed: scanned=3 created=1 linked=1 updated=0 unchanged=1 skipped=0 errors=0", r.Summary())

	r = NewReport("students").Finish(StatusNotConfigured, lms.ErrNotConfigured)
	assert.Contains(t, r.Summary(), "not configured")
	assert.Equal(t, lms.ErrNotConfigured.Error(), r.Error)
}
