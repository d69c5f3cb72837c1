package lms

// State is the pagination state of one resource listing.
type State int

const (
	// Fetching means more pages may be requested.
	Fetching State = iota
	// Exhausted means the remote signalled the end (short or empty page).
	Exhausted
	// Aborted means pagination stopped early: a failed page or the page limit.
	// Records already collected are kept; later pages are lost.
	Aborted
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Exhausted:
		return "exhausted"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Pager is the pagination state machine. It knows nothing about HTTP: callers ask
// for the next page number, fetch it, then report either the record count or the
// failure.
//
//	FETCHING --short/empty page--> EXHAUSTED
//	FETCHING --fetch failed------> ABORTED
//	FETCHING --page > maxPages---> ABORTED (ErrPageLimit)
type Pager struct {
	pageSize int
	maxPages int
	page     int
	fetched  int
	state    State
	err      error
}

// NewPager starts at page 1 in the Fetching state.
func NewPager(pageSize, maxPages int) *Pager {
	return &Pager{pageSize: pageSize, maxPages: maxPages, page: 1}
}

// Next returns the page number to fetch, or false once the pager left Fetching.
func (p *Pager) Next() (int, bool) {
	if p.state != Fetching {
		return 0, false
	}
	if p.maxPages > 0 && p.page > p.maxPages {
		p.state = Aborted
		p.err = ErrPageLimit
		return 0, false
	}
	return p.page, true
}

// Complete records a successful fetch of the current page holding n records.
func (p *Pager) Complete(n int) {
	if p.state != Fetching {
		return
	}
	p.fetched++
	if n == 0 || n < p.pageSize {
		p.state = Exhausted
		return
	}
	p.page++
}

// Abort moves the pager to Aborted with the cause.
func (p *Pager) Abort(err error) {
	if p.state != Fetching {
		return
	}
	p.state = Aborted
	p.err = err
}

// State returns the current state.
func (p *Pager) State() State { return p.state }

// Err returns the abort cause, nil unless Aborted.
func (p *Pager) Err() error { return p.err }

// PageSize returns the requested page size.
func (p *Pager) PageSize() int { return p.pageSize }

// PagesFetched returns the number of pages completed successfully.
func (p *Pager) PagesFetched() int { return p.fetched }
