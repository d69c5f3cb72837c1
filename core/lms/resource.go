package lms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// Resource describes one paginated LMS listing.
type Resource struct {
	// Name identifies the resource in logs and sync reports.
	Name string
	// Path is a template with one %s for the institute id.
	Path string
	// ListKey names the array inside the "data" envelope. When "data" is itself
	// an array the key is ignored.
	ListKey string
	// Query holds fixed parameters sent with every page.
	Query url.Values
}

var (
	// Students is the v3 student listing.
	Students = Resource{Name: "students", Path: "/institutes/v3/%s/students", ListKey: "students"}
	// Courses is the live class listing.
	Courses = Resource{
		Name:    "courses",
		Path:    "/institutes/%s/classes",
		ListKey: "classes",
		Query:   url.Values{"classType": {"LIVE"}, "showCoTeachers": {"true"}},
	}
	// Teachers is the institute teacher listing.
	Teachers = Resource{Name: "teachers", Path: "/institutes/%s/teachers", ListKey: "teachers"}
)

// WithQuery returns a copy of r with extra fixed parameters.
func (r Resource) WithQuery(key, value string) Resource {
	q := url.Values{}
	for k, v := range r.Query {
		q[k] = append([]string(nil), v...)
	}
	q.Set(key, value)
	r.Query = q
	return r
}

// FetchPage retrieves one page of a resource.
func (c *Client) FetchPage(ctx context.Context, res Resource, page, size int) ([]Record, error) {
	query := url.Values{}
	for k, v := range res.Query {
		query[k] = v
	}
	query.Set("page_size", strconv.Itoa(size))
	query.Set("page_number", strconv.Itoa(page))

	body, err := c.do(ctx, http.MethodGet, c.institutePath(res.Path), query, nil)
	if err != nil {
		return nil, err
	}
	return extractList(body, res.ListKey)
}

// extractList pulls the record array out of {"data": [...]} or {"data": {key: [...]}}.
func extractList(body map[string]any, key string) ([]Record, error) {
	var items []any
	switch data := body["data"].(type) {
	case nil:
		return nil, nil
	case []any:
		items = data
	case map[string]any:
		raw, ok := data[key]
		if !ok || raw == nil {
			return nil, nil
		}
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("data.%s: expected array, got %T", key, raw)
		}
		items = list
	default:
		return nil, fmt.Errorf("data: unexpected %T", data)
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, Record(obj))
		}
	}
	return records, nil
}

// Iterator lazily walks every page of a resource, one record at a time.
// It is single use and not safe for concurrent use.
type Iterator struct {
	client *Client
	res    Resource
	pager  *Pager
	buf    []Record
	cur    Record
}

// Iterate returns a lazy sequence over a resource using the configured page size
// and page limit.
func (c *Client) Iterate(res Resource) *Iterator {
	return c.iterate(res, c.cfg.pageSize(), c.cfg.maxPages())
}

func (c *Client) iterate(res Resource, size, maxPages int) *Iterator {
	return &Iterator{client: c, res: res, pager: NewPager(size, maxPages)}
}

// Next advances to the next record, fetching a page when the buffer is empty.
// It returns false when the listing is exhausted or aborted.
func (it *Iterator) Next(ctx context.Context) bool {
	if !it.client.Configured() {
		it.pager.Abort(ErrNotConfigured)
		it.cur = nil
		return false
	}

	for len(it.buf) == 0 {
		page, ok := it.pager.Next()
		if !ok {
			if errors.Is(it.pager.Err(), ErrPageLimit) {
				it.client.logger.Warn("Reached page limit",
					zap.String("resource", it.res.Name),
					zap.Int("pages", it.pager.PagesFetched()))
			}
			it.cur = nil
			return false
		}

		records, err := it.client.FetchPage(ctx, it.res, page, it.pager.PageSize())
		if err != nil {
			it.client.logger.Warn("Page fetch failed, stopping resource",
				zap.String("resource", it.res.Name),
				zap.Int("page", page),
				zap.Error(err))
			it.pager.Abort(err)
			it.cur = nil
			return false
		}

		it.pager.Complete(len(records))
		it.buf = records
		if len(records) == 0 {
			it.cur = nil
			return false
		}
	}

	it.cur, it.buf = it.buf[0], it.buf[1:]
	return true
}

// Record returns the current record.
func (it *Iterator) Record() Record { return it.cur }

// State returns the underlying pagination state.
func (it *Iterator) State() State { return it.pager.State() }

// Err returns the abort cause, if any.
func (it *Iterator) Err() error { return it.pager.Err() }

// Resource returns the name of the iterated resource.
func (it *Iterator) Resource() string { return it.res.Name }

// Collect drains a resource into a slice. The slice holds everything read before
// an abort; err is the abort cause.
func (c *Client) Collect(ctx context.Context, res Resource) ([]Record, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	return drain(ctx, c.Iterate(res))
}

func drain(ctx context.Context, it *Iterator) ([]Record, error) {
	var out []Record
	for it.Next(ctx) {
		out = append(out, it.Record())
	}
	return out, it.Err()
}

// ListCourses returns every class of the given type ("LIVE" when empty).
func (c *Client) ListCourses(ctx context.Context, classType string) ([]Record, error) {
	if classType == "" {
		classType = "LIVE"
	}
	return c.Collect(ctx, Courses.WithQuery("classType", classType))
}

// ListTeachers returns every teacher in the institute.
func (c *Client) ListTeachers(ctx context.Context) ([]Record, error) {
	return c.Collect(ctx, Teachers)
}
