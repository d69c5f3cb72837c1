package lms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"student-crm/core/utils"
)

// CreditDebit is the body of a session credit mutation.
type CreditDebit struct {
	Credit float64
	Note   string
	Type   string
}

const (
	// CreditTypeDebit consumes credits.
	CreditTypeDebit = "DEBIT"
	// DefaultCreditNote is used when a debit has no note.
	DefaultCreditNote = "Consuming Credits"
)

// envelopeData returns body["data"] when the envelope reports status 200.
func envelopeData(body map[string]any, what string) (map[string]any, error) {
	if utils.ToInt(body["status"]) != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", what, ErrUnavailable)
	}
	data, _ := body["data"].(map[string]any)
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

func (c *Client) lookup(ctx context.Context, what, path string, query url.Values) (map[string]any, error) {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w: %w", what, ErrUnavailable, err)
	}
	return envelopeData(body, what)
}

// FeeSummary returns the fee payload of a student. Amounts are in minor units.
func (c *Client) FeeSummary(ctx context.Context, studentID string) (map[string]any, error) {
	if studentID == "" {
		return nil, ErrNotFound
	}
	query := url.Values{"studentId": {studentID}, "page_size": {"100"}}
	return c.lookup(ctx, "fee summary", c.institutePath("/institutes/%s/studentFees"), query)
}

// RegistrationData returns the participant record including registration answers.
func (c *Client) RegistrationData(ctx context.Context, studentID string) (map[string]any, error) {
	if studentID == "" {
		return nil, ErrNotFound
	}
	path := c.institutePath("/institutes/%s/participants/") + url.PathEscape(studentID)
	return c.lookup(ctx, "registration data", path, url.Values{"showRegistrationData": {"true"}})
}

// CourseDetails returns the full class document, including fees.
func (c *Client) CourseDetails(ctx context.Context, classID string) (map[string]any, error) {
	if classID == "" {
		return nil, ErrNotFound
	}
	return c.lookup(ctx, "course details", "/user/v2/classes/"+url.PathEscape(classID), url.Values{"full": {"true"}})
}

// StudentReports returns the whole report document of a student.
func (c *Client) StudentReports(ctx context.Context, studentID string) (map[string]any, error) {
	if studentID == "" {
		return nil, ErrNotFound
	}
	path := c.institutePath("/public/institutes/%s/studentReports/") + url.PathEscape(studentID)
	body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("student reports: %w: %w", ErrUnavailable, err)
	}
	return body, nil
}

// ConsumeCredits debits session credits of a student in one class and returns the
// response payload. A failure envelope is reported as ErrRejected with its message.
func (c *Client) ConsumeCredits(ctx context.Context, studentID, classID string, debit CreditDebit) (map[string]any, error) {
	if studentID == "" || classID == "" {
		return nil, ErrNotFound
	}
	if debit.Note == "" {
		debit.Note = DefaultCreditNote
	}
	if debit.Type == "" {
		debit.Type = CreditTypeDebit
	}

	path := c.institutePath("/institutes/%s/classes/") + url.PathEscape(classID) +
		"/students/" + url.PathEscape(studentID) + "/sessionCredits"
	payload := map[string]string{
		"credit": strconv.FormatFloat(debit.Credit, 'f', -1, 64),
		"note":   debit.Note,
		"type":   debit.Type,
	}

	body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("consume credits: %w: %w", ErrRejected, err)
	}
	if utils.ToInt(body["status"]) != http.StatusOK {
		msg := utils.ToString(body["message"])
		if msg == "" {
			msg = "failed to consume credits"
		}
		return nil, fmt.Errorf("consume credits: %w: %s", ErrRejected, msg)
	}
	data, _ := body["data"].(map[string]any)
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
