package lms

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"student-crm/core/phone"
	"student-crm/core/utils"
)

// SearchByPhone finds the remote student owning a phone number.
//
// Three passes run in order and the first hit wins:
//  1. mobile=<last 10 characters>
//  2. mobile=<country code><last 10 characters>
//  3. search=<last 10 characters>, keeping only records whose mobile contains the key
//
// Each pass is paginated with the search page size and page limit. A failing page ends
// that pass only.
func (c *Client) SearchByPhone(ctx context.Context, number string) (Record, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	key := phone.Key(number)
	if key == "" {
		return nil, ErrNotFound
	}

	passes := []struct {
		param string
		value string
	}{
		{"mobile", key},
		{"mobile", c.cfg.CountryCode + key},
	}
	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if rec, ok := c.firstMatch(ctx, Students.WithQuery(p.param, p.value), nil); ok {
			return rec, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	containsKey := func(r Record) bool {
		return strings.Contains(phone.Clean(utils.ToString(r["mobile"])), key)
	}
	if rec, ok := c.firstMatch(ctx, Students.WithQuery("search", key), containsKey); ok {
		return rec, nil
	}

	return nil, ErrNotFound
}

// firstMatch walks one search pass and returns the first record accepted by keep.
// A nil keep accepts everything.
func (c *Client) firstMatch(ctx context.Context, res Resource, keep func(Record) bool) (Record, bool) {
	it := c.iterate(res, c.cfg.searchPageSize(), c.cfg.searchMaxPages())
	for it.Next(ctx) {
		if keep == nil || keep(it.Record()) {
			return it.Record(), true
		}
	}
	if err := it.Err(); err != nil && !errors.Is(err, ErrPageLimit) {
		c.logger.Debug("Search pass ended early", zap.Any("query", res.Query), zap.Error(err))
	}
	return nil, false
}
